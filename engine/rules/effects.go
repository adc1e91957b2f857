package rules

import (
	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
)

// ApplyInstruction applies one effect instruction. It reports false when
// the instruction was a no-op because it named a state its target does not
// declare; data authoring errors degrade to "nothing happens" instead of
// crashing the session.
func ApplyInstruction(w *world.World, in types.Instruction) bool {
	switch in.Kind {
	case types.InstrItem:
		ok := true
		if in.SetState != "" {
			ok = w.SetItemState(in.Item, in.SetState)
		}
		if in.MoveTo != "" {
			w.PlaceItem(in.Item, in.MoveTo)
		}
		return ok

	case types.InstrNPC:
		ok := true
		if in.SetState != "" {
			ok = w.SetNPCState(in.NPC, in.SetState)
		}
		if in.MoveTo != "" {
			w.MoveNPC(in.NPC, string(in.MoveTo))
		}
		return ok

	case types.InstrExit:
		w.AddExit(in.ExitFrom, in.ExitTo, types.Exit{
			Names:    in.ExitNames,
			Pre:      in.ExitPre,
			Duration: in.ExitDuration,
		})
		return true

	default:
		return false
	}
}

// Apply applies an effect bag in list order. Every instruction is applied;
// the result reports whether all of them took effect.
func Apply(w *world.World, effect []types.Instruction) bool {
	ok := true
	for _, in := range effect {
		if !ApplyInstruction(w, in) {
			ok = false
		}
	}
	return ok
}
