package loader

import (
	"fmt"
	"strings"

	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
)

// validate checks every cross-reference in the merged world: rooms named
// by exits and clauses, items and NPCs named by rooms, actions and
// effects, dialog continuations. All problems are reported at once so a
// content author fixes one load, not one error per load.
func validate(w *world.World) error {
	v := &validator{w: w}

	if _, ok := w.Rooms[w.StartRoom]; !ok {
		v.errf("start room %q does not exist", w.StartRoom)
	}
	for _, id := range w.StartInventory {
		if _, ok := w.Items[id]; !ok {
			v.errf("start inventory names unknown item %q", id)
		}
	}

	for id, room := range w.Rooms {
		where := fmt.Sprintf("room %s", id)
		for _, it := range room.Items {
			if _, ok := w.Items[it]; !ok {
				v.errf("%s: unknown item %q", where, it)
			}
		}
		for _, occ := range room.Occupants {
			if _, ok := w.NPCs[occ]; !ok {
				v.errf("%s: unknown occupant %q", where, occ)
			}
		}
		for target, exit := range room.Exits {
			if _, ok := w.Rooms[target]; !ok {
				v.errf("%s: exit to unknown room %q", where, target)
			}
			v.clauses(fmt.Sprintf("%s exit %s", where, target), exit.Pre)
		}
	}

	for id, npc := range w.NPCs {
		where := fmt.Sprintf("npc %s", id)
		if npc.Meet.Room != "" {
			if _, ok := w.Rooms[npc.Meet.Room]; !ok {
				v.errf("%s: meet room %q does not exist", where, npc.Meet.Room)
			}
		}
		v.clauses(where+" meet", npc.Meet.Pre)
		if npc.Dialog != nil {
			if _, ok := npc.Dialog["start"]; !ok {
				v.errf("%s: dialog has no start node", where)
			}
			for nodeID, node := range npc.Dialog {
				nw := fmt.Sprintf("%s dialog %s", where, nodeID)
				v.effect(nw, node.Effect)
				for i, opt := range node.Options {
					if opt.Next != "" {
						if _, ok := npc.Dialog[opt.Next]; !ok {
							v.errf("%s option %d: unknown next node %q", nw, i+1, opt.Next)
						}
					}
					v.effect(fmt.Sprintf("%s option %d", nw, i+1), opt.Effect)
				}
			}
		}
	}

	for _, action := range w.Actions {
		where := fmt.Sprintf("action %s", action.ID)
		if action.Trigger == "" {
			v.errf("%s: no trigger", where)
		}
		if action.Item != "" {
			if _, ok := w.Items[action.Item]; !ok {
				v.errf("%s: unknown item %q", where, action.Item)
			}
		}
		if action.TargetItem != "" {
			if _, ok := w.Items[action.TargetItem]; !ok {
				v.errf("%s: unknown target item %q", where, action.TargetItem)
			}
		}
		if action.TargetNPC != "" {
			if _, ok := w.NPCs[action.TargetNPC]; !ok {
				v.errf("%s: unknown target npc %q", where, action.TargetNPC)
			}
		}
		v.clauses(where, action.Pre)
		v.effect(where, action.Effect)
	}

	for _, ending := range w.Endings {
		v.clauses(fmt.Sprintf("ending %s", ending.ID), ending.Pre)
	}

	return v.result()
}

type validator struct {
	w    *world.World
	errs []string
}

func (v *validator) errf(format string, a ...any) {
	v.errs = append(v.errs, fmt.Sprintf(format, a...))
}

func (v *validator) result() error {
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid world data:\n  %s", strings.Join(v.errs, "\n  "))
}

func (v *validator) place(where string, p types.Place) {
	if p == "" || p == types.PlaceInventory || p == types.PlaceCurrentRoom {
		return
	}
	if _, ok := v.w.Rooms[string(p)]; !ok {
		v.errf("%s: unknown place %q", where, p)
	}
}

func (v *validator) clauses(where string, pre []types.Clause) {
	for i, c := range pre {
		cw := fmt.Sprintf("%s clause %d", where, i+1)
		switch c.Kind {
		case types.ClauseLocation:
			if _, ok := v.w.Rooms[c.Room]; !ok {
				v.errf("%s: unknown room %q", cw, c.Room)
			}
		case types.ClauseItem:
			item, ok := v.w.Items[c.Item]
			if !ok {
				v.errf("%s: unknown item %q", cw, c.Item)
				continue
			}
			if c.ItemState != "" {
				if _, ok := item.States[c.ItemState]; !ok {
					v.errf("%s: item %q has no state %q", cw, c.Item, c.ItemState)
				}
			}
			v.place(cw, c.ItemAt)
		case types.ClauseNPC:
			npc, ok := v.w.NPCs[c.NPC]
			if !ok {
				v.errf("%s: unknown npc %q", cw, c.NPC)
				continue
			}
			if c.NPCState != "" {
				if _, ok := npc.States[c.NPCState]; !ok {
					v.errf("%s: npc %q has no state %q", cw, c.NPC, c.NPCState)
				}
			}
		}
	}
}

func (v *validator) effect(where string, effect []types.Instruction) {
	for i, in := range effect {
		iw := fmt.Sprintf("%s instruction %d", where, i+1)
		switch in.Kind {
		case types.InstrItem:
			item, ok := v.w.Items[in.Item]
			if !ok {
				v.errf("%s: unknown item %q", iw, in.Item)
				continue
			}
			if in.SetState != "" {
				if _, ok := item.States[in.SetState]; !ok {
					v.errf("%s: item %q has no state %q", iw, in.Item, in.SetState)
				}
			}
			v.place(iw, in.MoveTo)
		case types.InstrNPC:
			npc, ok := v.w.NPCs[in.NPC]
			if !ok {
				v.errf("%s: unknown npc %q", iw, in.NPC)
				continue
			}
			if in.SetState != "" {
				if _, ok := npc.States[in.SetState]; !ok {
					v.errf("%s: npc %q has no state %q", iw, in.NPC, in.SetState)
				}
			}
			if in.MoveTo != "" {
				if _, ok := v.w.Rooms[string(in.MoveTo)]; !ok {
					v.errf("%s: unknown room %q", iw, in.MoveTo)
				}
			}
		case types.InstrExit:
			if _, ok := v.w.Rooms[in.ExitFrom]; !ok {
				v.errf("%s: unknown room %q", iw, in.ExitFrom)
			}
			if _, ok := v.w.Rooms[in.ExitTo]; !ok {
				v.errf("%s: unknown room %q", iw, in.ExitTo)
			}
			v.clauses(iw, in.ExitPre)
		}
	}
}
