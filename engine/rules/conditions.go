// Package rules evaluates preconditions, applies effects, and dispatches
// action rules against the world. All functions here are stateless; only
// effect application mutates the store.
package rules

import (
	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
)

// CheckClause evaluates a single precondition clause. Clauses are
// side-effect free.
func CheckClause(w *world.World, c types.Clause) bool {
	switch c.Kind {
	case types.ClauseLocation:
		return w.Current == c.Room

	case types.ClauseItem:
		item, ok := w.Items[c.Item]
		if !ok {
			return false
		}
		if c.ItemState != "" && item.State != c.ItemState {
			return false
		}
		if c.ItemAt != "" && !itemAt(w, c.Item, c.ItemAt) {
			return false
		}
		return true

	case types.ClauseNPC:
		return c.NPCState != "" && w.NPCStateOf(c.NPC) == c.NPCState

	default:
		return false
	}
}

// Check evaluates a conjunction of clauses. An empty list always holds.
// Evaluation is eager and total: every clause is evaluated in list order.
func Check(w *world.World, pre []types.Clause) bool {
	ok := true
	for _, c := range pre {
		if !CheckClause(w, c) {
			ok = false
		}
	}
	return ok
}

// itemAt resolves a place reference at evaluation time and reports whether
// the item is there.
func itemAt(w *world.World, id string, at types.Place) bool {
	switch at {
	case types.PlaceInventory:
		return w.InInventory(id)
	case types.PlaceCurrentRoom:
		return roomHasItem(w, w.Current, id)
	default:
		return roomHasItem(w, string(at), id)
	}
}

func roomHasItem(w *world.World, roomID, id string) bool {
	room, ok := w.Rooms[roomID]
	if !ok {
		return false
	}
	for _, it := range room.Items {
		if it == id {
			return true
		}
	}
	return false
}

// CanMove reports whether the exit from the current room to target exists
// and its precondition holds. Listing an exit never implies passability.
func CanMove(w *world.World, target string) bool {
	room, ok := w.Rooms[w.Current]
	if !ok {
		return false
	}
	exit, ok := room.Exits[target]
	if !ok {
		return false
	}
	return Check(w, exit.Pre)
}

// NPCVisible reports whether the NPC can currently be referenced: it must
// occupy the player's room and its meet precondition must hold.
func NPCVisible(w *world.World, id string) bool {
	room, ok := w.Rooms[w.Current]
	if !ok {
		return false
	}
	present := false
	for _, occ := range room.Occupants {
		if occ == id {
			present = true
			break
		}
	}
	if !present {
		return false
	}
	npc, ok := w.NPCs[id]
	if !ok {
		return false
	}
	return Check(w, npc.Meet.Pre)
}

// CheckEndings polls the endings in declaration order and returns the text
// of the first satisfied one.
func CheckEndings(w *world.World) (string, bool) {
	for _, ending := range w.Endings {
		if Check(w, ending.Pre) {
			return ending.Text, true
		}
	}
	return "", false
}
