// Package resolve maps raw argument strings from matched commands to
// item, NPC, and direction identifiers against the current world state.
package resolve

import (
	"strings"

	"github.com/mkraus/polyquest/engine/rules"
	"github.com/mkraus/polyquest/engine/world"
)

// Scope selects where an item lookup searches. Commands differ: taking
// searches the room, wearing requires the inventory, and validation wants
// any known item.
type Scope int

const (
	// ScopeRoom searches only the current room's item list.
	ScopeRoom Scope = iota
	// ScopeInventory searches only the carried items.
	ScopeInventory
	// ScopeRoomThenInventory searches the room first, then the
	// inventory: the nearest reachable object wins.
	ScopeRoomThenInventory
	// ScopeAny searches every item in the world, regardless of place.
	ScopeAny
)

// Resolver normalizes argument strings for one locale before matching
// them against display-name sets.
type Resolver struct {
	Articles     map[string]bool
	Contractions map[string]bool
}

// New builds a Resolver from the locale's article and contraction lists.
func New(articles, contractions []string) *Resolver {
	r := &Resolver{Articles: map[string]bool{}, Contractions: map[string]bool{}}
	for _, a := range articles {
		r.Articles[strings.ToLower(a)] = true
	}
	for _, c := range contractions {
		r.Contractions[strings.ToLower(c)] = true
	}
	return r
}

// Strip trims the argument and removes leading article or contraction
// tokens, so "the rusty key" and "rusty key" resolve alike.
func (r *Resolver) Strip(arg string) string {
	parts := strings.Fields(arg)
	for len(parts) > 0 && (r.Articles[strings.ToLower(parts[0])] || r.Contractions[strings.ToLower(parts[0])]) {
		parts = parts[1:]
	}
	return strings.Join(parts, " ")
}

func nameMatches(names []string, query string) bool {
	for _, n := range names {
		if strings.EqualFold(n, query) {
			return true
		}
	}
	return false
}

// Item resolves an item name within the given scope. Matching is
// case-insensitive over the item's full effective display-name set.
func (r *Resolver) Item(w *world.World, arg string, scope Scope) (string, bool) {
	query := r.Strip(arg)
	if query == "" {
		return "", false
	}

	if scope == ScopeRoom || scope == ScopeRoomThenInventory {
		if room, ok := w.Rooms[w.Current]; ok {
			for _, id := range room.Items {
				if nameMatches(w.ItemNames(id), query) {
					return id, true
				}
			}
		}
	}
	if scope == ScopeInventory || scope == ScopeRoomThenInventory {
		for _, id := range w.Inventory {
			if nameMatches(w.ItemNames(id), query) {
				return id, true
			}
		}
	}
	if scope == ScopeAny {
		for id := range w.Items {
			if nameMatches(w.ItemNames(id), query) {
				return id, true
			}
		}
	}
	return "", false
}

// NPC resolves an NPC name against the current room's occupants. An NPC
// whose meet precondition is unsatisfied cannot be referenced even while
// physically listed as an occupant.
func (r *Resolver) NPC(w *world.World, arg string) (string, bool) {
	query := r.Strip(arg)
	if query == "" {
		return "", false
	}
	room, ok := w.Rooms[w.Current]
	if !ok {
		return "", false
	}
	for _, id := range room.Occupants {
		npc, ok := w.NPCs[id]
		if !ok {
			continue
		}
		if !rules.Check(w, npc.Meet.Pre) {
			continue
		}
		if nameMatches(npc.Names, query) {
			return id, true
		}
	}
	return "", false
}

// AnyNPC resolves an NPC name against every NPC in the world, for
// validation only; it ignores presence and visibility.
func (r *Resolver) AnyNPC(w *world.World, arg string) (string, bool) {
	query := r.Strip(arg)
	if query == "" {
		return "", false
	}
	for id, npc := range w.NPCs {
		if nameMatches(npc.Names, query) {
			return id, true
		}
	}
	return "", false
}

// AnyRoom resolves a room name or id against every room in the world,
// for validation only; it says nothing about reachability.
func (r *Resolver) AnyRoom(w *world.World, arg string) (string, bool) {
	query := r.Strip(arg)
	if query == "" {
		return "", false
	}
	for id, room := range w.Rooms {
		if strings.EqualFold(id, query) || nameMatches(room.Names, query) {
			return id, true
		}
	}
	return "", false
}

// Direction resolves an exit name in the current room to its target room
// id. A successful match says nothing about passability.
func (r *Resolver) Direction(w *world.World, arg string) (string, bool) {
	query := r.Strip(arg)
	if query == "" {
		return "", false
	}
	room, ok := w.Rooms[w.Current]
	if !ok {
		return "", false
	}
	for target := range room.Exits {
		if nameMatches(w.ExitNames(w.Current, target), query) {
			return target, true
		}
	}
	return "", false
}
