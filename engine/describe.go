package engine

import (
	"sort"
	"strings"

	"github.com/mkraus/polyquest/engine/rules"
	"github.com/mkraus/polyquest/types"
)

// enterRoom renders the full room view and fires pending first-meet
// introductions. Used when the player arrives or looks around.
func (e *Engine) enterRoom() []string {
	w := e.World
	room, ok := w.Rooms[w.Current]
	if !ok {
		return nil
	}

	lines := []string{w.RoomName(w.Current)}
	if room.Description != "" {
		lines = append(lines, room.Description)
	}
	lines = append(lines, e.meetEvents()...)
	lines = append(lines, e.roomDetails()...)
	return lines
}

// describeRoom renders the room view without side effects, for contexts
// that must not fire meet events.
func (e *Engine) describeRoom() []string {
	w := e.World
	room, ok := w.Rooms[w.Current]
	if !ok {
		return nil
	}
	lines := []string{w.RoomName(w.Current)}
	if room.Description != "" {
		lines = append(lines, room.Description)
	}
	lines = append(lines, e.roomDetails()...)
	return lines
}

// roomDetails renders the ambient NPC lines, visible items and exits of
// the current room.
func (e *Engine) roomDetails() []string {
	w := e.World
	room, ok := w.Rooms[w.Current]
	if !ok {
		return nil
	}
	var lines []string
	for _, occ := range room.Occupants {
		if !rules.NPCVisible(w, occ) {
			continue
		}
		if ambient := w.NPCStateText(occ).Ambient; ambient != "" {
			lines = append(lines, ambient)
		}
	}
	if vis := e.visibility(); vis != "" {
		lines = append(lines, vis)
	}
	if exits := e.exitLine(); exits != "" {
		lines = append(lines, exits)
	}
	return lines
}

// meetEvents fires the one-time introduction of every visible NPC the
// player has not met yet, marking it met.
func (e *Engine) meetEvents() []string {
	w := e.World
	room, ok := w.Rooms[w.Current]
	if !ok {
		return nil
	}
	var lines []string
	for _, occ := range room.Occupants {
		if w.NPCStateOf(occ) != types.StateUnknown {
			continue
		}
		if !rules.NPCVisible(w, occ) {
			continue
		}
		npc := w.NPCs[occ]
		if npc.Meet.Text != "" {
			lines = append(lines, npc.Meet.Text)
		}
		w.MeetNPC(occ)
	}
	return lines
}

// visibility renders the item list of the current room, or "" when empty.
func (e *Engine) visibility() string {
	w := e.World
	room, ok := w.Rooms[w.Current]
	if !ok || len(room.Items) == 0 {
		return ""
	}
	names := make([]string, 0, len(room.Items))
	for _, id := range room.Items {
		names = append(names, w.ItemName(id))
	}
	return e.msg("visibility", "items", strings.Join(names, ", "))
}

// exitLine renders the exits of the current room, sorted by display name
// so the listing is stable across runs.
func (e *Engine) exitLine() string {
	w := e.World
	room, ok := w.Rooms[w.Current]
	if !ok || len(room.Exits) == 0 {
		return ""
	}
	names := make([]string, 0, len(room.Exits))
	for target := range room.Exits {
		names = append(names, w.ExitDisplayName(w.Current, target))
	}
	sort.Strings(names)
	return e.msg("exits", "exits", strings.Join(names, ", "))
}

// Verbs returns the canonical command ids, sorted, for interpreter
// context.
func (e *Engine) Verbs() []string {
	verbs := make([]string, 0, len(e.Locale.Info))
	for id := range e.Locale.Info {
		verbs = append(verbs, id)
	}
	sort.Strings(verbs)
	return verbs
}

// Nouns returns the display names the player can currently refer to:
// visible items, carried items, visible NPCs and the exits of the room.
func (e *Engine) Nouns() []string {
	w := e.World
	var nouns []string
	if room, ok := w.Rooms[w.Current]; ok {
		for _, id := range room.Items {
			nouns = append(nouns, w.ItemName(id))
		}
		for _, occ := range room.Occupants {
			if rules.NPCVisible(w, occ) {
				nouns = append(nouns, w.NPCName(occ))
			}
		}
		for target := range room.Exits {
			nouns = append(nouns, w.ExitDisplayName(w.Current, target))
		}
	}
	for _, id := range w.Inventory {
		nouns = append(nouns, w.ItemName(id))
	}
	sort.Strings(nouns)
	return nouns
}

// Scene renders the current situation as plain lines for interpreter
// context: the room view plus the inventory.
func (e *Engine) Scene() []string {
	lines := e.describeRoom()
	lines = append(lines, e.World.DescribeInventory(e.Locale.Messages))
	return lines
}
