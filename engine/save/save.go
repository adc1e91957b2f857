// Package save implements the diff save representation: only fields that
// differ from the freshly loaded base configuration are persisted, and
// loading replays only the present fields onto a fresh base world.
package save

import (
	"reflect"

	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
)

// Data is the serializable save record. Absent fields mean "unchanged
// from base". Inventory and Time are pointers so that an emptied
// inventory and a midnight clock still serialize as explicit values
// instead of vanishing.
type Data struct {
	Current    string                           `yaml:"current,omitempty"`
	Inventory  *[]string                        `yaml:"inventory,omitempty"`
	RoomItems  map[string][]string              `yaml:"room_items,omitempty"`
	ItemStates map[string]types.StateTag        `yaml:"item_states,omitempty"`
	NPCStates  map[string]types.StateTag        `yaml:"npc_states,omitempty"`
	Exits      map[string]map[string]types.Exit `yaml:"exits,omitempty"`
	Time       *int                             `yaml:"time,omitempty"`
	Language   string                           `yaml:"language,omitempty"`
	Log        []types.LogEntry                 `yaml:"log,omitempty"`
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Capture computes the diff of the world against its base snapshot.
// Language and Log are the session's concern and are left empty.
func Capture(w *world.World) *Data {
	base := w.BaseSnapshot()
	clock := w.Clock
	d := &Data{Current: w.Current, Time: &clock}

	if !equalStrings(w.Inventory, base.Inventory) {
		inv := append([]string{}, w.Inventory...)
		d.Inventory = &inv
	}

	for id, room := range w.Rooms {
		if !equalStrings(room.Items, base.RoomItems[id]) {
			if d.RoomItems == nil {
				d.RoomItems = map[string][]string{}
			}
			d.RoomItems[id] = append([]string{}, room.Items...)
		}
		for target, exit := range room.Exits {
			if base.Exits[id][target] {
				continue
			}
			if d.Exits == nil {
				d.Exits = map[string]map[string]types.Exit{}
			}
			if d.Exits[id] == nil {
				d.Exits[id] = map[string]types.Exit{}
			}
			d.Exits[id][target] = exit
		}
	}

	for id, item := range w.Items {
		if item.State != base.ItemStates[id] {
			if d.ItemStates == nil {
				d.ItemStates = map[string]types.StateTag{}
			}
			d.ItemStates[id] = item.State
		}
	}
	for id, npc := range w.NPCs {
		if npc.State != base.NPCStates[id] {
			if d.NPCStates == nil {
				d.NPCStates = map[string]types.StateTag{}
			}
			d.NPCStates[id] = npc.State
		}
	}

	return d
}

// Apply replays a diff onto a freshly constructed base world. Only the
// fields present in the diff are touched.
func Apply(w *world.World, d *Data) {
	if d == nil {
		return
	}
	if d.Current != "" {
		w.Current = d.Current
	}
	if d.Inventory != nil {
		w.Inventory = append([]string{}, (*d.Inventory)...)
	}
	for id, items := range d.RoomItems {
		if room, ok := w.Rooms[id]; ok {
			room.Items = append([]string{}, items...)
		}
	}
	for id, state := range d.ItemStates {
		if item, ok := w.Items[id]; ok {
			item.State = state
		}
	}
	for id, state := range d.NPCStates {
		if npc, ok := w.NPCs[id]; ok {
			npc.State = state
		}
	}
	for from, targets := range d.Exits {
		for to, exit := range targets {
			w.AddExit(from, to, exit)
		}
	}
	if d.Time != nil {
		w.Clock = *d.Time % world.MinutesPerDay
	}
}

// Visible captures the externally visible state used for change
// detection: position, inventory, room contents, item states, NPC states
// and added exits, but never the clock.
func Visible(w *world.World) *Data {
	d := Capture(w)
	d.Time = nil
	return d
}

// Changed reports whether two visible snapshots differ.
func Changed(before, after *Data) bool {
	return !reflect.DeepEqual(before, after)
}
