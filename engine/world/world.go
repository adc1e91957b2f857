// Package world holds the mutable game world: rooms, items, NPCs, actions,
// endings, the player's position and inventory, and the clock. It is a pure
// store; precondition evaluation and effect application live in the rules
// package.
package world

import (
	"fmt"
	"strings"

	"github.com/mkraus/polyquest/types"
)

// MinutesPerDay is the wrap point of the clock.
const MinutesPerDay = 1440

// World is the aggregate game state. It is built once by the loader from
// the merged base+locale content and mutated in place by commands. The
// loader fills the definition fields and the Start* fields, then calls
// Init to set up runtime state and freeze the base snapshot used for
// diff saves.
type World struct {
	Title string
	Intro string

	Rooms   map[string]*types.Room
	Items   map[string]*types.Item
	NPCs    map[string]*types.NPC
	Actions []types.Action
	Endings []types.Ending

	StartRoom      string
	StartInventory []string
	StartTime      int

	Current   string
	Inventory []string
	Clock     int

	base *Base

	// Debug, when non-nil, receives diagnostic lines.
	Debug func(string)
}

// Base is the frozen pre-mutation snapshot used to compute diff saves.
type Base struct {
	Current    string
	Inventory  []string
	RoomItems  map[string][]string
	ItemStates map[string]types.StateTag
	NPCStates  map[string]types.StateTag
	Exits      map[string]map[string]bool
}

// Init sets the runtime state from the start configuration and freezes the
// base snapshot. It must be called exactly once, before any mutation.
func (w *World) Init() {
	w.Current = w.StartRoom
	w.Inventory = append([]string{}, w.StartInventory...)
	w.Clock = w.StartTime % MinutesPerDay

	b := &Base{
		Current:    w.Current,
		Inventory:  append([]string{}, w.Inventory...),
		RoomItems:  map[string][]string{},
		ItemStates: map[string]types.StateTag{},
		NPCStates:  map[string]types.StateTag{},
		Exits:      map[string]map[string]bool{},
	}
	for id, room := range w.Rooms {
		b.RoomItems[id] = append([]string{}, room.Items...)
		targets := map[string]bool{}
		for target := range room.Exits {
			targets[target] = true
		}
		b.Exits[id] = targets
	}
	for id, item := range w.Items {
		b.ItemStates[id] = item.State
	}
	for id, npc := range w.NPCs {
		b.NPCStates[id] = npc.State
	}
	w.base = b
}

// Base returns the frozen snapshot. It is nil before Init.
func (w *World) BaseSnapshot() *Base { return w.base }

func (w *World) debugf(format string, a ...any) {
	if w.Debug != nil {
		w.Debug(fmt.Sprintf(format, a...))
	}
}

// ItemNames returns the item's effective display names: the active state's
// override when present, the base names otherwise.
func (w *World) ItemNames(id string) []string {
	item, ok := w.Items[id]
	if !ok {
		return nil
	}
	if item.State != "" {
		if st, ok := item.States[item.State]; ok && len(st.Names) > 0 {
			return st.Names
		}
	}
	return item.Names
}

// ItemName returns the canonical effective display name, or the id itself
// when the item has no names.
func (w *World) ItemName(id string) string {
	if names := w.ItemNames(id); len(names) > 0 {
		return names[0]
	}
	return id
}

// ItemDescription returns the item's effective description.
func (w *World) ItemDescription(id string) string {
	item, ok := w.Items[id]
	if !ok {
		return ""
	}
	if item.State != "" {
		if st, ok := item.States[item.State]; ok && st.Description != "" {
			return st.Description
		}
	}
	return item.Description
}

// NPCName returns the NPC's canonical display name.
func (w *World) NPCName(id string) string {
	if npc, ok := w.NPCs[id]; ok && len(npc.Names) > 0 {
		return npc.Names[0]
	}
	return id
}

// NPCStateOf returns the NPC's current state, defaulting to unknown.
func (w *World) NPCStateOf(id string) types.StateTag {
	npc, ok := w.NPCs[id]
	if !ok || npc.State == "" {
		return types.StateUnknown
	}
	return npc.State
}

// NPCStateText returns the text bundle for the NPC's current state.
func (w *World) NPCStateText(id string) types.NPCState {
	npc, ok := w.NPCs[id]
	if !ok {
		return types.NPCState{}
	}
	return npc.States[w.NPCStateOf(id)]
}

// SetItemState sets the item's state tag. It reports false, changing
// nothing, when the item does not exist or does not declare the state.
func (w *World) SetItemState(id string, state types.StateTag) bool {
	item, ok := w.Items[id]
	if !ok {
		return false
	}
	if _, ok := item.States[state]; !ok {
		return false
	}
	item.State = state
	w.debugf("item %s state %s", id, state)
	return true
}

// SetNPCState sets the NPC's state tag with the same existence check as
// SetItemState.
func (w *World) SetNPCState(id string, state types.StateTag) bool {
	npc, ok := w.NPCs[id]
	if !ok {
		return false
	}
	if _, ok := npc.States[state]; !ok {
		return false
	}
	npc.State = state
	w.debugf("npc %s state %s", id, state)
	return true
}

// MeetNPC marks the NPC as met. Like every state mutator it only applies
// when the NPC declares the state.
func (w *World) MeetNPC(id string) bool {
	return w.SetNPCState(id, types.StateMet)
}

// HelpNPC marks the NPC as helped, the one-shot transition used by flat
// (non-dialog) talk.
func (w *World) HelpNPC(id string) bool {
	return w.SetNPCState(id, types.StateHelped)
}

// InInventory reports whether the item is carried.
func (w *World) InInventory(id string) bool {
	for _, it := range w.Inventory {
		if it == id {
			return true
		}
	}
	return false
}

// TakeItem moves an item from the current room into the inventory.
// It reports false when the item is not in the current room.
func (w *World) TakeItem(id string) bool {
	room := w.Rooms[w.Current]
	if room == nil {
		return false
	}
	for i, it := range room.Items {
		if it == id {
			room.Items = append(room.Items[:i], room.Items[i+1:]...)
			w.Inventory = append(w.Inventory, id)
			w.debugf("inventory %v", w.Inventory)
			return true
		}
	}
	return false
}

// DropItem moves an item from the inventory into the current room.
// It reports false when the item is not carried.
func (w *World) DropItem(id string) bool {
	for i, it := range w.Inventory {
		if it == id {
			w.Inventory = append(w.Inventory[:i], w.Inventory[i+1:]...)
			if room := w.Rooms[w.Current]; room != nil {
				room.Items = append(room.Items, id)
			}
			w.debugf("inventory %v", w.Inventory)
			return true
		}
	}
	return false
}

// RemoveItem removes the item from the inventory. It reports false when
// the item is not carried.
func (w *World) RemoveItem(id string) bool {
	for i, it := range w.Inventory {
		if it == id {
			w.Inventory = append(w.Inventory[:i], w.Inventory[i+1:]...)
			w.debugf("inventory %v", w.Inventory)
			return true
		}
	}
	return false
}

// RemoveItemEverywhere takes the item out of the inventory and out of
// every room's item list. Relocation instructions call this first so an
// item is always in exactly one place.
func (w *World) RemoveItemEverywhere(id string) {
	w.RemoveItem(id)
	for _, room := range w.Rooms {
		for i, it := range room.Items {
			if it == id {
				room.Items = append(room.Items[:i], room.Items[i+1:]...)
				break
			}
		}
	}
}

// PlaceItem puts the item at the given place after removing it from
// wherever it currently is. The place may be a symbolic tag or a room id.
func (w *World) PlaceItem(id string, at types.Place) {
	w.RemoveItemEverywhere(id)
	switch at {
	case types.PlaceInventory:
		w.Inventory = append(w.Inventory, id)
	case types.PlaceCurrentRoom:
		if room := w.Rooms[w.Current]; room != nil {
			room.Items = append(room.Items, id)
		}
	default:
		if room := w.Rooms[string(at)]; room != nil {
			room.Items = append(room.Items, id)
		}
	}
	w.debugf("item %s placed %s", id, at)
}

// MoveNPC relocates the NPC to the given room's occupant list, removing it
// from any room that currently holds it.
func (w *World) MoveNPC(id, roomID string) {
	for _, room := range w.Rooms {
		for i, occ := range room.Occupants {
			if occ == id {
				room.Occupants = append(room.Occupants[:i], room.Occupants[i+1:]...)
				break
			}
		}
	}
	if room := w.Rooms[roomID]; room != nil {
		room.Occupants = append(room.Occupants, id)
	}
	w.debugf("npc %s moved %s", id, roomID)
}

// AddExit adds a named exit from one room to another, directly mutating
// the store. Adding an exit that already exists is a no-op.
func (w *World) AddExit(from, to string, exit types.Exit) {
	room := w.Rooms[from]
	if room == nil {
		return
	}
	if room.Exits == nil {
		room.Exits = map[string]types.Exit{}
	}
	if _, ok := room.Exits[to]; ok {
		return
	}
	room.Exits[to] = exit
	w.debugf("exit %s -> %s", from, to)
}

// Move sets the current room to the exit target. Passability is the
// caller's concern; Move only requires that the exit exists.
func (w *World) Move(target string) bool {
	room := w.Rooms[w.Current]
	if room == nil {
		return false
	}
	if _, ok := room.Exits[target]; !ok {
		return false
	}
	w.Current = target
	w.debugf("current %s", target)
	return true
}

// ExitDuration returns the configured duration of the exit from the
// current room to target, or the default of 1.
func (w *World) ExitDuration(target string) int {
	if room := w.Rooms[w.Current]; room != nil {
		if exit, ok := room.Exits[target]; ok && exit.Duration > 0 {
			return exit.Duration
		}
	}
	return 1
}

// AdvanceTime moves the clock forward by d minutes, wrapping at midnight.
// Non-positive durations count as the default of 1.
func (w *World) AdvanceTime(d int) {
	if d <= 0 {
		d = 1
	}
	w.Clock = (w.Clock + d) % MinutesPerDay
}

// FormatClock renders the clock as HH:MM.
func (w *World) FormatClock() string {
	return fmt.Sprintf("%02d:%02d", w.Clock/60, w.Clock%60)
}

// Hour returns the hour of day for a minute value, used to detect hour
// crossings when the clock advances.
func Hour(minutes int) int {
	return (minutes % MinutesPerDay) / 60
}

// RoomName returns the canonical display name of a room.
func (w *World) RoomName(id string) string {
	if room, ok := w.Rooms[id]; ok && len(room.Names) > 0 {
		return room.Names[0]
	}
	return id
}

// ExitNames returns the display names of the exit from a room to target:
// the exit's own names plus the target room's names plus the raw target id.
func (w *World) ExitNames(roomID, target string) []string {
	room, ok := w.Rooms[roomID]
	if !ok {
		return nil
	}
	exit, ok := room.Exits[target]
	if !ok {
		return nil
	}
	names := append([]string{}, exit.Names...)
	if dest, ok := w.Rooms[target]; ok {
		names = append(names, dest.Names...)
	}
	names = append(names, target)
	return names
}

// ExitDisplayName returns the name used when listing the exit: the exit's
// first own name, else the target room's canonical name.
func (w *World) ExitDisplayName(roomID, target string) string {
	if room, ok := w.Rooms[roomID]; ok {
		if exit, ok := room.Exits[target]; ok && len(exit.Names) > 0 {
			return exit.Names[0]
		}
	}
	return w.RoomName(target)
}

// DescribeInventory renders the carried items using the locale messages.
func (w *World) DescribeInventory(messages map[string]string) string {
	if len(w.Inventory) == 0 {
		return messages["inventory_empty"]
	}
	names := make([]string, 0, len(w.Inventory))
	for _, id := range w.Inventory {
		names = append(names, w.ItemName(id))
	}
	tpl := messages["inventory"]
	if tpl == "" {
		tpl = "{items}"
	}
	return strings.ReplaceAll(tpl, "{items}", strings.Join(names, ", "))
}
