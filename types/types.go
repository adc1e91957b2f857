// Package types defines the shared data structures for the polyquest engine.
// This package contains only type definitions. No logic, no methods.
package types

// Place identifies where an item or NPC is, or where an instruction should
// put it. It is either one of the symbolic tags below or a literal room id.
type Place string

const (
	// PlaceInventory is the player's inventory.
	PlaceInventory Place = "INVENTORY"
	// PlaceCurrentRoom resolves to the player's room at evaluation time.
	PlaceCurrentRoom Place = "CURRENT_ROOM"
)

// StateTag names the active variant of an item or NPC. A few tags are well
// known across all content; everything else is content-defined.
type StateTag string

const (
	// StateUnknown is the state of an NPC the player has not met yet.
	StateUnknown StateTag = "unknown"
	// StateMet marks an NPC after the first encounter.
	StateMet StateTag = "met"
	// StateHelped marks an NPC whose business with the player is done.
	StateHelped StateTag = "helped"
	// StateDestroyed is the tag an item must declare to be destructible.
	StateDestroyed StateTag = "destroyed"
	// StateWorn is the tag an item must declare to be wearable.
	StateWorn StateTag = "worn"
)

// ClauseKind selects the variant of a precondition clause.
type ClauseKind int

const (
	// ClauseLocation requires the player to be in a given room.
	ClauseLocation ClauseKind = iota
	// ClauseItem constrains an item's state and/or place.
	ClauseItem
	// ClauseNPC constrains an NPC's state.
	ClauseNPC
)

// Clause is one conjunct of a precondition. Preconditions are AND-only:
// a precondition holds when every clause holds, and an empty clause list
// always holds.
type Clause struct {
	Kind ClauseKind `yaml:"kind"`

	// ClauseLocation
	Room string `yaml:"room,omitempty"`

	// ClauseItem. State and At are each optional; an item clause with
	// neither set is vacuously true.
	Item      string   `yaml:"item,omitempty"`
	ItemState StateTag `yaml:"item_state,omitempty"`
	ItemAt    Place    `yaml:"item_at,omitempty"`

	// ClauseNPC
	NPC      string   `yaml:"npc,omitempty"`
	NPCState StateTag `yaml:"npc_state,omitempty"`
}

// InstrKind selects the variant of an effect instruction.
type InstrKind int

const (
	// InstrItem changes an item's state and/or moves it.
	InstrItem InstrKind = iota
	// InstrNPC changes an NPC's state and/or moves it to a room.
	InstrNPC
	// InstrExit adds a new exit between two existing rooms.
	InstrExit
)

// Instruction is a single mutation inside an effect bag. Instructions are
// idempotent: reapplying one leaves the world unchanged.
type Instruction struct {
	Kind InstrKind `yaml:"kind"`

	// InstrItem / InstrNPC. SetState only applies when the target declares
	// that state; otherwise the instruction is a no-op reported to the
	// caller. MoveTo relocates (a Place for items, a room id for NPCs).
	Item     string   `yaml:"item,omitempty"`
	NPC      string   `yaml:"npc,omitempty"`
	SetState StateTag `yaml:"set_state,omitempty"`
	MoveTo   Place    `yaml:"move_to,omitempty"`

	// InstrExit
	ExitFrom     string   `yaml:"exit_from,omitempty"`
	ExitTo       string   `yaml:"exit_to,omitempty"`
	ExitNames    []string `yaml:"exit_names,omitempty"`
	ExitPre      []Clause `yaml:"exit_pre,omitempty"`
	ExitDuration int      `yaml:"exit_duration,omitempty"`
}

// Exit describes one connection out of a room. Names holds locale display
// names; when empty the target room's own names apply. Duration is in
// clock minutes, 0 meaning the default.
type Exit struct {
	Names    []string `yaml:"names,omitempty"`
	Pre      []Clause `yaml:"pre,omitempty"`
	Duration int      `yaml:"duration,omitempty"`
}

// Room is a location in the world. Names is order-sensitive; the first
// entry is the canonical display name. Exits is keyed by target room id.
type Room struct {
	Names       []string
	Description string
	Items       []string
	Exits       map[string]Exit
	Occupants   []string
}

// ItemState holds the text overrides active while an item is in a state.
type ItemState struct {
	Description string
	Names       []string
}

// Item is a portable or fixed object. State selects the active entry of
// States; when empty the base Description and Names apply.
type Item struct {
	Names       []string
	Description string
	State       StateTag
	States      map[StateTag]ItemState
}

// NPCState holds the text shown for an NPC while it is in a state.
type NPCState struct {
	Ambient string // shown when the player enters the NPC's room
	Talk    string
	Examine string
}

// Meet describes an NPC's first encounter: where it lives, when it becomes
// visible, and the one-time introduction text.
type Meet struct {
	Room string
	Pre  []Clause
	Text string
}

// DialogOption is one player-selectable reply. An empty Next ends the
// dialog after the option's effect is applied.
type DialogOption struct {
	Prompt string
	Next   string
	Effect []Instruction
}

// DialogNode is one turn of a branching conversation.
type DialogNode struct {
	Text    string
	Options []DialogOption
	Effect  []Instruction
}

// NPC is a character. Dialog, when non-nil, maps node ids to nodes and
// must contain a "start" node; NPCs without a tree fall back to flat
// per-state Talk text.
type NPC struct {
	Names  []string
	State  StateTag
	States map[StateTag]NPCState
	Meet   Meet
	Dialog map[string]DialogNode
}

// Action is one rule of the world. Trigger plus the optional item/target
// fields select it; the first declared action whose fields match and whose
// precondition holds wins.
type Action struct {
	ID         string
	Trigger    string
	Item       string
	TargetItem string
	TargetNPC  string
	Pre        []Clause
	Effect     []Instruction
	Duration   int
	Success    string
	Failure    string
}

// Ending is a terminal condition. Endings are polled in declaration order
// after every state-changing command; the first satisfied one is announced
// and finishes the session.
type Ending struct {
	ID   string
	Pre  []Clause
	Text string
}

// LogEntry records one state-changing command and the output it produced.
type LogEntry struct {
	Command string   `yaml:"command"`
	Output  []string `yaml:"output"`
}

// CommandInfo describes a canonical command id: how many arguments it
// takes and how it is grouped in help output. OptionalNumber marks a
// zero-argument command that also accepts a trailing integer; OptionalArg
// marks one that accepts arbitrary trailing text.
type CommandInfo struct {
	Arguments      int    `yaml:"arguments"`
	OptionalNumber bool   `yaml:"optional_number"`
	OptionalArg    bool   `yaml:"optional_arg"`
	Category       string `yaml:"category"`
}
