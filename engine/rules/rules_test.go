package rules

import (
	"testing"

	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
)

func testWorld() *world.World {
	w := &world.World{
		Rooms: map[string]*types.Room{
			"cottage": {
				Items: []string{"lantern"},
				Exits: map[string]types.Exit{"forest": {}},
			},
			"forest": {
				Items:     []string{"key"},
				Occupants: []string{"hermit"},
				Exits: map[string]types.Exit{
					"cottage": {},
					"ruins": {
						Pre:      []types.Clause{{Kind: types.ClauseNPC, NPC: "hermit", NPCState: types.StateHelped}},
						Duration: 30,
					},
				},
			},
			"ruins": {Exits: map[string]types.Exit{"forest": {}}},
		},
		Items: map[string]*types.Item{
			"lantern": {
				State: "unlit",
				States: map[types.StateTag]types.ItemState{
					"unlit": {}, "lit": {},
				},
			},
			"key":    {},
			"letter": {States: map[types.StateTag]types.ItemState{"destroyed": {}}},
			"chest": {
				State:  "locked",
				States: map[types.StateTag]types.ItemState{"locked": {}, "open": {}},
			},
		},
		NPCs: map[string]*types.NPC{
			"hermit": {
				State: types.StateUnknown,
				States: map[types.StateTag]types.NPCState{
					types.StateUnknown: {}, types.StateMet: {}, types.StateHelped: {},
				},
				Meet: types.Meet{
					Room: "forest",
					Pre:  []types.Clause{{Kind: types.ClauseItem, Item: "lantern", ItemState: "lit"}},
				},
			},
		},
		Actions: []types.Action{
			{
				ID: "light_lantern", Trigger: "use", Item: "lantern",
				Pre: []types.Clause{
					{Kind: types.ClauseItem, Item: "lantern", ItemState: "unlit", ItemAt: types.PlaceInventory},
				},
				Effect:  []types.Instruction{{Kind: types.InstrItem, Item: "lantern", SetState: "lit"}},
				Success: "The wick catches.",
				Failure: "Already lit.",
			},
			{
				ID: "unlock_chest", Trigger: "use", Item: "key", TargetItem: "chest",
				Pre: []types.Clause{
					{Kind: types.ClauseItem, Item: "chest", ItemState: "locked"},
				},
				Effect:   []types.Instruction{{Kind: types.InstrItem, Item: "chest", SetState: "open"}},
				Duration: 5,
				Success:  "The chest is open.",
			},
		},
		Endings: []types.Ending{
			{
				ID:   "treasure",
				Pre:  []types.Clause{{Kind: types.ClauseItem, Item: "chest", ItemState: "open"}},
				Text: "The treasure is found.",
			},
			{
				ID:   "late",
				Pre:  []types.Clause{{Kind: types.ClauseItem, Item: "chest", ItemState: "open"}},
				Text: "Never reached.",
			},
		},
		StartRoom:      "cottage",
		StartInventory: []string{"letter"},
	}
	w.Init()
	return w
}

func TestCheckClause(t *testing.T) {
	w := testWorld()

	tests := []struct {
		name   string
		clause types.Clause
		want   bool
	}{
		{"location holds", types.Clause{Kind: types.ClauseLocation, Room: "cottage"}, true},
		{"location fails", types.Clause{Kind: types.ClauseLocation, Room: "forest"}, false},
		{"item state holds", types.Clause{Kind: types.ClauseItem, Item: "lantern", ItemState: "unlit"}, true},
		{"item state fails", types.Clause{Kind: types.ClauseItem, Item: "lantern", ItemState: "lit"}, false},
		{"item unknown", types.Clause{Kind: types.ClauseItem, Item: "ghost"}, false},
		{"item in inventory", types.Clause{Kind: types.ClauseItem, Item: "letter", ItemAt: types.PlaceInventory}, true},
		{"item in current room", types.Clause{Kind: types.ClauseItem, Item: "lantern", ItemAt: types.PlaceCurrentRoom}, true},
		{"item in named room", types.Clause{Kind: types.ClauseItem, Item: "key", ItemAt: "forest"}, true},
		{"item elsewhere", types.Clause{Kind: types.ClauseItem, Item: "key", ItemAt: types.PlaceInventory}, false},
		{"item state and place", types.Clause{Kind: types.ClauseItem, Item: "lantern", ItemState: "unlit", ItemAt: types.PlaceCurrentRoom}, true},
		{"npc state holds", types.Clause{Kind: types.ClauseNPC, NPC: "hermit", NPCState: types.StateUnknown}, true},
		{"npc state fails", types.Clause{Kind: types.ClauseNPC, NPC: "hermit", NPCState: types.StateHelped}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckClause(w, tt.clause); got != tt.want {
				t.Errorf("CheckClause = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckConjunction(t *testing.T) {
	w := testWorld()

	if !Check(w, nil) {
		t.Error("empty precondition must hold")
	}

	pre := []types.Clause{
		{Kind: types.ClauseLocation, Room: "cottage"},
		{Kind: types.ClauseItem, Item: "letter", ItemAt: types.PlaceInventory},
	}
	if !Check(w, pre) {
		t.Error("conjunction of true clauses must hold")
	}

	pre = append(pre, types.Clause{Kind: types.ClauseNPC, NPC: "hermit", NPCState: types.StateHelped})
	if Check(w, pre) {
		t.Error("one false clause must fail the conjunction")
	}
}

func TestCanMove(t *testing.T) {
	w := testWorld()
	w.Current = "forest"

	if !CanMove(w, "cottage") {
		t.Error("open exit must be passable")
	}
	if CanMove(w, "ruins") {
		t.Error("gated exit passable before its precondition holds")
	}
	w.HelpNPC("hermit")
	if !CanMove(w, "ruins") {
		t.Error("gated exit still blocked after precondition holds")
	}
	if CanMove(w, "cottage2") {
		t.Error("nonexistent exit passable")
	}
}

func TestNPCVisible(t *testing.T) {
	w := testWorld()

	if NPCVisible(w, "hermit") {
		t.Error("hermit visible from another room")
	}
	w.Current = "forest"
	if NPCVisible(w, "hermit") {
		t.Error("hermit visible while meet precondition fails")
	}
	w.SetItemState("lantern", "lit")
	if !NPCVisible(w, "hermit") {
		t.Error("hermit invisible with meet precondition satisfied")
	}
}

func TestApplyInstruction(t *testing.T) {
	w := testWorld()

	ok := ApplyInstruction(w, types.Instruction{Kind: types.InstrItem, Item: "lantern", SetState: "lit"})
	if !ok || w.Items["lantern"].State != "lit" {
		t.Errorf("set state: ok=%v state=%q", ok, w.Items["lantern"].State)
	}

	if ApplyInstruction(w, types.Instruction{Kind: types.InstrItem, Item: "lantern", SetState: "golden"}) {
		t.Error("undeclared state reported as applied")
	}

	ApplyInstruction(w, types.Instruction{Kind: types.InstrItem, Item: "key", MoveTo: types.PlaceInventory})
	if !w.InInventory("key") {
		t.Error("move instruction did not relocate the item")
	}

	ApplyInstruction(w, types.Instruction{Kind: types.InstrNPC, NPC: "hermit", MoveTo: "ruins"})
	if got := w.Rooms["ruins"].Occupants; len(got) != 1 || got[0] != "hermit" {
		t.Errorf("ruins occupants = %v, want [hermit]", got)
	}
	if len(w.Rooms["forest"].Occupants) != 0 {
		t.Error("hermit still in forest after move")
	}

	ApplyInstruction(w, types.Instruction{Kind: types.InstrExit, ExitFrom: "cottage", ExitTo: "ruins", ExitDuration: 10})
	if got := w.Rooms["cottage"].Exits["ruins"].Duration; got != 10 {
		t.Errorf("added exit duration = %d, want 10", got)
	}
}

func TestApplyReportsPartialFailure(t *testing.T) {
	w := testWorld()
	effect := []types.Instruction{
		{Kind: types.InstrItem, Item: "lantern", SetState: "golden"},
		{Kind: types.InstrItem, Item: "lantern", SetState: "lit"},
	}
	if Apply(w, effect) {
		t.Error("Apply = true with a failing instruction")
	}
	if w.Items["lantern"].State != "lit" {
		t.Error("later instructions skipped after a failing one")
	}
}

func TestDispatch(t *testing.T) {
	w := testWorld()
	w.PlaceItem("lantern", types.PlaceInventory)

	res, ok := Dispatch(w, "use", "lantern", "")
	if !ok || res.Message != "The wick catches." {
		t.Fatalf("Dispatch = %+v %v", res, ok)
	}
	if w.Items["lantern"].State != "lit" {
		t.Error("effect not applied")
	}

	// Second attempt: fields match, precondition fails, failure text wins.
	res, ok = Dispatch(w, "use", "lantern", "")
	if ok {
		t.Fatal("Dispatch fired twice")
	}
	if res.Message != "Already lit." {
		t.Errorf("failure message = %q, want Already lit.", res.Message)
	}

	// No rule at all.
	res, ok = Dispatch(w, "use", "letter", "")
	if ok || res.Message != "" {
		t.Errorf("Dispatch(letter) = %+v %v, want miss", res, ok)
	}

	// Target selection.
	res, ok = Dispatch(w, "use", "key", "chest")
	if !ok || res.Duration != 5 {
		t.Errorf("Dispatch(key, chest) = %+v %v", res, ok)
	}
	if _, ok := Dispatch(w, "use", "key", "lantern"); ok {
		t.Error("Dispatch fired with wrong target")
	}
}

func TestCheckEndings(t *testing.T) {
	w := testWorld()

	if _, over := CheckEndings(w); over {
		t.Error("ending fired at start")
	}
	w.SetItemState("chest", "open")
	text, over := CheckEndings(w)
	if !over || text != "The treasure is found." {
		t.Errorf("CheckEndings = %q %v, want first declared ending", text, over)
	}
}
