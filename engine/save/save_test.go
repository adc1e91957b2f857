package save

import (
	"path/filepath"
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
				Items: []string{"key"},
				Exits: map[string]types.Exit{"cottage": {}},
			},
			"ruins": {},
		},
		Items: map[string]*types.Item{
			"lantern": {
				State:  "unlit",
				States: map[types.StateTag]types.ItemState{"unlit": {}, "lit": {}},
			},
			"key":    {},
			"letter": {},
		},
		NPCs: map[string]*types.NPC{
			"hermit": {
				State:  types.StateUnknown,
				States: map[types.StateTag]types.NPCState{types.StateUnknown: {}, types.StateHelped: {}},
			},
		},
		StartRoom:      "cottage",
		StartInventory: []string{"letter"},
		StartTime:      480,
	}
	w.Init()
	return w
}

func TestCaptureIsDiff(t *testing.T) {
	w := testWorld()

	d := Capture(w)
	if d.Inventory != nil || d.RoomItems != nil || d.ItemStates != nil || d.NPCStates != nil || d.Exits != nil {
		t.Errorf("fresh world capture carries diffs: %+v", d)
	}
	if d.Current != "cottage" || d.Time == nil || *d.Time != 480 {
		t.Errorf("capture basics = %q %v", d.Current, d.Time)
	}

	w.TakeItem("lantern")
	w.SetItemState("lantern", "lit")
	w.HelpNPC("hermit")
	w.AddExit("forest", "ruins", types.Exit{Duration: 30})
	w.Current = "forest"

	d = Capture(w)
	if d.Inventory == nil || len(*d.Inventory) != 2 {
		t.Errorf("inventory diff = %v", d.Inventory)
	}
	if got, ok := d.RoomItems["cottage"]; !ok || len(got) != 0 {
		t.Errorf("cottage items diff = %v (present=%v), want explicit empty list", got, ok)
	}
	if _, ok := d.RoomItems["forest"]; ok {
		t.Error("unchanged room captured")
	}
	if d.ItemStates["lantern"] != "lit" {
		t.Errorf("item states diff = %v", d.ItemStates)
	}
	if d.NPCStates["hermit"] != types.StateHelped {
		t.Errorf("npc states diff = %v", d.NPCStates)
	}
	if d.Exits["forest"]["ruins"].Duration != 30 {
		t.Errorf("exit diff = %v", d.Exits)
	}
}

func TestEmptiedInventorySerializes(t *testing.T) {
	w := testWorld()
	w.RemoveItem("letter")

	d := Capture(w)
	if d.Inventory == nil {
		t.Fatal("emptied inventory dropped from the diff")
	}
	if len(*d.Inventory) != 0 {
		t.Errorf("inventory = %v, want empty", *d.Inventory)
	}
}

func TestRoundTrip(t *testing.T) {
	w := testWorld()
	w.TakeItem("lantern")
	w.SetItemState("lantern", "lit")
	w.HelpNPC("hermit")
	w.AddExit("forest", "ruins", types.Exit{Duration: 30})
	w.Current = "forest"
	w.Clock = 510

	d := Capture(w)

	fresh := testWorld()
	Apply(fresh, d)

	if fresh.Current != "forest" || fresh.Clock != 510 {
		t.Errorf("position/time = %q %d", fresh.Current, fresh.Clock)
	}
	if !fresh.InInventory("lantern") || !fresh.InInventory("letter") {
		t.Errorf("inventory = %v", fresh.Inventory)
	}
	if fresh.Items["lantern"].State != "lit" {
		t.Error("item state not replayed")
	}
	if fresh.NPCStateOf("hermit") != types.StateHelped {
		t.Error("npc state not replayed")
	}
	if fresh.Rooms["forest"].Exits["ruins"].Duration != 30 {
		t.Error("added exit not replayed")
	}
	if len(fresh.Rooms["cottage"].Items) != 0 {
		t.Errorf("cottage items = %v, want empty", fresh.Rooms["cottage"].Items)
	}

	// The replayed world diffs identically.
	if Changed(Visible(w), Visible(fresh)) {
		t.Error("replayed world differs from the original")
	}
}

func TestMidnightClockRoundTrips(t *testing.T) {
	w := testWorld()
	w.TakeItem("lantern")
	w.Clock = 0

	fresh := testWorld()
	Apply(fresh, Capture(w))

	if fresh.Clock != 0 {
		t.Errorf("clock = %d after replay, want 0", fresh.Clock)
	}
}

func TestApplyNil(t *testing.T) {
	w := testWorld()
	Apply(w, nil)
	if w.Current != "cottage" {
		t.Error("Apply(nil) touched the world")
	}
}

func TestVisibleIgnoresClock(t *testing.T) {
	w := testWorld()
	before := Visible(w)
	w.AdvanceTime(90)
	if Changed(before, Visible(w)) {
		t.Error("clock advance counted as a visible change")
	}
	w.TakeItem("lantern")
	if !Changed(before, Visible(w)) {
		t.Error("item move not counted as a visible change")
	}
}

func TestManagerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	d, err := m.Load()
	if err != nil {
		t.Fatalf("Load on empty dir: %v", err)
	}
	if d != nil {
		t.Fatal("Load on empty dir returned data")
	}

	clock := 510
	want := &Data{
		Current:  "forest",
		Time:     &clock,
		Language: "de",
		Log:      []types.LogEntry{{Command: "take lantern", Output: []string{"Taken."}}},
	}
	if err := m.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if m.Path != filepath.Join(dir, "save.yaml") {
		t.Errorf("Path = %q", m.Path)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Current != "forest" || got.Time == nil || *got.Time != 510 || got.Language != "de" {
		t.Errorf("loaded = %+v", got)
	}
	if len(got.Log) != 1 || got.Log[0].Command != "take lantern" {
		t.Errorf("log = %+v", got.Log)
	}

	m.Cleanup()
	if d, _ := m.Load(); d != nil {
		t.Error("save survived Cleanup")
	}
}
