package dialog

import (
	"strings"
	"testing"

	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
)

func testWorld() *world.World {
	w := &world.World{
		Rooms: map[string]*types.Room{
			"forest": {Occupants: []string{"hermit", "hunter"}},
		},
		Items: map[string]*types.Item{
			"chest": {
				State:  "locked",
				States: map[types.StateTag]types.ItemState{"locked": {}, "open": {}},
			},
		},
		NPCs: map[string]*types.NPC{
			"hermit": {
				Names: []string{"hermit"},
				State: types.StateMet,
				States: map[types.StateTag]types.NPCState{
					types.StateMet: {}, types.StateHelped: {},
				},
				Dialog: map[string]types.DialogNode{
					"start": {
						Text: "What do you want?",
						Options: []types.DialogOption{
							{
								Prompt: "Ask about the ruins.",
								Next:   "blessing",
								Effect: []types.Instruction{
									{Kind: types.InstrNPC, NPC: "hermit", SetState: types.StateHelped},
								},
							},
							{Prompt: "Leave.", Next: ""},
						},
					},
					"blessing": {
						Text: "Take the east path.",
						Effect: []types.Instruction{
							{Kind: types.InstrItem, Item: "chest", SetState: "open"},
						},
					},
				},
			},
			"hunter": {
				Names: []string{"hunter"},
				State: types.StateMet,
				States: map[types.StateTag]types.NPCState{
					types.StateMet: {Talk: "Quiet now."},
				},
			},
		},
		StartRoom: "forest",
	}
	w.Init()
	return w
}

func TestStartWithoutTree(t *testing.T) {
	w := testWorld()
	if _, _, _, ok := Start(w, "hunter"); ok {
		t.Error("Start reported a tree for a flat-talk NPC")
	}
	if _, _, _, ok := Start(w, "nobody"); ok {
		t.Error("Start reported a tree for an unknown NPC")
	}
}

func TestConversationFlow(t *testing.T) {
	w := testWorld()

	s, lines, done, ok := Start(w, "hermit")
	if !ok || done {
		t.Fatalf("Start = done=%v ok=%v", done, ok)
	}
	if len(lines) != 3 || lines[0] != "What do you want?" {
		t.Fatalf("start render = %v", lines)
	}
	// Options are labeled with the unique name prefix and a 1-based index.
	if !strings.HasPrefix(lines[1], "[he1]") || !strings.HasPrefix(lines[2], "[he2]") {
		t.Fatalf("option labels = %v", lines[1:])
	}

	lines, done, ok = s.Choose(w, "he1")
	if !ok {
		t.Fatal("Choose(he1) rejected")
	}
	if !done {
		t.Error("terminal node did not end the conversation")
	}
	if len(lines) != 1 || lines[0] != "Take the east path." {
		t.Errorf("blessing render = %v", lines)
	}

	// Option effect and node effect both applied.
	if w.NPCStateOf("hermit") != types.StateHelped {
		t.Error("option effect not applied")
	}
	if w.Items["chest"].State != "open" {
		t.Error("node effect not applied")
	}
}

func TestChooseEndsOnEmptyNext(t *testing.T) {
	w := testWorld()
	s, _, _, _ := Start(w, "hermit")

	lines, done, ok := s.Choose(w, "he2")
	if !ok || !done {
		t.Fatalf("Choose(he2) = done=%v ok=%v, want immediate end", done, ok)
	}
	if len(lines) != 0 {
		t.Errorf("empty-next option produced output: %v", lines)
	}
}

func TestStaleChoiceRejected(t *testing.T) {
	w := testWorld()
	s, _, _, _ := Start(w, "hermit")

	if _, _, ok := s.Choose(w, "he9"); ok {
		t.Error("unknown id accepted")
	}
	if s.Node != StartNode {
		t.Errorf("cursor moved to %q on rejected choice", s.Node)
	}

	if _, _, ok := s.Choose(w, "he1"); !ok {
		t.Fatal("valid choice rejected")
	}
	// The conversation is over; the old ids are stale now.
	if _, _, ok := s.Choose(w, "he1"); ok {
		t.Error("stale id accepted after the node changed")
	}
}

func TestChoiceIDsNormalized(t *testing.T) {
	w := testWorld()
	s, _, _, _ := Start(w, "hermit")
	if _, _, ok := s.Choose(w, "  HE2 "); !ok {
		t.Error("ids must match case-insensitively and ignore padding")
	}
}

func TestOptionPrefixUniqueness(t *testing.T) {
	w := testWorld()

	// hermit vs hunter: "h" collides, "he" does not.
	if got := optionPrefix(w, "hermit"); got != "he" {
		t.Errorf("optionPrefix(hermit) = %q, want he", got)
	}
	if got := optionPrefix(w, "hunter"); got != "hu" {
		t.Errorf("optionPrefix(hunter) = %q, want hu", got)
	}

	// Alone in the room, one letter is enough.
	w.Rooms["forest"].Occupants = []string{"hermit"}
	if got := optionPrefix(w, "hermit"); got != "h" {
		t.Errorf("optionPrefix(hermit alone) = %q, want h", got)
	}
}
