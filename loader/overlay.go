package loader

import (
	"fmt"
	"os"

	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
	"gopkg.in/yaml.v3"
)

// overlay is the YAML shape of a locale world file. It carries every
// display string for the structural world: names, descriptions, per-state
// texts, dialog lines, action messages and ending texts.
type overlay struct {
	Title string `yaml:"title"`
	Intro string `yaml:"intro"`

	Rooms   map[string]roomOverlay   `yaml:"rooms"`
	Items   map[string]itemOverlay   `yaml:"items"`
	NPCs    map[string]npcOverlay    `yaml:"npcs"`
	Actions map[string]actionOverlay `yaml:"actions"`
	Endings map[string]string        `yaml:"endings"`
}

type roomOverlay struct {
	Names       []string            `yaml:"names"`
	Description string              `yaml:"description"`
	Exits       map[string][]string `yaml:"exits"` // target room id -> exit display names
}

type itemStateOverlay struct {
	Names       []string `yaml:"names"`
	Description string   `yaml:"description"`
}

type itemOverlay struct {
	Names       []string                    `yaml:"names"`
	Description string                      `yaml:"description"`
	States      map[string]itemStateOverlay `yaml:"states"`
}

type npcStateOverlay struct {
	Ambient string `yaml:"ambient"`
	Talk    string `yaml:"talk"`
	Examine string `yaml:"examine"`
}

type dialogOverlay struct {
	Text    string   `yaml:"text"`
	Options []string `yaml:"options"` // prompts, positional against the structure
}

type npcOverlay struct {
	Names  []string                   `yaml:"names"`
	Meet   string                     `yaml:"meet"`
	States map[string]npcStateOverlay `yaml:"states"`
	Dialog map[string]dialogOverlay   `yaml:"dialog"`
}

type actionOverlay struct {
	Success string `yaml:"success"`
	Failure string `yaml:"failure"`
}

func loadOverlay(path string) (*overlay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locale world file: %w", err)
	}
	var o overlay
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("parsing locale world file: %w", err)
	}
	return &o, nil
}

// applyOverlay merges the locale texts into the structural world. Overlay
// entries for unknown ids are errors: the locale must match the structure.
func applyOverlay(w *world.World, o *overlay) error {
	w.Title = o.Title
	w.Intro = o.Intro

	for id, ro := range o.Rooms {
		room, ok := w.Rooms[id]
		if !ok {
			return fmt.Errorf("locale names unknown room %q", id)
		}
		room.Names = ro.Names
		room.Description = ro.Description
		for target, names := range ro.Exits {
			exit, ok := room.Exits[target]
			if !ok {
				return fmt.Errorf("locale names unknown exit %s -> %s", id, target)
			}
			exit.Names = names
			room.Exits[target] = exit
		}
	}

	for id, io := range o.Items {
		item, ok := w.Items[id]
		if !ok {
			return fmt.Errorf("locale names unknown item %q", id)
		}
		item.Names = io.Names
		item.Description = io.Description
		for tag, so := range io.States {
			st, ok := item.States[types.StateTag(tag)]
			if !ok {
				return fmt.Errorf("locale names unknown state %q of item %q", tag, id)
			}
			st.Names = so.Names
			st.Description = so.Description
			item.States[types.StateTag(tag)] = st
		}
	}

	for id, no := range o.NPCs {
		npc, ok := w.NPCs[id]
		if !ok {
			return fmt.Errorf("locale names unknown npc %q", id)
		}
		npc.Names = no.Names
		npc.Meet.Text = no.Meet
		for tag, so := range no.States {
			if _, ok := npc.States[types.StateTag(tag)]; !ok {
				return fmt.Errorf("locale names unknown state %q of npc %q", tag, id)
			}
			npc.States[types.StateTag(tag)] = types.NPCState{
				Ambient: so.Ambient,
				Talk:    so.Talk,
				Examine: so.Examine,
			}
		}
		for nodeID, do := range no.Dialog {
			node, ok := npc.Dialog[nodeID]
			if !ok {
				return fmt.Errorf("locale names unknown dialog node %q of npc %q", nodeID, id)
			}
			node.Text = do.Text
			if len(do.Options) != len(node.Options) {
				return fmt.Errorf("npc %q dialog node %q: %d prompts for %d options",
					id, nodeID, len(do.Options), len(node.Options))
			}
			for i, prompt := range do.Options {
				node.Options[i].Prompt = prompt
			}
			npc.Dialog[nodeID] = node
		}
	}

	for i := range w.Actions {
		ao, ok := o.Actions[w.Actions[i].ID]
		if !ok {
			continue
		}
		w.Actions[i].Success = ao.Success
		w.Actions[i].Failure = ao.Failure
	}
	for id := range o.Actions {
		if !hasAction(w, id) {
			return fmt.Errorf("locale names unknown action %q", id)
		}
	}

	for i := range w.Endings {
		if text, ok := o.Endings[w.Endings[i].ID]; ok {
			w.Endings[i].Text = text
		}
	}
	for id := range o.Endings {
		if !hasEnding(w, id) {
			return fmt.Errorf("locale names unknown ending %q", id)
		}
	}

	return nil
}

func hasAction(w *world.World, id string) bool {
	for _, a := range w.Actions {
		if a.ID == id {
			return true
		}
	}
	return false
}

func hasEnding(w *world.World, id string) bool {
	for _, e := range w.Endings {
		if e.ID == id {
			return true
		}
	}
	return false
}
