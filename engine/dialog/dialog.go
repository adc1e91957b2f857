// Package dialog implements the branching conversation state machine: a
// per-NPC cursor over dialog nodes, advanced by player choices.
package dialog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mkraus/polyquest/engine/rules"
	"github.com/mkraus/polyquest/engine/world"
	"github.com/mkraus/polyquest/types"
)

// StartNode is the entry node id of every dialog tree.
const StartNode = "start"

// Session is an active conversation: which NPC, and the cursor into its
// tree. Option ids are ephemeral; they are recomputed on every render and
// stale ids from an earlier listing are rejected once the cursor moves.
type Session struct {
	NPC  string
	Node string

	choices map[string]types.DialogOption
}

// Start opens a conversation with the NPC. It reports false when the NPC
// has no dialog tree; flat talk handling is the caller's fallback. The
// returned lines render the start node, and done reports a tree whose
// start node is already terminal.
func Start(w *world.World, npcID string) (*Session, []string, bool, bool) {
	npc, ok := w.NPCs[npcID]
	if !ok || npc.Dialog == nil {
		return nil, nil, false, false
	}
	s := &Session{NPC: npcID, Node: StartNode}
	lines, done := s.Render(w)
	return s, lines, done, true
}

// Render emits the current node's text and its numbered options, applying
// the node's own effect. done reports a terminal leaf: a node with zero
// options ends the dialog.
func (s *Session) Render(w *world.World) ([]string, bool) {
	npc, ok := w.NPCs[s.NPC]
	if !ok {
		return nil, true
	}
	node, ok := npc.Dialog[s.Node]
	if !ok {
		return nil, true
	}

	rules.Apply(w, node.Effect)

	var lines []string
	if node.Text != "" {
		lines = append(lines, node.Text)
	}
	if len(node.Options) == 0 {
		s.choices = nil
		return lines, true
	}

	prefix := optionPrefix(w, s.NPC)
	s.choices = map[string]types.DialogOption{}
	for i, opt := range node.Options {
		id := prefix + strconv.Itoa(i+1)
		s.choices[id] = opt
		lines = append(lines, fmt.Sprintf("[%s] %s", id, opt.Prompt))
	}
	return lines, false
}

// Choose selects an option by its displayed id. ok reports whether the id
// was one of the currently listed choices; on a stale or unknown id the
// cursor does not move. When ok, the option's effect is applied, the
// cursor advances, and the next node is rendered; done reports the end of
// the conversation.
func (s *Session) Choose(w *world.World, id string) (lines []string, done bool, ok bool) {
	opt, found := s.choices[strings.ToLower(strings.TrimSpace(id))]
	if !found {
		return nil, false, false
	}

	rules.Apply(w, opt.Effect)

	if opt.Next == "" {
		s.choices = nil
		return nil, true, true
	}
	s.Node = opt.Next
	lines, done = s.Render(w)
	return lines, done, true
}

// Offers reports whether the id is one of the currently listed choices.
func (s *Session) Offers(id string) bool {
	_, ok := s.choices[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// optionPrefix returns the shortest lowercase prefix of the NPC's
// canonical name that is unique among the visible NPCs in the player's
// room, so option ids stay short without colliding between speakers.
func optionPrefix(w *world.World, npcID string) string {
	name := strings.ToLower(w.NPCName(npcID))
	if name == "" {
		return npcID
	}

	var others []string
	if room, ok := w.Rooms[w.Current]; ok {
		for _, occ := range room.Occupants {
			if occ == npcID || !rules.NPCVisible(w, occ) {
				continue
			}
			others = append(others, strings.ToLower(w.NPCName(occ)))
		}
	}

	for n := 1; n <= len(name); n++ {
		prefix := name[:n]
		collision := false
		for _, other := range others {
			if strings.HasPrefix(other, prefix) {
				collision = true
				break
			}
		}
		if !collision {
			return prefix
		}
	}
	return name
}
