package tui

// History is a bounded command history with a cursor for up/down recall.
type History struct {
	entries []string
	max     int
	cursor  int
}

// NewHistory creates a history holding at most max entries.
func NewHistory(max int) *History {
	return &History{max: max, cursor: -1}
}

// Push appends a command, evicting the oldest when full. Consecutive
// duplicates are collapsed.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// ResetCursor moves the cursor past the newest entry.
func (h *History) ResetCursor() {
	h.cursor = len(h.entries)
}

// Prev steps the cursor back and returns that entry.
func (h *History) Prev() (string, bool) {
	if h.cursor <= 0 {
		if len(h.entries) == 0 {
			return "", false
		}
		h.cursor = 0
		return h.entries[0], true
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next steps the cursor forward; false means past the newest entry.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries)-1 {
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}
