package components

import "strings"

// historySize is the number of entries kept per entry mode
const historySize = 100

// entryHistory is a recall list of submitted lines, newest last. While
// browsing, pos indexes entries and draft holds the line being typed when
// browsing started.
type entryHistory struct {
	entries []string
	pos     int
	draft   string
}

func newEntryHistory() *entryHistory {
	return &entryHistory{pos: -1}
}

// add records line unless it is blank or repeats the newest entry, and ends browsing
func (h *entryHistory) add(line string) {
	h.reset()
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > historySize {
		h.entries = h.entries[len(h.entries)-historySize:]
	}
}

func (h *entryHistory) reset() {
	h.pos = -1
	h.draft = ""
}

// older steps back from current, the value now in the field
func (h *entryHistory) older(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.pos == -1:
		h.draft = current
		h.pos = len(h.entries) - 1
	case h.pos > 0:
		h.pos--
	}
	return h.entries[h.pos], true
}

// newer steps forward, ending on the saved draft
func (h *entryHistory) newer() (string, bool) {
	if h.pos == -1 {
		return "", false
	}
	if h.pos < len(h.entries)-1 {
		h.pos++
		return h.entries[h.pos], true
	}
	draft := h.draft
	h.reset()
	return draft, true
}
