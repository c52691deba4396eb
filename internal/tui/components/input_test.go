package components

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputHistory(t *testing.T) {
	in := NewInput()
	in.AddToHistory("10")
	in.AddToHistory("  ")
	in.AddToHistory("12.5")
	in.AddToHistory("12.5")

	in.SetValue("draft")
	in.NavigateHistoryUp()
	assert.Equal(t, "12.5", in.Value())
	in.NavigateHistoryUp()
	assert.Equal(t, "10", in.Value())
	in.NavigateHistoryUp()
	assert.Equal(t, "10", in.Value())

	in.NavigateHistoryDown()
	assert.Equal(t, "12.5", in.Value())
	in.NavigateHistoryDown()
	assert.Equal(t, "draft", in.Value())

	// past the draft there is nothing newer
	in.NavigateHistoryDown()
	assert.Equal(t, "draft", in.Value())
}

func TestInputHistoryPerEntryMode(t *testing.T) {
	in := NewInput()
	in.AddToHistory("20")
	in.ToggleEntryMode()
	in.AddToHistory("k 6")

	in.NavigateHistoryUp()
	assert.Equal(t, "k 6", in.Value())
	in.NavigateHistoryUp()
	assert.Equal(t, "k 6", in.Value())

	in.ToggleEntryMode()
	in.SetValue("")
	in.NavigateHistoryUp()
	assert.Equal(t, "20", in.Value())
}

func TestEntryHistoryIsCapped(t *testing.T) {
	h := newEntryHistory()
	for i := 0; i < historySize+10; i++ {
		h.add(fmt.Sprintf("d %d", i))
	}
	assert.Len(t, h.entries, historySize)
	assert.Equal(t, "d 10", h.entries[0])
}

func TestInputEntryMode(t *testing.T) {
	in := NewInput()
	assert.Equal(t, EntryModeDelay, in.GetEntryMode())
	assert.Equal(t, "DELAY", in.GetEntryMode().String())

	in.ToggleEntryMode()
	assert.Equal(t, "CMD", in.GetEntryMode().String())
	in.ToggleEntryMode()
	assert.Equal(t, EntryModeDelay, in.GetEntryMode())
}
