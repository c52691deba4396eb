package serialdelay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "d 20", "d 20\n"},
		{"trimmed", "  g \t", "g\n"},
		{"carriage return dropped", "h\r\n", "h\n"},
		{"empty", "   ", "\n"},
		{"max length", strings.Repeat("x", MaxLineLength), strings.Repeat("x", MaxLineLength) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeLine(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.NotContains(t, string(got), "\r")
		})
	}
}

func TestEncodeLineTooLong(t *testing.T) {
	_, err := EncodeLine(strings.Repeat("x", MaxLineLength+1))
	assert.ErrorIs(t, err, ErrCommandTooLong)

	// surrounding whitespace does not count
	_, err = EncodeLine("  " + strings.Repeat("x", MaxLineLength) + "  ")
	assert.NoError(t, err)
}

func TestEncodeLineCountsBytes(t *testing.T) {
	// "é" takes two bytes of the device buffer
	_, err := EncodeLine(strings.Repeat("é", 31))
	assert.NoError(t, err)

	_, err = EncodeLine(strings.Repeat("é", 32))
	assert.ErrorIs(t, err, ErrCommandTooLong)

	_, err = EncodeLine(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrCommandTooLong)
}

func TestFormatDelay(t *testing.T) {
	assert.Equal(t, "d 20", FormatDelay(20))
	assert.Equal(t, "d 12.5", FormatDelay(12.5))
	assert.Equal(t, "d 0", FormatDelay(0))
	assert.Equal(t, "d -3", FormatDelay(-3))
}

func TestFormatCommand(t *testing.T) {
	assert.Equal(t, "h", FormatCommand("h"))
	assert.Equal(t, "k 6", FormatCommand("k", 6))
	assert.Equal(t, "k -1.5", FormatCommand("k", -1.5))
}

func TestDecoderSplitRune(t *testing.T) {
	var d Decoder
	// "é" is 0xC3 0xA9
	assert.Equal(t, "caf", d.Decode([]byte{'c', 'a', 'f', 0xC3}))
	assert.Equal(t, "é\n", d.Decode([]byte{0xA9, '\n'}))
	assert.Empty(t, d.Flush())
}

func TestDecoderReplacesIllFormed(t *testing.T) {
	var d Decoder
	assert.Equal(t, "a�b", d.Decode([]byte{'a', 0xFF, 'b'}))

	// a truncated rune left at flush time is replaced too
	assert.Equal(t, "x", d.Decode([]byte{'x', 0xE2, 0x82}))
	assert.Equal(t, "�", d.Flush())
}

func TestDecoderOneReplacementPerSubpart(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"truncated mid-stream", []byte{0xE2, 0x82, 'A', '\n'}, "�A\n"},
		{"truncated four byte", []byte{0xF0, 0x9F, 0x98, 'A'}, "�A"},
		{"surrogate range", []byte{0xED, 0xA0, 0x80, 'A'}, "���A"},
		{"stray continuations", []byte{0x80, 0xBF, 'A'}, "��A"},
		{"overlong lead", []byte{0xC0, 0xAF, 'A'}, "��A"},
		{"valid replacement char kept", []byte("a\uFFFDb"), "a\uFFFDb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			assert.Equal(t, tt.want, d.Decode(tt.in)+d.Flush())
		})
	}
}
