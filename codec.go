package serialdelay

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

const (
	// MaxLineLength is the device's 64 byte input buffer minus its terminator slot.
	MaxLineLength = 63
	// LineTerminator executes a command on the device. Carriage returns are
	// ignored by the firmware and never sent.
	LineTerminator = "\n"
)

// EncodeLine trims text and returns the bytes to put on the wire. The limit
// counts bytes, the unit of the device's input buffer.
func EncodeLine(text string) ([]byte, error) {
	line := strings.TrimSpace(text)
	if len(line) > MaxLineLength {
		return nil, ErrCommandTooLong
	}
	return []byte(line + LineTerminator), nil
}

// FormatDelay renders the set-delay command for valueMs
func FormatDelay(valueMs float64) string {
	return FormatCommand("d", valueMs)
}

// FormatCommand renders a single-letter command with optional numeric arguments,
// e.g. FormatCommand("k", 6) == "k 6".
func FormatCommand(letter string, args ...float64) string {
	var b strings.Builder
	b.WriteString(letter)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(arg, 'f', -1, 64))
	}
	return b.String()
}

// Decoder turns inbound byte chunks into text. A rune split across two chunks
// is carried over; ill-formed bytes become U+FFFD. Not safe for concurrent use.
type Decoder struct {
	carry []byte
}

// Decode returns the text for p plus any bytes carried from the previous call
func (d *Decoder) Decode(p []byte) string {
	buf := make([]byte, 0, len(d.carry)+len(p))
	buf = append(buf, d.carry...)
	buf = append(buf, p...)

	cut := incompleteTail(buf)
	d.carry = append(d.carry[:0], buf[cut:]...)
	return replaceIllFormed(buf[:cut])
}

// Flush returns whatever is still carried, replacing the partial rune
func (d *Decoder) Flush() string {
	if len(d.carry) == 0 {
		return ""
	}
	text := replaceIllFormed(d.carry)
	d.carry = d.carry[:0]
	return text
}

// incompleteTail returns the index where a truncated trailing rune starts, or len(b)
func incompleteTail(b []byte) int {
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return i
			}
			break
		}
	}
	return len(b)
}

func replaceIllFormed(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, _, err := transform.Bytes(illFormedReplacer{}, b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

// illFormedReplacer copies valid UTF-8 and writes one U+FFFD for each maximal
// ill-formed subpart, so a truncated "E2 82" becomes a single replacement.
type illFormedReplacer struct {
	transform.NopResetter
}

var _ transform.Transformer = illFormedReplacer{}

func (illFormedReplacer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r != utf8.RuneError || size > 1 {
			if nDst+size > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
			nSrc += size
			continue
		}

		n, truncated := maximalSubpart(src[nSrc:])
		if truncated && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if nDst+utf8.RuneLen(utf8.RuneError) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], utf8.RuneError)
		nSrc += n
	}
	return nDst, nSrc, nil
}

// maximalSubpart returns the length of the ill-formed sequence at the start of
// b: a lead byte plus the continuation bytes that still form a valid prefix.
// truncated is set when b ends inside that prefix.
func maximalSubpart(b []byte) (n int, truncated bool) {
	lo, hi := byte(0x80), byte(0xBF)
	var need int
	switch lead := b[0]; {
	case lead >= 0xC2 && lead <= 0xDF:
		need = 1
	case lead == 0xE0:
		need, lo = 2, 0xA0
	case lead == 0xED:
		need, hi = 2, 0x9F
	case lead >= 0xE1 && lead <= 0xEF:
		need = 2
	case lead == 0xF0:
		need, lo = 3, 0x90
	case lead == 0xF4:
		need, hi = 3, 0x8F
	case lead >= 0xF1 && lead <= 0xF3:
		need = 3
	default:
		return 1, false
	}

	n = 1
	for n <= need {
		if n == len(b) {
			return n, true
		}
		if c := b[n]; c < lo || c > hi {
			break
		}
		lo, hi = 0x80, 0xBF
		n++
	}
	return n, false
}
