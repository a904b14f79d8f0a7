// Package sanitize cleans pty output before it is shown in the palette's
// output pane. Colors survive; anything that would move the cursor or change
// the state of the real terminal is dropped.
package sanitize

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const esc = 0x1b

// RunOutput keeps SGR color sequences and drops other escape sequences.
// Cursor-forward (CUF) and column-absolute (CHA) moves become spaces so that
// side-by-side layouts stay readable. Line endings are normalized to LF and
// backspaces erase the previous rune of the line.
func RunOutput(in string) string {
	var b strings.Builder
	b.Grow(len(in))
	for i := 0; i < len(in); {
		c := in[i]
		switch {
		case c == '\r':
			b.WriteByte('\n')
			i++
			if i < len(in) && in[i] == '\n' {
				i++
			}
		case c == '\b':
			eraseRune(&b)
			i++
		case c == esc && i+1 < len(in):
			i = escape(&b, in, i)
		case c == esc:
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// escape handles the sequence starting at in[i] and returns the index after it.
func escape(b *strings.Builder, in string, i int) int {
	switch in[i+1] {
	case '[':
		end := i + 2
		for end < len(in) && (in[end] >= '0' && in[end] <= '9' || in[end] == ';' || in[end] == '?') {
			end++
		}
		if end >= len(in) {
			return len(in)
		}
		b.WriteString(csi(in[i : end+1]))
		return end + 1
	case ']':
		// OSC ends with BEL or ESC \
		for j := i + 2; j < len(in); j++ {
			if in[j] == 0x07 {
				return j + 1
			}
			if in[j] == esc && j+1 < len(in) && in[j+1] == '\\' {
				return j + 2
			}
		}
		return len(in)
	case '(', ')':
		// charset designation carries one more byte
		return min(i+3, len(in))
	default:
		return i + 2
	}
}

func csi(seq string) string {
	switch seq[len(seq)-1] {
	case 'm':
		return seq
	case 'C':
		return strings.Repeat(" ", param(seq, 1))
	case 'G':
		// the column is unknown to a streaming filter
		return "  "
	}
	return ""
}

// param returns the first numeric parameter of a CSI sequence or def.
func param(seq string, def int) int {
	body := strings.TrimLeft(seq[2:len(seq)-1], "?")
	if first, _, ok := strings.Cut(body, ";"); ok {
		body = first
	}
	if n, err := strconv.Atoi(body); err == nil && n > 0 {
		return n
	}
	return def
}

func eraseRune(b *strings.Builder) {
	s := b.String()
	if s == "" || s[len(s)-1] == '\n' {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s)
	s = s[:len(s)-size]
	b.Reset()
	b.WriteString(s)
}

// LastLines returns the last n lines of s. n <= 0 returns s unchanged.
func LastLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	trimmed := strings.TrimSuffix(s, "\n")
	idx := len(trimmed)
	for ; n > 0; n-- {
		idx = strings.LastIndexByte(trimmed[:idx], '\n')
		if idx < 0 {
			return s
		}
	}
	return s[idx+1:]
}
