// services/link/assembler.go
package link

// Assembler accumulates raw bytes into newline-delimited lines. The
// buffer never holds more than max bytes: a line that reaches the cap is
// discarded wholesale and accumulation restarts at the next byte. Losing
// an oversized line is acceptable; unbounded growth on a stuck peer is
// not. The overflow policy is identical for every transport variant.
type Assembler struct {
	buf       []byte
	max       int
	overflows uint32
}

const defaultMaxLine = 1024

func NewAssembler(maxLine int) *Assembler {
	if maxLine <= 0 {
		maxLine = defaultMaxLine
	}
	return &Assembler{
		buf: make([]byte, 0, maxLine),
		max: maxLine,
	}
}

// Feed consumes one byte. When the byte completes a non-empty line, Feed
// returns it (without the terminator, trailing '\r' stripped) and true.
// The returned slice is a copy; the caller may retain it.
func (a *Assembler) Feed(b byte) ([]byte, bool) {
	switch b {
	case '\n':
		if len(a.buf) == 0 {
			return nil, false
		}
		line := append([]byte(nil), a.buf...)
		a.buf = a.buf[:0]
		return line, true
	case '\r':
		// ignored; lines may be LF- or CRLF-terminated
		return nil, false
	default:
		if len(a.buf) >= a.max {
			a.buf = a.buf[:0]
			a.overflows++
			return nil, false
		}
		a.buf = append(a.buf, b)
		return nil, false
	}
}

// Len reports the current accumulator length.
func (a *Assembler) Len() int { return len(a.buf) }

// Overflows reports how many partial lines were discarded for exceeding
// the cap, and resets the counter.
func (a *Assembler) Overflows() uint32 {
	n := a.overflows
	a.overflows = 0
	return n
}

// Reset discards any partial line.
func (a *Assembler) Reset() { a.buf = a.buf[:0] }
