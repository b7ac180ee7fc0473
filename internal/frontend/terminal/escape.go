package terminal

import "time"

// escapeTimeout is the time to wait for further bytes after an Escape
// before it counts as a key press of its own. Arrow and function keys send
// sequences starting with Escape that arrive at once.
const escapeTimeout = 50 * time.Millisecond

// escapeState tracks terminal escape sequences in the input stream.
type escapeState uint8

const (
	escapeNone  escapeState = iota
	escapeStart             // ESC received
	escapeCSI               // ESC [ received, bytes follow until a final byte
	escapeSS3               // ESC O received, a single final byte follows
)

// next returns the state after receiving b and whether b is part of an
// escape sequence.
func (s escapeState) next(b byte) (escapeState, bool) {
	switch s {
	case escapeStart:
		switch b {
		case '[':
			return escapeCSI, true
		case 'O':
			return escapeSS3, true
		default:
			return escapeNone, true // alt modified key
		}

	case escapeCSI:
		if b >= 0x40 && b <= 0x7E {
			return escapeNone, true
		}
		return escapeCSI, true

	case escapeSS3:
		return escapeNone, true

	default:
		if b == keyEscape {
			return escapeStart, true
		}
		return escapeNone, false
	}
}
