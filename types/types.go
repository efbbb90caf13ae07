package types

// -----------------------------------------------------------------------------
// UI mode
// -----------------------------------------------------------------------------

// UIMode selects which activity paths run on a given tick.
type UIMode uint8

const (
	ModeBoot UIMode = iota
	ModeRun
	ModeSleep
)

func (m UIMode) String() string {
	switch m {
	case ModeBoot:
		return "boot"
	case ModeRun:
		return "run"
	case ModeSleep:
		return "sleep"
	default:
		return "unknown"
	}
}

// ParseUIMode maps a wire string to a mode. Anything that is not "boot"
// or "run" selects Sleep; the protocol treats Sleep as the safe default.
func ParseUIMode(s string) UIMode {
	switch s {
	case "boot":
		return ModeBoot
	case "run":
		return ModeRun
	default:
		return ModeSleep
	}
}

// -----------------------------------------------------------------------------
// Log levels
// -----------------------------------------------------------------------------

type LogLevel uint8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarn:
		return "W"
	case LevelError:
		return "E"
	default:
		return "?"
	}
}
