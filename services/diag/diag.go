// services/diag/diag.go
package diag

import (
	"companioncode-go/types"
	"companioncode-go/x/fmtx"
)

// Sink receives formatted diagnostic lines. Implementations must be
// best-effort: never block, never return errors into the core.
type Sink interface {
	Log(level types.LogLevel, msg string)
}

// Logger fans a diagnostic line out to the console, an optional screen
// sink, and an optional transport echo. It is owned by the single control
// goroutine; no locking.
type Logger struct {
	screen   Sink
	screenOn bool

	// echo forwards diagnostics onto the active transport when the host
	// has enabled it with the "log" command.
	echo   func(level types.LogLevel, msg string)
	echoOn bool

	minLevel types.LogLevel
}

func New() *Logger {
	return &Logger{minLevel: types.LevelDebug}
}

// SetMinLevel discards lines below the given level.
func (l *Logger) SetMinLevel(lvl types.LogLevel) { l.minLevel = lvl }

// AttachScreen wires the on-screen sink. First attachment wins; the UI
// mode machine calls this from its idempotent lazy-init path.
func (l *Logger) AttachScreen(s Sink) {
	if l.screen == nil {
		l.screen = s
	}
}

func (l *Logger) EnableScreen(on bool) { l.screenOn = on }
func (l *Logger) ScreenEnabled() bool  { return l.screenOn }
func (l *Logger) ScreenAttached() bool { return l.screen != nil }

// SetEcho installs the transport echo function (injected to avoid a
// dependency cycle with the link package).
func (l *Logger) SetEcho(fn func(level types.LogLevel, msg string)) { l.echo = fn }

// EnableLinkEcho toggles the transport echo; driven by the "log" command.
func (l *Logger) EnableLinkEcho(on bool) { l.echoOn = on }
func (l *Logger) LinkEchoEnabled() bool  { return l.echoOn }

func (l *Logger) Log(level types.LogLevel, msg string) {
	if level < l.minLevel {
		return
	}
	println("["+level.String()+"]", msg)
	if l.screenOn && l.screen != nil {
		l.screen.Log(level, msg)
	}
	if l.echoOn && l.echo != nil {
		l.echo(level, msg)
	}
}

func (l *Logger) Logf(level types.LogLevel, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	l.Log(level, fmtx.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.Logf(types.LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Logf(types.LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Logf(types.LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Logf(types.LevelError, format, args...) }
