// services/overlay/overlay.go
package overlay

import "companioncode-go/types"

// State holds the host-pushed overlay strips drawn on top of the face:
// a clock line, a weather line, and a transient text banner that clears
// itself after a timeout.
//
// Setters run from the command dispatcher and carry no clock; the
// banner timestamp is stamped on the next Tick so expiry stays
// deterministic under test.
type State struct {
	cfg types.OverlayConfig

	timeText    string
	weatherText string

	text        string
	textSetAtMs int64
	textPending bool

	dirty bool
}

func New(cfg types.OverlayConfig) *State {
	return &State{cfg: cfg}
}

func (s *State) SetConfig(cfg types.OverlayConfig) { s.cfg = cfg }

func (s *State) TimeText() string    { return s.timeText }
func (s *State) WeatherText() string { return s.weatherText }
func (s *State) Text() string        { return s.text }

func (s *State) SetTime(text string) {
	if text == s.timeText {
		return
	}
	s.timeText = text
	s.dirty = true
}

func (s *State) SetWeather(text string) {
	if text == s.weatherText {
		return
	}
	s.weatherText = text
	s.dirty = true
}

// SetText shows a transient banner. An empty string clears it
// immediately; anything else restarts the expiry clock.
func (s *State) SetText(text string) {
	s.text = text
	s.textPending = text != ""
	s.dirty = true
}

// Tick stamps a freshly set banner and expires a stale one. It reports
// whether anything changed since the last call, for the render gate.
func (s *State) Tick(nowMs int64) bool {
	if s.textPending {
		s.textSetAtMs = nowMs
		s.textPending = false
	} else if s.text != "" && nowMs-s.textSetAtMs >= s.cfg.TextTimeoutMs {
		s.text = ""
		s.dirty = true
	}
	changed := s.dirty
	s.dirty = false
	return changed
}
