// services/overlay/overlay_test.go
package overlay

import (
	"testing"

	"companioncode-go/types"
)

func newTestState() *State {
	return New(types.DefaultOverlayConfig()) // 5000ms banner timeout
}

func TestBannerExpiresAfterTimeout(t *testing.T) {
	s := newTestState()
	s.SetText("hello")
	s.Tick(1000) // stamped at 1000

	s.Tick(5999)
	if got := s.Text(); got != "hello" {
		t.Fatalf("banner gone early: %q", got)
	}
	if !s.Tick(6000) {
		t.Fatal("expiry did not report a change")
	}
	if got := s.Text(); got != "" {
		t.Fatalf("banner still present after timeout: %q", got)
	}
}

func TestBannerClockStartsAtStampNotAtSet(t *testing.T) {
	// The setter carries no clock; the next Tick stamps it.
	s := newTestState()
	s.SetText("late stamp")
	s.Tick(10000)
	s.Tick(14999)
	if s.Text() == "" {
		t.Fatal("expired relative to set time instead of stamp time")
	}
	s.Tick(15000)
	if s.Text() != "" {
		t.Fatal("did not expire relative to stamp time")
	}
}

func TestResettingBannerRestartsExpiry(t *testing.T) {
	s := newTestState()
	s.SetText("first")
	s.Tick(0)
	s.SetText("second")
	s.Tick(4000) // restamped

	s.Tick(8999)
	if got := s.Text(); got != "second" {
		t.Fatalf("banner = %q, want second still visible", got)
	}
	s.Tick(9000)
	if s.Text() != "" {
		t.Fatal("second banner did not expire on its own clock")
	}
}

func TestEmptyTextClearsImmediately(t *testing.T) {
	s := newTestState()
	s.SetText("visible")
	s.Tick(0)
	s.SetText("")
	if s.Text() != "" {
		t.Fatal("empty set did not clear banner")
	}
	// And the clear must not be resurrected or re-expire later.
	if !s.Tick(100) {
		t.Fatal("clear did not report a change")
	}
	if s.Tick(20000) {
		t.Fatal("spurious change after clear")
	}
}

func TestTickReportsChangesExactlyOnce(t *testing.T) {
	s := newTestState()
	s.SetTime("12:30")
	s.SetWeather("Sunny 21C")
	if !s.Tick(0) {
		t.Fatal("setters did not mark state dirty")
	}
	if s.Tick(10) {
		t.Fatal("unchanged state reported dirty")
	}

	// Re-setting identical strips is not a change.
	s.SetTime("12:30")
	s.SetWeather("Sunny 21C")
	if s.Tick(20) {
		t.Fatal("identical strips reported dirty")
	}
}
