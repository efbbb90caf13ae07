// services/energy/energy.go
package energy

import (
	"companioncode-go/services/diag"
	"companioncode-go/services/power"
	"companioncode-go/types"
)

// Coordinator applies the activity-based power policy: dim the panel
// after a quiet spell, take a short light-sleep nap after a longer one,
// and snap back to full brightness the moment the host talks to us.
//
// Owned by the single control goroutine. Time is passed in so the
// policy is testable without a clock.
type Coordinator struct {
	cfg     types.EnergyConfig
	display *power.Display
	log     *diag.Logger

	// suspend parks the device for the given number of milliseconds
	// (light sleep on hardware, injected for tests).
	suspend func(ms int64)

	lastActivityMs int64
	began          bool
}

func New(cfg types.EnergyConfig, display *power.Display, suspend func(ms int64), log *diag.Logger) *Coordinator {
	return &Coordinator{cfg: cfg, display: display, suspend: suspend, log: log}
}

// SetConfig swaps the policy thresholds; the idle clock keeps running.
func (c *Coordinator) SetConfig(cfg types.EnergyConfig) {
	c.cfg = cfg
	c.display.SetLevels(cfg.ActiveBrightness, cfg.DimBrightness)
}

// Tick advances the policy. active reports whether the host produced
// input recently; any activity restores brightness and resets the idle
// clock. A nap counts as handled idleness: the clock restarts at the
// moment the nap ends, so one long silence yields one nap, not a burst.
func (c *Coordinator) Tick(nowMs int64, active bool) {
	if !c.began {
		c.began = true
		c.lastActivityMs = nowMs
	}
	if active {
		c.lastActivityMs = nowMs
		c.display.Restore()
		return
	}

	idle := nowMs - c.lastActivityMs
	if idle > c.cfg.NapAfterMs {
		c.log.Debugf("energy: napping %dms after %dms idle", c.cfg.NapMs, idle)
		c.suspend(c.cfg.NapMs)
		c.display.Restore()
		c.lastActivityMs = nowMs + c.cfg.NapMs
		return
	}
	if idle > c.cfg.DimAfterMs {
		c.display.Dim()
	}
}
