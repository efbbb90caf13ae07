// services/power/power.go
//
// Single owner of the panel backlight. Every brightness change in the
// system goes through Display so the energy policy and the UI mode
// machine can never race each other over the hardware.
package power

// Backlight is the hardware brightness output, 0 (off) to 100.
type Backlight interface {
	SetBrightness(level uint8)
}

// Display tracks the panel state (on/off, dimmed, active level) and
// funnels all brightness writes through one apply path. Owned by the
// single control goroutine; no locking.
type Display struct {
	out    Backlight
	on     bool
	dimmed bool
	level  uint8 // brightness restored on Wake/Restore
	dimTo  uint8
}

func NewDisplay(out Backlight, activeLevel, dimLevel uint8) *Display {
	return &Display{out: out, level: activeLevel, dimTo: dimLevel}
}

func (d *Display) On() bool     { return d.on }
func (d *Display) Dimmed() bool { return d.dimmed }
func (d *Display) Level() uint8 { return d.level }

// SetLevels updates the configured brightness pair and re-applies the
// current state so a config change takes effect immediately.
func (d *Display) SetLevels(activeLevel, dimLevel uint8) {
	d.level = activeLevel
	d.dimTo = dimLevel
	d.apply()
}

// Wake turns the panel on at the active level.
func (d *Display) Wake() {
	d.on = true
	d.dimmed = false
	d.apply()
}

// Sleep blanks the panel. Dim and Restore are no-ops until Wake.
func (d *Display) Sleep() {
	d.on = false
	d.dimmed = false
	d.apply()
}

// Dim drops to the idle brightness. No-op while the panel is off.
func (d *Display) Dim() {
	if !d.on {
		return
	}
	d.dimmed = true
	d.apply()
}

// Restore returns to the active brightness. No-op while the panel is off.
func (d *Display) Restore() {
	if !d.on {
		return
	}
	d.dimmed = false
	d.apply()
}

func (d *Display) apply() {
	switch {
	case !d.on:
		d.out.SetBrightness(0)
	case d.dimmed:
		d.out.SetBrightness(d.dimTo)
	default:
		d.out.SetBrightness(d.level)
	}
}
