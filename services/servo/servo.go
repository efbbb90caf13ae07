// services/servo/servo.go
package servo

import (
	"companioncode-go/services/diag"
	"companioncode-go/types"
	"companioncode-go/x/mathx"
)

// PulseWriter commands one servo channel as a pulse width in
// microseconds. tinygo.org/x/drivers/servo.Servo satisfies it directly;
// tests use a recording fake. Each axis owns its writer exclusively.
type PulseWriter interface {
	SetMicroseconds(us int16) error
}

// Hard safety bounds applied after the configured pulse range, so a bad
// tuning cannot command a pulse that stalls or damages the actuator.
const (
	pulseFloorUs   = 500
	pulseCeilingUs = 2500
)

// Axis converts pixel-space tracking error into a bounded, smoothed,
// trimmed angle and writes the resulting pulse. Angles live in
// [-90,+90] degrees around the mechanical neutral.
type Axis struct {
	tuning   types.AxisTuning
	angleDeg float32
	out      PulseWriter
}

func NewAxis(tuning types.AxisTuning, out PulseWriter) *Axis {
	return &Axis{tuning: tuning, out: out}
}

func (a *Axis) Angle() float32           { return a.angleDeg }
func (a *Axis) Tuning() types.AxisTuning { return a.tuning }

func (a *Axis) SetTuning(t types.AxisTuning) {
	a.tuning = t
	// Re-clamp so the angle invariant survives a narrowed range.
	a.angleDeg = mathx.Clamp(a.angleDeg, t.MinDeg, t.MaxDeg)
}

// Track applies one closed-loop update from a raw pixel error.
func (a *Axis) Track(errPx float32) {
	e := errPx
	if a.tuning.Invert {
		e = -e
	}
	if mathx.Abs(e) <= a.tuning.DeadzonePx {
		e = 0
	}
	target := mathx.Clamp(a.angleDeg+e*a.tuning.GainDegPerPx, a.tuning.MinDeg, a.tuning.MaxDeg)
	a.angleDeg += (target - a.angleDeg) * a.tuning.Smoothing
	a.apply()
}

// Set commands an absolute angle (calibration path): clamp, no
// inversion, no deadzone, no smoothing.
func (a *Axis) Set(deg float32) {
	a.angleDeg = mathx.Clamp(deg, a.tuning.MinDeg, a.tuning.MaxDeg)
	a.apply()
}

// Center returns the axis to mechanical neutral (0 degrees plus trim).
func (a *Axis) Center() { a.Set(0) }

func (a *Axis) apply() {
	_ = a.out.SetMicroseconds(int16(a.PulseUs()))
}

// PulseUs reports the pulse currently commanded for the axis angle.
func (a *Axis) PulseUs() uint16 {
	return AngleToPulseUs(a.angleDeg+a.tuning.TrimDeg, a.tuning)
}

// AngleToPulseUs maps an angle (with trim already applied) onto the
// configured pulse range: [-90,+90] shifts to [0,180], interpolates
// linearly into [MinPulseUs,MaxPulseUs], then the hard safety clamp.
func AngleToPulseUs(angleDeg float32, t types.AxisTuning) uint16 {
	a180 := mathx.Clamp(angleDeg+90, 0, 180)
	pulse := mathx.MapF32(a180, 0, 180, float32(t.MinPulseUs), float32(t.MaxPulseUs))
	return uint16(mathx.Clamp(pulse, pulseFloorUs, pulseCeilingUs))
}

// -----------------------------------------------------------------------------
// Controller
// -----------------------------------------------------------------------------

// Controller pairs the yaw and pitch axes behind the command surface the
// dispatcher drives.
type Controller struct {
	yaw   *Axis
	pitch *Axis
	log   *diag.Logger
}

func New(cfg types.ServoConfig, yawOut, pitchOut PulseWriter, log *diag.Logger) *Controller {
	return &Controller{
		yaw:   NewAxis(cfg.Yaw, yawOut),
		pitch: NewAxis(cfg.Pitch, pitchOut),
		log:   log,
	}
}

func (c *Controller) Yaw() *Axis   { return c.yaw }
func (c *Controller) Pitch() *Axis { return c.pitch }

// Begin drives both axes to neutral.
func (c *Controller) Begin() {
	c.Center()
	c.log.Infof("servo: pulses y=%d p=%d us at center",
		c.yaw.PulseUs(), c.pitch.PulseUs())
}

func (c *Controller) Center() {
	c.yaw.Center()
	c.pitch.Center()
}

// SetAngles is the absolute calibration path.
func (c *Controller) SetAngles(yawDeg, pitchDeg float32) {
	c.yaw.Set(yawDeg)
	c.pitch.Set(pitchDeg)
	c.log.Debugf("servo abs: yaw=%v pitch=%v", c.yaw.Angle(), c.pitch.Angle())
}

// UpdateFromError is the closed-loop tracking path. dtMs is accepted for
// wire compatibility; the first-order filter is tick-based and does not
// use it.
func (c *Controller) UpdateFromError(dxPx, dyPx float32, dtMs uint32) {
	c.yaw.Track(dxPx)
	c.pitch.Track(dyPx)
}

func (c *Controller) SetTuning(cfg types.ServoConfig) {
	c.yaw.SetTuning(cfg.Yaw)
	c.pitch.SetTuning(cfg.Pitch)
	c.log.Infof("servo tuning: gain y=%v p=%v smooth y=%v p=%v",
		cfg.Yaw.GainDegPerPx, cfg.Pitch.GainDegPerPx,
		cfg.Yaw.Smoothing, cfg.Pitch.Smoothing)
}
