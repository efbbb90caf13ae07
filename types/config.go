package types

// -----------------------------------------------------------------------------
// Companion configuration
//
// These structs mirror the embedded per-device JSON published by the
// config service as retained bus messages (one message per section).
// -----------------------------------------------------------------------------

type CompanionConfig struct {
	Link    LinkConfig    `json:"link"`
	Servo   ServoConfig   `json:"servo"`
	Energy  EnergyConfig  `json:"energy"`
	Overlay OverlayConfig `json:"overlay"`
}

// LinkConfig covers the line transport and its liveness policy.
type LinkConfig struct {
	Baud        uint32 `json:"baud"`
	MaxLine     int    `json:"max_line"`     // line accumulator cap, bytes
	RecentMs    int64  `json:"recent_ms"`    // hasRecentInput window
	KeepAliveMs int64  `json:"keepalive_ms"` // min interval between pings
	WatchdogMs  int64  `json:"watchdog_ms"`  // silence before restart (serial)
}

// AxisTuning is the per-axis servo tracking configuration.
type AxisTuning struct {
	GainDegPerPx float32 `json:"gain_deg_per_px"`
	Smoothing    float32 `json:"smoothing"` // 0..1, fraction of error corrected per tick
	DeadzonePx   float32 `json:"deadzone_px"`
	Invert       bool    `json:"invert"`
	MinDeg       float32 `json:"min_deg"`
	MaxDeg       float32 `json:"max_deg"`
	TrimDeg      float32 `json:"trim_deg"`
	MinPulseUs   uint16  `json:"min_pulse_us"`
	MaxPulseUs   uint16  `json:"max_pulse_us"`
}

type ServoConfig struct {
	Yaw   AxisTuning `json:"yaw"`
	Pitch AxisTuning `json:"pitch"`
}

// EnergyConfig drives the activity-based brightness/sleep policy.
type EnergyConfig struct {
	DimAfterMs       int64 `json:"dim_after_ms"`
	NapAfterMs       int64 `json:"nap_after_ms"`
	NapMs            int64 `json:"nap_ms"`
	ActiveBrightness uint8 `json:"active_brightness"`
	DimBrightness    uint8 `json:"dim_brightness"`
}

type OverlayConfig struct {
	TextTimeoutMs int64 `json:"text_timeout_ms"`
}

// -----------------------------------------------------------------------------
// Defaults (values carried over from the shipped device tuning)
// -----------------------------------------------------------------------------

func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		Baud:        921600,
		MaxLine:     1024,
		RecentMs:    3000,
		KeepAliveMs: 2000,
		WatchdogMs:  5000,
	}
}

func DefaultYawTuning() AxisTuning {
	return AxisTuning{
		GainDegPerPx: 0.06,
		Smoothing:    0.25,
		DeadzonePx:   10,
		Invert:       true,
		MinDeg:       -70,
		MaxDeg:       70,
		TrimDeg:      0,
		MinPulseUs:   500,
		MaxPulseUs:   2400,
	}
}

func DefaultPitchTuning() AxisTuning {
	return AxisTuning{
		GainDegPerPx: 0.10,
		Smoothing:    0.25,
		DeadzonePx:   10,
		Invert:       false,
		MinDeg:       -65,
		MaxDeg:       65,
		TrimDeg:      0,
		MinPulseUs:   500,
		MaxPulseUs:   2400,
	}
}

func DefaultServoConfig() ServoConfig {
	return ServoConfig{Yaw: DefaultYawTuning(), Pitch: DefaultPitchTuning()}
}

func DefaultEnergyConfig() EnergyConfig {
	return EnergyConfig{
		DimAfterMs:       30000,
		NapAfterMs:       60000,
		NapMs:            5000,
		ActiveBrightness: 20,
		DimBrightness:    5,
	}
}

func DefaultOverlayConfig() OverlayConfig {
	return OverlayConfig{TextTimeoutMs: 5000}
}

func DefaultCompanionConfig() CompanionConfig {
	return CompanionConfig{
		Link:    DefaultLinkConfig(),
		Servo:   DefaultServoConfig(),
		Energy:  DefaultEnergyConfig(),
		Overlay: DefaultOverlayConfig(),
	}
}
