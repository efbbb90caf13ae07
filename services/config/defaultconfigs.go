package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// One JSON document per device ID, overlaid onto the typed defaults at
// load time. Sections may be omitted; omitted fields keep their
// defaults. Key: device ID (same value placed in ctx under
// CtxDeviceKey). Val: raw JSON bytes for that device.
// -----------------------------------------------------------------------------

const cfgCompanion = `{
  "link": {
      "baud": 921600,
      "max_line": 1024,
      "recent_ms": 3000,
      "keepalive_ms": 2000,
      "watchdog_ms": 5000
  },
  "servo": {
      "yaw": {
          "gain_deg_per_px": 0.06,
          "smoothing": 0.25,
          "deadzone_px": 10,
          "invert": true,
          "min_deg": -70,
          "max_deg": 70,
          "trim_deg": 0,
          "min_pulse_us": 500,
          "max_pulse_us": 2400
      },
      "pitch": {
          "gain_deg_per_px": 0.10,
          "smoothing": 0.25,
          "deadzone_px": 10,
          "invert": false,
          "min_deg": -65,
          "max_deg": 65,
          "trim_deg": 0,
          "min_pulse_us": 500,
          "max_pulse_us": 2400
      }
  },
  "energy": {
      "dim_after_ms": 30000,
      "nap_after_ms": 60000,
      "nap_ms": 5000,
      "active_brightness": 20,
      "dim_brightness": 5
  },
  "overlay": {
      "text_timeout_ms": 5000
  },
  "heartbeat": {
      "interval": 30
  }
}`

var embeddedConfigs = map[string][]byte{
	"companion": []byte(cfgCompanion),
}
