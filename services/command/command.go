// services/command/command.go
//
// JSON line protocol dispatcher. Each inbound line is one object:
//
//	{"kind":"<op>","payload":<string or object>}
//
// String payloads drive the overlay, emotion, mode and log switches;
// object payloads carry the servo commands. Malformed lines and
// unknown kinds are logged and dropped so a misbehaving host can
// never wedge the device.
package command

import (
	"encoding/json"

	"companioncode-go/errcode"
	"companioncode-go/services/diag"
)

// Overlay receives the host-pushed text strips.
type Overlay interface {
	SetTime(text string)
	SetWeather(text string)
	SetText(text string)
}

// Expressions receives face expression requests by name.
type Expressions interface {
	Apply(name string)
}

// Servo receives tracking errors and absolute angle commands.
type Servo interface {
	UpdateFromError(dxPx, dyPx float32, dtMs uint32)
	SetAngles(yawDeg, pitchDeg float32)
}

// ModeSwitch receives UI mode changes by name.
type ModeSwitch interface {
	SetByName(name string)
}

// LogSwitch toggles diagnostic echo onto the transport.
type LogSwitch interface {
	EnableLinkEcho(on bool)
}

type inbound struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type trackPayload struct {
	DxPx float32 `json:"dx_px"`
	DyPx float32 `json:"dy_px"`
	DtMs uint32  `json:"dt_ms"`
}

type anglesPayload struct {
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
}

// Dispatcher routes decoded commands to the owning components.
type Dispatcher struct {
	overlay Overlay
	faces   Expressions
	servo   Servo
	mode    ModeSwitch
	logSw   LogSwitch
	log     *diag.Logger
}

func New(overlay Overlay, faces Expressions, servo Servo, mode ModeSwitch, logSw LogSwitch, log *diag.Logger) *Dispatcher {
	return &Dispatcher{
		overlay: overlay,
		faces:   faces,
		servo:   servo,
		mode:    mode,
		logSw:   logSw,
		log:     log,
	}
}

// Dispatch decodes and executes one protocol line. The returned error
// is diagnostic only; the caller keeps going regardless.
func (d *Dispatcher) Dispatch(line []byte) error {
	var in inbound
	if err := json.Unmarshal(line, &in); err != nil {
		d.log.Errorf("cmd: bad json: %s", err.Error())
		return &errcode.E{C: errcode.DecodeFailed, Op: "cmd.dispatch", Err: err}
	}

	switch in.Kind {
	case "time":
		d.overlay.SetTime(asString(in.Payload))
	case "weather":
		d.overlay.SetWeather(asString(in.Payload))
	case "text":
		d.overlay.SetText(asString(in.Payload))
	case "emotion":
		d.faces.Apply(asString(in.Payload))
	case "mode":
		d.mode.SetByName(asString(in.Payload))
	case "track":
		var p trackPayload
		decodeObject(in.Payload, &p)
		d.servo.UpdateFromError(p.DxPx, p.DyPx, p.DtMs)
	case "servo":
		var p anglesPayload
		decodeObject(in.Payload, &p)
		d.servo.SetAngles(p.Yaw, p.Pitch)
	case "log":
		on := asString(in.Payload) == "on"
		d.logSw.EnableLinkEcho(on)
		if on {
			d.log.Infof("cmd: link log echo on")
		} else {
			d.log.Infof("cmd: link log echo off")
		}
	case "hello":
		// Host keep-alive; receiving the line already fed the watchdog.
	default:
		d.log.Warnf("cmd: unknown kind %q", in.Kind)
		return &errcode.E{C: errcode.UnknownKind, Op: "cmd.dispatch", Msg: in.Kind}
	}
	return nil
}

// asString decodes a string payload, tolerating absent, null, or
// mistyped payloads as the empty string.
func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// decodeObject fills an object payload, leaving missing or mistyped
// fields at their zero values.
func decodeObject(raw json.RawMessage, v any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, v)
}
