// services/command/command_test.go
package command

import (
	"testing"

	"companioncode-go/errcode"
	"companioncode-go/services/diag"
)

type fakeOverlay struct {
	timeText, weatherText, text string
}

func (f *fakeOverlay) SetTime(s string)    { f.timeText = s }
func (f *fakeOverlay) SetWeather(s string) { f.weatherText = s }
func (f *fakeOverlay) SetText(s string)    { f.text = s }

type fakeFaces struct {
	applied []string
}

func (f *fakeFaces) Apply(name string) { f.applied = append(f.applied, name) }

type servoCall struct {
	op   string
	a, b float32
	dt   uint32
}

type fakeServo struct {
	calls []servoCall
}

func (f *fakeServo) UpdateFromError(dx, dy float32, dt uint32) {
	f.calls = append(f.calls, servoCall{op: "track", a: dx, b: dy, dt: dt})
}

func (f *fakeServo) SetAngles(yaw, pitch float32) {
	f.calls = append(f.calls, servoCall{op: "set", a: yaw, b: pitch})
}

type fakeMode struct {
	names []string
}

func (f *fakeMode) SetByName(name string) { f.names = append(f.names, name) }

type fakeLogSwitch struct {
	on bool
	n  int
}

func (f *fakeLogSwitch) EnableLinkEcho(on bool) { f.on = on; f.n++ }

type fixture struct {
	d       *Dispatcher
	overlay *fakeOverlay
	faces   *fakeFaces
	servo   *fakeServo
	mode    *fakeMode
	logSw   *fakeLogSwitch
}

func newFixture() *fixture {
	f := &fixture{
		overlay: &fakeOverlay{},
		faces:   &fakeFaces{},
		servo:   &fakeServo{},
		mode:    &fakeMode{},
		logSw:   &fakeLogSwitch{},
	}
	f.d = New(f.overlay, f.faces, f.servo, f.mode, f.logSw, diag.New())
	return f
}

func TestDispatch_StringPayloadKinds(t *testing.T) {
	f := newFixture()
	lines := []string{
		`{"kind":"time","payload":"12:30"}`,
		`{"kind":"weather","payload":"Sunny 21C"}`,
		`{"kind":"text","payload":"Timer done"}`,
		`{"kind":"emotion","payload":"Happy"}`,
		`{"kind":"mode","payload":"run"}`,
	}
	for _, l := range lines {
		if err := f.d.Dispatch([]byte(l)); err != nil {
			t.Fatalf("Dispatch(%s): %v", l, err)
		}
	}

	if f.overlay.timeText != "12:30" || f.overlay.weatherText != "Sunny 21C" || f.overlay.text != "Timer done" {
		t.Fatalf("overlay = %+v", f.overlay)
	}
	if len(f.faces.applied) != 1 || f.faces.applied[0] != "Happy" {
		t.Fatalf("faces = %v", f.faces.applied)
	}
	if len(f.mode.names) != 1 || f.mode.names[0] != "run" {
		t.Fatalf("mode = %v", f.mode.names)
	}
}

func TestDispatch_TrackCommand(t *testing.T) {
	f := newFixture()
	line := `{"kind":"track","payload":{"dx_px":50.5,"dy_px":-12,"dt_ms":33}}`
	if err := f.d.Dispatch([]byte(line)); err != nil {
		t.Fatal(err)
	}
	want := servoCall{op: "track", a: 50.5, b: -12, dt: 33}
	if len(f.servo.calls) != 1 || f.servo.calls[0] != want {
		t.Fatalf("servo calls = %+v, want %+v", f.servo.calls, want)
	}
}

func TestDispatch_TrackMissingFieldsDefaultToZero(t *testing.T) {
	f := newFixture()
	if err := f.d.Dispatch([]byte(`{"kind":"track","payload":{"dx_px":7}}`)); err != nil {
		t.Fatal(err)
	}
	want := servoCall{op: "track", a: 7}
	if f.servo.calls[0] != want {
		t.Fatalf("servo call = %+v, want %+v", f.servo.calls[0], want)
	}
}

func TestDispatch_AbsoluteServoCommand(t *testing.T) {
	f := newFixture()
	if err := f.d.Dispatch([]byte(`{"kind":"servo","payload":{"yaw":15,"pitch":-10}}`)); err != nil {
		t.Fatal(err)
	}
	want := servoCall{op: "set", a: 15, b: -10}
	if len(f.servo.calls) != 1 || f.servo.calls[0] != want {
		t.Fatalf("servo calls = %+v, want %+v", f.servo.calls, want)
	}
}

func TestDispatch_LogSwitch(t *testing.T) {
	f := newFixture()
	f.d.Dispatch([]byte(`{"kind":"log","payload":"on"}`))
	if !f.logSw.on {
		t.Fatal("echo not enabled")
	}
	f.d.Dispatch([]byte(`{"kind":"log","payload":"off"}`))
	if f.logSw.on {
		t.Fatal("echo not disabled")
	}
	// Any payload other than "on" means off.
	f.d.Dispatch([]byte(`{"kind":"log","payload":"on "}`))
	if f.logSw.on {
		t.Fatal(`echo enabled by payload other than "on"`)
	}
}

func TestDispatch_HelloIsAccepted(t *testing.T) {
	f := newFixture()
	if err := f.d.Dispatch([]byte(`{"kind":"hello","payload":"ping"}`)); err != nil {
		t.Fatalf("hello rejected: %v", err)
	}
}

func TestDispatch_MalformedJSONIsDroppedWithoutSideEffects(t *testing.T) {
	f := newFixture()
	err := f.d.Dispatch([]byte(`{"kind":"time","payload":`))
	if errcode.Of(err) != errcode.DecodeFailed {
		t.Fatalf("error code = %v, want decode_failed", errcode.Of(err))
	}
	if f.overlay.timeText != "" || len(f.servo.calls) != 0 {
		t.Fatal("malformed line had side effects")
	}
}

func TestDispatch_UnknownKindIsReportedButHarmless(t *testing.T) {
	f := newFixture()
	err := f.d.Dispatch([]byte(`{"kind":"volume","payload":"11"}`))
	if errcode.Of(err) != errcode.UnknownKind {
		t.Fatalf("error code = %v, want unknown_kind", errcode.Of(err))
	}
}

func TestDispatch_MistypedStringPayloadBecomesEmpty(t *testing.T) {
	f := newFixture()
	f.d.Dispatch([]byte(`{"kind":"text","payload":42}`))
	if f.overlay.text != "" {
		t.Fatalf("text = %q, want empty for mistyped payload", f.overlay.text)
	}
	f.d.Dispatch([]byte(`{"kind":"mode"}`))
	if len(f.mode.names) != 1 || f.mode.names[0] != "" {
		t.Fatalf("mode names = %v, want one empty entry", f.mode.names)
	}
}
