// services/uimode/uimode.go
package uimode

import (
	"companioncode-go/services/diag"
	"companioncode-go/services/power"
	"companioncode-go/types"
)

// Machine owns the boot/run/sleep UI mode and the transitions' side
// effects on the display and the on-screen log sink. It starts in
// sleep: the panel stays dark until the host asks for something.
type Machine struct {
	mode    types.UIMode
	display *power.Display
	log     *diag.Logger

	// initScreen builds the on-screen log sink the first time the UI
	// leaves sleep. Display drivers are expensive to bring up, so this
	// is deferred until a mode actually needs the panel.
	initScreen  func() diag.Sink
	screenReady bool
}

func New(display *power.Display, log *diag.Logger, initScreen func() diag.Sink) *Machine {
	return &Machine{
		mode:       types.ModeSleep,
		display:    display,
		log:        log,
		initScreen: initScreen,
	}
}

func (m *Machine) Mode() types.UIMode { return m.mode }

// RenderActive reports whether the full face should be drawn.
func (m *Machine) RenderActive() bool { return m.mode == types.ModeRun }

// StatusOnly reports whether only the boot status lines should be drawn.
func (m *Machine) StatusOnly() bool { return m.mode == types.ModeBoot }

// SetByName switches mode from a host-supplied name. Anything that is
// not "boot" or "run" lands in sleep.
func (m *Machine) SetByName(name string) {
	m.Set(types.ParseUIMode(name))
}

// Set transitions to the given mode, waking or blanking the panel and
// toggling the on-screen log sink as needed. Setting the current mode
// is a no-op.
func (m *Machine) Set(mode types.UIMode) {
	if mode == m.mode {
		return
	}
	prev := m.mode
	m.mode = mode
	m.log.Infof("ui mode %s -> %s", prev.String(), mode.String())

	if mode == types.ModeSleep {
		m.log.EnableScreen(false)
		m.display.Sleep()
		return
	}
	m.ensureScreen()
	m.log.EnableScreen(true)
	m.display.Wake()
}

func (m *Machine) ensureScreen() {
	if m.screenReady || m.initScreen == nil {
		return
	}
	if s := m.initScreen(); s != nil {
		m.log.AttachScreen(s)
	}
	m.screenReady = true
}
