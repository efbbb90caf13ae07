// core/loop.go
//
// Single control goroutine. Every component the loop touches is owned
// by it; the only concurrency in the firmware is the bus fan-out for
// telemetry and the transports' own interrupt-fed buffers.
package core

import (
	"context"
	"time"

	"companioncode-go/bus"
	"companioncode-go/services/diag"
	"companioncode-go/services/energy"
	"companioncode-go/services/link"
	"companioncode-go/services/overlay"
	"companioncode-go/services/uimode"
	"companioncode-go/x/timex"
)

const (
	pollPeriod   = 10 * time.Millisecond
	renderGateMs = 100
)

// Dispatcher executes one decoded protocol line.
type Dispatcher interface {
	Dispatch(line []byte) error
}

// Renderer draws one frame (face animation, overlay strips, on-screen
// log). The loop gates calls to the render cadence.
type Renderer interface {
	RenderFace()
	RenderStatus()
}

// MenuProbe reports whether a local button menu covers the screen; the
// loop stops drawing underneath it.
type MenuProbe interface {
	Visible() bool
}

type Loop struct {
	clients []*link.Client
	cmd     Dispatcher
	overlay *overlay.State
	mode    *uimode.Machine
	energy  *energy.Coordinator
	render  Renderer
	menu    MenuProbe
	conn    *bus.Connection
	log     *diag.Logger

	lastRenderMs int64
	lastMode     string
	linkActive   map[string]bool
}

func NewLoop(
	clients []*link.Client,
	cmd Dispatcher,
	ov *overlay.State,
	mode *uimode.Machine,
	en *energy.Coordinator,
	render Renderer,
	menu MenuProbe,
	conn *bus.Connection,
	log *diag.Logger,
) *Loop {
	return &Loop{
		clients:    clients,
		cmd:        cmd,
		overlay:    ov,
		mode:       mode,
		energy:     en,
		render:     render,
		menu:       menu,
		conn:       conn,
		log:        log,
		linkActive: make(map[string]bool),
	}
}

// Begin opens the transports (serial handshake included).
func (l *Loop) Begin(nowMs int64) {
	for _, c := range l.clients {
		c.Begin(nowMs)
	}
	l.log.Infof("core: loop ready, %d transport(s)", len(l.clients))
}

// Tick runs one iteration: drain transports, execute commands in
// arrival order, advance the overlay clock, draw if due, then apply
// the energy policy last so commands executed this tick count as
// activity immediately.
func (l *Loop) Tick(nowMs int64) {
	for _, c := range l.clients {
		for _, line := range c.Poll(nowMs) {
			_ = l.cmd.Dispatch(line)
		}
	}

	l.overlay.Tick(nowMs)

	l.renderIfDue(nowMs)

	active := false
	for _, c := range l.clients {
		recent := c.HasRecentInput(nowMs)
		active = active || recent
		l.publishLinkState(c.Name(), recent)
	}
	l.energy.Tick(nowMs, active)

	l.publishMode()
}

func (l *Loop) renderIfDue(nowMs int64) {
	if l.render == nil {
		return
	}
	if l.menu != nil && l.menu.Visible() {
		return
	}
	if nowMs-l.lastRenderMs < renderGateMs {
		return
	}
	switch {
	case l.mode.RenderActive():
		l.render.RenderFace()
	case l.mode.StatusOnly():
		l.render.RenderStatus()
	default:
		return // asleep, panel dark
	}
	l.lastRenderMs = nowMs
}

// publishLinkState emits retained per-transport liveness for anything
// watching the bus.
func (l *Loop) publishLinkState(name string, recent bool) {
	if l.conn == nil {
		return
	}
	if prev, seen := l.linkActive[name]; seen && prev == recent {
		return
	}
	l.linkActive[name] = recent
	l.conn.Publish(&bus.Message{
		Topic:    bus.T("link", name, "active"),
		Payload:  recent,
		Retained: true,
	})
}

func (l *Loop) publishMode() {
	if l.conn == nil {
		return
	}
	m := l.mode.Mode().String()
	if m == l.lastMode {
		return
	}
	l.lastMode = m
	l.conn.Publish(&bus.Message{
		Topic:    bus.T("ui", "mode"),
		Payload:  m,
		Retained: true,
	})
}

// Run drives Tick at the poll cadence until the context ends.
func (l *Loop) Run(ctx context.Context) {
	l.Begin(timex.NowMs())
	t := time.NewTicker(pollPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Tick(timex.NowMs())
		}
	}
}
