// cmd/companion/run.go
//
// Shared wiring for the companion firmware. The build-tagged mains
// supply the hardware bindings; everything else is assembled here.
package main

import (
	"context"

	"companioncode-go/bus"
	"companioncode-go/core"
	"companioncode-go/services/command"
	appconfig "companioncode-go/services/config"
	"companioncode-go/services/diag"
	"companioncode-go/services/emotion"
	"companioncode-go/services/energy"
	"companioncode-go/services/heartbeat"
	"companioncode-go/services/link"
	"companioncode-go/services/overlay"
	"companioncode-go/services/power"
	"companioncode-go/services/render"
	"companioncode-go/services/servo"
	"companioncode-go/services/uimode"
	"companioncode-go/types"
)

// board is the per-target hardware binding.
type board struct {
	device string // embedded config key

	serialPort link.Port // line transport with keepalive+watchdog; nil if absent
	btPort     link.Port // transport without liveness policy; nil if absent

	backlight  power.Backlight
	yawOut     servo.PulseWriter
	pitchOut   servo.PulseWriter
	canvas     render.Canvas
	menu       core.MenuProbe
	restart    func()
	suspend    func(ms int64)
}

func run(ctx context.Context, b board) {
	log := diag.New()

	cfg, err := appconfig.Load(b.device)
	if err != nil {
		log.Warnf("config: %s, running on defaults", err.Error())
	}

	mbus := bus.NewBus(8)
	appconfig.NewConfigService().Start(
		context.WithValue(ctx, appconfig.CtxDeviceKey, b.device),
		mbus.NewConnection("config"),
	)
	_ = (&heartbeat.Service{}).Start(ctx, mbus.NewConnection("heartbeat"))

	display := power.NewDisplay(b.backlight, cfg.Energy.ActiveBrightness, cfg.Energy.DimBrightness)
	en := energy.New(cfg.Energy, display, b.suspend, log)

	ov := overlay.New(cfg.Overlay)
	engine := render.NewEngine(b.canvas, ov)
	faces := emotion.NewEngine(engine, log)

	mode := uimode.New(display, log, func() diag.Sink { return engine })

	sctl := servo.New(cfg.Servo, b.yawOut, b.pitchOut, log)
	sctl.Begin()

	var clients []*link.Client
	if b.serialPort != nil {
		clients = append(clients, link.NewSerial(b.serialPort, cfg.Link, b.restart, log))
	}
	if b.btPort != nil {
		clients = append(clients, link.NewBluetooth(b.btPort, cfg.Link, log))
	}
	if sc := firstSerial(clients); sc != nil {
		log.SetEcho(func(level types.LogLevel, msg string) {
			_ = sc.SendEvent("log", "["+level.String()+"] "+msg)
		})
	}

	disp := command.New(ov, faces, sctl, mode, log, log)

	loop := core.NewLoop(clients, disp, ov, mode, en, engine, b.menu,
		mbus.NewConnection("core"), log)
	loop.Run(ctx)
}

func firstSerial(clients []*link.Client) *link.Client {
	for _, c := range clients {
		if c.Name() == "serial" {
			return c
		}
	}
	return nil
}
