//go:build rp2040 || rp2350

// Device build. The JSON link runs over UART0 on the header pins; the
// USB CDC console carries println diagnostics only. Servos sit on
// PWM-capable pins, the panel backlight on its own PWM slice.
package main

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	tgservo "tinygo.org/x/drivers/servo"

	appconfig "companioncode-go/services/config"
	"companioncode-go/x/mathx"
	"companioncode-go/x/timex"
)

const (
	uartTX = machine.GP0
	uartRX = machine.GP1

	yawPin       = machine.GP17 // PWM0 channel B
	pitchPin     = machine.GP26 // PWM5 channel A
	backlightPin = machine.GP20 // PWM2 channel A

	backlightHz = 1000
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("Info: companion booting")

	cfg, err := appconfig.Load("companion")
	if err != nil {
		println("Warn: config:", err.Error())
	}

	if err := uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: cfg.Link.Baud,
		TX:       uartTX,
		RX:       uartRX,
	}); err != nil {
		println("Error: uart0:", err.Error())
	}

	yaw, err := tgservo.New(machine.PWM0, yawPin)
	if err != nil {
		println("Error: yaw servo:", err.Error())
	}
	pitch, err := tgservo.New(machine.PWM5, pitchPin)
	if err != nil {
		println("Error: pitch servo:", err.Error())
	}

	bl, err := newPWMBacklight(machine.PWM2, backlightPin)
	if err != nil {
		println("Error: backlight:", err.Error())
	}

	run(context.Background(), board{
		device:     "companion",
		serialPort: &uartPort{u: uartx.UART0},
		backlight:  bl,
		yawOut:     yaw,
		pitchOut:   pitch,
		canvas:     &consoleCanvas{},
		restart:    machine.CPUReset,
		suspend: func(ms int64) {
			// No light sleep on this part; parking the loop is enough to
			// let the panel stay dark for the nap.
			time.Sleep(time.Duration(ms) * time.Millisecond)
		},
	})
}

// uartPort adapts the interrupt-fed UART to the link port.
type uartPort struct{ u *uartx.UART }

func (p *uartPort) Buffered() int               { return p.u.Buffered() }
func (p *uartPort) ReadByte() (byte, error)     { return p.u.ReadByte() }
func (p *uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmBacklight drives the panel backlight pin, brightness 0..100.
type pwmBacklight struct {
	ctrl pwmCtrl
	ch   uint8
}

func newPWMBacklight(ctrl pwmCtrl, pin machine.Pin) (*pwmBacklight, error) {
	if err := ctrl.Configure(machine.PWMConfig{
		Period: timex.PeriodFromHz(backlightHz),
	}); err != nil {
		return nil, err
	}
	ch, err := ctrl.Channel(pin)
	if err != nil {
		return nil, err
	}
	return &pwmBacklight{ctrl: ctrl, ch: ch}, nil
}

func (b *pwmBacklight) SetBrightness(level uint8) {
	if b == nil {
		return
	}
	top := b.ctrl.Top()
	var duty uint32
	if top <= 0xFFFF {
		duty = uint32(mathx.MapU16(uint16(level), 0, 100, 0, uint16(top)))
	} else {
		duty = uint32(level) * (top / 100)
	}
	b.ctrl.Set(b.ch, duty)
}

// consoleCanvas mirrors the frame onto the USB console until a panel
// driver lands.
type consoleCanvas struct{ rows [8]string }

func (c *consoleCanvas) Clear() {
	for i := range c.rows {
		c.rows[i] = ""
	}
}

func (c *consoleCanvas) Text(row int, s string) {
	if row >= 0 && row < len(c.rows) {
		c.rows[row] = s
	}
}

func (c *consoleCanvas) Present() {
	println("----")
	for _, r := range c.rows {
		if r != "" {
			println(r)
		}
	}
}
