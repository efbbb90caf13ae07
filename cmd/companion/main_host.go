//go:build !(rp2040 || rp2350)

// Host build: the protocol runs over stdin/stdout so the companion can
// be driven by hostctl or a pipe; diagnostics and the rendered frame go
// to stderr.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tinygo.org/x/bluetooth"

	"companioncode-go/services/link"
)

func main() {
	device := flag.String("device", "companion", "embedded config key")
	ble := flag.Bool("ble", false, "advertise a Nordic UART Service peripheral")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var btPort link.Port
	if *ble {
		p, err := link.ListenNUS(bluetooth.DefaultAdapter, "companion")
		if err != nil {
			fmt.Fprintln(os.Stderr, "ble unavailable:", err)
		} else {
			btPort = p
		}
	}

	run(ctx, board{
		device:     *device,
		serialPort: newStdioPort(),
		btPort:     btPort,
		backlight:  &printBacklight{},
		yawOut:     &printPulse{axis: "yaw"},
		pitchOut:   &printPulse{axis: "pitch"},
		canvas:     &stderrCanvas{},
		restart: func() {
			fmt.Fprintln(os.Stderr, "restart requested, exiting")
			os.Exit(1)
		},
		suspend: func(ms int64) {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		},
	})
}

// stdioPort adapts stdin/stdout to the link port: a reader goroutine
// keeps a byte queue that Buffered/ReadByte drain without blocking.
type stdioPort struct {
	mu  sync.Mutex
	buf []byte
}

func newStdioPort() *stdioPort {
	p := &stdioPort{}
	go func() {
		tmp := make([]byte, 256)
		for {
			n, err := os.Stdin.Read(tmp)
			if n > 0 {
				p.mu.Lock()
				p.buf = append(p.buf, tmp[:n]...)
				p.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return p
}

func (p *stdioPort) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}

func (p *stdioPort) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) == 0 {
		return 0, fmt.Errorf("no data")
	}
	b := p.buf[0]
	p.buf = p.buf[1:]
	return b, nil
}

func (p *stdioPort) Write(b []byte) (int, error) { return os.Stdout.Write(b) }

type printBacklight struct{ last int16 }

func (b *printBacklight) SetBrightness(level uint8) {
	if int16(level) == b.last {
		return
	}
	b.last = int16(level)
	fmt.Fprintf(os.Stderr, "backlight %d\n", level)
}

type printPulse struct {
	axis string
	last int16
}

func (p *printPulse) SetMicroseconds(us int16) error {
	if us == p.last {
		return nil
	}
	p.last = us
	fmt.Fprintf(os.Stderr, "servo %s %dus\n", p.axis, us)
	return nil
}

// stderrCanvas draws the frame as plain lines.
type stderrCanvas struct{ rows [8]string }

func (c *stderrCanvas) Clear() {
	for i := range c.rows {
		c.rows[i] = ""
	}
}

func (c *stderrCanvas) Text(row int, s string) {
	if row >= 0 && row < len(c.rows) {
		c.rows[row] = s
	}
}

func (c *stderrCanvas) Present() {
	fmt.Fprintln(os.Stderr, "----------------------------------------")
	for _, r := range c.rows {
		if r != "" {
			fmt.Fprintln(os.Stderr, r)
		}
	}
}
