// services/link/client.go
package link

import (
	"encoding/json"

	"companioncode-go/errcode"
	"companioncode-go/services/diag"
	"companioncode-go/types"
)

// Port is the byte-level surface the client needs from a transport. The
// rp2 build satisfies it with a uartx UART; the Bluetooth variant with a
// NUS peripheral; tests with an in-memory pipe.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// Event is an outbound protocol message: one JSON object per line.
type Event struct {
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

// Client drains a Port into complete protocol lines and maintains the
// liveness state around it: receive timestamps, keep-alive emission and
// the silence watchdog. All methods run on the control goroutine.
type Client struct {
	name string
	port Port
	asm  *Assembler
	cfg  types.LinkConfig
	log  *diag.Logger

	keepAlive bool
	watchdog  bool
	restart   func()

	lastRecvMs  int64
	lastHelloMs int64

	// tripped latches the watchdog so a continued silence episode cannot
	// fire a second restart before the first one takes effect.
	tripped bool

	began bool
}

// NewSerial builds the serial-variant client: handshake on Begin,
// periodic keep-alive pings and a fail-fast restart after prolonged
// silence. restart must not return control to the caller in production;
// in tests it is a recording stub.
func NewSerial(port Port, cfg types.LinkConfig, restart func(), log *diag.Logger) *Client {
	c := newClient("serial", port, cfg, log)
	c.keepAlive = true
	c.watchdog = true
	c.restart = restart
	return c
}

// NewBluetooth builds the Bluetooth-variant client. Peer liveness is
// connection-scoped there, so neither the keep-alive emitter nor the
// watchdog runs; framing and overflow policy are identical.
func NewBluetooth(port Port, cfg types.LinkConfig, log *diag.Logger) *Client {
	return newClient("bt", port, cfg, log)
}

func newClient(name string, port Port, cfg types.LinkConfig, log *diag.Logger) *Client {
	if cfg.MaxLine <= 0 {
		cfg.MaxLine = defaultMaxLine
	}
	if cfg.RecentMs <= 0 {
		cfg.RecentMs = 3000
	}
	if cfg.KeepAliveMs <= 0 {
		cfg.KeepAliveMs = 2000
	}
	if cfg.WatchdogMs <= 0 {
		cfg.WatchdogMs = 5000
	}
	return &Client{
		name: name,
		port: port,
		asm:  NewAssembler(cfg.MaxLine),
		cfg:  cfg,
		log:  log,
	}
}

// Begin announces the device to the host and starts the liveness clocks.
func (c *Client) Begin(nowMs int64) {
	c.began = true
	c.lastRecvMs = nowMs
	c.lastHelloMs = nowMs
	if c.keepAlive {
		_ = c.SendEvent("hello", "ready")
	}
}

// Poll runs one transport tick: emit a keep-alive if due, check the
// watchdog, then drain every buffered byte into complete lines, in
// arrival order. Draining is never partial; every line completed by
// bytes available at poll time is returned.
func (c *Client) Poll(nowMs int64) [][]byte {
	if !c.began {
		return nil
	}

	if c.keepAlive && nowMs-c.lastHelloMs > c.cfg.KeepAliveMs {
		_ = c.SendEvent("hello", "ping")
		c.lastHelloMs = nowMs
	}

	if c.watchdog && !c.tripped && nowMs-c.lastRecvMs > c.cfg.WatchdogMs {
		c.tripped = true
		c.log.Warnf("[%s] host silent for %dms, restarting", c.name, nowMs-c.lastRecvMs)
		if c.restart != nil {
			c.restart()
		}
	}

	var lines [][]byte
	for c.port.Buffered() > 0 {
		b, err := c.port.ReadByte()
		if err != nil {
			break
		}
		c.MarkReceived(nowMs)
		if line, ok := c.asm.Feed(b); ok {
			lines = append(lines, line)
		}
	}
	if n := c.asm.Overflows(); n > 0 {
		c.log.Warnf("[%s] line overflow, dropped %d partial line(s)", c.name, n)
	}
	return lines
}

// MarkReceived records host activity and re-arms the watchdog.
func (c *Client) MarkReceived(nowMs int64) {
	c.lastRecvMs = nowMs
	c.tripped = false
}

// HasRecentInput reports whether a byte arrived within the recent-input
// window ending at nowMs.
func (c *Client) HasRecentInput(nowMs int64) bool {
	return nowMs-c.lastRecvMs < c.cfg.RecentMs
}

// SendEvent writes one newline-terminated JSON event to the port.
func (c *Client) SendEvent(kind, payload string) error {
	raw, err := json.Marshal(Event{Kind: kind, Payload: payload})
	if err != nil {
		return &errcode.E{C: errcode.Error, Op: "link.send", Err: err}
	}
	raw = append(raw, '\n')
	if _, err := c.port.Write(raw); err != nil {
		return &errcode.E{C: errcode.PortWrite, Op: "link.send", Err: err}
	}
	return nil
}

// Name identifies the transport variant ("serial" or "bt").
func (c *Client) Name() string { return c.name }

type noDataError struct{}

func (noDataError) Error() string { return "no data" }

// errNoData is returned by ports whose receive queue is momentarily
// empty despite a positive Buffered count.
var errNoData noDataError
