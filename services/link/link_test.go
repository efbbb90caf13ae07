// services/link/link_test.go
package link

import (
	"bytes"
	"strings"
	"testing"

	"companioncode-go/services/diag"
	"companioncode-go/types"
)

type fakePort struct {
	rx []byte
	tx bytes.Buffer
}

func (p *fakePort) Buffered() int { return len(p.rx) }

func (p *fakePort) ReadByte() (byte, error) {
	if len(p.rx) == 0 {
		return 0, errNoData
	}
	b := p.rx[0]
	p.rx = p.rx[1:]
	return b, nil
}

func (p *fakePort) Write(b []byte) (int, error) { return p.tx.Write(b) }

func (p *fakePort) feed(s string) { p.rx = append(p.rx, s...) }

func testCfg() types.LinkConfig { return types.DefaultLinkConfig() }

// -----------------------------------------------------------------------------
// Assembler
// -----------------------------------------------------------------------------

func TestAssembler_BufferNeverExceedsCap(t *testing.T) {
	a := NewAssembler(1024)
	for i := 0; i < 5000; i++ {
		if _, ok := a.Feed('x'); ok {
			t.Fatalf("unexpected line at byte %d", i)
		}
		if a.Len() > 1024 {
			t.Fatalf("buffer grew to %d bytes", a.Len())
		}
	}
	// 4 full lines discarded (4*1025 bytes consumed per discard cycle:
	// 1024 buffered + 1 dropped), remainder still buffered.
	if got := a.Overflows(); got != 4 {
		t.Fatalf("overflows = %d, want 4", got)
	}
	line, ok := a.Feed('\n')
	if !ok {
		t.Fatal("expected remainder line after newline")
	}
	if len(line) == 0 || len(line) > 1024 {
		t.Fatalf("remainder line length %d out of range", len(line))
	}
}

func TestAssembler_TrimsCarriageReturn(t *testing.T) {
	a := NewAssembler(64)
	var got []byte
	for _, b := range []byte("abc\r\n") {
		if line, ok := a.Feed(b); ok {
			got = line
		}
	}
	if string(got) != "abc" {
		t.Fatalf("line = %q, want %q", got, "abc")
	}
}

func TestAssembler_EmptyLinesDropped(t *testing.T) {
	a := NewAssembler(64)
	for _, b := range []byte("\n\r\n\n") {
		if line, ok := a.Feed(b); ok {
			t.Fatalf("unexpected line %q from blank input", line)
		}
	}
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

func TestClient_PollDrainsAllCompleteLinesInOrder(t *testing.T) {
	p := &fakePort{}
	c := NewBluetooth(p, testCfg(), diag.New())
	c.Begin(0)

	p.feed(`{"kind":"time","payload":"12:00"}` + "\n" + `{"kind":"hello"}` + "\npartial")
	lines := c.Poll(10)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(string(lines[0]), `"time"`) {
		t.Fatalf("first line out of order: %q", lines[0])
	}
	if !strings.Contains(string(lines[1]), `"hello"`) {
		t.Fatalf("second line out of order: %q", lines[1])
	}

	// The partial tail completes on a later poll.
	p.feed("\n")
	lines = c.Poll(20)
	if len(lines) != 1 || string(lines[0]) != "partial" {
		t.Fatalf("tail line = %v", lines)
	}
}

func TestClient_HasRecentInputWindow(t *testing.T) {
	p := &fakePort{}
	c := NewBluetooth(p, testCfg(), diag.New())
	c.Begin(0)

	c.MarkReceived(1000)
	if !c.HasRecentInput(1000) {
		t.Fatal("input at t should be recent at t")
	}
	if !c.HasRecentInput(3999) {
		t.Fatal("input should still be recent at +2999ms")
	}
	if c.HasRecentInput(4000) {
		t.Fatal("input must not be recent at exactly +3000ms")
	}
}

func TestSerial_HandshakeOnBegin(t *testing.T) {
	p := &fakePort{}
	c := NewSerial(p, testCfg(), func() {}, diag.New())
	c.Begin(0)

	want := `{"kind":"hello","payload":"ready"}` + "\n"
	if p.tx.String() != want {
		t.Fatalf("handshake = %q, want %q", p.tx.String(), want)
	}
}

func TestSerial_KeepAliveCadence(t *testing.T) {
	p := &fakePort{}
	c := NewSerial(p, testCfg(), func() {}, diag.New())
	c.Begin(0)
	p.tx.Reset()

	c.Poll(1999)
	if p.tx.Len() != 0 {
		t.Fatalf("ping sent too early: %q", p.tx.String())
	}

	c.Poll(2001)
	if !strings.Contains(p.tx.String(), `"ping"`) {
		t.Fatalf("expected ping after 2s, got %q", p.tx.String())
	}

	p.tx.Reset()
	c.Poll(2002)
	if p.tx.Len() != 0 {
		t.Fatalf("duplicate ping within interval: %q", p.tx.String())
	}
}

func TestSerial_WatchdogFiresExactlyOncePerSilence(t *testing.T) {
	p := &fakePort{}
	restarts := 0
	c := NewSerial(p, testCfg(), func() { restarts++ }, diag.New())
	c.Begin(0)

	c.Poll(4999)
	if restarts != 0 {
		t.Fatal("watchdog fired before threshold")
	}

	c.Poll(5001)
	if restarts != 1 {
		t.Fatalf("restarts = %d, want 1", restarts)
	}

	// Continued silence must not fire again.
	c.Poll(6000)
	c.Poll(9000)
	if restarts != 1 {
		t.Fatalf("restarts = %d after continued silence, want 1", restarts)
	}

	// Activity re-arms the watchdog; a fresh silence episode fires once more.
	p.feed("x")
	c.Poll(9500)
	c.Poll(15000)
	if restarts != 2 {
		t.Fatalf("restarts = %d after second silence, want 2", restarts)
	}
}

func TestBluetooth_NoKeepAliveNoWatchdog(t *testing.T) {
	p := &fakePort{}
	c := NewBluetooth(p, testCfg(), diag.New())
	c.Begin(0)

	c.Poll(60000)
	if p.tx.Len() != 0 {
		t.Fatalf("bt variant wrote %q unprompted", p.tx.String())
	}
}
