//go:build rp2040 || rp2350

// On-hardware exerciser for the message bus. `go test` cannot run on the
// Pico, so this binary repeats the core bus checks on the real scheduler
// and reports over USB CDC: solid LED means all checks passed, blinking
// means at least one failed.
package main

import (
	"context"
	"sort"
	"time"

	"companioncode-go/bus"
	"companioncode-go/x/fmtx"

	"machine"
)

func logf(format string, a ...any) { println(fmtx.Sprintf(format, a...)) }

func expectPayload(sub *bus.Subscription, want string, timeout time.Duration) bool {
	select {
	case got := <-sub.Channel():
		s, ok := got.Payload.(string)
		return ok && s == want
	case <-time.After(timeout):
		return false
	}
}

func expectSilence(sub *bus.Subscription, timeout time.Duration) bool {
	select {
	case <-sub.Channel():
		return false
	case <-time.After(timeout):
		return true
	}
}

func drainStrings(sub *bus.Subscription, n int, deadline time.Time) ([]string, bool) {
	var out []string
	for len(out) < n && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			s, ok := m.Payload.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		case <-time.After(10 * time.Millisecond):
		}
	}
	return out, len(out) == n
}

func sameSet(got, want []string) bool {
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func checkPubSub() bool {
	b := bus.NewBus(4)
	c := b.NewConnection("selftest")
	sub := c.Subscribe(bus.T("config", "link"))
	c.Publish(c.NewMessage(bus.T("config", "link"), "hello", false))
	return expectPayload(sub, "hello", 100*time.Millisecond)
}

func checkRetained() bool {
	b := bus.NewBus(2)
	c := b.NewConnection("selftest")
	c.Publish(b.NewMessage(bus.T("ui", "mode"), "run", true))
	sub := c.Subscribe(bus.T("ui", "mode"))
	return expectPayload(sub, "run", 100*time.Millisecond)
}

func checkSingleWild() bool {
	b := bus.NewBus(16)
	c := b.NewConnection("selftest")

	sMid := c.Subscribe(bus.T("link", "+", "active"))
	sBoth := c.Subscribe(bus.T("link", "+", "+"))
	sTail := c.Subscribe(bus.T("link", "serial", "+"))
	sMiss := c.Subscribe(bus.T("link", "+", "errors"))

	c.Publish(b.NewMessage(bus.T("link", "serial", "active"), "m1", false))
	if !expectPayload(sMid, "m1", 200*time.Millisecond) ||
		!expectPayload(sBoth, "m1", 200*time.Millisecond) ||
		!expectPayload(sTail, "m1", 200*time.Millisecond) ||
		!expectSilence(sMiss, 60*time.Millisecond) {
		return false
	}

	c.Publish(b.NewMessage(bus.T("link", "bt", "rssi"), "m2", false))
	if !expectPayload(sBoth, "m2", 200*time.Millisecond) ||
		!expectSilence(sMid, 60*time.Millisecond) ||
		!expectSilence(sTail, 60*time.Millisecond) {
		return false
	}

	// A two-token topic matches none of the three-token filters.
	c.Publish(b.NewMessage(bus.T("link", "serial"), "m3", false))
	return expectSilence(sMid, 60*time.Millisecond) &&
		expectSilence(sBoth, 60*time.Millisecond) &&
		expectSilence(sTail, 60*time.Millisecond) &&
		expectSilence(sMiss, 60*time.Millisecond)
}

func checkMultiWild() bool {
	b := bus.NewBus(16)
	c := b.NewConnection("selftest")

	sTel := c.Subscribe(bus.T("telemetry", "#"))
	sAll := c.Subscribe(bus.T("#"))
	sUp := c.Subscribe(bus.T("telemetry", "uptime", "#"))
	sExact := c.Subscribe(bus.T("telemetry"))

	c.Publish(b.NewMessage(bus.T("telemetry"), "p1", false))
	if !expectPayload(sTel, "p1", 200*time.Millisecond) ||
		!expectPayload(sAll, "p1", 200*time.Millisecond) ||
		!expectPayload(sExact, "p1", 200*time.Millisecond) ||
		!expectSilence(sUp, 60*time.Millisecond) {
		return false
	}

	c.Publish(b.NewMessage(bus.T("telemetry", "uptime"), "p2", false))
	if !expectPayload(sTel, "p2", 200*time.Millisecond) ||
		!expectPayload(sAll, "p2", 200*time.Millisecond) ||
		!expectPayload(sUp, "p2", 200*time.Millisecond) ||
		!expectSilence(sExact, 60*time.Millisecond) {
		return false
	}

	c.Publish(b.NewMessage(bus.T("telemetry", "uptime", "s"), "p3", false))
	return expectPayload(sTel, "p3", 200*time.Millisecond) &&
		expectPayload(sAll, "p3", 200*time.Millisecond) &&
		expectPayload(sUp, "p3", 200*time.Millisecond) &&
		expectSilence(sExact, 60*time.Millisecond)
}

func checkRetainedWild() bool {
	b := bus.NewBus(32)
	c := b.NewConnection("selftest")

	c.Publish(b.NewMessage(bus.T("config"), "r0", true))
	c.Publish(b.NewMessage(bus.T("config", "link"), "r1", true))
	c.Publish(b.NewMessage(bus.T("config", "link", "baud"), "r2", true))
	c.Publish(b.NewMessage(bus.T("config", "servo"), "r3", true))

	sAll := c.Subscribe(bus.T("config", "#"))
	got, ok := drainStrings(sAll, 4, time.Now().Add(300*time.Millisecond))
	if !ok || !sameSet(got, []string{"r0", "r1", "r2", "r3"}) {
		return false
	}

	sDeep := c.Subscribe(bus.T("config", "+", "#"))
	got, ok = drainStrings(sDeep, 3, time.Now().Add(300*time.Millisecond))
	if !ok || !sameSet(got, []string{"r1", "r2", "r3"}) {
		return false
	}

	sOne := c.Subscribe(bus.T("config", "+"))
	got, ok = drainStrings(sOne, 2, time.Now().Add(300*time.Millisecond))
	return ok && sameSet(got, []string{"r1", "r3"})
}

func checkRetainedClear() bool {
	b := bus.NewBus(16)
	c := b.NewConnection("selftest")

	c.Publish(b.NewMessage(bus.T("config", "link"), "keep", true))
	c.Publish(b.NewMessage(bus.T("config", "servo"), "other", true))
	c.Publish(b.NewMessage(bus.T("config", "link"), nil, true))

	s := c.Subscribe(bus.T("config", "#"))
	got, ok := drainStrings(s, 1, time.Now().Add(300*time.Millisecond))
	return ok && got[0] == "other"
}

func checkRequestWait() bool {
	b := bus.NewBus(8)
	req := b.NewConnection("requester")
	resp := b.NewConnection("responder")

	topic := bus.T("power", "status", "get")
	respSub := resp.Subscribe(topic)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if msg, ok := <-respSub.Channel(); ok {
			resp.Reply(msg, "OK", false)
		}
	}()

	msg := b.NewMessage(topic, nil, false)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	reply, err := req.RequestWait(ctx, msg)
	resp.Unsubscribe(respSub)
	<-done

	if err != nil {
		return false
	}
	if s, ok := reply.Payload.(string); !ok || s != "OK" {
		return false
	}
	if len(msg.ReplyTo) == 0 || len(reply.Topic) != len(msg.ReplyTo) {
		return false
	}
	for i := range reply.Topic {
		if reply.Topic[i] != msg.ReplyTo[i] {
			return false
		}
	}
	return true
}

func checkRequestTimeout() bool {
	b := bus.NewBus(8)
	req := b.NewConnection("requester")

	msg := b.NewMessage(bus.T("service", "noop"), nil, false)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := req.RequestWait(ctx, msg)
	return err != nil
}

func checkRequestManual() bool {
	b := bus.NewBus(8)
	req := b.NewConnection("requester")
	resp := b.NewConnection("responder")

	topic := bus.T("sensor", "read")
	reqSub := resp.Subscribe(topic)
	defer resp.Unsubscribe(reqSub)

	replySub := req.Request(b.NewMessage(topic, nil, false))
	defer req.Unsubscribe(replySub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if msg, ok := <-reqSub.Channel(); ok {
			resp.Reply(msg, 42, false)
		}
	}()

	select {
	case got := <-replySub.Channel():
		v, ok := got.Payload.(int)
		if !ok || v != 42 {
			return false
		}
	case <-time.After(300 * time.Millisecond):
		return false
	}
	<-done
	return true
}

type check struct {
	name string
	fn   func() bool
}

func main() {
	// Give the USB CDC time to enumerate so output shows up reliably.
	time.Sleep(250 * time.Millisecond)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()

	checks := []check{
		{"pubsub", checkPubSub},
		{"retained", checkRetained},
		{"wildcard-single", checkSingleWild},
		{"wildcard-multi", checkMultiWild},
		{"wildcard-retained", checkRetainedWild},
		{"retained-clear", checkRetainedClear},
		{"request-wait", checkRequestWait},
		{"request-timeout", checkRequestTimeout},
		{"request-manual", checkRequestManual},
	}

	passed, failed := 0, 0
	println("== bus self-test starting ==")
	for _, c := range checks {
		if c.fn() {
			logf("[PASS] %s", c.name)
			passed++
		} else {
			logf("[FAIL] %s", c.name)
			failed++
		}
		time.Sleep(10 * time.Millisecond)
	}
	logf("== done: %d passed, %d failed ==", passed, failed)

	if failed == 0 {
		for {
			led.High()
			time.Sleep(2 * time.Second)
		}
	}
	for {
		led.High()
		time.Sleep(250 * time.Millisecond)
		led.Low()
		time.Sleep(250 * time.Millisecond)
	}
}
