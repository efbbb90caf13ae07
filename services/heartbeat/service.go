package heartbeat

import (
	"context"
	"time"

	"companioncode-go/bus"
	"companioncode-go/x/timex"
)

var topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}

// Service publishes a retained uptime beat so anything on the bus can
// see the firmware is alive even while the host link is quiet.
type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	start := timex.NowMs()
	beat := func() {
		conn.Publish(&bus.Message{
			Topic:    bus.T("telemetry", "uptime"),
			Payload:  (timex.NowMs() - start) / 1000,
			Retained: true,
		})
	}

	tick := time.NewTicker(30 * time.Second)
	defer tick.Stop()
	beat()

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case <-tick.C:
			beat()
		case msg := <-cfgSub.Channel():
			// Change tick interval if needed
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"]; ok {
					if interval, ok := iv.(float64); ok && interval > 0 {
						tick.Reset(time.Duration(interval) * time.Second)
						println("Info: heartbeat interval set to", int64(interval), "seconds")
					}
				}
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
