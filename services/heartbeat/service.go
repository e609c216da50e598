// Package heartbeat emits a periodic liveness beat on the bus so bench
// tooling can tell a wedged controller from a quiet one.
package heartbeat

import (
	"context"
	"time"

	"envmon-go/bus"
	"envmon-go/types"
	"envmon-go/x/timex"
)

var (
	topicBeat            = bus.T("heartbeat")
	topicConfigHeartbeat = bus.T("config", "heartbeat")
)

type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	start := timex.NowMs()
	var seq uint32

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case <-tick.C:
			seq++
			conn.Publish(conn.NewMessage(topicBeat, types.Heartbeat{
				Seq:      seq,
				UptimeMs: timex.SinceMs(timex.NowMs(), start),
			}, true))
		case msg := <-cfgSub.Channel():
			m, ok := msg.Payload.(map[string]any)
			if !ok {
				continue
			}
			switch iv := m["interval"].(type) {
			case float64:
				if iv > 0 {
					tick.Reset(time.Duration(iv) * time.Second)
				}
			case int:
				if iv > 0 {
					tick.Reset(time.Duration(iv) * time.Second)
				}
			}
		}
	}
}

// Start launches the heartbeat publisher.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
