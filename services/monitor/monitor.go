// services/monitor/monitor.go
//
// The monitor service: a keypad-gated environmental watchdog. One
// goroutine ticks the Controller; telemetry goes out on the bus and
// runtime config arrives retained on config/monitor.
package monitor

import (
	"context"
	"time"

	"envmon-go/bus"
	"envmon-go/hw"
	"envmon-go/types"
	"envmon-go/x/conv"
)

var (
	topicState       = bus.T("monitor", "state")
	topicEnvValue    = bus.T("monitor", "env", "value")
	topicLightValue  = bus.T("monitor", "light", "value")
	topicAccessEvent = bus.T("monitor", "access", "event")
	topicConfig      = bus.T("config", "monitor")
)

func topicStatus(channel string) bus.Topic { return bus.T("monitor", "status", channel) }
func topicPinEvent(name string) bus.Topic  { return bus.T("monitor", "event", name) }

// Run drives a fresh Controller at the configured tick until ctx is
// cancelled. Config updates on config/monitor take effect between ticks.
func Run(ctx context.Context, conn *bus.Connection, board *hw.Board, cfg types.MonitorConfig) {
	c := NewController(cfg, board, conn)

	var cfgCh <-chan *bus.Message
	if conn != nil {
		sub := conn.Subscribe(topicConfig)
		defer conn.Unsubscribe(sub)
		cfgCh = sub.Channel()
	}

	tick := time.NewTicker(time.Duration(cfg.TickMs) * time.Millisecond)
	defer tick.Stop()

	println("[monitor] running, tick", cfg.TickMs, "ms")
	for {
		select {
		case <-ctx.Done():
			println("[monitor] stopping")
			return
		case <-tick.C:
			c.Tick()
		case msg := <-cfgCh:
			m, ok := msg.Payload.(map[string]any)
			if !ok {
				println("[monitor] ignoring malformed config payload")
				continue
			}
			c.applyConfig(m)
			tick.Reset(time.Duration(c.cfg.TickMs) * time.Millisecond)
			println("[monitor] config applied")
		}
	}
}

// -----------------------------------------------------------------------------
// Publishing (all helpers tolerate a nil connection for in-package tests)
// -----------------------------------------------------------------------------

func (c *Controller) publishState() {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(topicState,
		types.MonitorState{State: c.state.String(), TSms: c.nowMs()}, true))
}

func (c *Controller) publishEnv(t, h float32, now int64) {
	c.envFails = 0
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(topicEnvValue, types.EnvValue{
		DeciC:  int16(conv.Deci(t)),
		RHx100: uint16(h*100 + 0.5),
		TSms:   now,
	}, true))
	c.publishStatus("env", types.LinkUp, "", now)
}

func (c *Controller) publishLight(lux float32, now int64) {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(topicLightValue, types.LightValue{
		Lux10: uint32(lux*10 + 0.5),
		TSms:  now,
	}, true))
	c.publishStatus("light", types.LinkUp, "", now)
}

func (c *Controller) publishStatus(channel string, link types.Link, errStr string, now int64) {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(topicStatus(channel),
		types.ChannelStatus{Link: link, TSms: now, Error: errStr}, true))
}

func (c *Controller) publishAccess(granted bool, reason string, attempt int, now int64) {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(topicAccessEvent, types.AccessEvent{
		Granted: granted,
		Reason:  reason,
		Attempt: attempt,
		TSms:    now,
	}, false))
}

func (c *Controller) publishPinEvent(name string, now int64) {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(topicPinEvent(name),
		types.PinValue{Active: true, TSms: now}, false))
}

// -----------------------------------------------------------------------------
// Runtime config
// -----------------------------------------------------------------------------

// applyConfig folds a decoded config/monitor object into the running
// config. Unknown keys are ignored; invalid values keep the old setting.
func (c *Controller) applyConfig(m map[string]any) {
	if v, ok := m["secret_pin"].(string); ok && len(v) == pinLen {
		c.cfg.SecretPIN = v
	}
	if v, ok := asInt(m["max_attempts"]); ok && v > 0 {
		c.cfg.MaxAttempts = v
	}
	if v, ok := asFloat(m["temp_min_c"]); ok {
		c.cfg.TempMinC = float32(v)
	}
	if v, ok := asFloat(m["temp_max_c"]); ok {
		c.cfg.TempMaxC = float32(v)
	}
	if v, ok := asFloat(m["hum_min_pct"]); ok {
		c.cfg.HumMinPct = float32(v)
	}
	if v, ok := asFloat(m["hum_max_pct"]); ok {
		c.cfg.HumMaxPct = float32(v)
	}
	if v, ok := asFloat(m["lux_low"]); ok {
		c.cfg.LuxLow = float32(v)
	}
	if v, ok := asFloat(m["lux_high"]); ok {
		c.cfg.LuxHigh = float32(v)
	}
	if v, ok := asFloat(m["rl10"]); ok && v > 0 {
		c.cfg.RL10 = float32(v)
	}
	if v, ok := asFloat(m["gamma"]); ok && v > 0 {
		c.cfg.Gamma = float32(v)
	}
	if v, ok := asInt(m["env_refresh_ms"]); ok && v > 0 {
		c.cfg.EnvRefreshMs = uint32(v)
	}
	if v, ok := asInt(m["light_refresh_ms"]); ok && v > 0 {
		c.cfg.LightRefreshMs = uint32(v)
	}
	if v, ok := asInt(m["welcome_hold_ms"]); ok && v >= 0 {
		c.cfg.WelcomeHoldMs = uint32(v)
	}
	if v, ok := asInt(m["lockout_hold_ms"]); ok && v >= 0 {
		c.cfg.LockoutHoldMs = uint32(v)
	}
	if v, ok := asInt(m["event_hold_ms"]); ok && v >= 0 {
		c.cfg.EventHoldMs = uint32(v)
	}
	if v, ok := asInt(m["tick_ms"]); ok && v > 0 {
		c.cfg.TickMs = uint32(v)
	}
	if v, ok := asInt(m["sensor_fail_limit"]); ok && v > 0 {
		c.cfg.SensorFailLimit = v
	}
	if v, ok := m["fail_safe_hold"].(bool); ok {
		c.cfg.FailSafeHold = v
	}
}

// Decoded JSON numbers may arrive as float64 or int depending on the
// decoder; accept both.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
