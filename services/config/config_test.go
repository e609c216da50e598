// config/config_test.go
package config

import (
	"context"
	"testing"
	"time"

	"envmon-go/bus"
)

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	// Override lookup for this test.
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "pico" {
			return nil, false
		}
		return []byte(`{
			"mode": "dev",
			"debug": true,
			"monitor": {"tick_ms": 20}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc.Start(ctx, conn)

	// Subscribe; retained messages should arrive immediately.
	sub := conn.Subscribe(bus.Topic{configPrefix, "#"})

	wantCount := 3 // mode, debug, monitor
	got := map[string]any{}

	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < wantCount && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if m.Topic.Len() < 2 {
				t.Fatalf("unexpected topic length: %#v", m.Topic)
			}
			prefix, ok := m.Topic.At(0).(string)
			if !ok || prefix != configPrefix {
				t.Fatalf("unexpected prefix token: %#v", m.Topic.At(0))
			}
			key, ok := m.Topic.At(1).(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic.At(1))
			}
			got[key] = m.Payload
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != wantCount {
		t.Fatalf("expected %d retained messages, got %d (%v)", wantCount, len(got), got)
	}

	if s, ok := got["mode"].(string); !ok || s != "dev" {
		t.Fatalf("mode payload = %#v, want \"dev\"", got["mode"])
	}
	if bval, ok := got["debug"].(bool); !ok || bval != true {
		t.Fatalf("debug payload = %#v, want true", got["debug"])
	}
	m, ok := got["monitor"].(map[string]any)
	if !ok {
		t.Fatalf("monitor payload type = %T, want map[string]any", got["monitor"])
	}
	switch tick := m["tick_ms"].(type) {
	case int:
		if tick != 20 {
			t.Fatalf("monitor.tick_ms = %d, want 20", tick)
		}
	case float64:
		if tick != 20 {
			t.Fatalf("monitor.tick_ms = %v, want 20", tick)
		}
	default:
		t.Fatalf("monitor.tick_ms type = %T", m["tick_ms"])
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewConfigService()

	// No device ID in context
	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID, got nil")
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for missing embedded config, got nil")
	}
}
