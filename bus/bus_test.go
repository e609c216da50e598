// bus/bus_test.go
package bus

import (
	"context"
	"sort"
	"testing"
	"time"
)

func expectOneOf(t *testing.T, s *Subscription, want string) {
	t.Helper()
	select {
	case got := <-s.Channel():
		if got.Payload.(string) != want {
			t.Fatalf("expected payload %q, got %v", want, got.Payload)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectNoMessage(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case got := <-s.Channel():
		t.Fatalf("unexpected message: %v", got.Payload)
	case <-time.After(60 * time.Millisecond):
	}
}

func drainPayloads(t *testing.T, s *Subscription, n int) []string {
	t.Helper()
	var out []string
	deadline := time.Now().Add(300 * time.Millisecond)
	for len(out) < n && time.Now().Before(deadline) {
		select {
		case m := <-s.Channel():
			out = append(out, m.Payload.(string))
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(out) != n {
		t.Fatalf("expected %d payloads, got %v", n, out)
	}
	return out
}

func assertUnorderedEqual(t *testing.T, got, want []string) {
	t.Helper()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("config", "monitor"))
	conn.Publish(conn.NewMessage(T("config", "monitor"), "hello", false))

	expectOneOf(t, sub, "hello")
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("config", "monitor"), "persist", true))
	sub := conn.Subscribe(T("config", "monitor"))

	expectOneOf(t, sub, "persist")
}

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("a", "+", "c"))
	s2 := c.Subscribe(T("a", "+", "+"))
	s3 := c.Subscribe(T("a", "b", "+"))
	sNo := c.Subscribe(T("a", "+", "d"))

	c.Publish(b.NewMessage(T("a", "b", "c"), "m1", false))
	expectOneOf(t, s1, "m1")
	expectOneOf(t, s2, "m1")
	expectOneOf(t, s3, "m1")
	expectNoMessage(t, sNo)

	c.Publish(b.NewMessage(T("a", "x", "y"), "m2", false))
	expectOneOf(t, s2, "m2")
	expectNoMessage(t, s1)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)

	c.Publish(b.NewMessage(T("a", "c"), "m3", false))
	expectNoMessage(t, s1)
	expectNoMessage(t, s2)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)
}

func TestWildcard_MultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sAHash := c.Subscribe(T("a", "#"))
	sHash := c.Subscribe(T("#"))
	sABHash := c.Subscribe(T("a", "b", "#"))
	sAExact := c.Subscribe(T("a"))

	c.Publish(b.NewMessage(T("a"), "p1", false))
	expectOneOf(t, sAHash, "p1")
	expectOneOf(t, sHash, "p1")
	expectOneOf(t, sAExact, "p1")
	expectNoMessage(t, sABHash)

	c.Publish(b.NewMessage(T("a", "b"), "p2", false))
	expectOneOf(t, sAHash, "p2")
	expectOneOf(t, sHash, "p2")
	expectOneOf(t, sABHash, "p2")
	expectNoMessage(t, sAExact)

	c.Publish(b.NewMessage(T("a", "b", "c"), "p3", false))
	expectOneOf(t, sAHash, "p3")
	expectOneOf(t, sHash, "p3")
	expectOneOf(t, sABHash, "p3")
	expectNoMessage(t, sAExact)
}

func TestWildcard_RetainedDelivery(t *testing.T) {
	b := NewBus(32)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("a"), "r0", true))
	c.Publish(b.NewMessage(T("a", "b"), "r1", true))
	c.Publish(b.NewMessage(T("a", "b", "c"), "r2", true))
	c.Publish(b.NewMessage(T("a", "x"), "r3", true))

	sAll := c.Subscribe(T("a", "#"))
	assertUnorderedEqual(t, drainPayloads(t, sAll, 4), []string{"r0", "r1", "r2", "r3"})

	sPlusHash := c.Subscribe(T("a", "+", "#"))
	assertUnorderedEqual(t, drainPayloads(t, sPlusHash, 3), []string{"r1", "r2", "r3"})

	sPlus := c.Subscribe(T("a", "+"))
	assertUnorderedEqual(t, drainPayloads(t, sPlus, 2), []string{"r1", "r3"})
}

func TestWildcard_RetainedClear(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("a", "b"), "keep", true))
	c.Publish(b.NewMessage(T("a", "y"), "other", true))
	c.Publish(b.NewMessage(T("a", "b"), nil, true))

	s := c.Subscribe(T("a", "#"))
	got := drainPayloads(t, s, 1)
	if got[0] != "other" {
		t.Fatalf("expected only 'other', got %v", got)
	}
	expectNoMessage(t, s)
}

func TestRequestReply_RequestWait(t *testing.T) {
	b := NewBus(8)
	reqConn := b.NewConnection("requester")
	respConn := b.NewConnection("responder")

	reqTopic := T("monitor", "state", "get")
	respSub := respConn.Subscribe(reqTopic)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if msg, ok := <-respSub.Channel(); ok {
			respConn.Reply(msg, "OK", false)
		}
	}()

	req := b.NewMessage(reqTopic, nil, false)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	reply, err := reqConn.RequestWait(ctx, req)
	respConn.Unsubscribe(respSub)
	<-done

	if err != nil {
		t.Fatalf("RequestWait: %v", err)
	}
	if got, ok := reply.Payload.(string); !ok || got != "OK" {
		t.Fatalf("bad reply payload: %v", reply.Payload)
	}
	if len(req.ReplyTo) == 0 || !reply.Topic.Equal(req.ReplyTo) {
		t.Fatal("reply did not arrive on the request's ReplyTo topic")
	}
}

func TestRequestReply_Timeout(t *testing.T) {
	b := NewBus(8)
	reqConn := b.NewConnection("requester")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := reqConn.RequestWait(ctx, b.NewMessage(T("service", "noop"), nil, false)); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestQueueOverflow_DropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s := c.Subscribe(T("x"))

	c.Publish(b.NewMessage(T("x"), "m1", false))
	c.Publish(b.NewMessage(T("x"), "m2", false))
	c.Publish(b.NewMessage(T("x"), "m3", false))

	expectOneOf(t, s, "m2")
	expectOneOf(t, s, "m3")
	expectNoMessage(t, s)
}

func TestTopic_InvalidTokenPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-comparable token")
		}
	}()
	_ = T([]byte{1, 2, 3})
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s := c.Subscribe(T("a", "b"))
	c.Unsubscribe(s)

	if _, ok := <-s.Channel(); ok {
		t.Fatal("expected closed channel after unsubscribe")
	}
	// Publishing after unsubscribe must not panic or deliver.
	c.Publish(b.NewMessage(T("a", "b"), "late", false))
}
