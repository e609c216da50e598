// bus.go
package bus

import (
	"context"
	"errors"
	"sync"
)

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

// A Topic is a sequence of comparable tokens (strings or integers).
// Subscriptions may use "+" to match exactly one level and "#" to match
// any remaining levels (including none). "#" must be the last token.
type Topic []any

const (
	WildcardOne = "+"
	WildcardAll = "#"
)

// T builds a topic, validating each token.
func T(tokens ...any) Topic {
	t := make(Topic, 0, len(tokens))
	for _, v := range tokens {
		t = append(t, checkToken(v))
	}
	return t
}

func checkToken(v any) any {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	default:
		panic("bus: topic token must be a string, bool or integer")
	}
}

func (t Topic) Len() int     { return len(t) }
func (t Topic) At(i int) any { return t[i] }

func (t Topic) Append(tokens ...any) Topic {
	out := make(Topic, len(t), len(t)+len(tokens))
	copy(out, t)
	for _, v := range tokens {
		out = append(out, checkToken(v))
	}
	return out
}

func (t Topic) Equal(o Topic) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// CanReply reports whether the sender supplied a reply topic.
func (m *Message) CanReply() bool { return len(m.ReplyTo) > 0 }

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

// A single trie holds both subscription patterns (which may contain
// wildcards) and retained messages (stored at concrete paths only).
type node struct {
	children map[any]*node
	subs     []*Subscription
	retained *Message
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu       sync.Mutex
	root     *node
	qLen     int
	replySeq int
}

// NewBus creates a bus with the given per-subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8 // safe default
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

func (b *Bus) NewMessage(t Topic, payload any, retained bool) *Message {
	return &Message{Topic: t, Payload: payload, Retained: retained}
}

func (b *Bus) addSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, tok := range sub.topic {
		if n.children == nil {
			n.children = make(map[any]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.subs = append(n.subs, sub)

	// Deliver retained messages matching the (possibly wildcarded) pattern.
	b.deliverRetained(b.root, sub, 0)
}

// deliverRetained walks concrete retained paths against sub's pattern.
func (b *Bus) deliverRetained(n *node, sub *Subscription, idx int) {
	if n == nil {
		return
	}
	if idx == len(sub.topic) {
		if n.retained != nil {
			push(sub, n.retained)
		}
		return
	}
	switch sub.topic[idx] {
	case WildcardAll:
		b.retainedSubtree(n, sub)
	case WildcardOne:
		for _, child := range n.children {
			b.deliverRetained(child, sub, idx+1)
		}
	default:
		if n.children != nil {
			b.deliverRetained(n.children[sub.topic[idx]], sub, idx+1)
		}
	}
}

// retainedSubtree delivers every retained message at or below n.
func (b *Bus) retainedSubtree(n *node, sub *Subscription) {
	if n.retained != nil {
		push(sub, n.retained)
	}
	for _, child := range n.children {
		b.retainedSubtree(child, sub)
	}
}

// Publish delivers a message to every matching subscription and updates the
// retained store when msg.Retained is set. A retained message with a nil
// payload clears the stored message at that topic.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deliver(b.root, msg, 0)

	if msg.Retained {
		n := b.root
		for _, tok := range msg.Topic {
			if n.children == nil {
				n.children = make(map[any]*node)
			}
			child, ok := n.children[tok]
			if !ok {
				child = &node{}
				n.children[tok] = child
			}
			n = child
		}
		if msg.Payload == nil {
			n.retained = nil
		} else {
			n.retained = msg
		}
	}
}

func (b *Bus) deliver(n *node, msg *Message, idx int) {
	if n == nil {
		return
	}
	// "#" at this level matches the rest of the topic, including nothing.
	if n.children != nil {
		if hash := n.children[WildcardAll]; hash != nil {
			for _, sub := range hash.subs {
				push(sub, msg)
			}
		}
	}
	if idx == len(msg.Topic) {
		for _, sub := range n.subs {
			push(sub, msg)
		}
		return
	}
	if n.children == nil {
		return
	}
	b.deliver(n.children[msg.Topic[idx]], msg, idx+1)
	b.deliver(n.children[WildcardOne], msg, idx+1)
}

// push enqueues without blocking; the oldest queued message is dropped when
// the subscriber is not keeping up.
func push(sub *Subscription, msg *Message) {
	select {
	case sub.ch <- msg:
	default:
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

func (b *Bus) removeSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	var stack []*node
	for _, tok := range sub.topic {
		if n.children == nil {
			return
		}
		child, ok := n.children[tok]
		if !ok {
			return
		}
		stack = append(stack, n)
		n = child
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	// Prune empty nodes.
	for i := len(sub.topic) - 1; i >= 0; i-- {
		parent := stack[i]
		key := sub.topic[i]
		child := parent.children[key]
		if len(child.subs) == 0 && len(child.children) == 0 && child.retained == nil {
			delete(parent.children, key)
		} else {
			break
		}
	}
}

func (b *Bus) nextReplyTopic(connID string) Topic {
	b.mu.Lock()
	b.replySeq++
	seq := b.replySeq
	b.mu.Unlock()
	return T("reply", connID, seq)
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) NewMessage(t Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(t, payload, retained)
}

func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan *Message, c.bus.qLen),
		conn:  c,
	}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	c.bus.addSubscription(sub)
	return sub
}

func (c *Connection) Unsubscribe(sub *Subscription) {
	c.bus.removeSubscription(sub)
	c.mu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	close(sub.ch)
}

// Reply publishes a response on the request's ReplyTo topic.
func (c *Connection) Reply(req *Message, payload any, retained bool) {
	if !req.CanReply() {
		return
	}
	c.Publish(c.NewMessage(req.ReplyTo, payload, retained))
}

// Request publishes msg with a fresh ReplyTo topic and returns a
// subscription on which the reply will arrive. The caller owns the
// subscription and must unsubscribe it.
func (c *Connection) Request(msg *Message) *Subscription {
	if len(msg.ReplyTo) == 0 {
		msg.ReplyTo = c.bus.nextReplyTopic(c.id)
	}
	sub := c.Subscribe(msg.ReplyTo)
	c.Publish(msg)
	return sub
}

var ErrNoReply = errors.New("bus: no reply")

// RequestWait performs a request and blocks for the first reply or ctx expiry.
func (c *Connection) RequestWait(ctx context.Context, msg *Message) (*Message, error) {
	sub := c.Request(msg)
	defer c.Unsubscribe(sub)
	select {
	case reply, ok := <-sub.Channel():
		if !ok {
			return nil, ErrNoReply
		}
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Disconnect closes all subscriptions owned by this connection.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		c.bus.removeSubscription(sub)
		close(sub.ch)
	}
}
