// Package messaging provides a NATS client wrapper for pub/sub messaging
// between HangHive services. It handles connection lifecycle, subject-based
// subscriptions, and convenience methods for the generation and moderation
// channels.
package messaging

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subject patterns used across HangHive services.
const (
	SubjectGenRequest       = "gen.request"
	SubjectGenResult        = "gen.result"        // + .<session_id>
	SubjectAutomodFlagged   = "automod.flagged"   // blocked-message events for moderators
	SubjectModActionApplied = "modaction.applied" // applied warn/mute/kick/ban events
)

// NATSClient wraps the NATS connection with helper methods for pub/sub.
type NATSClient struct {
	conn *nats.Conn
	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string        // nats://localhost:4222
	Name          string        // client name for identification
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// DefaultNATSConfig returns sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           "nats://localhost:4222",
		Name:          "hang-bot",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1, // infinite reconnects
	}
}

// NewNATSClient connects to NATS with the given config and returns a ready client.
// It returns an error if the initial connection fails.
func NewNATSClient(config NATSConfig) (*NATSClient, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[nats] disconnected: %v", err)
			} else {
				log.Printf("[nats] disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Printf("[nats] connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Printf("[nats] connected to %s", nc.ConnectedUrl())

	return &NATSClient{
		conn: nc,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends data to the given NATS subject.
func (c *NATSClient) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

// Subscribe registers a handler for the given subject and stores the
// subscription internally for later cleanup.
func (c *NATSClient) Subscribe(subject string, handler func(msg *nats.Msg)) error {
	sub, err := c.conn.Subscribe(subject, handler)
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	c.mu.Lock()
	c.subs[subject] = sub
	c.mu.Unlock()

	return nil
}

// QueueSubscribe registers a queue-group handler so multiple botworker
// instances share the generation workload without duplicate processing.
func (c *NATSClient) QueueSubscribe(subject, queue string, handler func(msg *nats.Msg)) error {
	sub, err := c.conn.QueueSubscribe(subject, queue, handler)
	if err != nil {
		return fmt.Errorf("nats queue subscribe %s: %w", subject, err)
	}

	c.mu.Lock()
	c.subs[subject] = sub
	c.mu.Unlock()

	return nil
}

// PublishGenRequest publishes a generation request for the botworkers.
func (c *NATSClient) PublishGenRequest(data []byte) error {
	return c.Publish(SubjectGenRequest, data)
}

// SubscribeGenRequests subscribes to generation requests as part of the
// given worker queue group.
func (c *NATSClient) SubscribeGenRequests(queue string, handler func(data []byte)) error {
	return c.QueueSubscribe(SubjectGenRequest, queue, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// PublishGenResult publishes a generation result for a specific session.
func (c *NATSClient) PublishGenResult(sessionID string, data []byte) error {
	return c.Publish(SubjectGenResult+"."+sessionID, data)
}

// SubscribeGenResult subscribes to generation results for a specific session.
func (c *NATSClient) SubscribeGenResult(sessionID string, handler func(data []byte)) error {
	subject := SubjectGenResult + "." + sessionID
	return c.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// UnsubscribeGenResult unsubscribes from generation results for a session.
func (c *NATSClient) UnsubscribeGenResult(sessionID string) error {
	return c.unsubscribe(SubjectGenResult + "." + sessionID)
}

// PublishAutomodFlagged publishes a blocked-message event for moderator
// tooling and audit consumers.
func (c *NATSClient) PublishAutomodFlagged(data []byte) error {
	return c.Publish(SubjectAutomodFlagged, data)
}

// SubscribeAutomodFlagged subscribes to blocked-message events.
func (c *NATSClient) SubscribeAutomodFlagged(handler func(data []byte)) error {
	return c.Subscribe(SubjectAutomodFlagged, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// PublishModActionApplied publishes an applied moderation action event.
func (c *NATSClient) PublishModActionApplied(data []byte) error {
	return c.Publish(SubjectModActionApplied, data)
}

// SubscribeModActionApplied subscribes to applied moderation action events.
func (c *NATSClient) SubscribeModActionApplied(handler func(data []byte)) error {
	return c.Subscribe(SubjectModActionApplied, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// Close drains all active subscriptions and closes the NATS connection.
func (c *NATSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			log.Printf("[nats] drain %s: %v", subject, err)
		}
	}
	c.subs = make(map[string]*nats.Subscription)

	if err := c.conn.Drain(); err != nil {
		log.Printf("[nats] connection drain: %v", err)
	}

	log.Printf("[nats] client closed")
}

// unsubscribe removes and unsubscribes from a specific subject.
func (c *NATSClient) unsubscribe(subject string) error {
	c.mu.Lock()
	sub, ok := c.subs[subject]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("nats: no subscription for subject %s", subject)
	}
	delete(c.subs, subject)
	c.mu.Unlock()

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("nats unsubscribe %s: %w", subject, err)
	}
	return nil
}
