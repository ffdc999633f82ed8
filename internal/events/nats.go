package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/henrysammarfo/tapngo/internal/metrics"
)

// natsPublisher is the part of *nats.Conn the forwarder uses.
type natsPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSForwarder republishes bus events as JSON on <prefix>.<type>.
type NATSForwarder struct {
	conn   natsPublisher
	prefix string
	sub    *Subscription
	done   chan struct{}
}

// DialNATS connects to url. The connection reconnects forever.
func DialNATS(url string, timeout time.Duration) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("tapngo"),
		nats.Timeout(timeout),
		nats.ReconnectWait(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.Warn("NATS disconnected", "error", err)
			metrics.NATSConnectionStatus.Set(0)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", "url", nc.ConnectedUrl())
			metrics.NATSConnectionStatus.Set(1)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	metrics.NATSConnectionStatus.Set(1)
	return conn, nil
}

// NewNATSForwarder subscribes to bus and starts forwarding in the background.
func NewNATSForwarder(bus *Bus, conn natsPublisher, prefix string) *NATSForwarder {
	f := &NATSForwarder{
		conn:   conn,
		prefix: prefix,
		sub:    bus.Subscribe(1024, nil),
		done:   make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *NATSForwarder) run() {
	defer close(f.done)
	for e := range f.sub.C {
		if err := f.forward(e); err != nil {
			slog.Warn("Failed to forward event", "event_id", e.ID, "type", e.Type, "error", err)
		}
	}
}

func (f *NATSForwarder) forward(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return f.conn.Publish(f.Subject(e.Type), data)
}

// Subject returns the NATS subject for events of type t.
func (f *NATSForwarder) Subject(t Type) string {
	if f.prefix == "" {
		return string(t)
	}
	return f.prefix + "." + string(t)
}

// Close stops forwarding and waits for the in-flight event.
func (f *NATSForwarder) Close() {
	f.sub.Close()
	<-f.done
}
