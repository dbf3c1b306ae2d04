package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/taskwave/internal/config"
	"github.com/fyrsmithlabs/taskwave/internal/logging"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "taskwave"

// NATSPublisher publishes events as JSON on NATS core subjects.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
	owned  bool
}

// Option configures Connect.
type Option func(*connectOptions)

type connectOptions struct {
	prefix string
	token  config.Secret
	name   string
	logger *logging.Logger
}

// WithSubjectPrefix sets the subject prefix.
func WithSubjectPrefix(prefix string) Option {
	return func(o *connectOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithToken authenticates with a NATS token.
func WithToken(token config.Secret) Option {
	return func(o *connectOptions) {
		o.token = token
	}
}

// WithLogger logs connection state changes.
func WithLogger(logger *logging.Logger) Option {
	return func(o *connectOptions) {
		o.logger = logger
	}
}

// Connect dials url and returns a publisher that owns the connection.
// The connection retries in the background if the server is not up yet.
func Connect(url string, opts ...Option) (*NATSPublisher, error) {
	o := connectOptions{
		prefix: DefaultSubjectPrefix,
		name:   "taskwave",
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	natsOpts := []nats.Option{
		nats.Name(o.name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(1 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				o.logger.Warn(context.Background(), "nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			o.logger.Info(context.Background(), "nats reconnected", zap.String("url", nc.ConnectedUrlRedacted()))
		}),
	}
	if o.token.IsSet() {
		natsOpts = append(natsOpts, nats.Token(o.token.Value()))
	}

	nc, err := nats.Connect(url, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return &NATSPublisher{nc: nc, prefix: o.prefix, owned: true}, nil
}

// NewNATSPublisher wraps an existing connection. Close leaves nc open.
func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{nc: nc, prefix: prefix}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(t Type) string {
	return p.prefix + "." + string(t)
}

// Publish marshals ev and publishes it.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(p.Subject(ev.Type), data); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}

// Connected reports whether the connection is currently up.
func (p *NATSPublisher) Connected() bool {
	return p.nc.IsConnected()
}

// Close flushes pending messages and closes an owned connection.
func (p *NATSPublisher) Close() error {
	if !p.owned {
		return nil
	}
	var err error
	if p.nc.IsConnected() {
		err = p.nc.FlushTimeout(2 * time.Second)
	}
	p.nc.Close()
	if err != nil {
		return fmt.Errorf("flush events: %w", err)
	}
	return nil
}
