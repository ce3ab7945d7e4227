package messaging

import (
	"context"
	"fmt"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
	"github.com/LexiconIndonesia/recruiter-scraper/common/config"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// NatsBroker publishes run events to NATS JetStream
type NatsBroker struct {
	conn *nats.Conn
	js   jetstream.JetStream
}

func connectOptions(cfg config.Config) []nats.Option {
	opts := []nats.Option{
		nats.Name(common.AppName),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("server", nc.ConnectedUrl()).Msg("Reconnected to NATS")
		}),
	}
	if cfg.Nats.Username != "" && cfg.Nats.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.Nats.Username, cfg.Nats.Password))
	}
	return opts
}

// NewNatsBroker connects to the configured server and opens a JetStream context
func NewNatsBroker(cfg config.Config) (*NatsBroker, error) {
	conn, err := nats.Connect(cfg.Nats.URL(), connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	log.Info().Str("server", conn.ConnectedUrl()).Msg("Connected to NATS")
	return &NatsBroker{conn: conn, js: js}, nil
}

// Close drains the NATS connection so pending publishes are flushed
func (c *NatsBroker) Close() error {
	if c.conn != nil && c.conn.IsConnected() {
		return c.conn.Drain()
	}
	return nil
}

// PublishSync publishes a message to a subject and waits for an acknowledgement
func (c *NatsBroker) PublishSync(ctx context.Context, subject string, data []byte) error {
	if c.js == nil {
		return fmt.Errorf("JetStream not initialized")
	}

	if _, err := c.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", subject, err)
	}

	log.Debug().Str("subject", subject).Msg("Published message to NATS and received ack")
	return nil
}

// EnsureStream creates or updates a JetStream stream
func (c *NatsBroker) EnsureStream(ctx context.Context, streamConfig jetstream.StreamConfig) (jetstream.Stream, error) {
	if c.js == nil {
		return nil, fmt.Errorf("JetStream not initialized")
	}

	stream, err := c.js.CreateOrUpdateStream(ctx, streamConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream %s: %w", streamConfig.Name, err)
	}

	log.Debug().
		Str("name", streamConfig.Name).
		Strs("subjects", streamConfig.Subjects).
		Msg("JetStream stream ready")

	return stream, nil
}

// SetupNatsBroker connects to NATS and makes sure the run event stream exists
func SetupNatsBroker(ctx context.Context, cfg config.Config) (*NatsBroker, error) {
	client, err := NewNatsBroker(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating NATS client: %w", err)
	}

	if _, err := client.EnsureStream(ctx, RunStreamConfig()); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
