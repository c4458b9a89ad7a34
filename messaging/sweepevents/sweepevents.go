// Package sweepevents publishes sweep-run completion events to NATS
// JetStream, so an external consumer (the monitor UI, a results pipeline)
// can react as each grid cell finishes without polling engine/sweep itself.
package sweepevents

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/s-tikhomirov/jamsim/engine/sweep"
)

// SweepResultsStream and SweepResultsSubject name the JetStream stream and
// subject wildcard used for cell-completion events.
const (
	SweepResultsStream  = "SWEEP_RESULTS"
	SweepResultsSubject = "sweep.results"
)

// Config holds NATS connection configuration.
type Config struct {
	URLs string

	Token    string
	User     string
	Password string

	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectJitter time.Duration
}

// DefaultConfig returns development defaults.
func DefaultConfig() *Config {
	return &Config{
		URLs:            "nats://localhost:4222",
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		ReconnectJitter: 500 * time.Millisecond,
	}
}

// Publisher wraps a NATS JetStream connection for publishing cell-complete
// events.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
	mu sync.RWMutex
}

// NewPublisher connects to NATS and opens a JetStream context.
func NewPublisher(ctx context.Context, cfg *Config) (*Publisher, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.ReconnectJitter(cfg.ReconnectJitter, cfg.ReconnectJitter*2),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	} else if cfg.User != "" && cfg.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}

	nc, err := nats.Connect(cfg.URLs, opts...)
	if err != nil {
		return nil, fmt.Errorf("sweepevents: failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("sweepevents: failed to create JetStream context: %w", err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nc != nil {
		p.nc.Drain()
	}
}

// SetupStream creates or updates the sweep-results stream.
func (p *Publisher) SetupStream(ctx context.Context) error {
	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        SweepResultsStream,
		Description: "Sweep-cell completion events",
		Subjects:    []string{SweepResultsSubject + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      24 * time.Hour,
		MaxBytes:    256 * 1024 * 1024,
		MaxMsgs:     1_000_000,
		Discard:     jetstream.DiscardOld,
		Replicas:    1,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("sweepevents: failed to create stream: %w", err)
	}
	return nil
}

// CellCompleteEvent announces that every repetition of one grid cell has
// finished and been assigned to a result-store shard.
type CellCompleteEvent struct {
	UpfrontBaseCoeff float64   `json:"upfront_base_coeff"`
	UpfrontRateCoeff float64   `json:"upfront_rate_coeff"`
	Shard            string    `json:"shard"`
	NumRuns          int       `json:"num_runs"`
	RunIDs           []string  `json:"run_ids"`
	Timestamp        time.Time `json:"timestamp"`
}

// PublishCellComplete publishes one CellResult's completion event, keyed by
// shard so a shard-scoped consumer can filter with a wildcard subject.
func (p *Publisher) PublishCellComplete(ctx context.Context, cr sweep.CellResult, at time.Time) error {
	runIDs := make([]string, len(cr.Runs))
	for i, r := range cr.Runs {
		runIDs[i] = r.RunID
	}

	event := CellCompleteEvent{
		UpfrontBaseCoeff: cr.Cell.UpfrontBaseCoeff,
		UpfrontRateCoeff: cr.Cell.UpfrontRateCoeff,
		Shard:            cr.Shard,
		NumRuns:          len(cr.Runs),
		RunIDs:           runIDs,
		Timestamp:        at,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("sweepevents: failed to marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", SweepResultsSubject, cr.Shard)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("sweepevents: failed to publish event: %w", err)
	}
	return nil
}
