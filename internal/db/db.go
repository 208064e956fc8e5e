package db

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultTicksPerSecond is the time-stamp resolution of a new store.
const DefaultTicksPerSecond int64 = 60

// DB is the store handle. It owns one Index and one vocabulary list and is
// the store every element is bound to at construction time.
type DB struct {
	index      *Index
	vocab      *vocabList
	logger     *slog.Logger
	metrics    *metrics
	journal    Recorder
	listeners  []SchemaListener
	instanceID uuid.UUID
	tps        int64
}

// Option configures a DB.
type Option func(*DB) error

// WithLogger sets the logger used for registry and schema events.
//
// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(d *DB) error {
		if l == nil {
			return fmt.Errorf("logger is nil")
		}
		d.logger = l
		return nil
	}
}

// WithMetrics registers registry collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(d *DB) error {
		m, err := newMetrics(reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		d.metrics = m
		return nil
	}
}

// WithJournal sends every registry mutation to r before it is committed.
func WithJournal(r Recorder) Option {
	return func(d *DB) error {
		d.journal = r
		return nil
	}
}

// WithTicksPerSecond sets the time-stamp resolution.
//
// Default: 60 (DefaultTicksPerSecond)
func WithTicksPerSecond(tps int64) Option {
	return func(d *DB) error {
		if tps <= 0 {
			return fmt.Errorf("ticks per second must be positive, got %d", tps)
		}
		d.tps = tps
		return nil
	}
}

// New creates an empty store.
func New(opts ...Option) (*DB, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate instance id: %w", err)
	}
	d := &DB{
		logger:     slog.Default(),
		instanceID: id,
		tps:        DefaultTicksPerSecond,
	}
	d.index = newIndex(d)
	d.vocab = newVocabList()

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustNew is like New but panics on error.
// Use only in tests or with options known to be valid.
func MustNew(opts ...Option) *DB {
	d, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Index returns the store's registry.
func (d *DB) Index() *Index { return d.index }

// Logger returns the store's logger.
func (d *DB) Logger() *slog.Logger { return d.logger }

// InstanceID identifies this store instance in journals.
func (d *DB) InstanceID() uuid.UUID { return d.instanceID }

// TicksPerSecond returns the time-stamp resolution.
func (d *DB) TicksPerSecond() int64 { return d.tps }
