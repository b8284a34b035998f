// Package redis provides a Redis-backed ReportStore, for keeping scenario
// reports across processes or sharing them between CI workers.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/seedbed/espalier/pkg/domain"
)

// Store implements ports.ReportStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithTTL sets the expiration for stored reports.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for reports.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "espalier:report:",
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(scenario string) string {
	return s.prefix + scenario
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the report and records its scenario in the index set.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(report.Scenario), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), report.Scenario)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Load retrieves and unmarshals a report.
func (s *Store) Load(ctx context.Context, scenario string) (*domain.Report, error) {
	data, err := s.client.Get(ctx, s.key(scenario)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Delete removes the report and its index entry.
func (s *Store) Delete(ctx context.Context, scenario string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(scenario))
	pipe.SRem(ctx, s.indexKey(), scenario)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// List returns the indexed scenario names, pruning entries whose report
// has expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	scenarios := make([]string, 0, len(members))
	for _, scenario := range members {
		exists, err := s.client.Exists(ctx, s.key(scenario)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check report %q: %w", scenario, err)
		}
		if exists == 0 {
			// Expired report: drop the stale index entry.
			_ = s.client.SRem(ctx, s.indexKey(), scenario).Err()
			continue
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}
