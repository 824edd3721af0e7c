// Package pipeline runs the fixture stages in dependency order, handing each stage's cache
// to the stages that need it and writing every table through a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
	"github.com/marshallshelly/toolshop-fixtures/pkg/sink"
)

// Counts is the number of rows to generate per entity.
type Counts struct {
	Categories   int `yaml:"categories" json:"categories" envconfig:"CATEGORIES" validate:"gte=0"`
	Users        int `yaml:"users" json:"users" envconfig:"USERS" validate:"gte=0"`
	Products     int `yaml:"products" json:"products" envconfig:"PRODUCTS" validate:"gte=0"`
	Transactions int `yaml:"transactions" json:"transactions" envconfig:"TRANSACTIONS" validate:"gte=0"`
}

// DefaultCounts returns the stock demo catalog size.
func DefaultCounts() Counts {
	return Counts{
		Categories:   fixture.DefaultCategoryCount,
		Users:        fixture.DefaultUserCount,
		Products:     fixture.DefaultProductCount,
		Transactions: fixture.DefaultTransactionCount,
	}
}

// Stages lists stage names in run order.
var Stages = []string{
	fixture.StageCategories,
	fixture.StageUsers,
	fixture.StageProducts,
	fixture.StageTransactions,
}

// StageResult is the outcome of a single stage.
type StageResult struct {
	Stage       string        `json:"stage"`
	Rows        int           `json:"rows"`
	Destination string        `json:"destination,omitempty"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// OK reports whether the stage produced its output.
func (r StageResult) OK() bool { return r.Err == nil }

// Report collects stage results in run order.
type Report struct {
	Stages []StageResult `json:"stages"`
}

// Failed returns the stages that produced no output.
func (r *Report) Failed() []StageResult {
	var out []StageResult
	for _, s := range r.Stages {
		if !s.OK() {
			out = append(out, s)
		}
	}
	return out
}

// Result returns the result for stage, if it ran.
func (r *Report) Result(stage string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s, true
		}
	}
	return StageResult{}, false
}

// Event is sent to observers when a stage starts (Result nil) and when it finishes.
type Event struct {
	Stage  string
	Index  int
	Total  int
	Result *StageResult
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithObserver registers a callback for stage events.
func WithObserver(fn func(Event)) Option {
	return func(p *Pipeline) { p.observe = fn }
}

// Pipeline runs Category → User → Product → Transaction into one sink.
type Pipeline struct {
	gen     *fixture.Generator
	sink    sink.Sink
	counts  Counts
	logger  *slog.Logger
	observe func(Event)
}

// New creates a Pipeline.
func New(gen *fixture.Generator, s sink.Sink, counts Counts, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:     gen,
		sink:    s,
		counts:  counts,
		logger:  slog.Default(),
		observe: func(Event) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every stage. A failed stage is recorded in the report, writes nothing and
// contributes no cache; later stages still run and may fail on the missing cache.
// The returned error is non-nil only when the run had to stop early: a cancelled context
// or an unavailable capability.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if p.gen == nil {
		return nil, &fixture.CapabilityError{Capability: "generator"}
	}
	if p.sink == nil {
		return nil, &fixture.CapabilityError{Capability: "sink"}
	}

	report := &Report{}
	var (
		categories fixture.CategoryCache
		users      fixture.UserCache
		products   fixture.ProductCache
	)

	stages := []func() (sink.Table, error){
		func() (sink.Table, error) {
			rows, cache := fixture.GenerateCategories(p.counts.Categories)
			categories = cache
			return CategoryTable(rows), nil
		},
		func() (sink.Table, error) {
			rows, cache := p.gen.GenerateUsers(p.counts.Users)
			users = cache
			return UserTable(rows), nil
		},
		func() (sink.Table, error) {
			rows, cache, err := p.gen.GenerateProducts(categories, p.counts.Products)
			if err != nil {
				return sink.Table{}, err
			}
			products = cache
			return ProductTable(rows), nil
		},
		func() (sink.Table, error) {
			rows, err := p.gen.GenerateTransactions(users, products, p.counts.Transactions)
			if err != nil {
				return sink.Table{}, err
			}
			return TransactionTable(rows), nil
		},
	}
	discard := []func(){
		func() { categories = nil },
		func() { users = nil },
		func() { products = nil },
		func() {},
	}

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := Stages[i]
		p.observe(Event{Stage: name, Index: i, Total: len(stages)})
		p.logger.Debug("Stage started", "stage", name)

		start := time.Now()
		result := StageResult{Stage: name}

		table, err := stage()
		if err == nil {
			var w sink.Written
			w, err = p.sink.Write(ctx, table)
			result.Rows = w.Rows
			result.Destination = w.Destination
		}
		result.Duration = time.Since(start)
		result.Err = err

		if err != nil {
			discard[i]()
			result.Rows = 0
			result.Destination = ""
		}
		report.Stages = append(report.Stages, result)
		p.observe(Event{Stage: name, Index: i, Total: len(stages), Result: &result})

		switch {
		case err == nil:
			p.logger.Info("Stage complete",
				"stage", name,
				"rows", result.Rows,
				"destination", result.Destination,
				"duration", result.Duration,
			)
		case errors.Is(err, fixture.ErrUnavailableCapability):
			p.logger.Error("Stage aborted run", "stage", name, "error", err)
			return report, fmt.Errorf("%s: %w", name, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return report, err
		default:
			p.logger.Error("Stage failed", "stage", name, "error", err)
		}
	}

	return report, nil
}
