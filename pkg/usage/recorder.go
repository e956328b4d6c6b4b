// Package usage maintains the monthly token and cost ledger in the shared
// store.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"cartonex/gateway/pkg/routing"
)

// RetentionTTL is how long a ledger month survives after its last update.
const RetentionTTL = 30 * 24 * time.Hour

// ledgerStore is the slice of the shared store the recorder needs.
// *store.Namespace satisfies it.
type ledgerStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Ledger is one calendar month's aggregate usage record.
type Ledger struct {
	// Month is the ledger's calendar month in YYYY-MM form.
	Month string `json:"month"`

	// TotalTokens is the cumulative input+output token count.
	TotalTokens int64 `json:"totalTokens"`

	// TotalRequests counts completed upstream calls.
	TotalRequests int64 `json:"totalRequests"`

	// EstimatedCostUSD accumulates per-call cost estimates.
	EstimatedCostUSD float64 `json:"estimatedCostUsd"`

	// ByModel holds per-model token totals.
	ByModel map[string]int64 `json:"byModel"`

	// ByTask holds per-task-type token totals.
	ByTask map[string]int64 `json:"byTask"`

	// UpdatedAt is the last write time in unix milliseconds.
	UpdatedAt int64 `json:"updatedAt"`
}

// Recorder accumulates usage into the current month's ledger.
//
// Updates are read-modify-write without compare-and-swap: concurrent
// writers can lose updates. The ledger is advisory observability data,
// not a billing source of truth, so the race is tolerated.
type Recorder struct {
	store  ledgerStore
	pricer *Pricer
	logger *slog.Logger

	// now is injectable for tests.
	now func() time.Time
}

// RecorderConfig configures the usage recorder.
type RecorderConfig struct {
	// Store is the recorder's namespaced view of the shared store.
	Store ledgerStore

	// Pricer computes per-call cost estimates. Default: default rates.
	Pricer *Pricer

	// Logger receives recorder diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// NewRecorder creates a usage recorder.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if cfg.Pricer == nil {
		cfg.Pricer = NewPricer(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Recorder{
		store:  cfg.Store,
		pricer: cfg.Pricer,
		logger: cfg.Logger,
		now:    time.Now,
	}, nil
}

// Record adds one completed call's usage to the current month's ledger
// and rearms the retention TTL.
func (r *Recorder) Record(ctx context.Context, model string, task routing.TaskType, promptTokens, completionTokens int) error {
	now := r.now()
	month := now.UTC().Format("2006-01")

	ledger, err := r.load(ctx, month)
	if err != nil {
		return err
	}

	tokens := int64(promptTokens + completionTokens)
	ledger.TotalTokens += tokens
	ledger.TotalRequests++
	ledger.EstimatedCostUSD += r.pricer.Cost(model, promptTokens, completionTokens)
	ledger.ByModel[model] += tokens
	ledger.ByTask[string(task)] += tokens
	ledger.UpdatedAt = now.UnixMilli()

	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to serialize ledger: %w", err)
	}
	if err := r.store.Set(ctx, month, payload, RetentionTTL); err != nil {
		return fmt.Errorf("ledger write failed: %w", err)
	}
	return nil
}

// Snapshot returns the ledger for a month in YYYY-MM form, or an empty
// ledger when no usage was recorded.
func (r *Recorder) Snapshot(ctx context.Context, month string) (*Ledger, error) {
	return r.load(ctx, month)
}

func (r *Recorder) load(ctx context.Context, month string) (*Ledger, error) {
	raw, found, err := r.store.Get(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("ledger read failed: %w", err)
	}

	ledger := &Ledger{
		Month:   month,
		ByModel: map[string]int64{},
		ByTask:  map[string]int64{},
	}
	if !found {
		return ledger, nil
	}

	if err := json.Unmarshal(raw, ledger); err != nil {
		// A corrupt ledger is advisory data; start the month over rather
		// than blocking requests.
		r.logger.Warn("ledger entry corrupt, starting fresh", "month", month, "error", err)
		return &Ledger{Month: month, ByModel: map[string]int64{}, ByTask: map[string]int64{}}, nil
	}
	if ledger.ByModel == nil {
		ledger.ByModel = map[string]int64{}
	}
	if ledger.ByTask == nil {
		ledger.ByTask = map[string]int64{}
	}
	return ledger, nil
}
