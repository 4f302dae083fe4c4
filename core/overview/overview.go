package overview

import (
	"context"
	"sync"
	"time"

	"github.com/leofalp/structguard/core/cost"
	"github.com/leofalp/structguard/providers/ai"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// overviewContextKey is the key used to store Overview in context.
const overviewContextKey contextKey = "overview"

// Completion is one provider call seen by the client.
type Completion struct {
	Model        string   `json:"model,omitempty"`
	FinishReason string   `json:"finish_reason,omitempty"`
	Usage        ai.Usage `json:"usage"`
}

// Overview aggregates the completions, attempts, token usage and cost of a
// single resolution. It is safe for concurrent use.
type Overview struct {
	mu sync.Mutex

	Completions []Completion `json:"completions"`
	TotalUsage  ai.Usage     `json:"total_usage"`
	// Attempts counts resolve attempts; Rejected counts the ones that did
	// not produce a valid value.
	Attempts int `json:"attempts"`
	Rejected int `json:"rejected"`
	// ModelCost is the pricing configuration for the model (optional)
	ModelCost *cost.ModelCost `json:"model_cost,omitempty"`

	ExecutionStartTime time.Time `json:"execution_start_time,omitempty"`
	ExecutionEndTime   time.Time `json:"execution_end_time,omitempty"`
}

// OverviewFromContext retrieves the Overview from the context, creating one if
// it does not already exist. The context pointer is updated in-place when a new
// Overview is created so callers see the enriched context.
func OverviewFromContext(ctx *context.Context) *Overview {
	if existing := FromContext(*ctx); existing != nil {
		return existing
	}
	if (*ctx).Value(overviewContextKey) != nil {
		return nil
	}

	overview := &Overview{}
	*ctx = overview.ToContext(*ctx)
	return overview
}

// FromContext returns the Overview bound to ctx, or nil.
func FromContext(ctx context.Context) *Overview {
	if ctx == nil {
		return nil
	}
	overview, _ := ctx.Value(overviewContextKey).(*Overview)
	return overview
}

// ToContext stores the Overview in the given context and returns the enriched context.
func (overview *Overview) ToContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, overviewContextKey, overview)
}

// AddResponse records a completed provider call and accumulates its usage.
func (overview *Overview) AddResponse(response *ai.ChatResponse) {
	if response == nil {
		return
	}

	overview.mu.Lock()
	defer overview.mu.Unlock()

	completion := Completion{Model: response.Model, FinishReason: response.FinishReason}
	if response.Usage != nil {
		completion.Usage = *response.Usage
		overview.TotalUsage.PromptTokens += response.Usage.PromptTokens
		overview.TotalUsage.CompletionTokens += response.Usage.CompletionTokens
		overview.TotalUsage.TotalTokens += response.Usage.TotalTokens
	}
	overview.Completions = append(overview.Completions, completion)
}

// AddAttempt records one validation attempt.
func (overview *Overview) AddAttempt(rejected bool) {
	overview.mu.Lock()
	defer overview.mu.Unlock()

	overview.Attempts++
	if rejected {
		overview.Rejected++
	}
}

// Usage returns the token usage summed over every completion.
func (overview *Overview) Usage() ai.Usage {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	return overview.TotalUsage
}

// CompletionCount returns how many provider calls succeeded.
func (overview *Overview) CompletionCount() int {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	return len(overview.Completions)
}

// SetModelCost sets the model cost configuration for this overview.
func (overview *Overview) SetModelCost(modelCost *cost.ModelCost) {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	overview.ModelCost = modelCost
}

// StartExecution marks the start of the resolution.
func (overview *Overview) StartExecution() {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	overview.ExecutionStartTime = time.Now()
}

// EndExecution marks the end of the resolution.
func (overview *Overview) EndExecution() {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	overview.ExecutionEndTime = time.Now()
}

// ExecutionDuration returns the total execution duration.
// Returns 0 if execution hasn't started or ended.
func (overview *Overview) ExecutionDuration() time.Duration {
	overview.mu.Lock()
	defer overview.mu.Unlock()

	if overview.ExecutionStartTime.IsZero() || overview.ExecutionEndTime.IsZero() {
		return 0
	}
	return overview.ExecutionEndTime.Sub(overview.ExecutionStartTime)
}

// CostSummary prices the accumulated usage. Without a ModelCost every amount
// is zero.
func (overview *Overview) CostSummary() cost.Summary {
	overview.mu.Lock()
	defer overview.mu.Unlock()

	if overview.ModelCost == nil {
		return cost.Summary{Currency: "USD"}
	}
	return overview.ModelCost.Summarize(overview.TotalUsage.PromptTokens, overview.TotalUsage.CompletionTokens)
}
