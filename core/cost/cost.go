package cost

import (
	"fmt"
)

// ModelCost represents the pricing structure for a language model.
// Costs are expressed in USD per million tokens.
//
// Example usage:
//
//	modelCost := cost.ModelCost{
//	    InputCostPerMillion:  0.15,
//	    OutputCostPerMillion: 0.60,
//	}
type ModelCost struct {
	// InputCostPerMillion is the cost in USD per 1 million prompt tokens
	InputCostPerMillion float64 `json:"input_cost_per_million" yaml:"input_cost_per_million"`

	// OutputCostPerMillion is the cost in USD per 1 million completion tokens
	OutputCostPerMillion float64 `json:"output_cost_per_million" yaml:"output_cost_per_million"`
}

// IsZero reports whether no rate is configured, as for local models.
func (mc ModelCost) IsZero() bool {
	return mc.InputCostPerMillion == 0 && mc.OutputCostPerMillion == 0
}

// CalculateInputCost calculates the cost for the given number of prompt tokens.
func (mc ModelCost) CalculateInputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.InputCostPerMillion
}

// CalculateOutputCost calculates the cost for the given number of completion tokens.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.OutputCostPerMillion
}

// Summarize prices the given token counts.
func (mc ModelCost) Summarize(promptTokens, completionTokens int) Summary {
	input := mc.CalculateInputCost(promptTokens)
	output := mc.CalculateOutputCost(completionTokens)
	return Summary{
		InputCost:  input,
		OutputCost: output,
		TotalCost:  input + output,
		Currency:   "USD",
	}
}

// String returns a formatted string representation of the model costs.
func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion)
}

// Summary is the priced breakdown of the tokens spent by one resolution.
type Summary struct {
	// InputCost is the cost of prompt tokens, corrective suffixes included
	InputCost float64 `json:"input_cost"`

	// OutputCost is the cost of completion tokens, rejected ones included
	OutputCost float64 `json:"output_cost"`

	// TotalCost is InputCost + OutputCost
	TotalCost float64 `json:"total_cost"`

	// Currency is always "USD" for consistency
	Currency string `json:"currency"`
}

// String renders the total, e.g. "0.000123 USD".
func (s Summary) String() string {
	currency := s.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.6f %s", s.TotalCost, currency)
}
