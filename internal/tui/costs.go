package tui

import "fmt"

// Pricing is USD per 1M tokens.
type Pricing struct {
	InputPer1M  float64
	OutputPer1M float64
}

// ModelPricing covers the models offered by setup. Unknown models fall back
// to the "default" entry.
var ModelPricing = map[string]Pricing{
	// Gemini
	"gemini-3-flash-preview": {InputPer1M: 0.50, OutputPer1M: 3.0},
	"gemini-2.5-pro":         {InputPer1M: 1.25, OutputPer1M: 10.0},
	"gemini-2.5-flash":       {InputPer1M: 0.30, OutputPer1M: 2.50},
	"gemini-2.5-flash-lite":  {InputPer1M: 0.10, OutputPer1M: 0.40},

	// Claude 4.5
	"claude-opus-4-5-20251101":   {InputPer1M: 5.0, OutputPer1M: 25.0},
	"claude-sonnet-4-5-20250929": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-haiku-4-5-20251001":  {InputPer1M: 1.0, OutputPer1M: 5.0},

	// OpenAI
	"gpt-4o":      {InputPer1M: 2.5, OutputPer1M: 10.0},
	"gpt-4o-mini": {InputPer1M: 0.15, OutputPer1M: 0.60},
	"o3":          {InputPer1M: 2.0, OutputPer1M: 8.0},

	"default": {InputPer1M: 3.0, OutputPer1M: 15.0},
}

// Estimate is a rough token and cost figure for one synthesis call.
type Estimate struct {
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// EstimateCall estimates one call from its request and response text.
func EstimateCall(model, input, output string) Estimate {
	in := EstimateTokens(len(input))
	out := EstimateTokens(len(output))
	return Estimate{
		InputTokens:  in,
		OutputTokens: out,
		Cost:         EstimateCost(model, in, out),
	}
}

func (e Estimate) String() string {
	return fmt.Sprintf("~%s in / ~%s out  est. %s",
		FormatTokens(e.InputTokens), FormatTokens(e.OutputTokens), FormatCost(e.Cost))
}

// EstimateTokens approximates tokens as one per 4 characters.
func EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return chars / 4
}

// EstimateCost returns the USD cost for the given token counts.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		pricing = ModelPricing["default"]
	}
	return (float64(inputTokens)*pricing.InputPer1M + float64(outputTokens)*pricing.OutputPer1M) / 1_000_000
}

// FormatCost shows small amounts with enough precision to be non-zero.
func FormatCost(cost float64) string {
	switch {
	case cost < 0.001:
		return fmt.Sprintf("$%.4f", cost)
	case cost < 0.01:
		return fmt.Sprintf("$%.3f", cost)
	default:
		return fmt.Sprintf("$%.2f", cost)
	}
}

// FormatTokens uses a k suffix for thousands.
func FormatTokens(tokens int) string {
	switch {
	case tokens < 1000:
		return fmt.Sprintf("%d", tokens)
	case tokens < 10000:
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	default:
		return fmt.Sprintf("%dk", tokens/1000)
	}
}
