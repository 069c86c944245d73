// Package cost accumulates Anthropic token usage across a run and prices it.
package cost

import "sync"

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64
	Output float64
}

// Rates maps model names to their pricing.
type Rates map[string]ModelRate

// DefaultRates covers the models the pipeline uses out of the box. Unknown
// models accumulate tokens but price at zero.
func DefaultRates() Rates {
	return Rates{
		"claude-sonnet-4-5-20250929": {Input: 3.0, Output: 15.0},
		"claude-haiku-4-5-20251001":  {Input: 1.0, Output: 5.0},
	}
}

// Tracker is a thread-safe accumulator of per-model token usage.
type Tracker struct {
	mu    sync.Mutex
	rates Rates
	used  map[string]*modelUsage
}

type modelUsage struct {
	input  int64
	output int64
}

func NewTracker(rates Rates) *Tracker {
	return &Tracker{rates: rates, used: make(map[string]*modelUsage)}
}

// Add records one API call's token counts for a model.
func (t *Tracker) Add(model string, input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	u, ok := t.used[model]
	if !ok {
		u = &modelUsage{}
		t.used[model] = u
	}
	u.input += input
	u.output += output
}

// Summary aggregates accumulated usage and its estimated price.
type Summary struct {
	InputTokens  int64
	OutputTokens int64
	USD          float64
}

func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	var s Summary
	for model, u := range t.used {
		s.InputTokens += u.input
		s.OutputTokens += u.output

		rate, ok := t.rates[model]
		if !ok {
			continue
		}
		s.USD += (float64(u.input)/1e6)*rate.Input + (float64(u.output)/1e6)*rate.Output
	}
	return s
}
