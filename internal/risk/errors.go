// Package risk implements the credit-risk core: company classification,
// Altman Z-Score, the Merton structural model, zone decisions, and the
// conservative reconciliation of both signals.
package risk

import "github.com/rotisserie/eris"

// Sentinel errors for the core taxonomy. Stages wrap these with context at
// the point of detection; only the batch orchestrator converts them into
// error records.
var (
	// ErrMissingData marks a required accounting field absent from fetched
	// facts.
	ErrMissingData = eris.New("missing required financial data")

	// ErrDegenerateInput marks a zero denominator or a violated Merton
	// precondition. Never defaulted or clamped.
	ErrDegenerateInput = eris.New("degenerate model input")

	// ErrInsufficientHistory marks fewer than two usable historical asset
	// observations for the drift/volatility estimate.
	ErrInsufficientHistory = eris.New("insufficient asset history")

	// ErrInvalidConfiguration marks an unrecognized model variant. Rejected
	// at engine construction, before any computation.
	ErrInvalidConfiguration = eris.New("invalid model configuration")
)
