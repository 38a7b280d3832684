package motif

// Pattern is the motif specification handed to the scanner. Expr is passed
// through unmodified; MinRepeats and Window are the structural parameters of
// the pattern engine (minimum repeat count, search window size) and may be
// zero for engines that do not use them.
type Pattern struct {
	Expr       string `json:"expr"`
	MinRepeats int    `json:"min_repeats,omitempty"`
	Window     int    `json:"window,omitempty"`
}

// Match is one row of the scanner's row-oriented report. Only SequenceID is
// needed to reduce the report to per-sequence counts; the remaining fields
// are carried for diagnostics and for the analytic p-value cross-check.
type Match struct {
	SequenceID string  `json:"sequence_id"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	WindowID   string  `json:"window_id"`
	AnalyticP  float64 `json:"analytic_p"`
	Strand     byte    `json:"strand"`
	Text       string  `json:"text"`

	// Background is the per-symbol frequency histogram the engine reports
	// for the scanned sequence, in the engine's own column order.
	Background []float64 `json:"background,omitempty"`
}
