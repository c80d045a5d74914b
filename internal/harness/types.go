package harness

// QueryResult is the outcome of one scenario query.
type QueryResult struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Fragment    string   `json:"fragment,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Matches     []string `json:"matches"`
	Error       string   `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every query met its expectation.
	Pass bool `json:"pass"`

	// Define is the declared schema text.
	Define []string `json:"define"`

	Queries []QueryResult `json:"queries"`

	// Errors holds one message per failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Define:  []string{},
		Queries: []QueryResult{},
		Errors:  []string{},
	}
}

// AddError records a failed expectation.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
