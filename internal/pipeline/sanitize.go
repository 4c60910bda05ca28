package pipeline

import "github.com/microcosm-cc/bluemonday"

// Sanitizer strips unsafe markup from rendered HTML.
type Sanitizer interface {
	Sanitize(htmlContent string) string
}

// Compile-time interface check.
var _ Sanitizer = (*BluemondaySanitizer)(nil)

// BluemondaySanitizer applies the bluemonday UGC policy, extended with
// global class attributes so chroma highlighting survives.
type BluemondaySanitizer struct {
	policy *bluemonday.Policy
}

// NewBluemondaySanitizer creates a sanitizer. The policy is safe for concurrent use.
func NewBluemondaySanitizer() *BluemondaySanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowElements("mark")
	return &BluemondaySanitizer{policy: policy}
}

// Sanitize returns htmlContent with disallowed elements and attributes removed.
func (s *BluemondaySanitizer) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}
