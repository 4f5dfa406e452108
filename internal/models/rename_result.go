package models

// RenameResult reports the outcome of a cascading member rename. Updated and
// Failed count expense records, not individual name occurrences; the rename is
// complete only when Failed is zero.
type RenameResult struct {
	Total   int      `json:"total"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
