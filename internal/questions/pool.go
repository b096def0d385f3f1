// Package questions carries the fixed daily-question pool. The pool is
// embedded at build time and seeded into the document when the stored pool
// is empty; it is never mutated at runtime.
package questions

import (
	_ "embed"
	"encoding/json"

	"community-hub/internal/domain"
)

//go:embed pool.json
var poolJSON []byte

// Pool returns a fresh copy of the embedded question pool.
func Pool() []domain.Question {
	var qs []domain.Question
	if err := json.Unmarshal(poolJSON, &qs); err != nil {
		// The pool is compiled into the binary; a decode failure is a
		// build defect, not a runtime condition.
		panic("questions: decode embedded pool: " + err.Error())
	}
	return qs
}
