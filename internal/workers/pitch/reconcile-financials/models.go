// internal/workers/pitch/reconcile-financials/models.go
package reconcilefinancials

import (
	"encoding/json"

	"pitch-workers/internal/synthesis"
)

// Input carries the idea and, optionally, a pitch document produced earlier in
// the process. The document is kept raw so authoritative sections pass through
// byte for byte.
type Input struct {
	Idea  string          `json:"idea"`
	Pitch json.RawMessage `json:"pitch,omitempty"`
}

type Output struct {
	Report  synthesis.Report `json:"report"`
	Partial bool             `json:"partialDocument"`
}
