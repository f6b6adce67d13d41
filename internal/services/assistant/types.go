// File: internal/services/assistant/types.go
package assistant

import "github.com/tmsanders/go-preceptor/internal/domain"

// Detail pairs the local mirror row with the instructions, which live
// only on the remote side and are re-fetched whenever displayed.
type Detail struct {
	domain.Assistant
	Instructions string
}

// UpdateFields is a partial update of the editable assistant fields.
// Nil means leave unchanged. Instructions are forwarded to the remote
// side only; the local mirror never stores them.
type UpdateFields struct {
	Name         *string
	Description  *string
	Instructions *string
}
