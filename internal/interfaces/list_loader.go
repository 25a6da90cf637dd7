package interfaces

import (
	"context"

	"github.com/ternarybob/vigil/internal/models"
)

// ListLoader supplies parsed entities for one source list. The engine
// never fetches or parses raw list data itself; loaders own the CSV/XML
// specifics and are registered with the refresh service.
type ListLoader interface {
	// Source identifies which consolidated list this loader produces.
	Source() models.SourceList

	// Load returns the current entities of the list. Implementations
	// should honor ctx cancellation on any network or file I/O.
	Load(ctx context.Context) ([]*models.Entity, error)
}
