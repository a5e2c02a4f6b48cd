package documents

import "context"

// Repo defines persistence operations for documents.
type Repo interface {
	// Insert stores a new record and returns its store-assigned id.
	Insert(ctx context.Context, doc Document) (int64, error)
	// ListAll returns summary rows (no content), records with a real
	// document date first in descending date order, "N/A" dates last.
	ListAll(ctx context.Context) ([]Document, error)
	// AllForSearch returns every record's search projection in store order.
	AllForSearch(ctx context.Context) ([]SearchRow, error)
}
