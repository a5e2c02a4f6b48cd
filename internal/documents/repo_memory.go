package documents

import (
	"context"
	"sort"
	"sync"

	"medidoc-backend/internal/extract"
)

// MemoryRepo is an in-memory implementation of Repo, used when no database
// is configured (dev) and as a test double.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	docs   []Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Insert stores a new document and returns its id.
func (r *MemoryRepo) Insert(ctx context.Context, doc Document) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = r.nextID
	r.nextID++
	r.docs = append(r.docs, doc)
	return doc.ID, nil
}

// ListAll returns summary rows ordered like the SQL repo: real dates
// descending first, "N/A" dates after, newest id first within ties.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Document, len(r.docs))
	copy(out, r.docs)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		iNA := out[i].DocumentDate == extract.NotAvailable
		jNA := out[j].DocumentDate == extract.NotAvailable
		if iNA != jNA {
			return jNA
		}
		if out[i].DocumentDate != out[j].DocumentDate {
			return out[i].DocumentDate > out[j].DocumentDate
		}
		return out[i].ID > out[j].ID
	})

	for i := range out {
		out[i].Content = ""
	}
	return out, nil
}

// AllForSearch returns every record's search projection in insertion order.
func (r *MemoryRepo) AllForSearch(ctx context.Context) ([]SearchRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SearchRow, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, SearchRow{
			Filename: doc.Filename,
			Content:  doc.Content,
			Summary:  doc.Summary,
			Category: doc.Category,
		})
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
