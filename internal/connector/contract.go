package connector

import "context"

// Pagination selects one page of a collection. Page numbers start at 1;
// a zero value means "first page, default size".
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// DefaultPageSize applies when Pagination.PageSize is unset.
const DefaultPageSize = 25

// Normalize fills in defaults for a zero-value pagination.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the number of items preceding the page.
func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PageSize
}

// Page is one page of query results.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Condition is a field/value filter evaluated by the adapter. Supported
// fields are adapter-specific; unknown fields make the query fail with a
// validation error rather than silently matching everything.
type Condition map[string]any

// Query is the generic read contract every connector adapter must satisfy,
// so callers stay connector-agnostic.
type Query[T any] interface {
	// FindAll returns one page of the collection.
	FindAll(ctx context.Context, p Pagination) (Page[T], error)

	// FindByID returns the entity with the given id.
	// Fails with a not-found error if the entity does not exist.
	FindByID(ctx context.Context, id string) (T, error)

	// FindByIDs returns the entities with the given ids. Missing ids are
	// skipped; the result order follows the input order.
	FindByIDs(ctx context.Context, ids []string) ([]T, error)

	// FindByCondition returns one page of entities matching cond.
	FindByCondition(ctx context.Context, cond Condition, p Pagination) (Page[T], error)

	// Count returns the number of entities matching cond.
	Count(ctx context.Context, cond Condition) (int, error)

	// Exists reports whether at least one entity matches cond.
	Exists(ctx context.Context, cond Condition) (bool, error)
}

// Mutation is the generic write contract every connector adapter must
// satisfy.
type Mutation[T any] interface {
	// Create persists a new entity and returns the stored state.
	Create(ctx context.Context, entity T) (T, error)

	// Update replaces the entity with the given id and returns the stored
	// state. Fails with a not-found error if the entity does not exist.
	Update(ctx context.Context, id string, entity T) (T, error)

	// Delete removes the entity with the given id. Deleting a missing id
	// is not an error; delete is idempotent.
	Delete(ctx context.Context, id string) error
}
