package domain

const (
	// DefaultPageLimit is used when a query omits the limit.
	DefaultPageLimit = 10
	// MaxPageLimit caps the page size. Over-large requests are clamped
	// silently, never rejected.
	MaxPageLimit = 30
)

// Page bounds a cursor-based range scan.
type Page struct {
	Limit int
}

func NewPage(limit int) Page {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return Page{Limit: limit}
}
