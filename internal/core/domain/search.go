package domain

// DefaultSearchK is the number of results returned when the caller does
// not specify one.
const DefaultSearchK = 5

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// K is the maximum number of results. Zero returns no results;
	// negative values fall back to DefaultSearchK.
	K int

	// Company restricts results to documents of one company by name.
	// A value absent from the company index applies no restriction.
	Company string

	// Table restricts results to one table kind. A value absent from
	// the table index applies no restriction.
	Table string
}

// Limit resolves K to the effective result bound.
func (o SearchOptions) Limit() int {
	if o.K < 0 {
		return DefaultSearchK
	}
	return o.K
}
