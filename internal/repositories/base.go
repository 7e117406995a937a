package repositories

// ===========================================================================
// Repository Base Types
// Shared query options for all repositories
// ===========================================================================

// FindOptions query options for Find methods
type FindOptions struct {
	// Offset starting position (for pagination)
	Offset int

	// Limit maximum number of records
	Limit int

	// OrderBy column to sort on
	OrderBy string

	// OrderDir sort direction: "asc" or "desc"
	OrderDir string
}

// SetDefaults fills in default values for FindOptions
func (o *FindOptions) SetDefaults() {
	if o.Limit == 0 {
		o.Limit = 20
	}
	if o.OrderBy == "" {
		o.OrderBy = "created_at"
	}
	if o.OrderDir == "" {
		o.OrderDir = "desc"
	}
}

// GetOrderClause returns the ORDER BY string
func (o *FindOptions) GetOrderClause() string {
	return o.OrderBy + " " + o.OrderDir
}
