package shared

// Filter carries the list-query options every repository FindAll/Count
// pair accepts. Filters holds column/value pairs the repository itself
// whitelists; OrderBy is validated against the repository's sortable
// columns before it reaches SQL.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
