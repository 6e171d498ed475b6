package domain

// Sort columns accepted by MemeFilter.
var SortableColumns = map[string]string{
	"likes":     "likes",
	"views":     "views",
	"comments":  "comments",
	"shares":    "shares",
	"post_date": "post_date",
}

const (
	DefaultSortBy = "likes"
	DefaultLimit  = 50
	MaxLimit      = 100
)

// MemeFilter narrows a listing of stored memes.
type MemeFilter struct {
	Platform string
	Tag      string
	SortBy   string
	Desc     bool
	Limit    uint64
}

// Normalize replaces unknown sort columns and empty limits with defaults
// and caps the limit at MaxLimit.
func (f MemeFilter) Normalize() MemeFilter {
	if _, ok := SortableColumns[f.SortBy]; !ok {
		f.SortBy = DefaultSortBy
		f.Desc = true
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}
