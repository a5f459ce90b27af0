package pagination

const (
	DefaultLimit = 100
	MaxLimit     = 250
)

// Pagination is the offset window bound from `?skip=&limit=`.
type Pagination struct {
	Skip  int `form:"skip,default=0"`
	Limit int `form:"limit,default=100"`
}

// Normalize clamps the window to skip >= 0 and 1 <= limit <= MaxLimit.
func (p Pagination) Normalize() Pagination {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

type PageInfo struct {
	Skip    int   `json:"skip"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}

func BuildPageInfo(p Pagination, total int64) PageInfo {
	p = p.Normalize()
	return PageInfo{
		Skip:    p.Skip,
		Limit:   p.Limit,
		Total:   total,
		HasMore: int64(p.Skip+p.Limit) < total,
	}
}
