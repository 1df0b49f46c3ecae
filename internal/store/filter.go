package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Range is a numeric predicate. A nil bound emits no predicate.
type Range struct {
	Min          *float64
	Max          *float64
	MinExclusive bool
	MaxExclusive bool
}

func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

func (r Range) Contains(v float64) bool {
	if r.Min != nil {
		if r.MinExclusive && v <= *r.Min || !r.MinExclusive && v < *r.Min {
			return false
		}
	}
	if r.Max != nil {
		if r.MaxExclusive && v >= *r.Max || !r.MaxExclusive && v > *r.Max {
			return false
		}
	}
	return true
}

type PropertyFilter struct {
	Types     []string
	Statuses  []string
	City      string
	Location  string
	AreaUnit  string
	Price     Range
	Area      Range
	Bedrooms  Range
	Bathrooms Range
	Views     Range
	Featured  *bool
	Approved  *bool
	IsActive  *bool
	Owner     *primitive.ObjectID
	Buyer     *primitive.ObjectID
	Search    string
}

// RestrictToPublic limits the filter to approved, active listings no matter
// what the caller asked for.
func (f *PropertyFilter) RestrictToPublic() {
	yes := true
	f.Approved = &yes
	f.IsActive = &yes
}

type UserFilter struct {
	Role         string
	IsActive     *bool
	Search       string
	CreatedSince *time.Time
}

type ContactFilter struct {
	Statuses []string
	Replied  *bool
	Search   string
}

type SortField struct {
	Field string
	Desc  bool
}

// ListOptions controls paging, ordering and projection. Page is 1-based.
// An empty Sort means newest first, or best text match when searching.
type ListOptions struct {
	Page   int64
	Limit  int64
	Sort   []SortField
	Select []string
}

func (o ListOptions) Skip() int64 {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// Page is one page of results plus the number of matches before paging.
type Page[T any] struct {
	Items []T
	Total int64
}
