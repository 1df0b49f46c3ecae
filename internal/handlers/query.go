package handlers

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
	"realestate/internal/models"
	"realestate/internal/store"
)

type fieldSet map[string]bool

func newFieldSet(fields ...string) fieldSet {
	set := make(fieldSet, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func (s fieldSet) names() string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// parseListOptions reads page, limit, sort and select from the query string.
func parseListOptions(c *gin.Context, limits ListLimits, sortable, selectable fieldSet) (store.ListOptions, error) {
	page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), limits)
	if err != nil {
		return store.ListOptions{}, err
	}
	sortBy, err := parseSort(c.Query("sort"), sortable)
	if err != nil {
		return store.ListOptions{}, err
	}
	fields, err := parseSelect(c.Query("select"), selectable)
	if err != nil {
		return store.ListOptions{}, err
	}
	return store.ListOptions{Page: page, Limit: limit, Sort: sortBy, Select: fields}, nil
}

// parseSort reads "price,-createdAt": a leading "-" sorts descending.
func parseSort(raw string, allowed fieldSet) ([]store.SortField, error) {
	var fields []store.SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimLeft(part, "-+")
		if !allowed[name] {
			return nil, apperr.Validation("cannot sort by %q, allowed: %s", name, allowed.names())
		}
		fields = append(fields, store.SortField{Field: name, Desc: desc})
	}
	return fields, nil
}

// parseSelect reads "title,price". The id is always returned, so it is
// accepted and dropped here.
func parseSelect(raw string, allowed fieldSet) ([]string, error) {
	var fields []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || name == "id" || seen[name] {
			continue
		}
		if !allowed[name] {
			return nil, apperr.Validation("cannot select %q, allowed: %s", name, allowed.names())
		}
		seen[name] = true
		fields = append(fields, name)
	}
	return fields, nil
}

func parseNumber(param, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.Validation("%s must be a number", param)
	}
	return v, nil
}

// rangeParam describes how a numeric filter may be expressed in the query.
type rangeParam struct {
	field string
	// plain decides how "field=v" is read: as an exact value or a minimum.
	plainIsMin bool
	minKey     string
	maxKey     string
}

// parseRange builds a typed range from "field=v", "field[op]=v" with op in
// gt, gte, lt, lte, and the optional named minimum and maximum keys.
func parseRange(c *gin.Context, p rangeParam) (store.Range, error) {
	var r store.Range

	if raw, ok := c.GetQuery(p.field); ok && strings.TrimSpace(raw) != "" {
		v, err := parseNumber(p.field, raw)
		if err != nil {
			return r, err
		}
		r.Min = &v
		if !p.plainIsMin {
			r.Max = &v
		}
	}

	if ops, ok := c.GetQueryMap(p.field); ok {
		if hasBoth(ops, "gt", "gte") || hasBoth(ops, "lt", "lte") {
			return r, apperr.Validation("conflicting operators for %s", p.field)
		}
		for op, raw := range ops {
			v, err := parseNumber(p.field+"["+op+"]", raw)
			if err != nil {
				return r, err
			}
			switch op {
			case "gt":
				r.Min, r.MinExclusive = &v, true
			case "gte":
				r.Min, r.MinExclusive = &v, false
			case "lt":
				r.Max, r.MaxExclusive = &v, true
			case "lte":
				r.Max, r.MaxExclusive = &v, false
			default:
				return r, apperr.Validation("unsupported operator %q for %s", op, p.field)
			}
		}
	}

	for _, named := range []struct {
		key   string
		isMin bool
	}{{p.minKey, true}, {p.maxKey, false}} {
		if named.key == "" {
			continue
		}
		raw, ok := c.GetQuery(named.key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		v, err := parseNumber(named.key, raw)
		if err != nil {
			return r, err
		}
		if named.isMin {
			r.Min, r.MinExclusive = &v, false
		} else {
			r.Max, r.MaxExclusive = &v, false
		}
	}
	return r, nil
}

func hasBoth(ops map[string]string, a, b string) bool {
	_, okA := ops[a]
	_, okB := ops[b]
	return okA && okB
}

// parseEnumList reads "field=v" or "field[in]=a,b" and checks every value.
func parseEnumList(c *gin.Context, field string, allowed []string) ([]string, error) {
	var values []string
	if raw := strings.TrimSpace(c.Query(field)); raw != "" {
		values = append(values, raw)
	}
	if ops, ok := c.GetQueryMap(field); ok {
		for op, raw := range ops {
			if op != "in" {
				return nil, apperr.Validation("unsupported operator %q for %s", op, field)
			}
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
		}
	}
	for _, v := range values {
		if !models.OneOf(v, allowed) {
			return nil, apperr.Validation("%s must be one of: %s", field, strings.Join(allowed, ", "))
		}
	}
	return values, nil
}

func parseBoolParam(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperr.Validation("%s must be true or false", name)
	}
	return &v, nil
}

// searchTerm returns the free-text query from search, keyword or q.
func searchTerm(c *gin.Context) string {
	for _, key := range []string{"search", "keyword", "q"} {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			return v
		}
	}
	return ""
}
