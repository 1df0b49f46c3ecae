// Package storetest provides an in-memory implementation of the store
// interfaces with the same semantics as the MongoDB one.
package storetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
	"realestate/internal/store"
)

// ErrInterrupted is returned by DeleteCascade when InterruptCascade is set.
var ErrInterrupted = errors.New("storetest: cascade interrupted")

// DB holds every collection behind one lock so cascades stay consistent.
type DB struct {
	mu         sync.Mutex
	users      []models.User
	properties []models.Property
	contacts   []models.Contact
	tokens     []models.RefreshToken
	last       time.Time

	// InterruptCascade makes DeleteCascade stop after marking the user and
	// removing its properties, as a crash between the two steps would.
	InterruptCascade bool
	// PingErr is returned by Ping.
	PingErr error
}

func New() *DB {
	return &DB{}
}

// Stores returns the store bundle backed by this DB.
func (db *DB) Stores() store.Stores {
	return store.Stores{
		Users:      UserStore{db},
		Properties: PropertyStore{db},
		Contacts:   ContactStore{db},
		Tokens:     TokenStore{db},
		Health:     db,
	}
}

func (db *DB) Ping(context.Context) error { return db.PingErr }

// now returns strictly increasing timestamps so creation order is total.
func (db *DB) now() time.Time {
	t := time.Now().UTC().Truncate(time.Millisecond)
	if !t.After(db.last) {
		t = db.last.Add(time.Millisecond)
	}
	db.last = t
	return t
}

func (db *DB) userIndex(id primitive.ObjectID) int {
	for i := range db.users {
		if db.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (db *DB) propertyIndex(id primitive.ObjectID) int {
	for i := range db.properties {
		if db.properties[i].ID == id {
			return i
		}
	}
	return -1
}

func (db *DB) contactIndex(id primitive.ObjectID) int {
	for i := range db.contacts {
		if db.contacts[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func cloneUser(u models.User) models.User {
	u.Favorites = cloneIDs(u.Favorites)
	return u
}

func cloneProperty(p models.Property) models.Property {
	p.Images = append([]models.PropertyImage{}, p.Images...)
	p.Features = append(models.StringList{}, p.Features...)
	p.Amenities = append(models.StringList{}, p.Amenities...)
	if p.Agent != nil {
		agent := *p.Agent
		p.Agent = &agent
	}
	return p
}

// paginate sorts matches and cuts the requested page.
func paginate[T any](items []T, opts store.ListOptions, field func(T, string) any, defaultSort []store.SortField) store.Page[T] {
	sortBy := opts.Sort
	if len(sortBy) == 0 {
		sortBy = defaultSort
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, s := range sortBy {
			c := compareValues(field(items[i], s.Field), field(items[j], s.Field))
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	total := int64(len(items))
	start := opts.Skip()
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < total {
		end = start + opts.Limit
	}
	page := make([]T, 0, end-start)
	page = append(page, items[start:end]...)
	return store.Page[T]{Items: page, Total: total}
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case bool:
		bv, _ := b.(bool)
		switch {
		case !av && bv:
			return -1
		case av && !bv:
			return 1
		}
	}
	return 0
}

// containsFold reports whether any whitespace-separated term of query occurs
// in one of the fields, ignoring case.
func containsFold(query string, fields ...string) bool {
	for _, term := range strings.Fields(strings.ToLower(query)) {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
	}
	return false
}

func matchOne(value string, allowed []string) bool {
	return len(allowed) == 0 || models.OneOf(value, allowed)
}

func matchBool(value bool, want *bool) bool {
	return want == nil || *want == value
}
