package storetest

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
	"realestate/internal/store"
)

type PropertyStore struct{ db *DB }

var _ store.PropertyStore = PropertyStore{}

func (s PropertyStore) Create(_ context.Context, property *models.Property) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if property.ID.IsZero() {
		property.ID = primitive.NewObjectID()
	}
	property.ApplyDefaults()
	now := s.db.now()
	property.CreatedAt = now
	property.UpdatedAt = now
	s.db.properties = append(s.db.properties, cloneProperty(*property))
	return nil
}

func (s PropertyStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.propertyIndex(id)
	if i < 0 {
		return models.Property{}, store.ErrNotFound
	}
	return cloneProperty(s.db.properties[i]), nil
}

func (s PropertyStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Property{}
	for _, id := range ids {
		if i := s.db.propertyIndex(id); i >= 0 {
			out = append(out, cloneProperty(s.db.properties[i]))
		}
	}
	return out, nil
}

func matchProperty(p models.Property, f store.PropertyFilter) bool {
	switch {
	case !matchOne(p.Type, f.Types), !matchOne(p.Status, f.Statuses):
		return false
	case f.City != "" && !strings.EqualFold(p.City, f.City):
		return false
	case f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)):
		return false
	case f.AreaUnit != "" && p.AreaUnit != f.AreaUnit:
		return false
	case !f.Price.Contains(p.Price), !f.Area.Contains(p.Area):
		return false
	case !f.Bedrooms.Contains(float64(p.Bedrooms)), !f.Bathrooms.Contains(float64(p.Bathrooms)):
		return false
	case !f.Views.Contains(float64(p.Views)):
		return false
	case !matchBool(p.Featured, f.Featured), !matchBool(p.Approved, f.Approved), !matchBool(p.IsActive, f.IsActive):
		return false
	case f.Owner != nil && p.Owner != *f.Owner:
		return false
	case f.Buyer != nil && (p.Buyer == nil || *p.Buyer != *f.Buyer):
		return false
	case f.Search != "" && !containsFold(f.Search, p.Title, p.Description, p.Location):
		return false
	}
	return true
}

func propertyField(p models.Property, name string) any {
	switch name {
	case "title":
		return p.Title
	case "price":
		return p.Price
	case "type":
		return p.Type
	case "status":
		return p.Status
	case "city":
		return p.City
	case "location":
		return p.Location
	case "bedrooms":
		return float64(p.Bedrooms)
	case "bathrooms":
		return float64(p.Bathrooms)
	case "area":
		return p.Area
	case "yearBuilt":
		return float64(p.YearBuilt)
	case "views":
		return float64(p.Views)
	case "featured":
		return p.Featured
	case "updatedAt":
		return p.UpdatedAt
	default:
		return p.CreatedAt
	}
}

func (s PropertyStore) List(_ context.Context, filter store.PropertyFilter, opts store.ListOptions) (store.Page[models.Property], error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	matches := []models.Property{}
	for _, p := range s.db.properties {
		if matchProperty(p, filter) {
			matches = append(matches, cloneProperty(p))
		}
	}
	return paginate(matches, opts, propertyField, []store.SortField{{Field: "createdAt", Desc: true}}), nil
}

func (s PropertyStore) Count(_ context.Context, filter store.PropertyFilter) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, p := range s.db.properties {
		if matchProperty(p, filter) {
			n++
		}
	}
	return n, nil
}

// mutate applies fn to the stored property under the lock.
func (s PropertyStore) mutate(id primitive.ObjectID, fn func(p *models.Property) error) (models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.propertyIndex(id)
	if i < 0 {
		return models.Property{}, store.ErrNotFound
	}
	p := cloneProperty(s.db.properties[i])
	if err := fn(&p); err != nil {
		return models.Property{}, err
	}
	p.UpdatedAt = s.db.now()
	s.db.properties[i] = p
	return cloneProperty(p), nil
}

func (s PropertyStore) Update(_ context.Context, id primitive.ObjectID, u store.PropertyUpdate) (models.Property, error) {
	return s.mutate(id, func(p *models.Property) error {
		setString(&p.Title, u.Title)
		setString(&p.Description, u.Description)
		setString(&p.Type, u.Type)
		setString(&p.Status, u.Status)
		setString(&p.Location, u.Location)
		setString(&p.Address, u.Address)
		setString(&p.City, u.City)
		setString(&p.State, u.State)
		setString(&p.ZipCode, u.ZipCode)
		setString(&p.AreaUnit, u.AreaUnit)
		setString(&p.RoadAccess, u.RoadAccess)
		setString(&p.Parking, u.Parking)
		if u.Price != nil {
			p.Price = *u.Price
		}
		if u.Area != nil {
			p.Area = *u.Area
		}
		if u.AreaInAana != nil {
			p.AreaInAana = *u.AreaInAana
		}
		if u.Bedrooms != nil {
			p.Bedrooms = *u.Bedrooms
		}
		if u.Bathrooms != nil {
			p.Bathrooms = *u.Bathrooms
		}
		if u.Floors != nil {
			p.Floors = *u.Floors
		}
		if u.YearBuilt != nil {
			p.YearBuilt = *u.YearBuilt
		}
		if u.Features != nil {
			p.Features = append(models.StringList{}, (*u.Features)...)
		}
		if u.Amenities != nil {
			p.Amenities = append(models.StringList{}, (*u.Amenities)...)
		}
		if u.Agent != nil {
			agent := *u.Agent
			p.Agent = &agent
		}
		if u.IsActive != nil {
			p.IsActive = *u.IsActive
		}
		if u.Featured != nil {
			p.Featured = *u.Featured
		}
		if u.Approved != nil {
			p.Approved = *u.Approved
		}
		return nil
	})
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (s PropertyStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.propertyIndex(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.properties = append(s.db.properties[:i], s.db.properties[i+1:]...)
	return nil
}

func (s PropertyStore) IncrementViews(_ context.Context, id primitive.ObjectID) (models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.propertyIndex(id)
	if i < 0 {
		return models.Property{}, store.ErrNotFound
	}
	s.db.properties[i].Views++
	return cloneProperty(s.db.properties[i]), nil
}

func (s PropertyStore) Approve(_ context.Context, id primitive.ObjectID) (models.Property, error) {
	return s.mutate(id, func(p *models.Property) error {
		p.Approved = true
		return nil
	})
}

func (s PropertyStore) ToggleFeatured(_ context.Context, id primitive.ObjectID) (models.Property, error) {
	return s.mutate(id, func(p *models.Property) error {
		p.Featured = !p.Featured
		return nil
	})
}

func (s PropertyStore) Purchase(_ context.Context, id, buyer primitive.ObjectID, at time.Time) (models.Property, error) {
	return s.mutate(id, func(p *models.Property) error {
		if p.Status == models.StatusSold {
			return store.ErrConditionFailed
		}
		b := buyer
		soldAt := at
		p.Status = models.StatusSold
		p.Buyer = &b
		p.SoldAt = &soldAt
		return nil
	})
}

func (s PropertyStore) AddImages(_ context.Context, id primitive.ObjectID, images []models.PropertyImage) (models.Property, error) {
	return s.mutate(id, func(p *models.Property) error {
		p.Images = append(p.Images, images...)
		return nil
	})
}

func (s PropertyStore) RemoveImage(_ context.Context, id primitive.ObjectID, publicID string) (models.Property, error) {
	return s.mutate(id, func(p *models.Property) error {
		kept := []models.PropertyImage{}
		for _, img := range p.Images {
			if img.PublicID != publicID {
				kept = append(kept, img)
			}
		}
		p.Images = kept
		return nil
	})
}

func (s PropertyStore) DistinctOwners(context.Context) ([]primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	seen := map[primitive.ObjectID]bool{}
	out := []primitive.ObjectID{}
	for _, p := range s.db.properties {
		if !seen[p.Owner] {
			seen[p.Owner] = true
			out = append(out, p.Owner)
		}
	}
	return out, nil
}

func (s PropertyStore) DeleteByOwners(_ context.Context, owners []primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	drop := map[primitive.ObjectID]bool{}
	for _, id := range owners {
		drop[id] = true
	}
	var removed int64
	kept := s.db.properties[:0]
	for _, p := range s.db.properties {
		if drop[p.Owner] {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.db.properties = kept
	return removed, nil
}

// Insert stores a property as-is, keeping its owner, flags and timestamps.
// Tests use it to plant fixtures such as orphaned listings.
func (db *DB) Insert(p models.Property) models.Property {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.ApplyDefaults()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = db.now()
		p.UpdatedAt = p.CreatedAt
	}
	db.properties = append(db.properties, cloneProperty(p))
	return p
}
