package handlers

import (
	"strings"
	"time"

	"realestate/internal/apperr"
	"realestate/internal/models"
	"realestate/internal/store"
)

// PropertyRequest is the body of create and update requests. Nil fields are
// left unchanged on update.
type PropertyRequest struct {
	Title       *string                `json:"title" binding:"omitempty,max=100"`
	Description *string                `json:"description" binding:"omitempty,max=2000"`
	Price       *float64               `json:"price" binding:"omitempty,gte=0"`
	Type        *string                `json:"type"`
	Status      *string                `json:"status"`
	Location    *string                `json:"location"`
	Address     *string                `json:"address"`
	City        *string                `json:"city"`
	State       *string                `json:"state"`
	ZipCode     *string                `json:"zipCode"`
	Bedrooms    *int                   `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms   *int                   `json:"bathrooms" binding:"omitempty,gte=0"`
	Area        *float64               `json:"area" binding:"omitempty,gte=0"`
	AreaInAana  *float64               `json:"areaInAana" binding:"omitempty,gte=0"`
	AreaUnit    *string                `json:"areaUnit"`
	RoadAccess  *string                `json:"roadAccess"`
	Floors      *int                   `json:"floors" binding:"omitempty,gte=0"`
	Images      []models.PropertyImage `json:"images"`
	Features    *models.StringList     `json:"features"`
	Amenities   *models.StringList     `json:"amenities"`
	YearBuilt   *int                   `json:"yearBuilt"`
	Parking     *string                `json:"parking"`
	Agent       *models.Agent          `json:"agent"`
	IsActive    *bool                  `json:"isActive"`
	Featured    *bool                  `json:"featured"`
	Approved    *bool                  `json:"approved"`
}

// validate checks the rules binding tags cannot express. On create the
// listing's required fields must be present and non-blank.
func (r *PropertyRequest) validate(create bool, now time.Time) error {
	r.Title = trimmed(r.Title)
	r.Location = trimmed(r.Location)
	r.Address = trimmed(r.Address)
	r.City = trimmed(r.City)
	r.State = trimmed(r.State)
	r.ZipCode = trimmed(r.ZipCode)
	r.RoadAccess = trimmed(r.RoadAccess)

	var missing []string
	required := []struct {
		name    string
		present bool
	}{
		{"title", r.Title != nil && *r.Title != ""},
		{"description", r.Description != nil && strings.TrimSpace(*r.Description) != ""},
		{"price", r.Price != nil},
		{"type", r.Type != nil},
		{"location", r.Location != nil && *r.Location != ""},
		{"address", r.Address != nil && *r.Address != ""},
		{"area", r.Area != nil},
	}
	for _, field := range required {
		if create && !field.present || !create && presentButBlank(r, field.name) {
			missing = append(missing, field.name+" is required")
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("%s", strings.Join(missing, ", "))
	}

	for _, check := range []error{
		checkEnum("type", r.Type, models.PropertyTypes),
		checkEnum("status", r.Status, models.PropertyStatuses),
		checkEnum("areaUnit", r.AreaUnit, models.AreaUnits),
		checkEnum("parking", r.Parking, models.ParkingOptions),
	} {
		if check != nil {
			return check
		}
	}

	if r.YearBuilt != nil {
		if *r.YearBuilt < 1800 {
			return apperr.Validation("Year built seems invalid")
		}
		if *r.YearBuilt > now.Year()+2 {
			return apperr.Validation("Year built cannot be in the future")
		}
	}
	for _, img := range r.Images {
		if strings.TrimSpace(img.URL) == "" {
			return apperr.Validation("images must have a url")
		}
	}
	return nil
}

// presentButBlank reports whether an update sent a required text field as
// an empty string.
func presentButBlank(r *PropertyRequest, name string) bool {
	var v *string
	switch name {
	case "title":
		v = r.Title
	case "description":
		v = r.Description
	case "location":
		v = r.Location
	case "address":
		v = r.Address
	}
	return v != nil && strings.TrimSpace(*v) == ""
}

// newProperty builds the listing a create request describes.
func (r *PropertyRequest) newProperty(owner models.User) models.Property {
	p := models.Property{
		Title:       deref(r.Title),
		Description: deref(r.Description),
		Price:       derefFloat(r.Price),
		Type:        deref(r.Type),
		Status:      deref(r.Status),
		Location:    deref(r.Location),
		Address:     deref(r.Address),
		City:        deref(r.City),
		State:       deref(r.State),
		ZipCode:     deref(r.ZipCode),
		Area:        derefFloat(r.Area),
		AreaInAana:  derefFloat(r.AreaInAana),
		AreaUnit:    deref(r.AreaUnit),
		RoadAccess:  deref(r.RoadAccess),
		Floors:      1,
		Images:      r.Images,
		Parking:     deref(r.Parking),
		Agent:       r.Agent,
		Owner:       owner.ID,
		Approved:    owner.IsAdmin(),
		IsActive:    true,
	}
	if r.Bedrooms != nil {
		p.Bedrooms = *r.Bedrooms
	}
	if r.Bathrooms != nil {
		p.Bathrooms = *r.Bathrooms
	}
	if r.Floors != nil {
		p.Floors = *r.Floors
	}
	if r.YearBuilt != nil {
		p.YearBuilt = *r.YearBuilt
	}
	if r.Features != nil {
		p.Features = *r.Features
	}
	if r.Amenities != nil {
		p.Amenities = *r.Amenities
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	if owner.IsAdmin() && r.Featured != nil {
		p.Featured = *r.Featured
	}
	p.ApplyDefaults()
	return p
}

// update lists the changes a caller may make. Moderation flags are only
// taken from admins.
func (r *PropertyRequest) update(admin bool) store.PropertyUpdate {
	u := store.PropertyUpdate{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Type:        r.Type,
		Status:      r.Status,
		Location:    r.Location,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		ZipCode:     r.ZipCode,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Area:        r.Area,
		AreaInAana:  r.AreaInAana,
		AreaUnit:    r.AreaUnit,
		RoadAccess:  r.RoadAccess,
		Floors:      r.Floors,
		Features:    r.Features,
		Amenities:   r.Amenities,
		YearBuilt:   r.YearBuilt,
		Parking:     r.Parking,
		Agent:       r.Agent,
		IsActive:    r.IsActive,
	}
	if admin {
		u.Featured = r.Featured
		u.Approved = r.Approved
	}
	return u
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
