package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PropertyTypeVilla      = "Villa"
	PropertyTypeHouse      = "House"
	PropertyTypeApartment  = "Apartment"
	PropertyTypeStudio     = "Studio"
	PropertyTypeCommercial = "Commercial"
	PropertyTypeLand       = "Land"

	StatusForSale = "For Sale"
	StatusForRent = "For Rent"
	StatusSold    = "Sold"
	StatusRented  = "Rented"

	AreaUnitSqft = "sqft"
	AreaUnitSqm  = "sqm"
	AreaUnitAana = "aana"

	ParkingAvailable    = "Available"
	ParkingNotAvailable = "Not Available"
)

var (
	PropertyTypes    = []string{PropertyTypeVilla, PropertyTypeHouse, PropertyTypeApartment, PropertyTypeStudio, PropertyTypeCommercial, PropertyTypeLand}
	PropertyStatuses = []string{StatusForSale, StatusForRent, StatusSold, StatusRented}
	AreaUnits        = []string{AreaUnitSqft, AreaUnitSqm, AreaUnitAana}
	ParkingOptions   = []string{ParkingAvailable, ParkingNotAvailable}
)

// OneOf reports whether value is one of the allowed values.
func OneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// PropertyImage is a stored listing photo. PublicID identifies the object in
// the media store and is empty for externally hosted images.
type PropertyImage struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId,omitempty" json:"publicId,omitempty"`
}

type Agent struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Property is a listing owned by a user. Listings created by non-admins stay
// hidden from the public until an admin approves them.
type Property struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Price       float64             `bson:"price" json:"price"`
	Type        string              `bson:"type" json:"type"`
	Status      string              `bson:"status" json:"status"`
	Location    string              `bson:"location" json:"location"`
	Address     string              `bson:"address" json:"address"`
	City        string              `bson:"city,omitempty" json:"city,omitempty"`
	State       string              `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode     string              `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Bedrooms    int                 `bson:"bedrooms" json:"bedrooms"`
	Bathrooms   int                 `bson:"bathrooms" json:"bathrooms"`
	Area        float64             `bson:"area" json:"area"`
	AreaInAana  float64             `bson:"areaInAana,omitempty" json:"areaInAana,omitempty"`
	AreaUnit    string              `bson:"areaUnit" json:"areaUnit"`
	RoadAccess  string              `bson:"roadAccess,omitempty" json:"roadAccess,omitempty"`
	Floors      int                 `bson:"floors" json:"floors"`
	Images      []PropertyImage     `bson:"images" json:"images"`
	Features    StringList          `bson:"features" json:"features"`
	Amenities   StringList          `bson:"amenities" json:"amenities"`
	YearBuilt   int                 `bson:"yearBuilt,omitempty" json:"yearBuilt,omitempty"`
	Parking     string              `bson:"parking" json:"parking"`
	Featured    bool                `bson:"featured" json:"featured"`
	Approved    bool                `bson:"approved" json:"approved"`
	Owner       primitive.ObjectID  `bson:"owner" json:"owner"`
	Buyer       *primitive.ObjectID `bson:"buyer" json:"buyer"`
	SoldAt      *time.Time          `bson:"soldAt" json:"soldAt"`
	Agent       *Agent              `bson:"agent,omitempty" json:"agent,omitempty"`
	Views       int64               `bson:"views" json:"views"`
	IsActive    bool                `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PubliclyVisible reports whether anonymous and non-owner callers may see it.
func (p Property) PubliclyVisible() bool {
	return p.Approved && p.IsActive
}

// ManageableBy reports whether the user may edit or delete the listing.
func (p Property) ManageableBy(u User) bool {
	return u.IsAdmin() || p.Owner == u.ID
}

// ApplyDefaults fills the fields a new listing starts with.
func (p *Property) ApplyDefaults() {
	if p.Status == "" {
		p.Status = StatusForSale
	}
	if p.AreaUnit == "" {
		p.AreaUnit = AreaUnitSqft
	}
	if p.Parking == "" {
		p.Parking = ParkingNotAvailable
	}
	if p.Images == nil {
		p.Images = []PropertyImage{}
	}
	if p.Features == nil {
		p.Features = StringList{}
	}
	if p.Amenities == nil {
		p.Amenities = StringList{}
	}
}

// PropertyView is a property with its owner expanded for responses.
type PropertyView struct {
	Property
	Owner *UserSummary `json:"owner,omitempty"`
}
