// Package seed loads sample users, properties and contact messages from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"

	"realestate/internal/auth"
	"realestate/internal/models"
	"realestate/internal/store"
)

type File struct {
	Users      []User     `yaml:"users"`
	Properties []Property `yaml:"properties"`
	Contacts   []Contact  `yaml:"contacts"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Phone    string `yaml:"phone"`
	Address  string `yaml:"address"`
	IsActive *bool  `yaml:"is_active"`
}

// Property is a listing owned by the seed user with the given email.
type Property struct {
	Owner       string   `yaml:"owner"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Type        string   `yaml:"type"`
	Status      string   `yaml:"status"`
	Location    string   `yaml:"location"`
	Address     string   `yaml:"address"`
	City        string   `yaml:"city"`
	State       string   `yaml:"state"`
	ZipCode     string   `yaml:"zip_code"`
	Bedrooms    int      `yaml:"bedrooms"`
	Bathrooms   int      `yaml:"bathrooms"`
	Area        float64  `yaml:"area"`
	AreaUnit    string   `yaml:"area_unit"`
	Floors      int      `yaml:"floors"`
	Images      []string `yaml:"images"`
	Features    []string `yaml:"features"`
	Amenities   []string `yaml:"amenities"`
	YearBuilt   int      `yaml:"year_built"`
	Parking     string   `yaml:"parking"`
	Featured    bool     `yaml:"featured"`
	Approved    bool     `yaml:"approved"`
}

type Contact struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Subject string `yaml:"subject"`
	Message string `yaml:"message"`
	Status  string `yaml:"status"`
}

// Result counts what Apply created.
type Result struct {
	Users      int
	Properties int
	Contacts   int
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for i, u := range f.Users {
		if strings.TrimSpace(u.Email) == "" || u.Password == "" {
			return fmt.Errorf("users[%d]: email and password are required", i)
		}
		if u.Role != "" && !models.OneOf(u.Role, models.Roles) {
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
	}
	for i, p := range f.Properties {
		if strings.TrimSpace(p.Owner) == "" {
			return fmt.Errorf("properties[%d]: owner is required", i)
		}
		if !models.OneOf(p.Type, models.PropertyTypes) {
			return fmt.Errorf("properties[%d]: unknown type %q", i, p.Type)
		}
		if p.Status != "" && !models.OneOf(p.Status, models.PropertyStatuses) {
			return fmt.Errorf("properties[%d]: unknown status %q", i, p.Status)
		}
	}
	for i, c := range f.Contacts {
		if c.Status != "" && !models.OneOf(c.Status, models.ContactStatuses) {
			return fmt.Errorf("contacts[%d]: unknown status %q", i, c.Status)
		}
	}
	return nil
}

// Apply creates the users that do not exist yet, then the listings each
// owner does not already have under the same title, then the contacts.
func Apply(ctx context.Context, stores store.Stores, f *File) (Result, error) {
	var res Result
	owners := map[string]primitive.ObjectID{}

	for _, u := range f.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		existing, err := stores.Users.FindByEmail(ctx, email)
		if err == nil {
			owners[email] = existing.ID
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return res, err
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return res, err
		}
		user := models.User{
			Name:         u.Name,
			Email:        email,
			PasswordHash: hash,
			Role:         u.Role,
			Phone:        u.Phone,
			Address:      u.Address,
			IsActive:     u.IsActive == nil || *u.IsActive,
			Favorites:    []primitive.ObjectID{},
		}
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		if err := stores.Users.Create(ctx, &user); err != nil {
			return res, fmt.Errorf("create user %s: %w", email, err)
		}
		owners[email] = user.ID
		res.Users++
		log.Printf("[SEED] [INFO] user created: %s", email)
	}

	titles := map[primitive.ObjectID]map[string]bool{}
	for _, p := range f.Properties {
		email := strings.ToLower(strings.TrimSpace(p.Owner))
		ownerID, ok := owners[email]
		if !ok {
			return res, fmt.Errorf("property %q: owner %s is not a seed user", p.Title, email)
		}
		if titles[ownerID] == nil {
			owned, err := stores.Properties.List(ctx, store.PropertyFilter{Owner: &ownerID}, store.ListOptions{Page: 1})
			if err != nil {
				return res, err
			}
			titles[ownerID] = map[string]bool{}
			for _, existing := range owned.Items {
				titles[ownerID][existing.Title] = true
			}
		}
		if titles[ownerID][p.Title] {
			continue
		}

		property := p.model(ownerID)
		if err := stores.Properties.Create(ctx, &property); err != nil {
			return res, fmt.Errorf("create property %q: %w", p.Title, err)
		}
		titles[ownerID][p.Title] = true
		res.Properties++
	}

	for _, c := range f.Contacts {
		contact := models.Contact{
			Name:    c.Name,
			Email:   strings.ToLower(strings.TrimSpace(c.Email)),
			Phone:   c.Phone,
			Subject: c.Subject,
			Message: c.Message,
			Status:  c.Status,
		}
		if err := stores.Contacts.Create(ctx, &contact); err != nil {
			return res, fmt.Errorf("create contact from %s: %w", c.Email, err)
		}
		res.Contacts++
	}

	log.Printf("[SEED] [INFO] created %d users, %d properties, %d contacts", res.Users, res.Properties, res.Contacts)
	return res, nil
}

func (p Property) model(owner primitive.ObjectID) models.Property {
	images := make([]models.PropertyImage, 0, len(p.Images))
	for _, url := range p.Images {
		images = append(images, models.PropertyImage{URL: url})
	}
	floors := p.Floors
	if floors == 0 {
		floors = 1
	}
	property := models.Property{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Type:        p.Type,
		Status:      p.Status,
		Location:    p.Location,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		ZipCode:     p.ZipCode,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Area:        p.Area,
		AreaUnit:    p.AreaUnit,
		Floors:      floors,
		Images:      images,
		Features:    models.StringList(p.Features),
		Amenities:   models.StringList(p.Amenities),
		YearBuilt:   p.YearBuilt,
		Parking:     p.Parking,
		Featured:    p.Featured,
		Approved:    p.Approved,
		Owner:       owner,
		IsActive:    true,
	}
	property.ApplyDefaults()
	return property
}
