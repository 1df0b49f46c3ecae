package database

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/store"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// propertyFilterDoc translates a typed property filter into a MongoDB query.
// Unset fields and open range bounds add no predicate.
func propertyFilterDoc(f store.PropertyFilter) bson.M {
	doc := bson.M{}
	setIn(doc, "type", f.Types)
	setIn(doc, "status", f.Statuses)
	if f.City != "" {
		doc["city"] = exactFold(f.City)
	}
	if f.Location != "" {
		doc["location"] = containsFold(f.Location)
	}
	if f.AreaUnit != "" {
		doc["areaUnit"] = f.AreaUnit
	}
	setRange(doc, "price", f.Price)
	setRange(doc, "area", f.Area)
	setRange(doc, "bedrooms", f.Bedrooms)
	setRange(doc, "bathrooms", f.Bathrooms)
	setRange(doc, "views", f.Views)
	setBool(doc, "featured", f.Featured)
	setBool(doc, "approved", f.Approved)
	setBool(doc, "isActive", f.IsActive)
	if f.Owner != nil {
		doc["owner"] = *f.Owner
	}
	if f.Buyer != nil {
		doc["buyer"] = *f.Buyer
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		doc["$text"] = bson.M{"$search": search}
	}
	return doc
}

func userFilterDoc(f store.UserFilter) bson.M {
	doc := bson.M{"pendingDeletion": bson.M{"$ne": true}}
	if f.Role != "" {
		doc["role"] = f.Role
	}
	setBool(doc, "isActive", f.IsActive)
	if f.CreatedSince != nil {
		doc["createdAt"] = bson.M{"$gte": *f.CreatedSince}
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		doc["$or"] = bson.A{
			bson.M{"name": containsFold(search)},
			bson.M{"email": containsFold(search)},
		}
	}
	return doc
}

func contactFilterDoc(f store.ContactFilter) bson.M {
	doc := bson.M{}
	setIn(doc, "status", f.Statuses)
	setBool(doc, "replied", f.Replied)
	if search := strings.TrimSpace(f.Search); search != "" {
		doc["$or"] = bson.A{
			bson.M{"name": containsFold(search)},
			bson.M{"email": containsFold(search)},
			bson.M{"subject": containsFold(search)},
		}
	}
	return doc
}

// rangeDoc returns the comparison operators for r, or nil when unbounded.
func rangeDoc(r store.Range) bson.M {
	if r.IsZero() {
		return nil
	}
	doc := bson.M{}
	if r.Min != nil {
		op := "$gte"
		if r.MinExclusive {
			op = "$gt"
		}
		doc[op] = *r.Min
	}
	if r.Max != nil {
		op := "$lte"
		if r.MaxExclusive {
			op = "$lt"
		}
		doc[op] = *r.Max
	}
	return doc
}

func setRange(doc bson.M, field string, r store.Range) {
	if cond := rangeDoc(r); cond != nil {
		doc[field] = cond
	}
}

func setIn(doc bson.M, field string, values []string) {
	switch len(values) {
	case 0:
	case 1:
		doc[field] = values[0]
	default:
		doc[field] = bson.M{"$in": values}
	}
}

func setBool(doc bson.M, field string, v *bool) {
	if v != nil {
		doc[field] = *v
	}
}

func exactFold(v string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(v) + "$", Options: "i"}
}

func containsFold(v string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
}

// sortDoc converts sort fields, falling back to def when none are given.
func sortDoc(fields []store.SortField, def bson.D) bson.D {
	if len(fields) == 0 {
		return def
	}
	doc := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: f.Field, Value: dir})
	}
	return doc
}

// propertySort orders text searches by relevance unless a sort was requested.
func propertySort(f store.PropertyFilter, opts store.ListOptions) bson.D {
	if len(opts.Sort) == 0 && strings.TrimSpace(f.Search) != "" {
		return bson.D{
			{Key: "score", Value: bson.M{"$meta": "textScore"}},
			{Key: "createdAt", Value: -1},
		}
	}
	return sortDoc(opts.Sort, newestFirst)
}

// projectionDoc includes the selected fields; _id is always returned.
func projectionDoc(fields []string) bson.M {
	if len(fields) == 0 {
		return nil
	}
	doc := bson.M{"_id": 1}
	for _, f := range fields {
		doc[f] = 1
	}
	return doc
}

// propertyUpdateDoc builds the $set document for a property update.
func propertyUpdateDoc(u store.PropertyUpdate) bson.M {
	set := bson.M{}
	putString := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	putString("title", u.Title)
	putString("description", u.Description)
	putString("type", u.Type)
	putString("status", u.Status)
	putString("location", u.Location)
	putString("address", u.Address)
	putString("city", u.City)
	putString("state", u.State)
	putString("zipCode", u.ZipCode)
	putString("areaUnit", u.AreaUnit)
	putString("roadAccess", u.RoadAccess)
	putString("parking", u.Parking)
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Area != nil {
		set["area"] = *u.Area
	}
	if u.AreaInAana != nil {
		set["areaInAana"] = *u.AreaInAana
	}
	if u.Bedrooms != nil {
		set["bedrooms"] = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		set["bathrooms"] = *u.Bathrooms
	}
	if u.Floors != nil {
		set["floors"] = *u.Floors
	}
	if u.YearBuilt != nil {
		set["yearBuilt"] = *u.YearBuilt
	}
	if u.Features != nil {
		set["features"] = *u.Features
	}
	if u.Amenities != nil {
		set["amenities"] = *u.Amenities
	}
	if u.Agent != nil {
		set["agent"] = *u.Agent
	}
	setBool(set, "isActive", u.IsActive)
	setBool(set, "featured", u.Featured)
	setBool(set, "approved", u.Approved)
	return set
}

func userUpdateDoc(u store.UserUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = normalizeEmail(*u.Email)
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.Role != nil {
		set["role"] = *u.Role
	}
	setBool(set, "isActive", u.IsActive)
	return set
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
