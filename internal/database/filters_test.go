package database

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
	"realestate/internal/store"
)

func floatPtr(v float64) *float64 { return &v }

func TestPropertyFilterDocOmitsOpenBounds(t *testing.T) {
	doc := propertyFilterDoc(store.PropertyFilter{
		Price: store.Range{Min: floatPtr(1000000)},
	})

	want := bson.M{"price": bson.M{"$gte": 1000000.0}}
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("expected %v, got %v", want, doc)
	}
}

func TestPropertyFilterDocEmptyFilterMatchesEverything(t *testing.T) {
	if doc := propertyFilterDoc(store.PropertyFilter{}); len(doc) != 0 {
		t.Fatalf("expected empty query, got %v", doc)
	}
}

func TestPropertyFilterDocFullTranslation(t *testing.T) {
	yes := true
	owner := primitive.NewObjectID()
	doc := propertyFilterDoc(store.PropertyFilter{
		Types:    []string{models.PropertyTypeVilla, models.PropertyTypeHouse},
		Statuses: []string{models.StatusForSale},
		City:     "Kathmandu",
		Location: "Lake.Side",
		Price:    store.Range{Min: floatPtr(10), Max: floatPtr(20), MaxExclusive: true},
		Bedrooms: store.Range{Min: floatPtr(3)},
		Approved: &yes,
		IsActive: &yes,
		Owner:    &owner,
		Search:   "  garden view ",
	})

	want := bson.M{
		"type":     bson.M{"$in": []string{"Villa", "House"}},
		"status":   "For Sale",
		"city":     primitive.Regex{Pattern: "^Kathmandu$", Options: "i"},
		"location": primitive.Regex{Pattern: `Lake\.Side`, Options: "i"},
		"price":    bson.M{"$gte": 10.0, "$lt": 20.0},
		"bedrooms": bson.M{"$gte": 3.0},
		"approved": true,
		"isActive": true,
		"owner":    owner,
		"$text":    bson.M{"$search": "garden view"},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("unexpected query\nwant %v\ngot  %v", want, doc)
	}
}

func TestRangeDocExclusiveMin(t *testing.T) {
	got := rangeDoc(store.Range{Min: floatPtr(5), MinExclusive: true})
	if !reflect.DeepEqual(got, bson.M{"$gt": 5.0}) {
		t.Fatalf("unexpected range %v", got)
	}
	if rangeDoc(store.Range{}) != nil {
		t.Fatalf("expected nil for unbounded range")
	}
}

func TestUserFilterDocSkipsPendingDeletion(t *testing.T) {
	no := false
	doc := userFilterDoc(store.UserFilter{Role: models.RoleAdmin, IsActive: &no, Search: "a+b"})

	if !reflect.DeepEqual(doc["pendingDeletion"], bson.M{"$ne": true}) {
		t.Fatalf("expected pendingDeletion guard, got %v", doc["pendingDeletion"])
	}
	if doc["role"] != "admin" || doc["isActive"] != false {
		t.Fatalf("unexpected equality predicates %v", doc)
	}
	or, ok := doc["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected two-branch $or, got %v", doc["$or"])
	}
	if !reflect.DeepEqual(or[0], bson.M{"name": primitive.Regex{Pattern: `a\+b`, Options: "i"}}) {
		t.Fatalf("search term not escaped: %v", or[0])
	}
}

func TestContactFilterDoc(t *testing.T) {
	doc := contactFilterDoc(store.ContactFilter{Statuses: []string{"new", "read"}})
	if !reflect.DeepEqual(doc, bson.M{"status": bson.M{"$in": []string{"new", "read"}}}) {
		t.Fatalf("unexpected query %v", doc)
	}
}

func TestSortDoc(t *testing.T) {
	got := sortDoc([]store.SortField{{Field: "price", Desc: true}, {Field: "title"}}, newestFirst)
	want := bson.D{{Key: "price", Value: -1}, {Key: "title", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !reflect.DeepEqual(sortDoc(nil, newestFirst), newestFirst) {
		t.Fatalf("expected default sort")
	}
}

func TestPropertySortUsesTextScoreOnlyWithoutExplicitSort(t *testing.T) {
	search := store.PropertyFilter{Search: "villa"}

	got := propertySort(search, store.ListOptions{})
	if got[0].Key != "score" {
		t.Fatalf("expected text score sort, got %v", got)
	}

	got = propertySort(search, store.ListOptions{Sort: []store.SortField{{Field: "price"}}})
	if !reflect.DeepEqual(got, bson.D{{Key: "price", Value: 1}}) {
		t.Fatalf("explicit sort should win, got %v", got)
	}
}

func TestProjectionDocAlwaysKeepsID(t *testing.T) {
	if projectionDoc(nil) != nil {
		t.Fatalf("expected no projection without select")
	}
	got := projectionDoc([]string{"title", "price"})
	want := bson.M{"_id": 1, "title": 1, "price": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPropertyUpdateDocOnlySetsProvidedFields(t *testing.T) {
	title := "New title"
	price := 42.0
	features := models.StringList{"pool"}
	got := propertyUpdateDoc(store.PropertyUpdate{Title: &title, Price: &price, Features: &features})

	want := bson.M{"title": "New title", "price": 42.0, "features": models.StringList{"pool"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUserUpdateDocNormalizesEmail(t *testing.T) {
	email := "  Jane@Example.COM "
	got := userUpdateDoc(store.UserUpdate{Email: &email})
	if got["email"] != "jane@example.com" {
		t.Fatalf("expected normalized email, got %v", got["email"])
	}
}
