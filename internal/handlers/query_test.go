package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
	"realestate/internal/models"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func isValidation(err error) bool {
	var appErr *apperr.Error
	return errors.As(err, &appErr) && appErr.Kind == apperr.KindValidation
}

func TestParsePaginationParams(t *testing.T) {
	limits := ListLimits{Default: 10, Max: 100}

	page, limit, err := parsePaginationParams("", "", limits)
	if err != nil || page != 1 || limit != 10 {
		t.Fatalf("defaults: got page=%d limit=%d err=%v", page, limit, err)
	}

	page, limit, err = parsePaginationParams("3", "500", limits)
	if err != nil || page != 3 || limit != 100 {
		t.Fatalf("clamp: got page=%d limit=%d err=%v", page, limit, err)
	}

	for _, bad := range [][2]string{{"0", ""}, {"abc", ""}, {"", "-1"}, {"", "ten"}, {"9223372036854775807", "100"}} {
		if _, _, err := parsePaginationParams(bad[0], bad[1], limits); !isValidation(err) {
			t.Fatalf("page=%q limit=%q: expected validation error, got %v", bad[0], bad[1], err)
		}
	}

	page, limit, err = parsePaginationParams("92233720368547758", "100", limits)
	if err != nil || page != 92233720368547758 || limit != 100 {
		t.Fatalf("largest page: got page=%d limit=%d err=%v", page, limit, err)
	}
}

func TestBuildPagination(t *testing.T) {
	links := buildPagination(1, 2, 2, 5)
	if links.Next == nil || links.Next.Page != 2 || links.Prev != nil {
		t.Fatalf("first page: %+v", links)
	}

	links = buildPagination(3, 2, 1, 5)
	if links.Next != nil || links.Prev == nil || links.Prev.Page != 2 {
		t.Fatalf("last page: %+v", links)
	}

	links = buildPagination(1, 10, 0, 0)
	if links.Next != nil || links.Prev != nil {
		t.Fatalf("empty result: %+v", links)
	}
}

func TestParseSortAndSelect(t *testing.T) {
	sortBy, err := parseSort("price,-createdAt", propertySortFields)
	if err != nil {
		t.Fatalf("parseSort returned error: %v", err)
	}
	if len(sortBy) != 2 || sortBy[0].Field != "price" || sortBy[0].Desc || sortBy[1].Field != "createdAt" || !sortBy[1].Desc {
		t.Fatalf("unexpected sort: %+v", sortBy)
	}
	if _, err := parseSort("password", userSortFields); !isValidation(err) {
		t.Fatalf("expected unknown sort field to be rejected, got %v", err)
	}

	fields, err := parseSelect("title, id,price,title", propertySelectFields)
	if err != nil {
		t.Fatalf("parseSelect returned error: %v", err)
	}
	if len(fields) != 2 || fields[0] != "title" || fields[1] != "price" {
		t.Fatalf("unexpected select: %v", fields)
	}
	if _, err := parseSelect("passwordHash", userSelectFields); !isValidation(err) {
		t.Fatalf("expected unknown select field to be rejected, got %v", err)
	}
}

func TestParseRange(t *testing.T) {
	c := testContext("/api/properties?price[gte]=100&price[lt]=500")
	r, err := parseRange(c, rangeParam{field: "price", minKey: "minPrice", maxKey: "maxPrice"})
	if err != nil {
		t.Fatalf("parseRange returned error: %v", err)
	}
	if *r.Min != 100 || r.MinExclusive || *r.Max != 500 || !r.MaxExclusive {
		t.Fatalf("unexpected range: %+v", r)
	}
	if !r.Contains(100) || r.Contains(500) {
		t.Fatal("expected [100, 500)")
	}

	c = testContext("/api/properties?price=250")
	r, err = parseRange(c, rangeParam{field: "price", minKey: "minPrice", maxKey: "maxPrice"})
	if err != nil {
		t.Fatalf("parseRange returned error: %v", err)
	}
	if !r.Contains(250) || r.Contains(251) || r.Contains(249) {
		t.Fatalf("expected plain price to be exact, got %+v", r)
	}

	c = testContext("/api/properties?bedrooms=3")
	r, err = parseRange(c, rangeParam{field: "bedrooms", plainIsMin: true})
	if err != nil {
		t.Fatalf("parseRange returned error: %v", err)
	}
	if r.Max != nil || !r.Contains(5) || r.Contains(2) {
		t.Fatalf("expected plain bedrooms to be a minimum, got %+v", r)
	}

	c = testContext("/api/properties?minPrice=1000000&maxPrice=2000000")
	r, err = parseRange(c, rangeParam{field: "price", minKey: "minPrice", maxKey: "maxPrice"})
	if err != nil {
		t.Fatalf("parseRange returned error: %v", err)
	}
	if !r.Contains(1000000) || !r.Contains(2000000) || r.Contains(2500000) {
		t.Fatalf("expected inclusive named bounds, got %+v", r)
	}

	for _, target := range []string{
		"/api/properties?price=cheap",
		"/api/properties?price[gte]=abc",
		"/api/properties?price[between]=1",
		"/api/properties?minPrice=lots",
		"/api/properties?price=NaN",
		"/api/properties?price[lte]=Inf",
		"/api/properties?maxPrice=-Infinity",
		"/api/properties?price[gt]=5&price[gte]=5",
		"/api/properties?price[lt]=5&price[lte]=9",
	} {
		c := testContext(target)
		if _, err := parseRange(c, rangeParam{field: "price", minKey: "minPrice", maxKey: "maxPrice"}); !isValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", target, err)
		}
	}
}

func TestParseEnumList(t *testing.T) {
	c := testContext("/api/properties?type[in]=Villa,House")
	values, err := parseEnumList(c, "type", models.PropertyTypes)
	if err != nil {
		t.Fatalf("parseEnumList returned error: %v", err)
	}
	if len(values) != 2 || values[0] != "Villa" || values[1] != "House" {
		t.Fatalf("unexpected values: %v", values)
	}

	c = testContext("/api/properties?type=Castle")
	if _, err := parseEnumList(c, "type", models.PropertyTypes); !isValidation(err) {
		t.Fatalf("expected unknown type to be rejected, got %v", err)
	}
}

func TestParsePropertyFilter(t *testing.T) {
	c := testContext("/api/properties?type=Apartment&city=Kathmandu&featured=true&keyword=view&bedrooms[gt]=1")
	f, err := parsePropertyFilter(c)
	if err != nil {
		t.Fatalf("parsePropertyFilter returned error: %v", err)
	}
	if len(f.Types) != 1 || f.Types[0] != "Apartment" || f.City != "Kathmandu" || f.Search != "view" {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if f.Featured == nil || !*f.Featured {
		t.Fatal("expected featured=true")
	}
	if f.Bedrooms.Contains(1) || !f.Bedrooms.Contains(2) {
		t.Fatalf("unexpected bedrooms range: %+v", f.Bedrooms)
	}

	c = testContext("/api/properties?featured=maybe")
	if _, err := parsePropertyFilter(c); !isValidation(err) {
		t.Fatalf("expected bad bool to be rejected, got %v", err)
	}
}

func TestProjectFieldsKeepsID(t *testing.T) {
	items := []models.Contact{{Name: "Alice", Email: "alice@example.com", Subject: "Hi"}}

	out, err := projectFields(items, []string{"name"})
	if err != nil {
		t.Fatalf("projectFields returned error: %v", err)
	}
	docs := out.([]map[string]json.RawMessage)
	if len(docs) != 1 || len(docs[0]) != 2 {
		t.Fatalf("expected id and name only, got %v", docs)
	}
	if _, ok := docs[0]["id"]; !ok {
		t.Fatal("expected id to be kept")
	}
	if string(docs[0]["name"]) != `"Alice"` {
		t.Fatalf("unexpected name: %s", docs[0]["name"])
	}

	same, err := projectFields(items, nil)
	if err != nil {
		t.Fatalf("projectFields returned error: %v", err)
	}
	if _, ok := same.([]models.Contact); !ok {
		t.Fatalf("expected items unchanged without selection, got %T", same)
	}
}
