package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
	"realestate/internal/models"
	"realestate/internal/store"
)

var (
	propertySortFields = newFieldSet("title", "price", "type", "status", "city", "area", "bedrooms", "bathrooms", "views", "featured", "yearBuilt", "createdAt", "updatedAt")

	propertySelectFields = newFieldSet(
		"title", "description", "price", "type", "status", "location", "address", "city", "state", "zipCode",
		"bedrooms", "bathrooms", "area", "areaInAana", "areaUnit", "roadAccess", "floors", "images", "features",
		"amenities", "yearBuilt", "parking", "featured", "approved", "owner", "buyer", "soldAt", "agent", "views",
		"isActive", "createdAt", "updatedAt",
	)

	userSortFields   = newFieldSet("name", "email", "role", "isActive", "createdAt", "updatedAt")
	userSelectFields = newFieldSet("name", "email", "role", "phone", "address", "isActive", "favorites", "createdAt", "updatedAt")

	contactSortFields   = newFieldSet("name", "email", "subject", "status", "createdAt", "updatedAt")
	contactSelectFields = newFieldSet("name", "email", "phone", "subject", "message", "status", "replied", "replyMessage", "repliedAt", "repliedBy", "createdAt", "updatedAt")
)

// parsePropertyFilter builds the listing filter from the query string.
// Visibility restrictions are applied by the caller.
func parsePropertyFilter(c *gin.Context) (store.PropertyFilter, error) {
	var (
		f   store.PropertyFilter
		err error
	)

	if f.Types, err = parseEnumList(c, "type", models.PropertyTypes); err != nil {
		return f, err
	}
	if f.Statuses, err = parseEnumList(c, "status", models.PropertyStatuses); err != nil {
		return f, err
	}
	if unit := strings.TrimSpace(c.Query("areaUnit")); unit != "" {
		if !models.OneOf(unit, models.AreaUnits) {
			return f, apperr.Validation("areaUnit must be one of: %s", strings.Join(models.AreaUnits, ", "))
		}
		f.AreaUnit = unit
	}
	f.City = strings.TrimSpace(c.Query("city"))
	f.Location = strings.TrimSpace(c.Query("location"))
	f.Search = searchTerm(c)

	ranges := []struct {
		dest  *store.Range
		param rangeParam
	}{
		{&f.Price, rangeParam{field: "price", minKey: "minPrice", maxKey: "maxPrice"}},
		{&f.Area, rangeParam{field: "area", minKey: "minArea", maxKey: "maxArea"}},
		{&f.Bedrooms, rangeParam{field: "bedrooms", plainIsMin: true}},
		{&f.Bathrooms, rangeParam{field: "bathrooms", plainIsMin: true}},
		{&f.Views, rangeParam{field: "views"}},
	}
	for _, r := range ranges {
		if *r.dest, err = parseRange(c, r.param); err != nil {
			return f, err
		}
	}

	if f.Featured, err = parseBoolParam(c, "featured"); err != nil {
		return f, err
	}
	if f.Approved, err = parseBoolParam(c, "approved"); err != nil {
		return f, err
	}
	if f.IsActive, err = parseBoolParam(c, "isActive"); err != nil {
		return f, err
	}
	return f, nil
}

// parseUserFilter reads role, status=active|inactive and search.
func parseUserFilter(c *gin.Context) (store.UserFilter, error) {
	var f store.UserFilter
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		if !models.OneOf(role, models.Roles) {
			return f, apperr.Validation("role must be one of: %s", strings.Join(models.Roles, ", "))
		}
		f.Role = role
	}
	switch status := strings.TrimSpace(c.Query("status")); status {
	case "":
	case "active", "inactive":
		active := status == "active"
		f.IsActive = &active
	default:
		return f, apperr.Validation("status must be active or inactive")
	}
	f.Search = searchTerm(c)
	return f, nil
}

func parseContactFilter(c *gin.Context) (store.ContactFilter, error) {
	var (
		f   store.ContactFilter
		err error
	)
	if f.Statuses, err = parseEnumList(c, "status", models.ContactStatuses); err != nil {
		return f, err
	}
	if f.Replied, err = parseBoolParam(c, "replied"); err != nil {
		return f, err
	}
	f.Search = searchTerm(c)
	return f, nil
}
