package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/apperr"
	"realestate/internal/cache"
	"realestate/internal/models"
	"realestate/internal/store"
)

type UserUpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// userDetail is a user with the listings they own.
type userDetail struct {
	models.User
	Properties    []models.Property `json:"properties"`
	PropertyCount int               `json:"propertyCount"`
}

type userStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	ActiveUsers        int64 `json:"activeUsers"`
	InactiveUsers      int64 `json:"inactiveUsers"`
	AdminUsers         int64 `json:"adminUsers"`
	RegularUsers       int64 `json:"regularUsers"`
	RecentUsers        int64 `json:"recentUsers"`
	TotalProperties    int64 `json:"totalProperties"`
	ApprovedProperties int64 `json:"approvedProperties"`
	PendingProperties  int64 `json:"pendingProperties"`
	FeaturedProperties int64 `json:"featuredProperties"`
	SoldProperties     int64 `json:"soldProperties"`
}

const recentUserWindow = 30 * 24 * time.Hour

func GetUsers(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users"

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := ensureDBConnection(ctx, d.Stores.Health); err != nil {
			respondWithError(c, route, err)
			return
		}

		filter, err := parseUserFilter(c)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		opts, err := parseListOptions(c, d.Limits, userSortFields, userSelectFields)
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		page, err := d.Stores.Users.List(ctx, filter, opts)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		data, err := projectFields(page.Items, opts.Select)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondList(c, opts.Page, opts.Limit, len(page.Items), page.Total, data)
	}
}

// GetUser returns the user together with every listing they own.
func GetUser(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/:id"

		raw := c.Param("id")
		id, err := parseObjectID(raw, "User")
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := d.Stores.Users.FindByID(ctx, id)
		if err == nil && user.PendingDeletion {
			err = store.ErrNotFound
		}
		if err != nil {
			respondWithError(c, route, storeError(err, "User", raw))
			return
		}

		owned, err := d.Stores.Properties.List(ctx, store.PropertyFilter{Owner: &id}, store.ListOptions{Page: 1})
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondData(c, http.StatusOK, userDetail{
			User:          user,
			Properties:    owned.Items,
			PropertyCount: len(owned.Items),
		})
	}
}

func UpdateUser(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/:id"
		admin := sessionUser(c)

		raw := c.Param("id")
		id, err := parseObjectID(raw, "User")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		var req UserUpdateRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}
		if err := checkEnum("role", req.Role, models.Roles); err != nil {
			respondWithError(c, route, err)
			return
		}
		if id == admin.ID && req.IsActive != nil && !*req.IsActive {
			respondWithError(c, route, apperr.Validation("You cannot deactivate your own account"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := d.Stores.Users.Update(ctx, id, store.UserUpdate{
			Name:     trimmed(req.Name),
			Email:    trimmed(req.Email),
			Phone:    trimmed(req.Phone),
			Address:  trimmed(req.Address),
			Role:     req.Role,
			IsActive: req.IsActive,
		})
		if err != nil {
			respondWithError(c, route, storeError(err, "User", raw))
			return
		}
		d.invalidate(ctx)
		respondMessage(c, http.StatusOK, "User updated successfully", updated)
	}
}

// DeleteUser removes the user and every listing they own.
func DeleteUser(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/:id"
		admin := sessionUser(c)

		raw := c.Param("id")
		id, err := parseObjectID(raw, "User")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if id == admin.ID {
			respondWithError(c, route, apperr.Validation("You cannot delete your own account"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		removed, err := d.Stores.Users.DeleteCascade(ctx, id)
		if err != nil {
			respondWithError(c, route, storeError(err, "User", raw))
			return
		}
		if _, err := d.Stores.Tokens.RevokeAll(ctx, id); err != nil {
			log.Printf("[%s] revoke tokens of %s failed: %v", route, raw, err)
		}
		d.invalidate(ctx)

		log.Printf("[%s] deleted user %s and %d properties", route, raw, removed)
		respondMessage(c, http.StatusOK, "User and associated properties deleted successfully", gin.H{"deletedProperties": removed})
	}
}

func ToggleUserStatus(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/:id/toggle-status"
		admin := sessionUser(c)

		raw := c.Param("id")
		id, err := parseObjectID(raw, "User")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if id == admin.ID {
			respondWithError(c, route, apperr.Validation("You cannot deactivate your own account"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := d.Stores.Users.ToggleActive(ctx, id)
		if err != nil {
			respondWithError(c, route, storeError(err, "User", raw))
			return
		}
		state := "activated"
		if !user.IsActive {
			state = "deactivated"
			if _, err := d.Stores.Tokens.RevokeAll(ctx, id); err != nil {
				log.Printf("[%s] revoke tokens of %s failed: %v", route, raw, err)
			}
		}
		d.invalidate(ctx)
		respondMessage(c, http.StatusOK, "User "+state+" successfully", user)
	}
}

// GetUserStats counts users and listings for the admin dashboard.
func GetUserStats(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/stats"

		ctx, cancel := requestContext(c)
		defer cancel()

		var stats userStats
		if found, err := d.Cache.Get(ctx, cache.KeyUserStats, &stats); err != nil {
			log.Printf("[%s] cache read failed: %v", route, err)
		} else if found {
			respondData(c, http.StatusOK, stats)
			return
		}

		yes, no := true, false
		admin, regular := models.RoleAdmin, models.RoleUser
		since := time.Now().Add(-recentUserWindow)

		userCounts := []struct {
			dest   *int64
			filter store.UserFilter
		}{
			{&stats.TotalUsers, store.UserFilter{}},
			{&stats.ActiveUsers, store.UserFilter{IsActive: &yes}},
			{&stats.AdminUsers, store.UserFilter{Role: admin}},
			{&stats.RegularUsers, store.UserFilter{Role: regular}},
			{&stats.RecentUsers, store.UserFilter{CreatedSince: &since}},
		}
		for _, uc := range userCounts {
			n, err := d.Stores.Users.Count(ctx, uc.filter)
			if err != nil {
				respondWithError(c, route, err)
				return
			}
			*uc.dest = n
		}
		stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers

		propertyCounts := []struct {
			dest   *int64
			filter store.PropertyFilter
		}{
			{&stats.TotalProperties, store.PropertyFilter{}},
			{&stats.ApprovedProperties, store.PropertyFilter{Approved: &yes}},
			{&stats.PendingProperties, store.PropertyFilter{Approved: &no}},
			{&stats.FeaturedProperties, store.PropertyFilter{Featured: &yes}},
			{&stats.SoldProperties, store.PropertyFilter{Statuses: []string{models.StatusSold}}},
		}
		for _, pc := range propertyCounts {
			n, err := d.Stores.Properties.Count(ctx, pc.filter)
			if err != nil {
				respondWithError(c, route, err)
				return
			}
			*pc.dest = n
		}

		if err := d.Cache.Set(ctx, cache.KeyUserStats, stats, d.CacheTTL); err != nil {
			log.Printf("[%s] cache write failed: %v", route, err)
		}
		respondData(c, http.StatusOK, stats)
	}
}

// GetFavorites returns the caller's favorite listings in the order they
// were added. Listings that are gone or hidden are skipped.
func GetFavorites(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/favorites"
		user := sessionUser(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		properties, err := d.Stores.Properties.FindByIDs(ctx, user.Favorites)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		byID := make(map[primitive.ObjectID]models.Property, len(properties))
		for _, p := range properties {
			byID[p.ID] = p
		}
		ordered := make([]models.Property, 0, len(properties))
		for _, id := range user.Favorites {
			if p, ok := byID[id]; ok && (p.PubliclyVisible() || p.ManageableBy(user)) {
				ordered = append(ordered, p)
			}
		}

		views, err := populateOwners(ctx, d.Stores.Users, ordered)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(views), "data": views})
	}
}

// ToggleFavorite adds the listing to the caller's favorites, or removes it
// when it is already there.
func ToggleFavorite(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/favorites/:propertyId"
		user := sessionUser(c)

		raw := strings.TrimSpace(c.Param("propertyId"))
		id, err := parseObjectID(raw, "Property")
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if user.HasFavorite(id) {
			favorites, err := d.Stores.Users.RemoveFavorite(ctx, user.ID, id)
			if err != nil {
				respondWithError(c, route, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Property removed from favorites", "isFavorite": false, "data": favorites})
			return
		}

		property, err := d.Stores.Properties.FindByID(ctx, id)
		if err == nil && !property.PubliclyVisible() && !property.ManageableBy(user) {
			err = store.ErrNotFound
		}
		if err != nil {
			respondWithError(c, route, storeError(err, "Property", raw))
			return
		}
		favorites, err := d.Stores.Users.AddFavorite(ctx, user.ID, id)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, route, apperr.Unauthorized("User not found"))
			return
		}
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Property added to favorites", "isFavorite": true, "data": favorites})
	}
}
