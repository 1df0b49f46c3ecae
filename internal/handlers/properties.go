package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/apperr"
	"realestate/internal/cache"
	"realestate/internal/middleware"
	"realestate/internal/models"
	"realestate/internal/store"
)

// listProperties runs the query pipeline over properties. scope adjusts the
// parsed filter before it reaches the store.
func (d Deps) listProperties(c *gin.Context, route string, scope func(*store.PropertyFilter)) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ensureDBConnection(ctx, d.Stores.Health); err != nil {
		respondWithError(c, route, err)
		return
	}

	filter, err := parsePropertyFilter(c)
	if err != nil {
		respondWithError(c, route, err)
		return
	}
	opts, err := parseListOptions(c, d.Limits, propertySortFields, propertySelectFields)
	if err != nil {
		respondWithError(c, route, err)
		return
	}
	scope(&filter)

	page, err := d.Stores.Properties.List(ctx, filter, opts)
	if err != nil {
		respondWithError(c, route, err)
		return
	}
	views, err := populateOwners(ctx, d.Stores.Users, page.Items)
	if err != nil {
		respondWithError(c, route, err)
		return
	}
	data, err := projectFields(views, opts.Select)
	if err != nil {
		respondWithError(c, route, err)
		return
	}

	log.Printf("[%s] listed %d of %d properties", route, len(views), page.Total)
	respondList(c, opts.Page, opts.Limit, len(views), page.Total, data)
}

// GetProperties lists listings. Callers other than admins only ever see
// approved, active listings whatever they filter on.
func GetProperties(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.listProperties(c, "GET /api/properties", func(f *store.PropertyFilter) {
			if !middleware.IsAdmin(c) {
				f.RestrictToPublic()
			}
		})
	}
}

// SearchProperties is the public search page: always limited to visible
// listings, ranked by text match when a keyword is given.
func SearchProperties(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.listProperties(c, "GET /api/properties/search", func(f *store.PropertyFilter) {
			f.RestrictToPublic()
		})
	}
}

// GetMyProperties lists the caller's own listings in any state.
func GetMyProperties(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sessionUser(c)
		d.listProperties(c, "GET /api/properties/mine", func(f *store.PropertyFilter) {
			f.Owner = &user.ID
		})
	}
}

func GetPurchasedProperties(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sessionUser(c)
		d.listProperties(c, "GET /api/properties/purchased", func(f *store.PropertyFilter) {
			f.Buyer = &user.ID
		})
	}
}

// GetFeaturedProperties returns the newest featured listings, cached for
// CacheTTL.
func GetFeaturedProperties(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/properties/featured"

		ctx, cancel := requestContext(c)
		defer cancel()

		key := cache.QueryKey(cache.PrefixFeatured, map[string]string{
			"limit": strconv.FormatInt(d.FeaturedLimit, 10),
		})
		var views []models.PropertyView
		if found, err := d.Cache.Get(ctx, key, &views); err != nil {
			log.Printf("[%s] cache read failed: %v", route, err)
		} else if found {
			c.JSON(http.StatusOK, gin.H{"success": true, "count": len(views), "data": views})
			return
		}

		featured := true
		filter := store.PropertyFilter{Featured: &featured}
		filter.RestrictToPublic()
		page, err := d.Stores.Properties.List(ctx, filter, store.ListOptions{Page: 1, Limit: d.FeaturedLimit})
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		views, err = populateOwners(ctx, d.Stores.Users, page.Items)
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		if err := d.Cache.Set(ctx, key, views, d.CacheTTL); err != nil {
			log.Printf("[%s] cache write failed: %v", route, err)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(views), "data": views})
	}
}

// findVisibleProperty loads a listing the caller is allowed to see. Hidden
// listings are reported as missing to everyone but the owner and admins.
func (d Deps) findVisibleProperty(ctx context.Context, c *gin.Context) (models.Property, error) {
	raw := c.Param("id")
	id, err := parseObjectID(raw, "Property")
	if err != nil {
		return models.Property{}, err
	}
	property, err := d.Stores.Properties.FindByID(ctx, id)
	if err != nil {
		return models.Property{}, storeError(err, "Property", raw)
	}
	if !property.PubliclyVisible() {
		user, ok := middleware.CurrentUser(c)
		if !ok || !property.ManageableBy(user) {
			return models.Property{}, apperr.NotFound("Property", raw)
		}
	}
	return property, nil
}

// findManageableProperty loads a listing the caller may modify.
func (d Deps) findManageableProperty(ctx context.Context, c *gin.Context, action string) (models.Property, error) {
	raw := c.Param("id")
	id, err := parseObjectID(raw, "Property")
	if err != nil {
		return models.Property{}, err
	}
	property, err := d.Stores.Properties.FindByID(ctx, id)
	if err != nil {
		return models.Property{}, storeError(err, "Property", raw)
	}
	if !property.ManageableBy(sessionUser(c)) {
		return models.Property{}, apperr.Forbidden("User not authorized to " + action + " this property")
	}
	return property, nil
}

// GetProperty returns one listing and counts the view.
func GetProperty(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/properties/:id"

		ctx, cancel := requestContext(c)
		defer cancel()

		property, err := d.findVisibleProperty(ctx, c)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		property, err = d.Stores.Properties.IncrementViews(ctx, property.ID)
		if err != nil {
			respondWithError(c, route, storeError(err, "Property", property.ID.Hex()))
			return
		}
		view, err := populateOwner(ctx, d.Stores.Users, property)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondData(c, http.StatusOK, view)
	}
}

// CreateProperty lists a property owned by the caller. Listings by admins
// are approved immediately.
func CreateProperty(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/properties"
		user := sessionUser(c)

		var req PropertyRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}
		if err := req.validate(true, time.Now()); err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		property := req.newProperty(user)
		if err := d.Stores.Properties.Create(ctx, &property); err != nil {
			respondWithError(c, route, err)
			return
		}
		d.invalidate(ctx)

		log.Printf("[%s] created property %s approved=%t", route, property.ID.Hex(), property.Approved)
		respondMessage(c, http.StatusCreated, "Property created successfully", property)
	}
}

func UpdateProperty(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/properties/:id"
		user := sessionUser(c)

		var req PropertyRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		property, err := d.findManageableProperty(ctx, c, "update")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if err := req.validate(false, time.Now()); err != nil {
			respondWithError(c, route, err)
			return
		}

		updated, err := d.Stores.Properties.Update(ctx, property.ID, req.update(user.IsAdmin()))
		if err != nil {
			respondWithError(c, route, storeError(err, "Property", property.ID.Hex()))
			return
		}
		d.invalidate(ctx)

		view, err := populateOwner(ctx, d.Stores.Users, updated)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondMessage(c, http.StatusOK, "Property updated successfully", view)
	}
}

// DeleteProperty removes the listing and then, best effort, its stored images.
func DeleteProperty(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/properties/:id"

		ctx, cancel := requestContext(c)
		defer cancel()

		property, err := d.findManageableProperty(ctx, c, "delete")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if err := d.Stores.Properties.Delete(ctx, property.ID); err != nil {
			respondWithError(c, route, storeError(err, "Property", property.ID.Hex()))
			return
		}
		d.deleteStoredImages(ctx, property.Images)
		d.invalidate(ctx)

		respondMessage(c, http.StatusOK, "Property deleted successfully", gin.H{})
	}
}

func (d Deps) deleteStoredImages(ctx context.Context, images []models.PropertyImage) {
	if d.Media == nil {
		return
	}
	for _, img := range images {
		if img.PublicID == "" {
			continue
		}
		if err := d.Media.Delete(ctx, img.PublicID); err != nil {
			log.Printf("[UPLOAD] [ERROR] delete image %s failed: %v", img.PublicID, err)
		}
	}
}

// moderate runs an admin-only single-document action on a listing.
func (d Deps) moderate(route string, action func(context.Context, primitive.ObjectID) (models.Property, error), message func(models.Property) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("id")
		id, err := parseObjectID(raw, "Property")
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		property, err := action(ctx, id)
		if err != nil {
			respondWithError(c, route, storeError(err, "Property", raw))
			return
		}
		d.invalidate(ctx)
		respondMessage(c, http.StatusOK, message(property), property)
	}
}

// ApproveProperty is idempotent: approving twice leaves the listing approved.
func ApproveProperty(d Deps) gin.HandlerFunc {
	return d.moderate("PUT /api/properties/:id/approve", d.Stores.Properties.Approve,
		func(models.Property) string { return "Property approved successfully" })
}

func ToggleFeatured(d Deps) gin.HandlerFunc {
	return d.moderate("PUT /api/properties/:id/featured", d.Stores.Properties.ToggleFeatured,
		func(p models.Property) string {
			if p.Featured {
				return "Property marked as featured"
			}
			return "Property removed from featured"
		})
}

// PurchaseProperty marks a visible listing sold to the caller. A sold
// listing cannot be bought again and keeps its buyer.
func PurchaseProperty(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/properties/:id/purchase"
		user := sessionUser(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		property, err := d.findVisibleProperty(ctx, c)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		if property.Owner == user.ID {
			respondWithError(c, route, apperr.Forbidden("You cannot purchase your own property"))
			return
		}
		if !property.PubliclyVisible() {
			respondWithError(c, route, apperr.Validation("Property is not available for purchase"))
			return
		}

		sold, err := d.Stores.Properties.Purchase(ctx, property.ID, user.ID, time.Now().UTC())
		if errors.Is(err, store.ErrConditionFailed) {
			respondWithError(c, route, apperr.Validation("Property has already been sold"))
			return
		}
		if err != nil {
			respondWithError(c, route, storeError(err, "Property", property.ID.Hex()))
			return
		}
		d.invalidate(ctx)

		log.Printf("[%s] property %s sold to %s", route, sold.ID.Hex(), user.ID.Hex())
		respondMessage(c, http.StatusOK, "Property purchased successfully", sold)
	}
}
