// Package routes mounts every API endpoint on a gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"realestate/internal/handlers"
	"realestate/internal/middleware"
)

// Options holds the router settings that are not handler dependencies.
type Options struct {
	Tokens      handlers.TokenConfig
	Production  bool
	CORSOrigins []string
	// UploadDir is served under /uploads when images are kept on local disk.
	UploadDir string
}

// New returns an engine with the global middleware and every route.
func New(d handlers.Deps, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		middleware.CORS(opts.CORSOrigins),
		middleware.ErrorHandler(opts.Production),
		middleware.Recovery(),
	)
	r.NoRoute(middleware.NotFound())

	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	Setup(r, d, opts.Tokens)
	return r
}

// Setup registers the /api routes.
func Setup(r *gin.Engine, d handlers.Deps, tokens handlers.TokenConfig) {
	protect := middleware.Protect(d.Stores.Users, tokens.Secret)
	optional := middleware.OptionalAuth(d.Stores.Users, tokens.Secret)
	adminOnly := middleware.AdminOnly()

	r.GET("/", handlers.Home())

	api := r.Group("/api")
	api.GET("/health", handlers.Health(d))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", handlers.Register(d.Stores, tokens))
		authGroup.POST("/login", handlers.Login(d.Stores, tokens))
		authGroup.POST("/refresh", handlers.Refresh(d.Stores, tokens))
		authGroup.GET("/me", protect, handlers.GetMe())
		authGroup.PUT("/updatedetails", protect, handlers.UpdateDetails(d.Stores))
		authGroup.PUT("/updatepassword", protect, handlers.UpdatePassword(d.Stores, tokens))
		authGroup.GET("/logout", protect, handlers.Logout(d.Stores))
	}

	properties := api.Group("/properties")
	{
		properties.GET("", optional, handlers.GetProperties(d))
		properties.GET("/search", handlers.SearchProperties(d))
		properties.GET("/featured", handlers.GetFeaturedProperties(d))
		properties.GET("/mine", protect, handlers.GetMyProperties(d))
		properties.GET("/purchased", protect, handlers.GetPurchasedProperties(d))
		properties.GET("/:id", optional, handlers.GetProperty(d))

		properties.POST("", protect, handlers.CreateProperty(d))
		properties.PUT("/:id", protect, handlers.UpdateProperty(d))
		properties.DELETE("/:id", protect, handlers.DeleteProperty(d))
		properties.PUT("/:id/purchase", protect, handlers.PurchaseProperty(d))
		properties.POST("/:id/images", protect, handlers.UploadPropertyImages(d))
		properties.DELETE("/:id/images/:publicId", protect, handlers.DeletePropertyImage(d))

		properties.PUT("/:id/approve", protect, adminOnly, handlers.ApproveProperty(d))
		properties.PUT("/:id/featured", protect, adminOnly, handlers.ToggleFeatured(d))
	}

	contact := api.Group("/contact")
	contact.POST("", handlers.SubmitContact(d.Stores))
	contactAdmin := contact.Group("", protect, adminOnly)
	{
		contactAdmin.GET("", handlers.GetContacts(d.Stores, d.Limits))
		contactAdmin.GET("/:id", handlers.GetContact(d.Stores))
		contactAdmin.PUT("/:id", handlers.UpdateContact(d.Stores))
		contactAdmin.DELETE("/:id", handlers.DeleteContact(d.Stores))
		contactAdmin.PUT("/:id/status", handlers.UpdateContactStatus(d.Stores))
		contactAdmin.PUT("/:id/reply", handlers.ReplyContact(d.Stores))
	}

	users := api.Group("/users", protect)
	users.GET("/favorites", handlers.GetFavorites(d))
	users.POST("/favorites/:propertyId", handlers.ToggleFavorite(d))
	usersAdmin := users.Group("", adminOnly)
	{
		usersAdmin.GET("/stats", handlers.GetUserStats(d))
		usersAdmin.GET("", handlers.GetUsers(d))
		usersAdmin.GET("/:id", handlers.GetUser(d))
		usersAdmin.PUT("/:id", handlers.UpdateUser(d))
		usersAdmin.DELETE("/:id", handlers.DeleteUser(d))
		usersAdmin.PUT("/:id/toggle-status", handlers.ToggleUserStatus(d))
	}
}
