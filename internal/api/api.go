package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles everything the HTTP layer talks to
type Services struct {
	Auth          service.IAuthService
	Users         service.IUserService
	Catalog       service.ICatalogService
	Recipes       service.IRecipeService
	Memberships   service.IMembershipService
	Subscriptions service.ISubscriptionService
	ShoppingList  service.IShoppingListService
	ShortLinks    service.IShortLinkService
	Policy        service.MutationPolicy

	// Limiters may be nil, which disables rate limiting
	CreationLimiter     *middleware.RateLimiter
	ModificationLimiter *middleware.RateLimiter
}

// HealthChecker reports whether the backing stores are reachable
type HealthChecker func(ctx context.Context) error

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc *Services, health HealthChecker) {
	healthHandler := HealthCheck(health)
	router.GET("/health", healthHandler)
	router.GET("/api/health", healthHandler)

	api := router.Group("/api")
	NewAuthHandler(svc.Auth).RegisterRoutes(api)
	NewUserHandler(svc.Users, svc.Subscriptions, svc.Auth).RegisterRoutes(api)
	NewCatalogHandler(svc.Catalog).RegisterRoutes(api)
	NewRecipeHandler(svc).RegisterRoutes(api)

	NewShortLinkHandler(svc.ShortLinks).RegisterRoutes(router)
}

// HealthCheck returns the health status of the API
func HealthCheck(check HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				log.Printf("[Health] check failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	}
}
