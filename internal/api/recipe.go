package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes             service.IRecipeService
	memberships         service.IMembershipService
	shoppingList        service.IShoppingListService
	links               service.IShortLinkService
	policy              service.MutationPolicy
	auth                middleware.TokenValidator
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(svc *Services) *RecipeHandler {
	return &RecipeHandler{
		recipes:             svc.Recipes,
		memberships:         svc.Memberships,
		shoppingList:        svc.ShoppingList,
		links:               svc.ShortLinks,
		policy:              svc.Policy,
		auth:                svc.Auth,
		creationLimiter:     svc.CreationLimiter,
		modificationLimiter: svc.ModificationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.auth)
	optional := middleware.OptionalAuth(h.auth)

	createLimit := passThrough
	if h.creationLimiter != nil {
		createLimit = h.creationLimiter.RateLimitMiddleware()
	}
	modifyLimit := passThrough
	if h.modificationLimiter != nil {
		modifyLimit = h.modificationLimiter.PerRecipeRateLimitMiddleware()
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.POST("", required, createLimit, h.CreateRecipe)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.PATCH("/:id", required, modifyLimit, h.UpdateRecipe)
		recipes.DELETE("/:id", required, h.DeleteRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("/:id/favorite", required, h.AddMembership(models.Favorite))
		recipes.DELETE("/:id/favorite", required, h.RemoveMembership(models.Favorite))
		recipes.POST("/:id/shopping_cart", required, h.AddMembership(models.ShoppingCart))
		recipes.DELETE("/:id/shopping_cart", required, h.RemoveMembership(models.ShoppingCart))
	}
}

func passThrough(c *gin.Context) { c.Next() }

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      flagQuery(c, "is_favorited"),
		IsInShoppingCart: flagQuery(c, "is_in_shopping_cart"),
		Page:             intQuery(c, "page"),
		Limit:            intQuery(c, "limit"),
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, exceptions.Invalid("author", err))
			return
		}
		filter.AuthorID = &authorID
	}

	page, err := h.recipes.ListRecipes(c.Request.Context(), middleware.Viewer(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "recipe")
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeWriteRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("[RecipeHandler] user %s created recipe %d", userID, recipe.ID)
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c, "recipe")
	if !ok {
		return
	}
	if err := h.authorize(c, id); err != nil {
		respondError(c, err)
		return
	}

	var req types.RecipeWriteRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c, "recipe")
	if !ok {
		return
	}
	if err := h.authorize(c, id); err != nil {
		respondError(c, err)
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// authorize checks the caller against the mutation policy for recipeID
func (h *RecipeHandler) authorize(c *gin.Context, recipeID uint) error {
	authorID, err := h.recipes.GetRecipeAuthor(c.Request.Context(), recipeID)
	if err != nil {
		return err
	}
	userID, _ := middleware.CurrentUser(c)
	if !h.policy.CanMutate(userID, middleware.IsStaff(c), authorID) {
		return exceptions.ErrForbidden
	}
	return nil
}

func (h *RecipeHandler) AddMembership(kind models.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "recipe")
		if !ok {
			return
		}
		userID, _ := middleware.CurrentUser(c)
		short, err := h.memberships.Add(c.Request.Context(), kind, userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, short)
	}
}

func (h *RecipeHandler) RemoveMembership(kind models.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "recipe")
		if !ok {
			return
		}
		userID, _ := middleware.CurrentUser(c)
		if err := h.memberships.Remove(c.Request.Context(), kind, userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	body, err := h.shoppingList.Download(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := idParam(c, "recipe")
	if !ok {
		return
	}
	link, err := h.links.Link(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if strings.HasPrefix(link, "/") {
		link = requestOrigin(c) + link
	}
	c.JSON(http.StatusOK, types.ShortLinkResponse{ShortLink: link})
}

// requestOrigin is scheme://host of the current request, honouring a TLS-terminating proxy
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
