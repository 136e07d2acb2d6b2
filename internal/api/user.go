package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	users         service.IUserService
	subscriptions service.ISubscriptionService
	auth          middleware.TokenValidator
}

func NewUserHandler(users service.IUserService, subscriptions service.ISubscriptionService, auth middleware.TokenValidator) *UserHandler {
	return &UserHandler{users: users, subscriptions: subscriptions, auth: auth}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.auth)
	optional := middleware.OptionalAuth(h.auth)
	users := router.Group("/users")
	{
		users.GET("", optional, h.ListUsers)
		users.GET("/me", required, h.Me)
		users.PUT("/me/avatar", required, h.SetAvatar)
		users.DELETE("/me/avatar", required, h.DeleteAvatar)
		users.GET("/subscriptions", required, h.ListSubscriptions)
		users.GET("/:id", optional, h.GetUser)
		users.POST("/:id/subscribe", required, h.Subscribe)
		users.DELETE("/:id/subscribe", required, h.Unsubscribe)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	user, err := h.users.GetUser(c.Request.Context(), &userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.users.ListUsers(c.Request.Context(), middleware.Viewer(c), intQuery(c, "page"), intQuery(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SetAvatar replaces the caller's avatar with a base64 data URI
func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := middleware.CurrentUser(c)
	avatar, err := h.users.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avatar)
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	if err := h.users.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	page, err := h.subscriptions.ListSubscriptions(c.Request.Context(), userID,
		intQuery(c, "page"), intQuery(c, "limit"), intQuery(c, "recipes_limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := userParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUser(c)
	sub, err := h.subscriptions.Subscribe(c.Request.Context(), userID, authorID, intQuery(c, "recipes_limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := userParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUser(c)
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
