package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

type ShortLinkHandler struct {
	links service.IShortLinkService
}

func NewShortLinkHandler(links service.IShortLinkService) *ShortLinkHandler {
	return &ShortLinkHandler{links: links}
}

// RegisterRoutes mounts the redirect at the site root, outside /api
func (h *ShortLinkHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/s/:token", h.Redirect)
}

// Redirect sends the client to the recipe page behind a short token
func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	id, err := h.links.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d/", id))
}
