package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPublicPlaces(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.PublicPlaces())
}

// ToggleLike flips the caller's like on a place in the owner's collection.
// Calling it twice restores the original likes set.
func (h *Handler) ToggleLike(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	place, err := store.ToggleLikePlace(c.Request.Context(), c.Param("placeId"), c.Param("ownerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}
