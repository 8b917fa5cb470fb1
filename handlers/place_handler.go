package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/milopalmaerts/travel-planner-app/models"
	"github.com/milopalmaerts/travel-planner-app/utils"
)

func (h *Handler) GetAllPlaces(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.Places())
}

func (h *Handler) GetPlacesByLocation(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.PlacesByLocation(c.Query("country"), c.Query("city")))
}

func (h *Handler) GetPlaceByID(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	place, found := store.PlaceByID(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *Handler) CreatePlace(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	var draft models.PlaceDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if utils.IsDataURL(draft.Photo) {
		url, err := utils.SaveBase64Image(h.uploadDir, draft.Photo)
		if err != nil {
			h.log.Error().Err(err).Msg("saving place photo failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		draft.Photo = url
	}

	place, err := store.AddPlace(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, place)
}

func (h *Handler) UpdatePlace(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	var upd models.PlaceUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if upd.Photo != nil && utils.IsDataURL(*upd.Photo) {
		url, err := utils.SaveBase64Image(h.uploadDir, *upd.Photo)
		if err != nil {
			h.log.Error().Err(err).Msg("saving place photo failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		upd.Photo = &url
	}

	place, found, err := store.UpdatePlace(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *Handler) DeletePlace(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	found, err := store.DeletePlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Place deleted successfully"})
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	place, found, err := store.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *Handler) ToggleVisited(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	place, found, err := store.ToggleVisited(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}
	c.JSON(http.StatusOK, place)
}
