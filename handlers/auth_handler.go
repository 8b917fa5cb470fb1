package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/milopalmaerts/travel-planner-app/identity"
	"github.com/milopalmaerts/travel-planner-app/models"
	"github.com/milopalmaerts/travel-planner-app/services"
	"github.com/milopalmaerts/travel-planner-app/utils"
)

func (h *Handler) Register(c *gin.Context) {
	var input identity.Registration
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var fields []services.FieldError
	if input.Name == "" {
		fields = append(fields, services.FieldError{Field: "name", Message: "name is required"})
	}
	if input.Email == "" {
		fields = append(fields, services.FieldError{Field: "email", Message: "email is required"})
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}

	user, err := h.manager.Provider().Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var input identity.Credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.manager.Provider().Authenticate(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	// Warm the session store so the first authenticated request does not
	// pay the load.
	if _, err := h.manager.StoreFor(c.Request.Context(), user); err != nil {
		h.log.Error().Err(err).Str("user", user.Key()).Msg("failed to load session on login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}

	token, err := utils.GenerateJWT(user.Key(), user.Username, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	user, ok := userFromClaims(c)
	if !ok {
		return
	}

	h.manager.EndSession(user.Key())
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) GetProfile(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	user, ok := store.CurrentUser()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"stats": store.CountPlaces(),
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if upd.ProfilePhoto != nil && utils.IsDataURL(*upd.ProfilePhoto) {
		url, err := utils.SaveBase64Image(h.uploadDir, *upd.ProfilePhoto)
		if err != nil {
			h.log.Error().Err(err).Msg("saving profile photo failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		upd.ProfilePhoto = &url
	}

	user, err := store.UpdateProfile(c.Request.Context(), upd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
