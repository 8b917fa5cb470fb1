package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/milopalmaerts/travel-planner-app/identity"
	"github.com/milopalmaerts/travel-planner-app/models"
	"github.com/milopalmaerts/travel-planner-app/services"
	"github.com/milopalmaerts/travel-planner-app/social"
	"github.com/milopalmaerts/travel-planner-app/utils"
)

// Handler carries the service dependencies into the gin routes. The friend
// graph is optional; nil disables the recommendations endpoint.
type Handler struct {
	manager   *services.Manager
	graph     *social.Graph
	uploadDir string
	log       zerolog.Logger
}

func New(manager *services.Manager, graph *social.Graph, uploadDir string, logger zerolog.Logger) *Handler {
	return &Handler{manager: manager, graph: graph, uploadDir: uploadDir, log: logger}
}

// userFromClaims rebuilds the session identity from a verified token.
func userFromClaims(c *gin.Context) (models.User, bool) {
	claims, err := utils.VerifyJWT(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return models.User{}, false
	}

	var user models.User
	if idStr, ok := claims["userId"].(string); ok {
		if oid, err := primitive.ObjectIDFromHex(idStr); err == nil {
			user.ID = oid
		}
	}
	if username, ok := claims["username"].(string); ok {
		user.Username = username
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}

	if user.Key() == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
		return models.User{}, false
	}
	return user, true
}

// sessionStore resolves the caller's store, answering 401/500 itself on
// failure.
func (h *Handler) sessionStore(c *gin.Context) (*services.PlacesStore, bool) {
	user, ok := userFromClaims(c)
	if !ok {
		return nil, false
	}

	store, err := h.manager.StoreFor(c.Request.Context(), user)
	if err != nil {
		h.log.Error().Err(err).Str("user", user.Key()).Msg("failed to load session store")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return nil, false
	}
	return store, true
}

func respondError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Fields})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, identity.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, identity.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"errors": []services.FieldError{
			{Field: "password", Message: "password must be at least 6 characters"},
		}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
