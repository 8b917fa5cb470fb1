package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetFriends(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"friends":  store.Friends(),
		"profiles": store.FriendProfiles(),
	})
}

func (h *Handler) AddFriend(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	friendID := c.Param("id")
	if err := store.AddFriend(c.Request.Context(), friendID); err != nil {
		respondError(c, err)
		return
	}

	if h.graph != nil {
		user, _ := store.CurrentUser()
		if err := h.graph.AddFriend(c.Request.Context(), user.Key(), friendID); err != nil {
			h.log.Warn().Err(err).Msg("friend graph out of sync after add")
		}
	}

	c.JSON(http.StatusOK, gin.H{"friends": store.Friends()})
}

func (h *Handler) RemoveFriend(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	friendID := c.Param("id")
	if err := store.RemoveFriend(c.Request.Context(), friendID); err != nil {
		respondError(c, err)
		return
	}

	if h.graph != nil {
		user, _ := store.CurrentUser()
		if err := h.graph.RemoveFriend(c.Request.Context(), user.Key(), friendID); err != nil {
			h.log.Warn().Err(err).Msg("friend graph out of sync after remove")
		}
	}

	c.JSON(http.StatusOK, gin.H{"friends": store.Friends()})
}

func (h *Handler) DiscoverFriends(c *gin.Context) {
	store, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.Discover())
}

func (h *Handler) RecommendFriends(c *gin.Context) {
	if h.graph == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "friend recommendations not configured"})
		return
	}

	store, ok := h.sessionStore(c)
	if !ok {
		return
	}

	user, _ := store.CurrentUser()
	recs, err := h.graph.Recommend(c.Request.Context(), user.Key(), 10)
	if err != nil {
		h.log.Error().Err(err).Msg("friend recommendation query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recommendations"})
		return
	}

	c.JSON(http.StatusOK, recs)
}
