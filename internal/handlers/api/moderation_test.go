package api

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamup/internal/models"
)

func TestModeration_Access(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		client *client
		want   int
	}{
		{"anonymous", env.anonymous(), fiber.StatusUnauthorized},
		{"user", env.signIn(models.RoleUser), fiber.StatusForbidden},
		{"moderator", env.signIn(models.RoleModerator), fiber.StatusOK},
		{"admin", env.signIn(models.RoleAdmin), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := tt.client.do(http.MethodGet, "/api/moderation/pending", nil)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestModeration_Approve(t *testing.T) {
	env := newTestEnv(t)
	author := env.signIn(models.RoleUser)
	moderator := env.signIn(models.RoleModerator)

	pending := author.createEvent(t, "Promo walk", "Around the lake")
	author.createEvent(t, "Plain walk", "Around the lake")

	var queue []models.Event
	_, resp := moderator.do(http.MethodGet, "/api/moderation/pending", nil)
	decodeData(t, resp, &queue)
	require.Len(t, queue, 1)
	assert.Equal(t, pending.ID, queue[0].ID)

	status, resp := moderator.do(http.MethodPost, "/api/moderation/"+pending.ID.String()+"/approve", nil)
	require.Equal(t, fiber.StatusOK, status, resp.Error)

	event, err := env.store.GetEventByID(t.Context(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, event.Status)
	require.NotNil(t, event.ReviewedBy)
	assert.Equal(t, moderator.user.ID, *event.ReviewedBy)

	t.Run("second review conflicts", func(t *testing.T) {
		status, _ := moderator.do(http.MethodPost, "/api/moderation/"+pending.ID.String()+"/reject", nil)
		assert.Equal(t, fiber.StatusConflict, status)
	})
}

func TestModeration_Reject(t *testing.T) {
	env := newTestEnv(t)
	author := env.signIn(models.RoleUser)
	moderator := env.signIn(models.RoleModerator)
	pending := author.createEvent(t, "Advert fair", "Stalls")

	status, resp := moderator.do(http.MethodPost, "/api/moderation/"+pending.ID.String()+"/reject",
		models.ReviewRequest{Reason: "looks like spam"})
	require.Equal(t, fiber.StatusOK, status, resp.Error)

	event, err := env.store.GetEventByID(t.Context(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, event.Status)

	// Rejected events stay hidden from everyone but author and moderators.
	status, _ = env.anonymous().do(http.MethodGet, "/api/public/event/"+pending.ID.String(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestModeration_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	moderator := env.signIn(models.RoleModerator)

	status, _ := moderator.do(http.MethodPost, "/api/moderation/nope/approve", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = moderator.do(http.MethodPost, "/api/moderation/"+moderator.user.ID.String()+"/approve", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
