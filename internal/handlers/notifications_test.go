package handlers_test

import (
	"net/http"
	"testing"

	"github.com/nneonya/Travel-app/internal/handlers"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getNotifications(t *testing.T, env *testutil.Env, token string) handlers.NotificationsResponse {
	t.Helper()
	w := env.Do(http.MethodGet, "/api/notifications", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handlers.NotificationsResponse
	testutil.Decode(t, w, &resp)
	return resp
}

func TestNotifications_Feed(t *testing.T) {
	env := testutil.NewEnv(t)
	aliceToken, aliceID := env.Register("Alice", "alice@example.com")
	bobToken, bobID := env.Register("Bob", "bob@example.com")
	tripID := env.CreateTrip(aliceToken, "Minsk", "Brest", "2025-01-01", "2025-01-10")

	req := sendRequest(t, env, tripID, bobToken)

	alice := getNotifications(t, env, aliceToken)
	require.Len(t, alice.Incoming, 1)
	assert.Equal(t, bobID, alice.Incoming[0].UserID)
	assert.Equal(t, "Bob", alice.Incoming[0].Name)
	assert.Equal(t, "Minsk", alice.Incoming[0].FromCity)
	assert.Empty(t, alice.Accepted)
	require.Len(t, alice.Notifications, 1)
	assert.Equal(t, models.NotificationJoinRequest, alice.Notifications[0].Type)
	assert.False(t, alice.Notifications[0].IsRead)

	w := env.Do(http.MethodGet, "/api/notifications/requests", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	var incoming []models.TripRequestView
	testutil.Decode(t, w, &incoming)
	assert.Len(t, incoming, 1)

	code, _ := resolve(env, req.ID, "accepted", aliceToken)
	require.Equal(t, http.StatusOK, code)

	alice = getNotifications(t, env, aliceToken)
	assert.Empty(t, alice.Incoming)

	bob := getNotifications(t, env, bobToken)
	require.Len(t, bob.Accepted, 1)
	assert.Equal(t, tripID, bob.Accepted[0].TripID)
	assert.Equal(t, aliceID, bob.Accepted[0].CreatorID)
	require.Len(t, bob.Notifications, 1)
	assert.Equal(t, models.NotificationRequestAccepted, bob.Notifications[0].Type)
	require.NotNil(t, bob.Notifications[0].RelatedTripID)
	assert.Equal(t, tripID, *bob.Notifications[0].RelatedTripID)
}

func TestNotifications_MarkRead(t *testing.T) {
	env := testutil.NewEnv(t)
	aliceToken, _ := env.Register("Alice", "alice@example.com")
	bobToken, _ := env.Register("Bob", "bob@example.com")
	carolToken, _ := env.Register("Carol", "carol@example.com")
	tripID := env.CreateTrip(aliceToken, "Minsk", "Brest", "2025-01-01", "2025-01-10")
	sendRequest(t, env, tripID, bobToken)
	sendRequest(t, env, tripID, carolToken)

	var resp struct {
		Success bool  `json:"success"`
		Updated int64 `json:"updated"`
	}
	w := env.Do(http.MethodPut, "/api/notifications/read-all", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Decode(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(2), resp.Updated)

	for _, n := range getNotifications(t, env, aliceToken).Notifications {
		assert.True(t, n.IsRead)
	}

	w = env.Do(http.MethodPut, "/api/notifications/read-all", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Decode(t, w, &resp)
	assert.Equal(t, int64(0), resp.Updated)
}

func TestListCities(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Do(http.MethodGet, "/api/cities", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var cities []models.City
	testutil.Decode(t, w, &cities)
	require.Len(t, cities, 20)
	for i := 1; i < len(cities); i++ {
		assert.LessOrEqual(t, cities[i-1].Name, cities[i].Name)
	}
}
