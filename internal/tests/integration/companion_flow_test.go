package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/nneonya/Travel-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanionFlow_e2e(t *testing.T) {
	// 1. Setup
	env := testutil.NewEnv(t)
	aliceToken, aliceID := env.Register("Alice", "alice@example.com")
	bobToken, bobID := env.Register("Bob", "bob@example.com")

	// 2. Alice publishes a trip
	tripID := env.CreateTrip(aliceToken, "Minsk", "Brest", "2025-01-01", "2025-01-10")

	w := env.Do(http.MethodGet, "/api/trips", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	var open []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &open))
	require.Len(t, open, 1)
	assert.Equal(t, "none", open[0]["request_status"])

	// 3. Bob asks to join
	w = env.Do(http.MethodPost, fmt.Sprintf("/api/trips/%d/request", tripID), nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var request map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &request))
	assert.Equal(t, "pending", request["status"])
	requestID := uint(request["id"].(float64))

	// 4. Alice accepts
	w = env.Do(http.MethodPut, fmt.Sprintf("/api/trip-requests/%d", requestID),
		map[string]string{"status": "accepted"}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var accepted map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	require.NotNil(t, accepted["chat"])

	w = env.Do(http.MethodGet, fmt.Sprintf("/api/trips/%d", tripID), nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	var trip map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	assert.Equal(t, "planned", trip["status"])
	assert.Equal(t, float64(bobID), trip["companion_id"])
	assert.Equal(t, "accepted", trip["request_status"])

	// 5. Bob sees the chat with Alice
	w = env.Do(http.MethodGet, "/api/chats", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	var chats []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, float64(aliceID), chats[0]["creator_id"])
	assert.Equal(t, "Alice", chats[0]["creator_name"])
	assert.Equal(t, float64(tripID), chats[0]["trip_id"])

	// 6. The trip left the open listing
	w = env.Do(http.MethodGet, "/api/trips", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &open))
	assert.Empty(t, open)
}
