package handlers_test

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview_JSON(t *testing.T) {
	env := testutil.NewEnv(t)
	aliceToken, _ := env.Register("Alice", "alice@example.com")
	bobToken, bobID := env.Register("Bob", "bob@example.com")
	tripID := env.CreateTrip(aliceToken, "Minsk", "Brest", "2025-01-01", "2025-01-10")

	w := env.Do(http.MethodPost, "/api/reviews", map[string]interface{}{
		"trip_id": tripID,
		"rating":  4,
		"title":   "Nice",
		"comment": "Would travel again",
	}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var review models.ReviewView
	testutil.Decode(t, w, &review)
	assert.Equal(t, bobID, review.UserID)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Would travel again", review.Content)
	assert.Equal(t, "Minsk", review.TripFromCity)
	assert.Equal(t, "Bob", review.UserName)
	assert.Empty(t, review.Photos)

	trips := listTrips(t, env, "/api/trips", bobToken)
	require.Len(t, trips, 1)
	assert.True(t, trips[0].CurrentUserHasReviewed)

	var mine []models.ReviewView
	w = env.Do(http.MethodGet, "/api/reviews/my", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Decode(t, w, &mine)
	assert.Len(t, mine, 1)

	var forTrip []models.ReviewView
	w = env.Do(http.MethodGet, fmt.Sprintf("/api/reviews/trip/%d", tripID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Decode(t, w, &forTrip)
	assert.Len(t, forTrip, 1)
}

func TestCreateReview_Validation(t *testing.T) {
	env := testutil.NewEnv(t)
	token, _ := env.Register("Alice", "alice@example.com")
	tripID := env.CreateTrip(token, "Minsk", "Brest", "2025-01-01", "2025-01-10")

	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"rating too low", map[string]interface{}{"trip_id": tripID, "rating": 0}, http.StatusBadRequest},
		{"rating too high", map[string]interface{}{"trip_id": tripID, "rating": 6}, http.StatusBadRequest},
		{"missing rating", map[string]interface{}{"trip_id": tripID}, http.StatusBadRequest},
		{"missing trip id", map[string]interface{}{"rating": 3}, http.StatusBadRequest},
		{"unknown trip", map[string]interface{}{"trip_id": 9999, "rating": 3}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.Do(http.MethodPost, "/api/reviews", tt.body, token)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCreateReview_MultipartPhotos(t *testing.T) {
	env := testutil.NewEnv(t)
	token, _ := env.Register("Alice", "alice@example.com")
	tripID := env.CreateTrip(token, "Minsk", "Brest", "2025-01-01", "2025-01-10")
	fields := map[string]string{"trip_id": fmt.Sprint(tripID), "rating": "5", "content": "Sunny"}

	req := multipartRequest(t, http.MethodPost, "/api/reviews", fields, []formFile{
		{field: "photos", name: "one.png", data: pngBytes(t)},
		{field: "photos", name: "two.PNG", data: pngBytes(t)},
	})
	w := env.Serve(req, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var review models.ReviewView
	testutil.Decode(t, w, &review)
	require.Len(t, review.Photos, 2)
	for _, p := range review.Photos {
		require.True(t, strings.HasPrefix(p.URL, "/public/reviews/"), p.URL)
		_, err := os.Stat(filepath.Join(env.Config.UploadDir, "reviews", filepath.Base(p.URL)))
		assert.NoError(t, err)
	}

	tooMany := make([]formFile, 6)
	for i := range tooMany {
		tooMany[i] = formFile{field: "photos", name: fmt.Sprintf("%d.png", i), data: pngBytes(t)}
	}
	w = env.Serve(multipartRequest(t, http.MethodPost, "/api/reviews", fields, tooMany), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Serve(multipartRequest(t, http.MethodPost, "/api/reviews", fields, []formFile{
		{field: "photos", name: "notes.txt", data: []byte("hello")},
	}), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.DB.Model(&models.Review{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateDeleteReview_AuthorOnly(t *testing.T) {
	env := testutil.NewEnv(t)
	aliceToken, _ := env.Register("Alice", "alice@example.com")
	bobToken, _ := env.Register("Bob", "bob@example.com")
	tripID := env.CreateTrip(aliceToken, "Minsk", "Brest", "2025-01-01", "2025-01-10")

	w := env.Do(http.MethodPost, "/api/reviews", map[string]interface{}{"trip_id": tripID, "rating": 3, "content": "ok"}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var review models.ReviewView
	testutil.Decode(t, w, &review)
	path := fmt.Sprintf("/api/reviews/%d", review.ID)

	// A foreign review and a missing one are indistinguishable.
	w = env.Do(http.MethodPut, path, map[string]interface{}{"rating": 1}, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Review not found or unauthorized")

	w = env.Do(http.MethodPut, "/api/reviews/9999", map[string]interface{}{"rating": 1}, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Review not found or unauthorized")

	w = env.Do(http.MethodPut, path, map[string]interface{}{"rating": 9}, bobToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(http.MethodPut, path, map[string]interface{}{"rating": 5}, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.ReviewView
	testutil.Decode(t, w, &updated)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "ok", updated.Content)

	w = env.Do(http.MethodDelete, path, nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.Do(http.MethodDelete, path, nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)

	var all []models.ReviewView
	w = env.Do(http.MethodGet, "/api/reviews", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Decode(t, w, &all)
	assert.Empty(t, all)
}
