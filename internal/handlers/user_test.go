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

func TestRegister_Validation(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Register("Alice", "alice@example.com")

	tests := []struct {
		name string
		body map[string]string
		msg  string
	}{
		{"duplicate email", map[string]string{"name": "A", "email": "ALICE@example.com", "password": "secret123"}, "User with this email already exists"},
		{"short password", map[string]string{"name": "B", "email": "b@example.com", "password": "12345"}, "Password must be at least 6 characters"},
		{"missing name", map[string]string{"email": "c@example.com", "password": "secret123"}, "Name, email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.Do(http.MethodPost, "/api/users/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.msg)
		})
	}
}

func TestLogin(t *testing.T) {
	env := testutil.NewEnv(t)
	_, id := env.Register("Alice", "alice@example.com")

	w := env.Do(http.MethodPost, "/api/users/login", map[string]string{
		"email": "Alice@Example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string         `json:"token"`
		User  models.Profile `json:"user"`
	}
	testutil.Decode(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, id, resp.User.ID)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	for _, body := range []map[string]string{
		{"email": "alice@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "secret123"},
	} {
		w = env.Do(http.MethodPost, "/api/users/login", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
	}
}

func TestProfile_RequiresValidToken(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Do(http.MethodGet, "/api/users/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.Do(http.MethodGet, "/api/users/profile", nil, "not-a-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := testutil.NewEnv(t)
	token, _ := env.Register("Alice", "alice@example.com")

	w := env.Do(http.MethodPut, "/api/users/profile", map[string]interface{}{
		"age":       27,
		"city":      "Grodno",
		"interests": []string{"hiking", "museums"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile models.Profile
	testutil.Decode(t, w, &profile)
	assert.Equal(t, "Alice", profile.Name)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 27, *profile.Age)
	require.NotNil(t, profile.CityName)
	assert.Equal(t, "Grodno", *profile.CityName)
	assert.Equal(t, []string{"hiking", "museums"}, []string(profile.Interests))

	w = env.Do(http.MethodPut, "/api/users/profile", map[string]interface{}{"city": "Atlantis"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(http.MethodPut, "/api/users/profile", map[string]interface{}{"name": "  "}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(http.MethodGet, "/api/users/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Decode(t, w, &profile)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "Grodno", *profile.CityName)
}

func TestGetUser_HidesEmail(t *testing.T) {
	env := testutil.NewEnv(t)
	_, id := env.Register("Alice", "alice@example.com")

	w := env.Do(http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "alice@example.com")
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)

	w = env.Do(http.MethodGet, "/api/users/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.Do(http.MethodGet, "/api/users/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserTrips_NewestSearching(t *testing.T) {
	env := testutil.NewEnv(t)
	token, id := env.Register("Alice", "alice@example.com")
	first := env.CreateTrip(token, "Minsk", "Brest", "2025-01-01", "2025-01-10")
	second := env.CreateTrip(token, "Minsk", "Gomel", "2025-02-01", "2025-02-10")
	third := env.CreateTrip(token, "Minsk", "Grodno", "2025-03-01", "2025-03-10")

	trips := listTrips(t, env, fmt.Sprintf("/api/users/%d/trips", id), "")
	assert.Equal(t, []uint{third, second}, tripIDs(trips))

	trips = listTrips(t, env, "/api/users/my-trips", token)
	assert.Equal(t, []uint{third, second}, tripIDs(trips))
	assert.NotContains(t, tripIDs(trips), first)
}

func TestUploadAvatar(t *testing.T) {
	env := testutil.NewEnv(t)
	token, _ := env.Register("Alice", "alice@example.com")

	upload := func(name string, data []byte) (int, string) {
		req := multipartRequest(t, http.MethodPost, "/api/users/avatar", nil, []formFile{
			{field: "avatar", name: name, data: data},
		})
		w := env.Serve(req, token)
		var resp struct {
			Avatar string `json:"avatar"`
		}
		if w.Code == http.StatusOK {
			testutil.Decode(t, w, &resp)
		}
		return w.Code, resp.Avatar
	}

	code, first := upload("me.png", pngBytes(t))
	require.Equal(t, http.StatusOK, code)
	require.True(t, strings.HasPrefix(first, "/public/avatars/"), first)
	firstPath := filepath.Join(env.Config.UploadDir, "avatars", filepath.Base(first))
	_, err := os.Stat(firstPath)
	require.NoError(t, err)

	code, _ = upload("notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = upload("fake.png", []byte("plain text pretending to be png"))
	assert.Equal(t, http.StatusBadRequest, code)

	code, second := upload("me2.png", pngBytes(t))
	require.Equal(t, http.StatusOK, code)
	assert.NotEqual(t, first, second)

	_, err = os.Stat(firstPath)
	assert.True(t, os.IsNotExist(err), "old avatar should be removed")

	var user models.User
	require.NoError(t, env.DB.First(&user, "email = ?", "alice@example.com").Error)
	assert.Equal(t, second, user.Avatar)

	w := env.Do(http.MethodGet, second, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
