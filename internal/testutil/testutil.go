// Package testutil builds an in-memory application for handler and
// integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/config"
	"github.com/nneonya/Travel-app/internal/database"
	"github.com/nneonya/Travel-app/internal/handlers"
	"github.com/nneonya/Travel-app/internal/migrations"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/internal/server"
	"github.com/nneonya/Travel-app/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const TestSecret = "test_secret_key_12345"

var dbSeq int64

// NewDB opens a private in-memory SQLite database with the full schema
// and seeded cities.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:travel_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, migrations.NewMigrator(db).Run())
	return db
}

// Broadcast is one event captured by RecordingHub.
type Broadcast struct {
	Room    string
	Event   string
	Payload interface{}
}

// RecordingHub stands in for the Socket.IO server.
type RecordingHub struct {
	mu     sync.Mutex
	events []Broadcast
}

func (h *RecordingHub) BroadcastToRoom(_ string, room, event string, args ...interface{}) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	var payload interface{}
	if len(args) > 0 {
		payload = args[0]
	}
	h.events = append(h.events, Broadcast{Room: room, Event: event, Payload: payload})
	return true
}

// ForRoom returns the events sent to room, oldest first.
func (h *RecordingHub) ForRoom(room string) []Broadcast {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []Broadcast
	for _, e := range h.events {
		if e.Room == room {
			out = append(out, e)
		}
	}
	return out
}

// Env is a running application backed by an in-memory database.
type Env struct {
	T      testing.TB
	DB     *gorm.DB
	Hub    *RecordingHub
	Config config.Config
	Router *gin.Engine
}

func NewEnv(t testing.TB) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Env:       "test",
		SecretKey: TestSecret,
		ClientURL: "http://localhost:5173",
		UploadDir: t.TempDir(),
	}
	db := NewDB(t)
	hub := &RecordingHub{}

	h := handlers.New(handlers.Deps{
		DB:     db,
		Config: cfg,
		Hub:    hub,
		Files:  services.NewLocalStore(cfg.UploadDir),
	})

	return &Env{
		T:      t,
		DB:     db,
		Hub:    hub,
		Config: cfg,
		Router: server.NewRouter(server.Options{Config: cfg, DB: db, Handler: h}),
	}
}

// Do sends a JSON request through the full router.
func (e *Env) Do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.T, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.Serve(req, token)
}

// Serve runs a prepared request, adding the bearer token if set.
func (e *Env) Serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// Register signs up a user through the API and returns its token and id.
func (e *Env) Register(name, email string) (string, uint) {
	e.T.Helper()

	w := e.Do(http.MethodPost, "/api/users/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	Decode(e.T, w, &resp)
	return resp.Token, resp.User.ID
}

func (e *Env) CityID(name string) uint {
	e.T.Helper()

	var city models.City
	require.NoError(e.T, e.DB.Where("name = ?", name).First(&city).Error)
	return city.ID
}

// CreateTrip posts a trip between two seeded cities and returns its id.
func (e *Env) CreateTrip(token, from, to, dateFrom, dateTo string) uint {
	e.T.Helper()

	w := e.Do(http.MethodPost, "/api/trips", map[string]interface{}{
		"from_city_id": e.CityID(from),
		"to_city_id":   e.CityID(to),
		"date_from":    dateFrom,
		"date_to":      dateTo,
		"description":  from + " to " + to,
	}, token)
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())

	var trip struct {
		ID uint `json:"id"`
	}
	Decode(e.T, w, &trip)
	return trip.ID
}

func Decode(t testing.TB, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
