package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/kawasemi/dungeon-crawler/server/api/rest"
	"github.com/kawasemi/dungeon-crawler/server/audit"
	"github.com/kawasemi/dungeon-crawler/server/blob"
	"github.com/kawasemi/dungeon-crawler/server/config"
	mw "github.com/kawasemi/dungeon-crawler/server/middleware"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminKey is the plain admin key the harness configures.
const AdminKey = "integration-admin-key"

// TestServer wraps a real HTTP server wired exactly like main.go: a local
// blob directory, a sqlite-backed save store with snapshot persistence, the
// legacy migration pass and the audit worker.
type TestServer struct {
	Store  *save.Store
	Blobs  blob.Store
	Audit  *audit.Service
	Server *httptest.Server
	URL    string
	Cfg    *config.Config

	dataDir string
}

// NewTestServer boots the full stack against a fresh temp directory.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminKey), bcrypt.MinCost)
	require.NoError(t, err)

	dataDir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{Debug: true},
		Database: config.DatabaseConfig{
			Mode:       "sqlite",
			SQLitePath: filepath.Join(dataDir, "game.db"),
		},
		Storage: config.StorageConfig{
			LocalDir: filepath.Join(dataDir, "blobs"),
		},
		Game: config.GameConfig{EncounterRate: 0},
		Security: config.SecurityConfig{
			JWTSecret:    "integration-test-secret",
			JWTTTL:       time.Hour,
			AdminKeyHash: string(hash),
		},
	}

	ts := &TestServer{Cfg: cfg, dataDir: dataDir}
	ts.boot(t)
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) boot(t *testing.T) {
	t.Helper()
	logger := zap.NewNop()

	blobs, err := blob.NewStore(blob.Config{LocalDir: ts.Cfg.Storage.LocalDir})
	require.NoError(t, err)

	ctx := context.Background()
	store, err := save.Open(ctx, ts.Cfg.Database, blobs, logger)
	require.NoError(t, err)
	require.NoError(t, save.MigrateLegacy(ctx, blobs, store, logger))

	aud := audit.New(store.DB(), logger)

	rng := rand.New(rand.NewSource(42))
	router := apirest.NewRouter(ts.Cfg, store, aud, rng, logger)

	ts.Blobs = blobs
	ts.Store = store
	ts.Audit = aud
	ts.Server = httptest.NewServer(router)
	ts.URL = ts.Server.URL
}

// Close shuts the stack down. Safe to call twice.
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
		ts.Server = nil
	}
	if ts.Audit != nil {
		ts.Audit.Stop(context.Background())
		ts.Audit = nil
	}
	if ts.Store != nil {
		ts.Store.Close()
		ts.Store = nil
	}
}

// Restart stops the server and boots a fresh one over the same blob
// directory, exercising the snapshot restore path like a process restart.
func (ts *TestServer) Restart(t *testing.T) {
	t.Helper()
	ts.Close()
	// A new working file proves state comes back from the snapshot.
	ts.Cfg.Database.SQLitePath = filepath.Join(ts.dataDir, "game-restarted.db")
	ts.boot(t)
}

// Session obtains a fresh session token.
func (ts *TestServer) Session(t *testing.T) string {
	t.Helper()
	status, resp := ts.Do(t, http.MethodPost, "/api/session", nil, "", nil)
	require.Equal(t, http.StatusOK, status)
	return resp["token"].(string)
}

// Do performs one JSON request and decodes the response body if any.
func (ts *TestServer) Do(t *testing.T, method, path string, body interface{}, token string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp.StatusCode, decoded
}

// AdminHeaders returns the header map authorizing admin routes.
func AdminHeaders() map[string]string {
	return map[string]string{mw.AdminKeyHeader: AdminKey}
}
