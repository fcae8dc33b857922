//go:build integration

package router_test

// Integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nicofdz/JS-Master-sub000/internal/config"
	"github.com/nicofdz/JS-Master-sub000/internal/infra"
	"github.com/nicofdz/JS-Master-sub000/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("jsmaster_test"),
		tcPostgres.WithUsername("jsmaster"),
		tcPostgres.WithPassword("jsmaster"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("test1234"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin@test', 'Admin Test', ?, 'admin', true, NOW(), NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@test", "password": "test1234"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) createWorker(t *testing.T, name, contract string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/workers",
		jsonBody(t, map[string]any{"full_name": name, "contract_type": contract}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var w struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &w)
	return w.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Two a_trato workers split a 500000 budget, renegotiate, one leaves, the
// survivor closes at 100% and gets paid.
func TestIntegration_PayrollLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	pedroID := env.createWorker(t, "Pedro Soto", "a_trato")
	juanID := env.createWorker(t, "Juan Muñoz", "a_trato")

	// Create task
	taskResp := do(t, env.server, "POST", "/v1/tasks",
		jsonBody(t, map[string]any{"name": "Instalación cerámica piso 3", "total_budget": "500000"}), env.token)
	require.Equal(t, http.StatusCreated, taskResp.StatusCode)
	var task struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, taskResp, &task)
	assert.Equal(t, "pending", task.Status)

	// Assign both workers
	type assignment struct {
		ID string `json:"id"`
	}
	var juanAsg assignment
	resp := do(t, env.server, "POST", "/v1/tasks/"+task.ID+"/assignments",
		jsonBody(t, map[string]string{"worker_id": pedroID}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = do(t, env.server, "POST", "/v1/tasks/"+task.ID+"/assignments",
		jsonBody(t, map[string]string{"worker_id": juanID}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &juanAsg)

	// 50/50 split
	resp = do(t, env.server, "PUT", "/v1/tasks/"+task.ID+"/distribution",
		jsonBody(t, map[string]any{"entries": []map[string]any{
			{"worker_id": pedroID, "percentage": "50"},
			{"worker_id": juanID, "percentage": "50"},
		}}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dist struct {
		IsValid bool `json:"is_valid"`
		Entries []struct {
			Amount string `json:"amount"`
		} `json:"entries"`
	}
	decodeJSON(t, resp, &dist)
	assert.True(t, dist.IsValid)
	require.Len(t, dist.Entries, 2)
	assert.Equal(t, "250000", dist.Entries[0].Amount)

	// Task to in_progress — cascades working to both assignments
	resp = do(t, env.server, "PATCH", "/v1/tasks/"+task.ID+"/status",
		jsonBody(t, map[string]string{"status": "in_progress"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cascade struct {
		AppliedCount int `json:"applied_count"`
	}
	decodeJSON(t, resp, &cascade)
	assert.Equal(t, 2, cascade.AppliedCount)

	// Renegotiate 70/30
	resp = do(t, env.server, "PUT", "/v1/tasks/"+task.ID+"/distribution",
		jsonBody(t, map[string]any{"entries": []map[string]any{
			{"worker_id": pedroID, "percentage": "70"},
			{"worker_id": juanID, "percentage": "30"},
		}}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Juan leaves; his payment is frozen at 150000
	resp = do(t, env.server, "DELETE", "/v1/assignments/"+juanAsg.ID,
		jsonBody(t, map[string]string{"reason": "abandono la obra"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var removed struct {
		Status        string `json:"status"`
		WorkerPayment string `json:"worker_payment"`
	}
	decodeJSON(t, resp, &removed)
	assert.Equal(t, "removed", removed.Status)
	assert.Equal(t, "150000", removed.WorkerPayment)

	// Incomplete distribution is rejected with 422
	resp = do(t, env.server, "PUT", "/v1/tasks/"+task.ID+"/distribution",
		jsonBody(t, map[string]any{"entries": []map[string]any{
			{"worker_id": pedroID, "percentage": "70"},
		}}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// Pedro takes 100%
	resp = do(t, env.server, "PUT", "/v1/tasks/"+task.ID+"/distribution",
		jsonBody(t, map[string]any{"entries": []map[string]any{
			{"worker_id": pedroID, "percentage": "100"},
		}}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Complete the task; history carries everything
	resp = do(t, env.server, "PATCH", "/v1/tasks/"+task.ID+"/status",
		jsonBody(t, map[string]string{"status": "completed"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/tasks/"+task.ID+"/history", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		TotalChanges     int64 `json:"total_changes"`
		TotalTransitions int64 `json:"total_transitions"`
	}
	decodeJSON(t, resp, &history)
	assert.EqualValues(t, 3, history.TotalChanges)
	assert.True(t, history.TotalTransitions >= 5, "assign ×2, cascade, remove, …")
}

// Mixing por_dia and a_trato without the override returns 409.
func TestIntegration_ContractMixRejected(t *testing.T) {
	env := setupTestEnv(t)

	aTratoID := env.createWorker(t, "Pedro Soto", "a_trato")
	porDiaID := env.createWorker(t, "Luis Rojas", "por_dia")

	taskResp := do(t, env.server, "POST", "/v1/tasks",
		jsonBody(t, map[string]any{"name": "Pintura fachada", "total_budget": "300000"}), env.token)
	require.Equal(t, http.StatusCreated, taskResp.StatusCode)
	var task struct {
		ID string `json:"id"`
	}
	decodeJSON(t, taskResp, &task)

	resp := do(t, env.server, "POST", "/v1/tasks/"+task.ID+"/assignments",
		jsonBody(t, map[string]string{"worker_id": aTratoID}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/tasks/"+task.ID+"/assignments",
		jsonBody(t, map[string]string{"worker_id": porDiaID}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

// Unauthenticated requests are rejected before reaching any handler.
func TestIntegration_AuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/workers", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
