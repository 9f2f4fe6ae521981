package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
	"github.com/agentpay/agentpay/server"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}

type testServer struct {
	srv  *server.Server
	repo agentpay.RepositoryManager

	// agg, when set, handles requests the method client would send
	// upstream. Unset, every upstream call answers an empty object.
	agg http.HandlerFunc
}

// newTestServer wires a full stack against in-memory sqlite, the dev
// aggregator simulator, and a fake upstream aggregator.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ts.agg != nil {
			ts.agg(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(upstream.Close)

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*agentpay.User)(nil),
		(*agentpay.UserSettings)(nil),
		(*agentpay.CardPreferences)(nil),
		(*agentpay.Payment)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	cfg := &agentpay.Config{
		Env: "development",
		HTTPServer: agentpay.HTTPServer{
			ReadTimeout: 5 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		Auth: agentpay.AuthConfig{
			SigningKey: "test-signing-key",
			TokenTTL:   30 * time.Minute,
			Issuer:     "agentpay",
		},
		Method: agentpay.MethodConfig{
			APIKey:      "sk_test_123",
			Environment: method.EnvDev,
		},
	}

	logger := nopLogger{}

	repo := agentpay.NewRepositoryManager(db)
	tokens := agentpay.NewTokenService([]byte(cfg.Auth.SigningKey), cfg.Auth.TokenTTL, cfg.Auth.Issuer, logger)
	provider := agentpay.NewUserProvider(repo.Users()).WithLogger(logger)
	auther := agentpay.NewAuthenticator(repo, provider, tokens).WithLogger(logger)

	mc, err := method.NewClient(cfg.Method.APIKey, cfg.Method.Environment, method.WithBaseURL(upstream.URL))
	require.NoError(t, err)

	ts.srv = server.New(cfg, repo, auther, mc, logger)
	ts.repo = repo

	return ts
}

func (ts *testServer) request(t *testing.T, httpMethod, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(buf)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(httpMethod, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.srv.App().Test(req, -1)
	require.NoError(t, err)

	return res
}

func decodeJSONList(t *testing.T, res *http.Response, out any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

// register creates an account and returns the access token plus the
// user id.
func (ts *testServer) register(t *testing.T, email string) (token, userID string) {
	t.Helper()

	res := ts.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":        email,
		"password":     "correct-horse",
		"full_name":    "Test User",
		"phone_number": "+12025550123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	body := decodeBody(t, res)
	token, _ = body["access_token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, userID)

	return token, userID
}

// linkEntity pins an aggregator entity id to the user, the state the
// connect and payment routes require.
func (ts *testServer) linkEntity(t *testing.T, userID, entityID string) {
	t.Helper()

	uid, err := uuid.Parse(userID)
	require.NoError(t, err)

	_, err = ts.repo.Users().SetMethodEntityID(context.Background(), uid, entityID)
	require.NoError(t, err)
}

func errorTextCode(t *testing.T, res *http.Response) string {
	t.Helper()

	body := decodeBody(t, res)
	detail, _ := body["error"].(map[string]any)
	require.NotNil(t, detail)
	code, _ := detail["text_code"].(string)
	return code
}
