package mockofbiz

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selzcore/mock-ofbiz/internal/client"
	"github.com/selzcore/mock-ofbiz/internal/config"
	"github.com/selzcore/mock-ofbiz/internal/lib/token"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Env: config.EnvLocal,
		HTTPServer: config.HTTPServer{
			AddressHTTP: "127.0.0.1:0",
			TimeoutHTTP: 5 * time.Second,
			IdleTimeout: 5 * time.Second,
		},
		RateLimit: config.RateLimit{Burst: 10},
	}
}

func startApp(t *testing.T, cfg *config.Config) (*App, *httptest.Server, *client.Client) {
	t.Helper()
	app, err := New(cfg, newNoopLogger())
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return app, srv, client.New(srv.URL, srv.Client())
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestApp_Health(t *testing.T) {
	_, srv, c := startApp(t, testConfig())

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", status.Status)
	assert.Equal(t, "Mock OFBiz REST API is running", status.Message)

	resp, body := do(t, srv, http.MethodGet, "/rest/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK","message":"Mock OFBiz REST API is running"}`, string(body))
}

func TestApp_UnknownRoute(t *testing.T) {
	_, srv, _ := startApp(t, testConfig())

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "unknown path", method: http.MethodGet, path: "/nope"},
		{name: "unknown service", method: http.MethodPost, path: "/rest/services/deleteUser"},
		{name: "wrong method", method: http.MethodGet, path: "/rest/auth/token"},
		{name: "post to health", method: http.MethodPost, path: "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, tt.method, tt.path, "")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)

			var got map[string]string
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "Not Found", got["error"])
			assert.Equal(t, "Endpoint "+tt.path+" not found", got["message"])
		})
	}
}

func TestApp_PreflightAndCORS(t *testing.T) {
	_, srv, _ := startApp(t, testConfig())

	for _, path := range []string{"/rest/auth/token", "/rest/services/createUser", "/whatever"} {
		resp, body := do(t, srv, http.MethodOptions, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `{}`, string(body), path)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), path)
	}

	for _, path := range []string{"/health", "/nope"} {
		resp, _ := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"), path)
		assert.Equal(t, "Content-Type, Authorization", resp.Header.Get("Access-Control-Allow-Headers"), path)
	}
}

func TestApp_IssueToken(t *testing.T) {
	_, _, c := startApp(t, testConfig())
	ctx := context.Background()

	tok, err := c.IssueToken(ctx, "admin", "ofbiz")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, 3600, tok.ExpiresIn)

	claims, err := token.Decode(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.UserLoginID)
	assert.Equal(t, int64(token.FarFutureExpiry), claims.Exp)

	demo, err := c.IssueToken(ctx, "demo", "demo")
	require.NoError(t, err)
	assert.NotEqual(t, tok.AccessToken, demo.AccessToken)
}

func TestApp_IssueToken_FailuresIndistinguishable(t *testing.T) {
	_, srv, _ := startApp(t, testConfig())

	basic := func(user, pass string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	}
	post := func(auth string) (*http.Response, []byte) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/rest/auth/token", nil)
		require.NoError(t, err)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, b
	}

	wrongPass, wrongPassBody := post(basic("admin", "nope"))
	unknown, unknownBody := post(basic("ghost", "ofbiz"))
	assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	assert.Equal(t, string(wrongPassBody), string(unknownBody))
	assert.JSONEq(t, `{"error":"Invalid credentials","message":"Username or password incorrect"}`, string(wrongPassBody))

	missing, missingBody := post("")
	assert.Equal(t, http.StatusUnauthorized, missing.StatusCode)
	assert.NotEqual(t, string(wrongPassBody), string(missingBody))

	bearer, _ := post("Bearer abc")
	assert.Equal(t, http.StatusUnauthorized, bearer.StatusCode)
}

func TestApp_CreateThenGetUserInfo(t *testing.T) {
	_, _, c := startApp(t, testConfig())
	ctx := context.Background()

	created, err := c.CreateUser(ctx, client.CreateUserRequest{UserLoginID: "newuser"})
	require.NoError(t, err)
	assert.Equal(t, "newuser", created.UserLoginID)
	assert.Equal(t, "newuser", created.FirstName)
	assert.Equal(t, "User", created.LastName)
	assert.Equal(t, "newuser@example.com", created.Email)
	assert.Equal(t, "default", created.TenantID)

	info, err := c.GetUserInfo(ctx, "newuser")
	require.NoError(t, err)
	assert.Equal(t, *created, *info)

	tok, err := c.IssueToken(ctx, "newuser", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
}

func TestApp_CreateUser_Conflict(t *testing.T) {
	app, _, c := startApp(t, testConfig())
	ctx := context.Background()
	before := app.registry.Len()

	_, err := c.CreateUser(ctx, client.CreateUserRequest{UserLoginID: "twice", FirstName: "First"})
	require.NoError(t, err)

	_, err = c.CreateUser(ctx, client.CreateUserRequest{UserLoginID: "twice", FirstName: "Second"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	assert.Equal(t, before+1, app.registry.Len())

	info, err := c.GetUserInfo(ctx, "twice")
	require.NoError(t, err)
	assert.Equal(t, "First", info.FirstName)

	_, err = c.CreateUser(ctx, client.CreateUserRequest{UserLoginID: "admin"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestApp_ServiceValidation(t *testing.T) {
	_, srv, _ := startApp(t, testConfig())

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "getUserInfo empty object", path: "/rest/services/getUserInfo", body: `{}`},
		{name: "getUserInfo malformed", path: "/rest/services/getUserInfo", body: `{"userLoginId":`},
		{name: "createUser empty login", path: "/rest/services/createUser", body: `{"userLoginId":""}`},
		{name: "createUser malformed", path: "/rest/services/createUser", body: `not json`},
		{name: "createPartyGroup no partyId", path: "/rest/services/createPartyGroup", body: `{"groupName":"x"}`},
		{name: "getUserInfo trailing data", path: "/rest/services/getUserInfo", body: `{"userLoginId":"admin"} trailing`},
		{name: "createUser two objects", path: "/rest/services/createUser", body: `{"userLoginId":"a"}{"userLoginId":"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var got map[string]any
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "Bad Request", got["error"])
			assert.NotEmpty(t, got["message"])
		})
	}
}

func TestApp_NonStringFieldsDecodedAsText(t *testing.T) {
	_, srv, _ := startApp(t, testConfig())

	resp, body := do(t, srv, http.MethodPost, "/rest/services/createUser", `{"userLoginId":"bob","firstName":5}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"message":"User bob created successfully","data":{"userLoginId":"bob","firstName":"5","lastName":"User","email":"bob@example.com","tenantId":"default"}}`, string(body))

	resp, body = do(t, srv, http.MethodPost, "/rest/services/getUserInfo", `{"userLoginId":123}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"User not found","message":"User 123 not found or disabled"}`, string(body))
}

func TestApp_GetUserInfo_NotFound(t *testing.T) {
	_, _, c := startApp(t, testConfig())

	_, err := c.GetUserInfo(context.Background(), "ghost")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "User ghost not found or disabled", apiErr.Message)
}

func TestApp_ListUsers(t *testing.T) {
	_, srv, c := startApp(t, testConfig())
	ctx := context.Background()

	list, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.True(t, list.Success)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "admin", list.Users[0].UserLoginID)
	assert.Equal(t, "demo", list.Users[1].UserLoginID)

	for _, id := range []string{"u1", "u2", "u3"} {
		_, err := c.CreateUser(ctx, client.CreateUserRequest{UserLoginID: id, UserPassword: "secret-" + id})
		require.NoError(t, err)
	}

	list, err = c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, list.Total)
	assert.Len(t, list.Users, 5)
	assert.Equal(t, "u3", list.Users[4].UserLoginID)
	assert.True(t, list.Users[4].CreatedByPlugin)
	assert.NotNil(t, list.Users[4].CreatedStamp)

	_, body := do(t, srv, http.MethodGet, "/rest/users", "")
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "secret-u1")
}

func TestApp_CreatePartyGroup(t *testing.T) {
	_, _, c := startApp(t, testConfig())
	ctx := context.Background()
	before, err := c.ListUsers(ctx)
	require.NoError(t, err)

	group, err := c.CreatePartyGroup(ctx, "acme", "")
	require.NoError(t, err)
	assert.Equal(t, "acme", group.PartyID)
	assert.Equal(t, "acme Organization", group.GroupName)
	assert.Equal(t, "PARTY_GROUP", group.PartyTypeID)

	named, err := c.CreatePartyGroup(ctx, "acme", "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", named.GroupName)

	after, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Total, after.Total)
}

func TestApp_InstancesAreIndependent(t *testing.T) {
	_, _, first := startApp(t, testConfig())
	_, _, second := startApp(t, testConfig())
	ctx := context.Background()

	_, err := first.CreateUser(ctx, client.CreateUserRequest{UserLoginID: "only-first"})
	require.NoError(t, err)

	_, err = second.GetUserInfo(ctx, "only-first")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = second.CreateUser(ctx, client.CreateUserRequest{UserLoginID: "only-first"})
	require.NoError(t, err)
}

func TestApp_SeedFile_DisabledUser(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "users.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`users:
  - userLoginId: locked
    password: locked
    enabled: false
  - userLoginId: extra
    password: extra
    firstName: Extra
`), 0o600))

	cfg := testConfig()
	cfg.SeedFile = seed
	_, _, c := startApp(t, cfg)
	ctx := context.Background()

	list, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, list.Total)

	_, err = c.GetUserInfo(ctx, "locked")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = c.IssueToken(ctx, "locked", "locked")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = c.CreateUser(ctx, client.CreateUserRequest{UserLoginID: "locked"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	info, err := c.GetUserInfo(ctx, "extra")
	require.NoError(t, err)
	assert.Equal(t, "Extra", info.FirstName)
}

func TestApp_New_BadSeedFile(t *testing.T) {
	cfg := testConfig()
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(cfg, newNoopLogger())
	require.Error(t, err)
}

func TestApp_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RPS = 0.001
	cfg.Burst = 1
	_, srv, _ := startApp(t, cfg)

	first, _ := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.JSONEq(t, `{"error":"Too Many Requests","message":"Rate limit exceeded"}`, string(body))

	preflight, _ := do(t, srv, http.MethodOptions, "/health", "")
	assert.Equal(t, http.StatusOK, preflight.StatusCode)
}

func TestApp_AdminServer(t *testing.T) {
	cfg := testConfig()
	cfg.AddressAdmin = "127.0.0.1:0"
	app, srv, _ := startApp(t, cfg)
	require.NotNil(t, app.admin)

	do(t, srv, http.MethodGet, "/health", "")

	admin := httptest.NewServer(app.admin.Handler)
	t.Cleanup(admin.Close)

	resp, body := do(t, admin, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mock_ofbiz_http_requests_total")
	assert.Contains(t, string(body), "mock_ofbiz_registry_users 2")

	resp, body = do(t, admin, http.MethodGet, "/docs/doc.json", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/rest/services/createUser")

	// служебные маршруты не видны в основном API
	resp, _ = do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApp_NoAdminServerByDefault(t *testing.T) {
	app, err := New(testConfig(), newNoopLogger())
	require.NoError(t, err)
	assert.Nil(t, app.admin)
}

func TestApp_Run_StopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.AddressAdmin = "127.0.0.1:0"
	app, err := New(cfg, newNoopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_Run_ListenError(t *testing.T) {
	cfg := testConfig()
	cfg.AddressHTTP = "256.0.0.1:bad"
	app, err := New(cfg, newNoopLogger())
	require.NoError(t, err)

	err = app.Run(context.Background())
	require.Error(t, err)
}
