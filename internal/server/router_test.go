package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/platos-api/internal/config"
	"github.com/Lixing-Zhang/platos-api/internal/middleware"
	"github.com/Lixing-Zhang/platos-api/internal/models"
	"github.com/Lixing-Zhang/platos-api/internal/repository"
	"github.com/Lixing-Zhang/platos-api/internal/service"
	"github.com/Lixing-Zhang/platos-api/pkg/logger"
	"github.com/Lixing-Zhang/platos-api/pkg/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Title:       "Platos API",
			Description: "test",
			Version:     "0.1.0",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 30,
		},
		AllowedOrigins: []string{"*"},
		LogLevel:       config.LogLevelError,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	m := metrics.New()
	svc := service.NewDishService(repository.NewInMemoryDishRepository(), m)
	srv := httptest.NewServer(NewRouter(cfg, svc, m, logger.New("error")))
	t.Cleanup(srv.Close)
	return srv
}

func request(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_Welcome(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp := request(t, http.MethodGet, srv.URL+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Welcome to Platos API!", body["message"])
	assert.Equal(t, "running", body["status"])
}

func TestRouter_Health(t *testing.T) {
	cfg := testConfig()
	cfg.App.Version = "3.1.4"
	srv := newTestServer(t, cfg)

	resp := request(t, http.MethodGet, srv.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "3.1.4", body["version"])
}

func TestRouter_DishLifecycle(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp := request(t, http.MethodPost, srv.URL+"/platos", `{"name":"Test","precio":5.0}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Dish
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, int64(11), created.ID)

	resp = request(t, http.MethodPut, srv.URL+"/platos/11", `{"name":"Updated","precio":99.9}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, http.MethodDelete, srv.URL+"/platos/11", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = request(t, http.MethodGet, srv.URL+"/platos/11", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = request(t, http.MethodGet, srv.URL+"/platos", "")
	var dishes []models.Dish
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dishes))
	assert.Len(t, dishes, 10)
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t, testConfig())

	request(t, http.MethodGet, srv.URL+"/platos/9999", "")
	request(t, http.MethodDelete, srv.URL+"/platos/1", "")

	resp := request(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, `platos_http_requests_total{method="GET",route="/platos/{id}",status="404"} 1`)
	assert.Contains(t, out, `platos_http_requests_total{method="DELETE",route="/platos/{id}",status="204"} 1`)
	assert.Contains(t, out, "platos_dishes 9")
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp := request(t, http.MethodGet, srv.URL+"/menu", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp = request(t, http.MethodPatch, srv.URL+"/platos/1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_CORS(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"http://allowed.test"}
	srv := newTestServer(t, cfg)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/platos", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://allowed.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://allowed.test", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/platos", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://denied.test")

	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()

	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_DebugProfiler(t *testing.T) {
	cfg := testConfig()
	cfg.Debug = false
	srv := newTestServer(t, cfg)
	assert.Equal(t, http.StatusNotFound, request(t, http.MethodGet, srv.URL+"/debug/vars", "").StatusCode)

	cfg = testConfig()
	cfg.Debug = true
	srv = newTestServer(t, cfg)
	assert.Equal(t, http.StatusOK, request(t, http.MethodGet, srv.URL+"/debug/vars", "").StatusCode)
}
