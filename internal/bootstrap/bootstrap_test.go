package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/unireg/internal/config"
	"github.com/yigit/unireg/internal/pkg/auth"
	"github.com/yigit/unireg/internal/pkg/kvstore"
	"github.com/yigit/unireg/internal/pkg/websocket"
)

const testConfig = `
server:
  mode: production
  export_path: %s
storage:
  driver: memory
catalog:
  data_file: ""
jwt:
  secret: test-secret
simulation:
  payment_failure_rate: 0
  payment_latency: 0s
  finalize_failure_rate: 0
  finalize_latency: 0s
  seed: 1
`

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	cost := auth.BcryptCost
	auth.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { auth.BcryptCost = cost })

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(testConfig, filepath.Join(dir, "exports"))), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	hub := websocket.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})

	deps, err := BuildDependencies(context.Background(), cfg, kvstore.NewMemoryStore(), nil, hub, zerolog.Nop())
	require.NoError(t, err)

	return &apiClient{t: t, router: SetupRouter(cfg, deps, zerolog.Nop())}
}

// do sends a request and decodes the envelope's data into out when given
func (c *apiClient) do(method, path string, body any, out any) int {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if out != nil {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
		require.NoError(c.t, json.Unmarshal(envelope.Data, out), w.Body.String())
	}
	return w.Code
}

func (c *apiClient) login() {
	var resp struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	code := c.do(http.MethodPost, "/api/v1/auth/login", gin.H{"studentNumber": "401234567", "password": "123456"}, &resp)
	require.Equal(c.t, http.StatusOK, code)
	require.NotEmpty(c.t, resp.Token.AccessToken)
	c.token = resp.Token.AccessToken
}

func TestRouter_CatalogIsPublic(t *testing.T) {
	api := newAPI(t)

	var list struct {
		Courses []struct {
			Code string `json:"code"`
		} `json:"courses"`
		Pagination struct {
			TotalItems int `json:"totalItems"`
		} `json:"pagination"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/courses?department=computer+engineering", nil, &list))
	assert.Equal(t, 6, list.Pagination.TotalItems)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/courses/99", nil, nil))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/courses/abc", nil, nil))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/courses?day=Friday", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/cart", nil, nil))
}

func TestRouter_RegistrationFlow(t *testing.T) {
	api := newAPI(t)
	api.login()

	for _, id := range []int64{1, 2, 3, 4} {
		require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/cart/items", gin.H{"courseId": id}, nil))
	}
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/v1/cart/items", gin.H{"courseId": 1}, nil))

	var grid struct {
		TotalUnits int `json:"totalUnits"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/schedule", nil, &grid))
	assert.Equal(t, 12, grid.TotalUnits)

	var export struct {
		FileURL string `json:"fileUrl"`
	}
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/schedule/export", nil, &export))
	assert.Contains(t, export.FileURL, "/exports/schedule-1")

	var status struct {
		State     string `json:"state"`
		ReceiptID string `json:"receiptId"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/registration", nil, &status))
	assert.Equal(t, "IDLE", status.State)

	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/v1/registration/pay", nil, nil))

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/registration/start", nil, nil))
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/registration/validate", nil, &status))
	assert.Equal(t, "PAYING", status.State)
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/registration/pay", nil, &status))
	assert.Equal(t, "FINALIZING", status.State)
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/registration/finalize", nil, &status))
	assert.Equal(t, "COMPLETE", status.State)
	assert.NotEmpty(t, status.ReceiptID)

	var history []struct {
		Semester string `json:"semester"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/registration/history", nil, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "2-1403", history[0].Semester)

	var cart struct {
		Items []any `json:"items"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/cart", nil, &cart))
	assert.Empty(t, cart.Items)
}

func TestRouter_ValidationBelowMinimum(t *testing.T) {
	api := newAPI(t)
	api.login()

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/cart/items", gin.H{"courseId": 1}, nil))
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/registration/start", nil, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, api.do(http.MethodPost, "/api/v1/registration/validate", nil, nil))

	var status struct {
		State string `json:"state"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/registration", nil, &status))
	assert.Equal(t, "VALIDATING", status.State)

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/v1/registration", nil, &status))
	assert.Equal(t, "IDLE", status.State)
}

func TestRouter_Profile(t *testing.T) {
	api := newAPI(t)
	api.login()

	var prefs struct {
		DarkMode string `json:"darkMode"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/profile/preferences/dark-mode/toggle", nil, &prefs))
	assert.Equal(t, "enabled", prefs.DarkMode)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, "/api/v1/profile/preferences/dark-mode", gin.H{"mode": "sepia"}, nil))

	var transcript struct {
		Courses []any `json:"courses"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/profile/transcript", nil, &transcript))
	assert.Len(t, transcript.Courses, 3)

	var student struct {
		StudentNumber string `json:"studentNumber"`
		PasswordHash  string `json:"passwordHash"`
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/profile", nil, &student))
	assert.Equal(t, "401234567", student.StudentNumber)
	assert.Empty(t, student.PasswordHash)
}

func TestRouter_ServesSwagger(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")

	req = httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                    `json:"basePath"`
		Info     struct{ Title string }    `json:"info"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Equal(t, "UniReg API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/registration/finalize"], "post")
}
