package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/auth"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code     string          `json:"code"`
		Message  string          `json:"message"`
		Severity string          `json:"severity"`
		Details  json.RawMessage `json:"details"`
	} `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrCourseNotFound, http.StatusNotFound, "RES_001"},
		{apperrors.ErrDuplicateSelection, http.StatusConflict, "CART_001"},
		{apperrors.ErrCourseFull, http.StatusConflict, "CART_005"},
		{apperrors.ErrInvalidTransition, http.StatusConflict, "REG_004"},
		{apperrors.ErrUnitLimitExceeded, http.StatusUnprocessableEntity, "CART_003"},
		{fmt.Errorf("charge: %w", apperrors.ErrPaymentFailed), http.StatusPaymentRequired, "REG_002"},
		{apperrors.ErrFinalizationFailed, http.StatusBadGateway, "REG_003"},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "AUTH_001"},
		{apperrors.ErrBadRequest, http.StatusBadRequest, "VAL_002"},
		{errors.New("boom"), http.StatusInternalServerError, "SRV_001"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w, body := serveError(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleAPIError_EmptyCartIsWarning(t *testing.T) {
	w, body := serveError(t, apperrors.ErrEmptyCart)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "WARNING", body.Error.Severity)
}

func TestHandleAPIError_CustomMessage(t *testing.T) {
	_, body := serveError(t, apperrors.NewCustomError(apperrors.ErrCourseNotOffered, "Compilers is pending approval"))
	assert.Equal(t, "CART_006", body.Error.Code)
	assert.Equal(t, "Compilers is pending approval", body.Error.Message)
}

func TestHandleAPIError_TimeConflictDetails(t *testing.T) {
	err := &apperrors.TimeConflictError{
		Existing: apperrors.CourseRef{ID: 1, Name: "Web Programming", Time: "Saturday 10-12"},
		Incoming: apperrors.CourseRef{ID: 2, Name: "Database", Time: "Saturday 11-13"},
	}

	w, body := serveError(t, fmt.Errorf("add: %w", err))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CART_002", body.Error.Code)

	var details struct {
		Existing apperrors.CourseRef `json:"existing"`
		Incoming apperrors.CourseRef `json:"incoming"`
	}
	require.NoError(t, json.Unmarshal(body.Error.Details, &details))
	assert.Equal(t, int64(1), details.Existing.ID)
	assert.Equal(t, int64(2), details.Incoming.ID)
}

func TestHandleAPIError_ValidationReason(t *testing.T) {
	err := &apperrors.ValidationError{Reason: apperrors.ReasonBelowMinimum, Message: "below minimum"}

	w, body := serveError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "REG_001", body.Error.Code)
	assert.Contains(t, string(body.Error.Details), string(apperrors.ReasonBelowMinimum))
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	token, _, err := jwtService.GenerateAccessToken(&models.Student{ID: 7, StudentNumber: "401234567"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(NewAuthMiddleware(jwtService).JWTAuth())
	r.GET("/me", func(c *gin.Context) {
		id, ok := StudentID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok, "number": c.GetString(ContextStudentNumber)})
	})

	do := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := do(req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":7,"ok":true,"number":"401234567"}`, w.Body.String())
	})

	t.Run("query", func(t *testing.T) {
		w := do(httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := do(httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_008")
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := do(req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_005")
	})
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), Recovery(zerolog.Nop()))
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SRV_001")
}
