package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/superlists/internal/auth"
	"github.com/mmynk/superlists/internal/metrics"
	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/pkg/api"
)

func TestSession(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u1", Email: "a@b.com"})
	require.NoError(t, err)

	var gotID, gotEmail string
	handler := Session(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotEmail = GetEmail(r.Context())
	}))

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "u1", gotID)
		assert.Equal(t, "a@b.com", gotEmail)
	})

	t.Run("invalid cookie is anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "junk"})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Empty(t, gotID)
	})

	t.Run("no cookie is anonymous", func(t *testing.T) {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, gotID)
	})
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = bearerToken("")
	assert.False(t, ok)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/lists/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/lists/abc/", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/lists/{id}/", "404")))
}

func TestInstrumentRouterCountsUnmatched(t *testing.T) {
	m := metrics.New()
	r := mux.NewRouter()
	InstrumentRouter(r, m)
	r.HandleFunc("/lists/new", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lists/new", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "405")))
}

// captureLogs points the default logger at a buffer for the test's duration.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRequestLogIncludesSessionUser(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u-42", Email: "a@b.com"})
	require.NoError(t, err)

	logs := captureLogs(t)
	handler := Session(jwtManager)(Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, logs.String(), `"msg":"Request completed"`)
	assert.Contains(t, logs.String(), `"user_id":"u-42"`)
}

type echo struct {
	UserID string `json:"user_id"`
}

func TestRPCLogIncludesCaller(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u-42", Email: "a@b.com"})
	require.NoError(t, err)

	whoami := func(ctx context.Context, _ *connect.Request[echo]) (*connect.Response[echo], error) {
		return connect.NewResponse(&echo{UserID: GetUserID(ctx)}), nil
	}

	tests := []struct {
		name string
		opt  connect.Option
	}{
		{name: "public", opt: PublicRPC(jwtManager)},
		{name: "private", opt: PrivateRPC(jwtManager)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			server := httptest.NewServer(connect.NewUnaryHandler("/test.v1.Echo/WhoAmI", whoami, api.WithJSON(), tt.opt))
			defer server.Close()

			client := connect.NewClient[echo, echo](http.DefaultClient, server.URL+"/test.v1.Echo/WhoAmI", api.WithJSON())
			req := connect.NewRequest(&echo{})
			req.Header().Set("Authorization", "Bearer "+token)

			resp, err := client.CallUnary(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, "u-42", resp.Msg.UserID)
			assert.Contains(t, logs.String(), `"msg":"RPC ok"`)
			assert.Contains(t, logs.String(), `"user_id":"u-42"`)
		})
	}
}
