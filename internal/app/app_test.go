package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"metricsboard/internal/config"
	customMiddleware "metricsboard/internal/middleware"
	"metricsboard/internal/shared/testutil"
)

const metricsCSV = "項目,2021,2022\n" +
	"平均単価,P,100,120\n" +
	"売上高,PQ,1000,1500\n" +
	"自己資産,,300,-150\n"

func newTestApp(t *testing.T, mutate func(*config.Config)) *Application {
	t.Helper()

	cfg := config.Default()
	cfg.Telemetry.Environment = "test"
	cfg.Security.RateLimit.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	logger, _ := testutil.NewTestLogger(t)
	a, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { a.OTelProviders.Shutdown(context.Background()) })
	return a
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func serve(a *Application, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func TestApplication_DashboardAPI(t *testing.T) {
	a := newTestApp(t, nil)

	body, contentType := multipartBody(t, "grades_file", "metrics.csv", metricsCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", body)
	req.Header.Set("Content-Type", contentType)
	w := serve(a, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(customMiddleware.RequestIDHeader))

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Periods               []string `json:"periods"`
			DefaultHighlightLabel string   `json:"default_highlight_label"`
			RadarDatasets         []struct {
				Label        string    `json:"label"`
				Data         []float64 `json:"data"`
				OriginalData []float64 `json:"originalData"`
			} `json:"radar_datasets"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{"2021", "2022"}, resp.Data.Periods)
	assert.Equal(t, "自己資産", resp.Data.DefaultHighlightLabel)
	require.Len(t, resp.Data.RadarDatasets, 2)
	assert.InDelta(t, 100.0, resp.Data.RadarDatasets[1].Data[3], 1e-9)

	metrics := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "dashboard_uploads_total")
	assert.Contains(t, metrics.Body.String(), "http_requests_total")
}

func TestApplication_DashboardAPIError(t *testing.T) {
	a := newTestApp(t, nil)

	body, contentType := multipartBody(t, "grades_file", "metrics.csv", "Label\nRev\n")
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", body)
	req.Header.Set("Content-Type", contentType)
	w := serve(a, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "MALFORMED_HEADER", problem["error_code"])
	assert.Equal(t, "/api/dashboard", problem["instance"])
}

func TestApplication_DashboardAPIRejectsNonUTF8(t *testing.T) {
	a := newTestApp(t, nil)

	sjis, err := japanese.ShiftJIS.NewEncoder().String(metricsCSV)
	require.NoError(t, err)

	body, contentType := multipartBody(t, "grades_file", "metrics.csv", sjis)
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", body)
	req.Header.Set("Content-Type", contentType)
	w := serve(a, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "UNREADABLE_INPUT", problem["error_code"])
}

func TestApplication_Export(t *testing.T) {
	a := newTestApp(t, nil)

	body, contentType := multipartBody(t, "grades_file", "metrics.csv", metricsCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/export?format=csv", body)
	req.Header.Set("Content-Type", contentType)
	w := serve(a, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "attachment; filename=metrics_dashboard.csv", w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\xEF\xBB\xBF"))
}

func TestApplication_Page(t *testing.T) {
	a := newTestApp(t, nil)

	w := serve(a, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `enctype="multipart/form-data"`)
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))

	body, contentType := multipartBody(t, "grades_file", "metrics.csv", metricsCSV)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w = serve(a, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<td>売上高</td>")
}

func TestApplication_UploadLimits(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Upload.MaxBytes = 128
	})

	body, contentType := multipartBody(t, "grades_file", "metrics.csv", strings.Repeat("1,2\n", 200))
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(a, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusUnsupportedMediaType, serve(a, req).Code)
}

func TestApplication_HealthAndErrors(t *testing.T) {
	a := newTestApp(t, nil)

	w := serve(a, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"templates"`)

	w = serve(a, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/errors/not-found")

	w = serve(a, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestApplication_RateLimit(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}
	})

	assert.Equal(t, http.StatusOK, serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil)).Code)
	w := serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestApplication_RunAndShutdown(t *testing.T) {
	port := freePort(t)
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Server.Host = "127.0.0.1"
		cfg.Server.Port = port
		cfg.Server.ShutdownTimeout = 5 * time.Second
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/health/live", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
