package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PantBookingService/internal/api"
	createBookingHandler "github.com/m04kA/SMC-PantBookingService/internal/api/handlers/create_booking"
	"github.com/m04kA/SMC-PantBookingService/internal/domain"
	"github.com/m04kA/SMC-PantBookingService/internal/infra/ratelimit"
	"github.com/m04kA/SMC-PantBookingService/internal/integrations/sms"
	"github.com/m04kA/SMC-PantBookingService/internal/integrations/webhook"
	"github.com/m04kA/SMC-PantBookingService/internal/service/notifications"
	createBookingUC "github.com/m04kA/SMC-PantBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-PantBookingService/pkg/logger"
	"github.com/m04kA/SMC-PantBookingService/pkg/metrics"
)

type testEnv struct {
	handler   http.Handler
	smsCalls  *int32
	twilio    *httptest.Server
	collector *metrics.Metrics
}

// newTestEnv собирает сервис так же, как main, но с фейковым Twilio
func newTestEnv(t *testing.T, recipients []string, twilioStatus int) *testEnv {
	t.Helper()

	var calls int32
	twilio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(twilioStatus)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	t.Cleanup(twilio.Close)

	log := logger.NewNop()
	collector := metrics.New("pant-booking")

	smsClient := sms.NewClient(sms.Credentials{
		BaseURL:    twilio.URL,
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+46700000000",
	}, 5*time.Second, log)
	webhookClient := webhook.NewClient("", 5*time.Second, log)

	notifier := notifications.NewService(notifications.BackendSMS, smsClient, webhookClient, recipients, collector, log)
	limiter := ratelimit.NewLimiter("e2e-secret")

	uc := createBookingUC.NewUseCase(
		limiter,
		notifier,
		domain.ValidationRules{Form: domain.FormBasic, PhoneFormat: domain.PhoneGeneric},
		true,
		collector,
		log,
	)

	h := api.NewRouter(createBookingHandler.NewHandler(uc, log), api.Options{
		Metrics:     collector,
		MetricsPath: "/metrics",
		Logger:      log,
	})

	return &testEnv{handler: h, smsCalls: &calls, twilio: twilio, collector: collector}
}

func (e *testEnv) post(body, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, api.BookPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func cookiePair(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	setCookie := rec.Header().Get("Set-Cookie")
	require.NotEmpty(t, setCookie)
	pair, _, _ := strings.Cut(setCookie, ";")
	return pair
}

const validBody = `{"adress":"Storgatan 1","telefon":"0701234567"}`

func TestBook_AcceptedThenRateLimited(t *testing.T) {
	env := newTestEnv(t, []string{"+46700000001", "+46700000002"}, http.StatusCreated)

	first := env.post(validBody, "")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Regexp(t, `^PANT-`, body["serverId"])
	assert.EqualValues(t, 2, body["sent"])
	assert.EqualValues(t, 0, body["failed"])
	assert.Equal(t, int32(2), atomic.LoadInt32(env.smsCalls))

	setCookie := first.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "SameSite=Lax")
	assert.Contains(t, setCookie, "Max-Age=86400")
	assert.Contains(t, setCookie, "Path=/")

	second := env.post(validBody, cookiePair(t, first))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Rate limited"}`, second.Body.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(env.smsCalls))
	assert.Equal(t, "*", second.Header().Get("Access-Control-Allow-Origin"))
}

func TestBook_TamperedCookieIsIgnored(t *testing.T) {
	env := newTestEnv(t, []string{"+46700000001"}, http.StatusCreated)

	first := env.post(validBody, "")
	require.Equal(t, http.StatusOK, first.Code)

	pair := cookiePair(t, first)
	last := byte('A')
	if pair[len(pair)-1] == 'A' {
		last = 'B'
	}
	tampered := pair[:len(pair)-1] + string(last)

	second := env.post(validBody, tampered)
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestBook_MissingAddress(t *testing.T) {
	env := newTestEnv(t, []string{"+46700000001"}, http.StatusCreated)

	rec := env.post(`{"telefon":"0701234567"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		OK      bool     `json:"ok"`
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, "Validation error", body.Error)
	assert.Contains(t, body.Details, "address is required")
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
	assert.Zero(t, atomic.LoadInt32(env.smsCalls))
}

func TestBook_NotConfigured(t *testing.T) {
	env := newTestEnv(t, nil, http.StatusCreated)

	rec := env.post(validBody, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Notifier not configured"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestBook_ProviderRejectsEverything(t *testing.T) {
	env := newTestEnv(t, []string{"+46700000001", "+46700000002"}, http.StatusBadRequest)

	rec := env.post(validBody, "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Failed to send notification"}`, rec.Body.String())
	// неудачная попытка тоже расходует окно
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))
}

func TestBook_InvalidJSON(t *testing.T) {
	env := newTestEnv(t, []string{"+46700000001"}, http.StatusCreated)

	rec := env.post(`{"adress":`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Invalid JSON body"}`, rec.Body.String())
}

func TestBook_PreflightAndMethods(t *testing.T) {
	env := newTestEnv(t, []string{"+46700000001"}, http.StatusCreated)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, api.BookPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, api.BookPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Method not allowed"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, []string{"+46700000001"}, http.StatusCreated)
	require.Equal(t, http.StatusOK, env.post(validBody, "").Code)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	text := rec.Body.String()
	assert.Contains(t, text, `booking_notifications_total{backend="sms",result="sent",service="pant-booking"} 1`)
	assert.Contains(t, text, `path="/api/book"`)
}
