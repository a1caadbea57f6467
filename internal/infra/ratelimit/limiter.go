package ratelimit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultCookieName = "rl"
	DefaultWindow     = 60 * time.Second
	DefaultMaxAge     = 24 * time.Hour

	// UnknownClient ключ клиента, если X-Forwarded-For отсутствует
	UnknownClient = "unknown"

	signatureSeparator = "|"
)

var encoding = base64.RawURLEncoding

// token содержимое cookie до подписи
type token struct {
	IssuedAt int64 `json:"t"`
}

// Limiter ограничитель частоты заявок на основе подписанной cookie.
// Не хранит состояния: всё нужное лежит в самой cookie
type Limiter struct {
	secret     []byte
	cookieName string
	window     time.Duration
	maxAge     time.Duration
}

// Option настройка Limiter
type Option func(*Limiter)

func WithCookieName(name string) Option {
	return func(l *Limiter) { l.cookieName = name }
}

func WithWindow(d time.Duration) Option {
	return func(l *Limiter) { l.window = d }
}

func WithMaxAge(d time.Duration) Option {
	return func(l *Limiter) { l.maxAge = d }
}

// NewLimiter создает ограничитель с секретом подписи
func NewLimiter(secret string, opts ...Option) *Limiter {
	l := &Limiter{
		secret:     []byte(secret),
		cookieName: DefaultCookieName,
		window:     DefaultWindow,
		maxAge:     DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Window окно, в течение которого повторная заявка отклоняется
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Check разбирает заголовок Cookie и возвращает время выпуска токена, если подпись верна.
// Любая ошибка разбора или подписи означает "токена нет": cookie не должна блокировать заявку
func (l *Limiter) Check(cookieHeader, clientKey string) (int64, bool) {
	if cookieHeader == "" {
		return 0, false
	}

	req := http.Request{Header: http.Header{"Cookie": {cookieHeader}}}
	cookie, err := req.Cookie(l.cookieName)
	if err != nil {
		return 0, false
	}

	payload, signature, found := strings.Cut(cookie.Value, ".")
	if !found || payload == "" || signature == "" {
		return 0, false
	}

	// Сравниваем закодированные строки, а не байты: у base64 без паддинга
	// последний символ несёт лишние биты, и их подмена не должна проходить
	expected := l.sign(payload, clientKey)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return 0, false
	}

	raw, err := encoding.DecodeString(payload)
	if err != nil {
		return 0, false
	}

	var t token
	if err := json.Unmarshal(raw, &t); err != nil {
		return 0, false
	}
	if t.IssuedAt <= 0 {
		return 0, false
	}

	return t.IssuedAt, true
}

// Issue выпускает подписанную cookie на момент nowMillis и возвращает значение заголовка Set-Cookie
func (l *Limiter) Issue(nowMillis int64, clientKey string) string {
	return l.cookie(l.Value(nowMillis, clientKey)).String()
}

// Value значение cookie: base64url(JSON) "." base64url(HMAC-SHA256)
func (l *Limiter) Value(nowMillis int64, clientKey string) string {
	// json.Marshal структуры из одного int64 не может вернуть ошибку
	raw, _ := json.Marshal(token{IssuedAt: nowMillis})
	payload := encoding.EncodeToString(raw)
	return payload + "." + l.sign(payload, clientKey)
}

// IsLimited true, если с момента issuedAtMillis не прошло окно
func (l *Limiter) IsLimited(issuedAtMillis, nowMillis int64) bool {
	return nowMillis-issuedAtMillis < l.window.Milliseconds()
}

func (l *Limiter) sign(payload, clientKey string) string {
	mac := hmac.New(sha256.New, l.secret)
	mac.Write([]byte(payload + signatureSeparator + clientKey))
	return encoding.EncodeToString(mac.Sum(nil))
}

func (l *Limiter) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     l.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(l.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClientKey ключ клиента: первый элемент X-Forwarded-For.
// Клиент, управляющий своими заголовками, может его подменить
func ClientKey(forwardedFor string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return UnknownClient
}
