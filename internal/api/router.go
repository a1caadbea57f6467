package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PantBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PantBookingService/internal/api/middleware"
)

const BookPath = "/api/book"

// BookHandler обработчик приёма заявки
type BookHandler interface {
	Handle(w http.ResponseWriter, r *http.Request)
}

// Metrics метрики HTTP и обработчик их выдачи
type Metrics interface {
	middleware.HTTPMetrics
	Handler() http.Handler
}

// Options параметры роутера. Metrics может быть nil, тогда метрики выключены
type Options struct {
	Metrics     Metrics
	MetricsPath string
	Logger      middleware.Logger
}

// NewRouter собирает HTTP обработчик сервиса: request id -> CORS -> access log -> mux
func NewRouter(book BookHandler, opts Options) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
		r.Handle(opts.MetricsPath, opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/healthz", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc(BookPath, book.Handle).Methods(http.MethodPost)

	var h http.Handler = r
	if opts.Logger != nil {
		h = middleware.AccessLog(opts.Logger)(h)
	}
	h = middleware.CORS(h)
	return middleware.RequestID(h)
}
