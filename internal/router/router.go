package router

import (
	"net/http"

	"github.com/Totarae/LinkRedirector/internal/handlers"
	"github.com/Totarae/LinkRedirector/internal/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger, trustedSubnet string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.LoggingMiddleware(logger))

	// Пустой slug, хвостовой слэш и вложенные пути тоже уходят
	// на резервный адрес, а не в 404/405.
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		r.MethodFunc(method, "/r/", handler.Redirect)
		r.MethodFunc(method, "/r/{slug}", handler.Redirect)
		r.MethodFunc(method, "/r/*", handler.Redirect)
	}
	r.Get("/ping", handler.Ping)

	r.Route("/api/internal", func(r chi.Router) {
		r.Use(middleware.TrustedSubnet(trustedSubnet, logger))
		r.Use(middleware.GzipMiddleware)
		r.Get("/links/{slug}", handler.LinkInfo)
	})
	return r
}
