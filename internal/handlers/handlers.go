package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Totarae/LinkRedirector/internal/model"
	"github.com/Totarae/LinkRedirector/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultFallbackURL — корень приложения, куда уходят все неудачные переходы.
const DefaultFallbackURL = "/"

// Resolver принимает решение о редиректе по slug.
type Resolver interface {
	Resolve(ctx context.Context, slug string) model.Decision
}

// ClickRecorder учитывает переход. Ошибки не возвращает.
type ClickRecorder interface {
	RecordClick(ctx context.Context, slug string)
}

// Handler обслуживает публичный редирект и служебные маршруты.
type Handler struct {
	Resolver    Resolver
	Accountant  ClickRecorder
	Store       storage.LinkStore
	Logger      *zap.Logger
	FallbackURL string
}

// NewHandler создаёт Handler. Пустой fallbackURL заменяется на "/".
func NewHandler(resolver Resolver, accountant ClickRecorder, store storage.LinkStore, logger *zap.Logger, fallbackURL string) *Handler {
	if fallbackURL == "" {
		fallbackURL = DefaultFallbackURL
	}
	return &Handler{
		Resolver:    resolver,
		Accountant:  accountant,
		Store:       store,
		Logger:      logger,
		FallbackURL: fallbackURL,
	}
}

// Redirect обрабатывает GET /r/{slug}.
// Ответ всегда 307: на адрес назначения активной ссылки либо на FallbackURL.
func (h *Handler) Redirect(res http.ResponseWriter, req *http.Request) {
	slug := chi.URLParam(req, "slug")

	decision := h.resolve(req.Context(), slug)

	target := h.FallbackURL
	if decision.Redirectable() {
		// HEAD шлют превью-боты и мониторинг, это не переход.
		if req.Method != http.MethodHead {
			h.recordClick(req.Context(), slug)
		}
		target = decision.Destination
	} else {
		h.Logger.Debug("Переход на резервный адрес",
			zap.String("slug", slug),
			zap.Stringer("outcome", decision.Outcome),
			zap.NamedError("reason", decision.Err),
		)
	}

	res.Header().Set("Location", target)
	res.WriteHeader(http.StatusTemporaryRedirect)
}

// resolve перехватывает панику резолвера и превращает её в NotFound.
func (h *Handler) resolve(ctx context.Context, slug string) (decision model.Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			h.Logger.Error("Паника при разрешении ссылки", zap.String("slug", slug), zap.Any("panic", rec))
			decision = model.NotFound(fmt.Errorf("resolver panic: %v", rec))
		}
	}()
	return h.Resolver.Resolve(ctx, slug)
}

func (h *Handler) recordClick(ctx context.Context, slug string) {
	defer func() {
		if rec := recover(); rec != nil {
			h.Logger.Error("Паника при учёте перехода", zap.String("slug", slug), zap.Any("panic", rec))
		}
	}()
	h.Accountant.RecordClick(ctx, slug)
}

// Ping проверяет доступность хранилища.
func (h *Handler) Ping(res http.ResponseWriter, req *http.Request) {
	if err := h.Store.Ping(req.Context()); err != nil {
		h.Logger.Error("Хранилище недоступно", zap.Error(err))
		http.Error(res, "storage unavailable", http.StatusInternalServerError)
		return
	}
	res.WriteHeader(http.StatusOK)
}

// LinkInfo отдаёт запись ссылки целиком, включая выключенные.
func (h *Handler) LinkInfo(res http.ResponseWriter, req *http.Request) {
	slug := chi.URLParam(req, "slug")

	link, err := h.Store.FindBySlug(req.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(res, req)
			return
		}
		h.Logger.Error("Ошибка чтения ссылки", zap.String("slug", slug), zap.Error(err))
		http.Error(res, "internal error", http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(link); err != nil {
		h.Logger.Error("Ошибка кодирования ответа", zap.Error(err))
	}
}
