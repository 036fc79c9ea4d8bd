package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Totarae/LinkRedirector/internal/model"
	"github.com/Totarae/LinkRedirector/internal/storage"
	"go.uber.org/zap"
)

var (
	// ErrEmptySlug — в запросе нет slug.
	ErrEmptySlug = errors.New("empty slug")
	// ErrMalformedLink — запись найдена, но адрес назначения непригоден для редиректа.
	ErrMalformedLink = errors.New("malformed short link")
)

// Resolver переводит slug в решение о редиректе.
// Любая ошибка хранилища сворачивается в OutcomeNotFound, причина остаётся только в логе.
type Resolver struct {
	store  storage.LinkStore
	logger *zap.Logger
}

func NewResolver(store storage.LinkStore, logger *zap.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve ищет ссылку и применяет политику активности.
func (r *Resolver) Resolve(ctx context.Context, slug string) model.Decision {
	if slug == "" {
		return model.NotFound(ErrEmptySlug)
	}

	link, err := r.store.FindBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error("Ошибка поиска ссылки", zap.String("slug", slug), zap.Error(err))
		}
		return model.NotFound(err)
	}
	if link == nil {
		return model.NotFound(storage.ErrNotFound)
	}

	if !link.Active {
		r.logger.Debug("Ссылка выключена", zap.String("slug", slug))
		return model.Inactive()
	}

	if err := validateDestination(link.Destination); err != nil {
		r.logger.Warn("Некорректная запись ссылки", zap.String("slug", slug), zap.Error(err))
		return model.NotFound(err)
	}

	return model.Resolved(link.Destination)
}

// validateDestination допускает только абсолютные http(s) адреса.
func validateDestination(destination string) error {
	if destination == "" {
		return fmt.Errorf("%w: empty destination", ErrMalformedLink)
	}
	u, err := url.Parse(destination)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedLink, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrMalformedLink, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: destination has no host", ErrMalformedLink)
	}
	return nil
}
