package storage

import (
	"context"
	"errors"

	"github.com/Totarae/LinkRedirector/internal/model"
)

// ErrNotFound возвращается, если ссылки с таким slug нет.
var ErrNotFound = errors.New("short link not found")

//go:generate mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks

// LinkStore определяет интерфейс хранилища коротких ссылок.
type LinkStore interface {
	// FindBySlug ищет ссылку по точному совпадению slug (с учётом регистра).
	FindBySlug(ctx context.Context, slug string) (*model.ShortLink, error)
	// IncrementClicks атомарно увеличивает счётчик переходов на единицу.
	IncrementClicks(ctx context.Context, slug string) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}
