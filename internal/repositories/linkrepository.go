package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/LinkRedirector/internal/database"
	"github.com/Totarae/LinkRedirector/internal/model"
	"github.com/Totarae/LinkRedirector/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier — часть pgxpool.Pool, которой пользуется репозиторий.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// LinkRepository реализует storage.LinkStore поверх PostgreSQL.
type LinkRepository struct {
	DB Querier
}

var _ storage.LinkStore = (*LinkRepository)(nil)

// NewLinkRepository создаёт новый экземпляр LinkRepository.
func NewLinkRepository(db *database.DB) *LinkRepository {
	return &LinkRepository{DB: db.Pool}
}

const (
	findBySlugQuery = `SELECT id, slug, destination, active, clicks, created_at, updated_at
		FROM short_links WHERE slug = $1`

	// Увеличение одним UPDATE, без чтения значения в приложении.
	incrementClicksQuery = `UPDATE short_links SET clicks = clicks + 1 WHERE slug = $1`
)

// FindBySlug извлекает ссылку по slug.
func (r *LinkRepository) FindBySlug(ctx context.Context, slug string) (*model.ShortLink, error) {
	link := &model.ShortLink{}
	err := r.DB.QueryRow(ctx, findBySlugQuery, slug).Scan(
		&link.ID, &link.Slug, &link.Destination, &link.Active, &link.Clicks, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return link, nil
}

// IncrementClicks атомарно прибавляет единицу к счётчику переходов.
func (r *LinkRepository) IncrementClicks(ctx context.Context, slug string) error {
	tag, err := r.DB.Exec(ctx, incrementClicksQuery, slug)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Ping проверяет доступность базы данных.
func (r *LinkRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}
