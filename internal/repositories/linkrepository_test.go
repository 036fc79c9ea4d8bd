package repositories

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Totarae/LinkRedirector/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	err    error
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type fakeQuerier struct {
	row      fakeRow
	tag      pgconn.CommandTag
	execErr  error
	lastSQL  string
	lastArgs []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL, q.lastArgs = sql, args
	return q.row
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.lastSQL, q.lastArgs = sql, args
	return q.tag, q.execErr
}

func (q *fakeQuerier) Ping(context.Context) error { return nil }

func TestFindBySlug(t *testing.T) {
	now := time.Now()
	q := &fakeQuerier{row: fakeRow{values: []any{
		int64(1), "promo", "https://example.com/landing", true, int64(5), now, now,
	}}}
	repo := &LinkRepository{DB: q}

	link, err := repo.FindBySlug(context.Background(), "promo")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/landing", link.Destination)
	assert.True(t, link.Active)
	assert.EqualValues(t, 5, link.Clicks)
	assert.Equal(t, []any{"promo"}, q.lastArgs)
}

func TestFindBySlug_NotFound(t *testing.T) {
	repo := &LinkRepository{DB: &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}}

	_, err := repo.FindBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindBySlug_DBError(t *testing.T) {
	dbErr := errors.New("connection reset")
	repo := &LinkRepository{DB: &fakeQuerier{row: fakeRow{err: dbErr}}}

	_, err := repo.FindBySlug(context.Background(), "promo")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestIncrementClicks(t *testing.T) {
	q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := &LinkRepository{DB: q}

	require.NoError(t, repo.IncrementClicks(context.Background(), "promo"))
	assert.Contains(t, q.lastSQL, "clicks = clicks + 1")
	assert.Equal(t, []any{"promo"}, q.lastArgs)
}

func TestIncrementClicks_NotFound(t *testing.T) {
	repo := &LinkRepository{DB: &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}}

	err := repo.IncrementClicks(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIncrementClicks_DBError(t *testing.T) {
	dbErr := errors.New("deadlock detected")
	repo := &LinkRepository{DB: &fakeQuerier{execErr: dbErr}}

	err := repo.IncrementClicks(context.Background(), "promo")
	assert.ErrorIs(t, err, dbErr)
}
