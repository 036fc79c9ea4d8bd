package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Totarae/LinkRedirector/internal/model"
	"github.com/Totarae/LinkRedirector/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Тест сохранения и получения ссылки из памяти
func TestFileStore_PutAndFind(t *testing.T) {
	store := storage.NewFileStore("", zap.NewNop())

	err := store.Put(&model.ShortLink{Slug: "promo", Destination: "https://example.com/landing", Active: true, Clicks: 5})
	require.NoError(t, err)

	got, err := store.FindBySlug(context.Background(), "promo")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/landing", got.Destination)
	assert.True(t, got.Active)
	assert.EqualValues(t, 5, got.Clicks)
}

// Поиск чувствителен к регистру и не делает частичных совпадений
func TestFileStore_FindExactMatch(t *testing.T) {
	store := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, store.Put(&model.ShortLink{Slug: "Promo", Destination: "https://example.com", Active: true}))

	for _, slug := range []string{"promo", "Prom", "Promo2", ""} {
		_, err := store.FindBySlug(context.Background(), slug)
		assert.ErrorIs(t, err, storage.ErrNotFound, slug)
	}
}

func TestFileStore_IncrementClicks(t *testing.T) {
	store := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, store.Put(&model.ShortLink{Slug: "promo", Destination: "https://example.com", Active: true, Clicks: 5}))

	require.NoError(t, store.IncrementClicks(context.Background(), "promo"))

	got, err := store.FindBySlug(context.Background(), "promo")
	require.NoError(t, err)
	assert.EqualValues(t, 6, got.Clicks)
}

// Неизвестный slug не должен создавать запись
func TestFileStore_IncrementClicks_NotFound(t *testing.T) {
	store := storage.NewFileStore("", zap.NewNop())

	err := store.IncrementClicks(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.FindBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileStore_IncrementClicks_Concurrent(t *testing.T) {
	const hits = 200

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "store.json"), zap.NewNop())
	require.NoError(t, store.Put(&model.ShortLink{Slug: "hot", Destination: "https://example.com", Active: true}))

	var wg sync.WaitGroup
	for i := 0; i < hits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.IncrementClicks(context.Background(), "hot"))
		}()
	}
	wg.Wait()

	got, err := store.FindBySlug(context.Background(), "hot")
	require.NoError(t, err)
	assert.EqualValues(t, hits, got.Clicks)
}

// Тест загрузки данных из файла: последняя строка по slug побеждает
func TestFileStore_LoadFromFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "store.json")

	var content []byte
	for _, e := range []model.Entry{
		{Slug: "old", Destination: "https://example.com/x", Active: true},
		{Slug: "old", Destination: "https://example.com/x", Active: false, Clicks: 2},
	} {
		data, err := json.Marshal(e)
		require.NoError(t, err)
		content = append(content, append(data, '\n')...)
	}
	require.NoError(t, os.WriteFile(tmpFile, content, 0644))

	store := storage.NewFileStore(tmpFile, zap.NewNop())

	got, err := store.FindBySlug(context.Background(), "old")
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.EqualValues(t, 2, got.Clicks)
}

// Счётчик переживает перезапуск
func TestFileStore_IncrementPersists(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "store.json")

	store := storage.NewFileStore(tmpFile, zap.NewNop())
	require.NoError(t, store.Put(&model.ShortLink{Slug: "promo", Destination: "https://example.com", Active: true, Clicks: 5}))
	require.NoError(t, store.IncrementClicks(context.Background(), "promo"))

	reopened := storage.NewFileStore(tmpFile, zap.NewNop())
	got, err := reopened.FindBySlug(context.Background(), "promo")
	require.NoError(t, err)
	assert.EqualValues(t, 6, got.Clicks)
}

// Битая строка пропускается, остальные записи загружаются
func TestFileStore_LoadFromFile_Broken(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "broken.json")
	good, err := json.Marshal(model.Entry{Slug: "promo", Destination: "https://example.com", Active: true, Clicks: 3})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(tmpFile, append([]byte("{not json\n"), append(good, '\n')...), 0644))

	core, logs := observer.New(zapcore.WarnLevel)
	broken := storage.NewFileStore(tmpFile, zap.New(core))

	got, err := broken.FindBySlug(context.Background(), "promo")
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Clicks)

	warned := logs.FilterMessage("Пропущена битая строка хранилища").All()
	if assert.Len(t, warned, 1) {
		assert.EqualValues(t, 1, warned[0].ContextMap()["line"])
	}
	assert.NoError(t, broken.LoadFromFile())
}

// Недописанная строка в конце файла не должна склеиваться со следующими снимками
func TestFileStore_TornTailSurvivesRestart(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "store.json")

	store := storage.NewFileStore(tmpFile, zap.NewNop())
	require.NoError(t, store.Put(&model.ShortLink{Slug: "promo", Destination: "https://example.com", Active: true, Clicks: 5}))

	f, err := os.OpenFile(tmpFile, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"slug":"pro`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened := storage.NewFileStore(tmpFile, zap.NewNop())
	for i := 0; i < 10; i++ {
		require.NoError(t, reopened.IncrementClicks(context.Background(), "promo"))
	}

	restarted := storage.NewFileStore(tmpFile, zap.NewNop())
	got, err := restarted.FindBySlug(context.Background(), "promo")
	require.NoError(t, err)
	assert.EqualValues(t, 15, got.Clicks)
}

// Ошибка записи в файл не отменяет учтённый в памяти переход
func TestFileStore_IncrementClicks_NotPersisted(t *testing.T) {
	// Каталог вместо файла: открыть его на запись нельзя.
	store := storage.NewFileStore(t.TempDir(), zap.NewNop())
	assert.Error(t, store.Put(&model.ShortLink{Slug: "promo", Destination: "https://example.com", Active: true, Clicks: 5}))

	err := store.IncrementClicks(context.Background(), "promo")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotPersisted)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	got, err := store.FindBySlug(context.Background(), "promo")
	require.NoError(t, err)
	assert.EqualValues(t, 6, got.Clicks)
}
