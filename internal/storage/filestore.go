package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Totarae/LinkRedirector/internal/model"
	"go.uber.org/zap"
)

// ErrNotPersisted — переход учтён в памяти, но снимок не записан в файл.
// После перезапуска этот переход будет потерян.
var ErrNotPersisted = errors.New("click counted in memory but not persisted")

// maxLineSize ограничивает длину одной строки файла хранилища.
const maxLineSize = 1 << 20

// FileStore хранит ссылки в памяти и, если задан путь, дописывает
// снимки изменённых записей в JSON-файл (по одной записи на строку).
type FileStore struct {
	data   map[string]model.Entry
	logger *zap.Logger
	file   string
	mutex  sync.RWMutex
}

// NewFileStore создаёт хранилище и загружает данные из файла.
// Пустой путь означает режим in-memory.
func NewFileStore(file string, logger *zap.Logger) *FileStore {
	store := &FileStore{
		data:   make(map[string]model.Entry),
		file:   file,
		logger: logger,
	}

	if err := store.LoadFromFile(); err != nil {
		logger.Error("Ошибка загрузки из файла", zap.String("file", file), zap.Error(err))
	}

	return store
}

// Put сохраняет ссылку целиком. Используется для начального наполнения и в тестах.
func (s *FileStore) Put(link *model.ShortLink) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := link.ToEntry()
	s.data[entry.Slug] = entry
	return s.appendToFile(entry)
}

// FindBySlug возвращает копию записи.
func (s *FileStore) FindBySlug(_ context.Context, slug string) (*model.ShortLink, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entry, ok := s.data[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return entry.ToLink(), nil
}

// IncrementClicks увеличивает счётчик под мьютексом и дописывает снимок в файл.
// Счётчик в памяти остаётся увеличенным, даже если запись в файл не удалась.
func (s *FileStore) IncrementClicks(_ context.Context, slug string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, ok := s.data[slug]
	if !ok {
		return ErrNotFound
	}
	entry.Clicks++
	s.data[slug] = entry

	if err := s.appendToFile(entry); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// Ping всегда успешен для локального хранилища.
func (s *FileStore) Ping(_ context.Context) error {
	return nil
}

// LoadFromFile загружает данные из файла при старте сервера.
func (s *FileStore) LoadFromFile() error {
	if s.file == "" {
		return nil
	}

	file, err := os.Open(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Файл ещё не создан, это не ошибка
		}
		return err
	}
	defer file.Close()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Битая строка (например, недописанная при падении) пропускается,
	// чтобы более поздние снимки всё равно применились.
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var entry model.Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			s.logger.Warn("Пропущена битая строка хранилища",
				zap.String("file", s.file),
				zap.Int("line", line),
				zap.Error(err),
			)
			continue
		}
		if entry.Slug == "" {
			continue
		}
		s.data[entry.Slug] = entry
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", s.file, err)
	}

	s.logger.Info("Загружены ссылки из файла",
		zap.Int("count", len(s.data)),
		zap.String("file", s.file),
	)
	return nil
}

// appendToFile добавляет новую запись в файл. Вызывается под s.mutex.
// Если файл обрывается не на переводе строки, запись начинается с новой строки.
func (s *FileStore) appendToFile(entry model.Entry) error {
	if s.file == "" {
		return nil
	}

	file, err := os.OpenFile(s.file, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	torn, err := endsWithoutNewline(file)
	if err != nil {
		return err
	}
	if torn {
		data = append([]byte{'\n'}, data...)
	}

	_, err = file.Write(append(data, '\n'))
	return err
}

func endsWithoutNewline(file *os.File) (bool, error) {
	info, err := file.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := file.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return last[0] != '\n', nil
}
