package model

import "time"

// ShortLink представляет запись короткой ссылки в хранилище.
type ShortLink struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Slug        string    `json:"slug"`
	Destination string    `json:"destination"`
	ID          int64     `json:"id,omitempty"`
	Clicks      int64     `json:"clicks"`
	Active      bool      `json:"active"`
}

// Entry представляет строку JSON-файла хранилища.
// Каждая строка содержит полный снимок ссылки, последняя запись по slug побеждает.
type Entry struct {
	Slug        string `json:"slug"`
	Destination string `json:"destination"`
	Clicks      int64  `json:"clicks"`
	Active      bool   `json:"active"`
}

// ToEntry возвращает файловое представление ссылки.
func (l *ShortLink) ToEntry() Entry {
	return Entry{
		Slug:        l.Slug,
		Destination: l.Destination,
		Clicks:      l.Clicks,
		Active:      l.Active,
	}
}

// ToLink восстанавливает ссылку из строки файла.
func (e Entry) ToLink() *ShortLink {
	return &ShortLink{
		Slug:        e.Slug,
		Destination: e.Destination,
		Clicks:      e.Clicks,
		Active:      e.Active,
	}
}
