package service

import (
	"context"
	"errors"
	"time"

	"github.com/Totarae/LinkRedirector/internal/storage"
	"go.uber.org/zap"
)

// DefaultAccountingTimeout ограничивает одно обращение к хранилищу за счётчиком.
const DefaultAccountingTimeout = 2 * time.Second

// Accountant учитывает переход по ссылке. Ошибки только логируются.
type Accountant struct {
	store   storage.LinkStore
	logger  *zap.Logger
	timeout time.Duration
}

func NewAccountant(store storage.LinkStore, logger *zap.Logger, timeout time.Duration) *Accountant {
	if timeout <= 0 {
		timeout = DefaultAccountingTimeout
	}
	return &Accountant{store: store, logger: logger, timeout: timeout}
}

// RecordClick один раз вызывает IncrementClicks.
// Отмена запроса клиентом не прерывает уже начатое увеличение.
func (a *Accountant) RecordClick(ctx context.Context, slug string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	err := a.store.IncrementClicks(ctx, slug)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotPersisted):
		a.logger.Warn("Переход учтён, но не сохранён на диск",
			zap.String("slug", slug),
			zap.Error(err),
		)
	default:
		a.logger.Warn("Не удалось учесть переход",
			zap.String("slug", slug),
			zap.Error(err),
		)
	}
}
