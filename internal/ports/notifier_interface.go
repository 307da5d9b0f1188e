package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"records-web-server/internal/model"
)

// Notifier : внешний канал доставки оповещений (email, webhook и т.п.).
// Повторные попытки — забота вызывающего, не нотификатора.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// AlertDispatcher : идемпотентный триггер оповещения об истечении срока.
// Успех означает, что доставка подтверждена и флаг можно записывать.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, document *model.Document) error
}

// AccountDirectory : справочник владельцев для текста оповещений и проекций
type AccountDirectory interface {
	GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Account, error)
}
