// Пакет repository — слой доступа к PostgreSQL через sqlx.
// Репозитории принимают sqlx.ExtContext, поэтому одинаково работают
// и с пулом соединений, и внутри транзакции.
package repository

import "errors"

var (
	// ErrNotFound — активная строка с таким id не найдена
	ErrNotFound = errors.New("запись не найдена")
	// ErrVersionConflict — строка изменена конкурентно, version не совпал.
	// Сканер такие документы пропускает до следующего запуска, наружу
	// ошибка не поднимается.
	ErrVersionConflict = errors.New("конфликт версий: запись изменена конкурентно")
)
