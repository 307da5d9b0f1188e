package service

import (
	"context"
	"fmt"
	"time"

	"records-web-server/config"
	"records-web-server/internal/model"
	"records-web-server/internal/ports"
	"records-web-server/internal/util"
)

// AlertDispatcherService : идемпотентный триггер оповещения об истечении
// срока. Доставку выполняет внешний Notifier; сам диспетчер повторных
// попыток не делает — политика повторов принадлежит сканеру.
type AlertDispatcherService struct {
	accountDirectory ports.AccountDirectory
	notifier         ports.Notifier
	db               *config.Database
	timeout          time.Duration
}

func NewAlertDispatcherService(
	accountDirectory ports.AccountDirectory,
	notifier ports.Notifier,
	db *config.Database,
	timeout time.Duration,
) *AlertDispatcherService {
	return &AlertDispatcherService{
		accountDirectory: accountDirectory,
		notifier:         notifier,
		db:               db,
		timeout:          timeout,
	}
}

// Dispatch : составляет оповещение и передаёт нотификатору с ограниченным
// таймаутом. Таймаут считается сбоем доставки — флаг оповещения при этом
// не выставляется.
func (s *AlertDispatcherService) Dispatch(ctx context.Context, document *model.Document) error {
	if document.ExpiryDate == nil {
		return fmt.Errorf("[AlertDispatcher] у документа %d нет срока действия", document.ID)
	}

	owner, err := s.accountDirectory.GetByID(ctx, s.db, document.OwnerID)
	if err != nil {
		return util.LogError(fmt.Sprintf("[AlertDispatcher] не удалось определить владельца документа %d", document.ID), err)
	}

	alert := composeAlert(document, owner)

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, alert.Recipient, alert.Subject, alert.Body); err != nil {
		return util.LogError(fmt.Sprintf("[AlertDispatcher] сбой доставки оповещения для документа %d", document.ID), err)
	}

	return nil
}

// composeAlert : текст оповещения для владельца документа
func composeAlert(document *model.Document, owner *model.Account) *model.ExpiryAlert {
	expiry := *document.ExpiryDate
	return &model.ExpiryAlert{
		DocumentID: document.ID,
		FileName:   document.OriginalFileName,
		Recipient:  owner.Email,
		ExpiryDate: expiry,
		Subject:    fmt.Sprintf("Срок действия документа «%s» истекает %s", document.OriginalFileName, expiry.Format("02.01.2006")),
		Body: fmt.Sprintf(
			"Здравствуйте, %s!\n\nСрок действия документа «%s» истекает %s. Пожалуйста, продлите или замените документ заранее.",
			owner.FullName, document.OriginalFileName, expiry.Format("02.01.2006"),
		),
	}
}
