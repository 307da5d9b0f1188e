package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"records-web-server/internal/util"
)

// WebhookNotifier : доставка оповещений во внешний webhook.
// Транспорт (email, мессенджер и т.п.) живёт за webhook-ом; подсистема
// знает только контракт Send.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{},
	}
}

type webhookPayload struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Send : POST JSON на настроенный URL. Любой не-2xx ответ — сбой доставки.
// Таймаут ограничивается контекстом вызывающего.
func (n *WebhookNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	payload, err := json.Marshal(webhookPayload{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		return util.LogError("[WebhookNotifier] ошибка сериализации оповещения", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return util.LogError("[WebhookNotifier] ошибка создания запроса", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := n.client.Do(request)
	if err != nil {
		return util.LogError("[WebhookNotifier] ошибка вызова webhook", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("[WebhookNotifier] webhook вернул статус %d", response.StatusCode)
	}

	return nil
}
