package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const apiBaseURL = "https://api.telegram.org"

// New создает новый Telegram бот
func New(token string) *Bot {
	return NewWithBaseURL(token, apiBaseURL)
}

// NewWithBaseURL создает бота с другим адресом Bot API (локальный сервер, тесты)
func NewWithBaseURL(token, baseURL string) *Bot {
	return &Bot{
		token:       token,
		baseURL:     fmt.Sprintf("%s/bot%s", baseURL, token),
		client:      &http.Client{Timeout: 60 * time.Second},
		pollTimeout: 30 * time.Second,
	}
}

// SetPollTimeout задает таймаут long polling для getUpdates
func (b *Bot) SetPollTimeout(d time.Duration) {
	b.pollTimeout = d
}

// GetUpdates получает обновления от Telegram
func (b *Bot) GetUpdates(ctx context.Context, offset int) ([]Update, error) {
	url := fmt.Sprintf("%s/getUpdates?offset=%d&timeout=%d", b.baseURL, offset, int(b.pollTimeout.Seconds()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса getUpdates: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса getUpdates: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	var response GetUpdatesResponse
	err = json.Unmarshal(body, &response)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON: %w", err)
	}

	if !response.OK {
		return nil, fmt.Errorf("Telegram API вернул ошибку: %s", response.Description)
	}

	return response.Result, nil
}

// SendMessage отправляет сообщение пользователю в Markdown. Если Telegram
// не смог разобрать разметку, сообщение отправляется повторно простым текстом.
func (b *Bot) SendMessage(chatID int64, text string) error {
	err := b.sendMessage(chatID, text, "Markdown")
	if err != nil && strings.Contains(err.Error(), "can't parse entities") {
		log.Printf("Разметка отклонена для чата %d, отправляю без форматирования", chatID)
		return b.sendMessage(chatID, text, "")
	}
	return err
}

func (b *Bot) sendMessage(chatID int64, text, parseMode string) error {
	request := SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := fmt.Sprintf("%s/sendMessage", b.baseURL)
	resp, err := b.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	var response SendMessageResponse
	err = json.Unmarshal(body, &response)
	if err != nil {
		return fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	if !response.OK {
		return fmt.Errorf("Telegram API вернул ошибку при отправке сообщения: %s", response.Description)
	}

	return nil
}

// StartPolling запускает polling для получения обновлений и блокируется до отмены ctx.
// Обновления передаются handler по порядку.
func (b *Bot) StartPolling(ctx context.Context, handler func(Update)) error {
	offset := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := b.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("Ошибка получения обновлений: %v", err)
			if !sleep(ctx, 5*time.Second) {
				return nil
			}
			continue
		}

		// handler не должен блокироваться: порядок внутри пользователя обеспечивает Handler.Dispatch
		for _, update := range updates {
			offset = update.UpdateID + 1
			handler(update)
		}

		if len(updates) == 0 && !sleep(ctx, time.Second) {
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
