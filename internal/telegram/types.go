package telegram

import (
	"net/http"
	"sync"
	"time"

	"hiring-assistant/internal/conversation"
)

// Bot представляет Telegram бота
type Bot struct {
	token       string
	baseURL     string
	client      *http.Client
	pollTimeout time.Duration
}

// Update представляет обновление от Telegram
type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message представляет сообщение в Telegram
type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      *Chat  `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// User представляет пользователя Telegram
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat представляет чат в Telegram
type Chat struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Type      string `json:"type"`
}

// SendMessageRequest представляет запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// GetUpdatesResponse представляет ответ от getUpdates
type GetUpdatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description,omitempty"`
}

// SendMessageResponse представляет ответ от sendMessage
type SendMessageResponse struct {
	OK          bool     `json:"ok"`
	Result      *Message `json:"result,omitempty"`
	Description string   `json:"description,omitempty"`
}

// UserSession связывает пользователя Telegram с сессией собеседования.
// mu сериализует обработку сообщений одного пользователя.
type UserSession struct {
	mu           sync.Mutex
	UserID       int64
	Conversation *conversation.Session
	LastActivity time.Time
	ExportPath   string
}

// Started сообщает, что пользователь прошел /start
func (s *UserSession) Started() bool {
	return s.Conversation.State.Stage != conversation.StageStart
}

// InProgress сообщает, что собеседование начато и еще принимает ответы
func (s *UserSession) InProgress() bool {
	return s.Started() && s.Conversation.Active()
}
