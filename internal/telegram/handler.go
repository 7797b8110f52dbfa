package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"hiring-assistant/internal/config"
	"hiring-assistant/internal/conversation"
	"hiring-assistant/internal/metrics"
	"hiring-assistant/internal/questions"
	"hiring-assistant/internal/storage"
)

// Sender отправляет сообщения в чат; *Bot реализует его
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Archive сохраняет завершенные собеседования; *storage.Repository реализует его
type Archive interface {
	SaveScreening(ctx context.Context, sessionID string, export *storage.Export) error
}

type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) IsAllowed(userID int64) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()

	if requests, exists := rl.requests[userID]; exists {
		var valid []time.Time
		for _, t := range requests {
			if now.Sub(t) < rl.window {
				valid = append(valid, t)
			}
		}
		rl.requests[userID] = valid
	}

	if len(rl.requests[userID]) >= rl.limit {
		return false
	}

	rl.requests[userID] = append(rl.requests[userID], now)
	return true
}

// размер части JSON при отправке выгрузки, с запасом до лимита Telegram
const maxChunkSize = 3500

type Handler struct {
	bot           Sender
	config        *config.Config
	driver        *conversation.Driver
	metrics       *metrics.Metrics
	archive       Archive
	sessions      map[int64]*UserSession
	sessionsMutex sync.RWMutex
	rateLimiter   *RateLimiter
	now           func() time.Time
	chunkDelay    time.Duration

	queuesMutex sync.Mutex
	queues      map[int64]*userQueue
	inflight    sync.WaitGroup
}

// userQueue обновления одного пользователя, ожидающие обработки
type userQueue struct {
	pending []Update
}

// NewHandler создает обработчик; archive может быть nil
func NewHandler(bot Sender, cfg *config.Config, driver *conversation.Driver, m *metrics.Metrics, archive Archive) *Handler {
	return &Handler{
		bot:         bot,
		config:      cfg,
		driver:      driver,
		metrics:     m,
		archive:     archive,
		sessions:    make(map[int64]*UserSession),
		queues:      make(map[int64]*userQueue),
		rateLimiter: NewRateLimiter(cfg.Telegram.RateLimit, cfg.Telegram.RateWindow),
		now:         time.Now,
		chunkDelay:  500 * time.Millisecond,
	}
}

// StartSessionCleanup периодически удаляет неактивные сессии до отмены ctx
func (h *Handler) StartSessionCleanup(ctx context.Context) {
	ticker := time.NewTicker(h.config.Telegram.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := h.cleanupInactiveSessions(); n > 0 {
					log.Printf("Удалено неактивных сессий: %d", n)
				}
			}
		}
	}()
}

func (h *Handler) cleanupInactiveSessions() int {
	h.sessionsMutex.Lock()
	defer h.sessionsMutex.Unlock()

	cutoff := h.now().Add(-h.config.Telegram.SessionTTL)
	removed := 0
	for uid, sess := range h.sessions {
		sess.mu.Lock()
		idle := sess.LastActivity.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(h.sessions, uid)
			removed++
		}
	}
	return removed
}

// SessionCount возвращает число активных пользовательских сессий
func (h *Handler) SessionCount() int {
	h.sessionsMutex.RLock()
	defer h.sessionsMutex.RUnlock()
	return len(h.sessions)
}

// Dispatch ставит обновление в очередь его отправителя и сразу возвращается.
// Обновления одного пользователя обрабатываются строго по порядку,
// разные пользователи обрабатываются параллельно.
func (h *Handler) Dispatch(update Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID

	h.inflight.Add(1)
	h.queuesMutex.Lock()
	q, running := h.queues[userID]
	if !running {
		q = &userQueue{}
		h.queues[userID] = q
	}
	q.pending = append(q.pending, update)
	h.queuesMutex.Unlock()

	if !running {
		go h.drain(userID, q)
	}
}

func (h *Handler) drain(userID int64, q *userQueue) {
	for {
		h.queuesMutex.Lock()
		if len(q.pending) == 0 {
			delete(h.queues, userID)
			h.queuesMutex.Unlock()
			return
		}
		update := q.pending[0]
		q.pending = q.pending[1:]
		h.queuesMutex.Unlock()

		h.HandleUpdate(update)
		h.inflight.Done()
	}
}

// Wait ждет обработки всех обновлений, принятых через Dispatch
func (h *Handler) Wait() {
	h.inflight.Wait()
}

func (h *Handler) HandleUpdate(update Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if !h.rateLimiter.IsAllowed(userID) {
		h.send(chatID, "⏳ Too many messages. Please wait a minute and try again.")
		return
	}

	session := h.getOrCreateSession(userID)
	session.mu.Lock()
	defer session.mu.Unlock()
	session.LastActivity = h.now()

	// стикеры, фото и прочие сообщения без текста
	if text == "" {
		h.send(chatID, "I can only read text messages. Please type your answer.")
		return
	}

	if strings.HasPrefix(text, "/") {
		h.handleCommand(chatID, text, session)
		return
	}
	h.handleUserInput(chatID, text, session)
}

// handleCommand обрабатывает команды бота
func (h *Handler) handleCommand(chatID int64, text string, session *UserSession) {
	switch commandName(text) {
	case "/start":
		h.handleStartCommand(chatID, session)
	case "/help":
		h.handleHelpCommand(chatID)
	case "/status":
		h.handleStatusCommand(chatID, session)
	case "/restart":
		h.handleRestartCommand(chatID, session)
	case "/stop":
		h.handleStopCommand(chatID, session)
	case "/export":
		h.handleExportCommand(chatID, session)
	default:
		h.send(chatID, "Unknown command. Use /help to see the list of commands.")
	}
}

// commandName отбрасывает аргументы и суффикс @botname
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	return cmd
}

func (h *Handler) handleStartCommand(chatID int64, session *UserSession) {
	if session.InProgress() {
		h.send(chatID, "You already have a screening in progress. Use /status to check your progress or /restart to start over.")
		return
	}

	session.Conversation.Reset(h.now())
	session.ExportPath = ""
	h.metrics.IncrementSessionsStarted()
	log.Printf("Новая сессия %s для пользователя %d", session.Conversation.ID, session.UserID)

	h.send(chatID, h.driver.ProcessInput(session.Conversation, ""))
}

func (h *Handler) handleHelpCommand(chatID int64) {
	helpText := `🤖 *%s Hiring Assistant*

*Commands:*
/start - Start a new screening
/status - Show your progress
/restart - Discard the current screening
/stop - End the conversation
/export - Get your screening data as JSON (after completion)
/help - Show this message

*How it works:*
1. Use /start and answer a few questions about yourself
2. List your tech stack
3. Answer up to %d technical questions
4. Type 'exit' or 'bye' at any time to end the conversation`

	h.send(chatID, fmt.Sprintf(helpText, h.config.GetCompanyName(), questions.MaxQuestions))
}

func (h *Handler) handleStatusCommand(chatID int64, session *UserSession) {
	if !session.Started() {
		h.send(chatID, "No screening in progress. Use /start to begin.")
		return
	}
	h.send(chatID, statusText(session.Conversation))
}

func statusText(s *conversation.Session) string {
	var b strings.Builder
	stage := s.State.Stage

	b.WriteString("📊 *Screening Progress*\n\n")
	fmt.Fprintf(&b, "Stage: %s\n", stage.DisplayName())
	fmt.Fprintf(&b, "Progress: %.0f%%\n", stage.Progress()*100)
	if s.State.Ended {
		b.WriteString("State: ended\n")
	}

	c := s.Candidate
	fields := []struct {
		label string
		value string
	}{
		{"Name", c.FullName},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Experience", c.ExperienceYears},
		{"Position", c.DesiredPositions},
		{"Location", c.CurrentLocation},
		{"Tech Stack", c.TechStack},
	}

	collected := false
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if !collected {
			b.WriteString("\n*Collected:*\n")
			collected = true
		}
		fmt.Fprintf(&b, "• %s: %s\n", f.label, EscapeMarkdown(f.value))
	}

	if len(s.State.Questions) > 0 {
		fmt.Fprintf(&b, "\nQuestions answered: %d/%d\n", len(s.History), len(s.State.Questions))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (h *Handler) handleRestartCommand(chatID int64, session *UserSession) {
	session.Conversation.Reset(h.now())
	session.ExportPath = ""
	h.send(chatID, "🔄 Screening reset. Use /start to begin a new one.")
}

func (h *Handler) handleStopCommand(chatID int64, session *UserSession) {
	if !session.InProgress() {
		h.send(chatID, "No screening is running.")
		return
	}
	h.send(chatID, h.driver.End(session.Conversation))
}

func (h *Handler) handleExportCommand(chatID int64, session *UserSession) {
	conv := session.Conversation
	if !conv.Completed() {
		h.send(chatID, "❌ Export is available once all technical questions are answered.")
		return
	}

	export := conv.Export(h.now())
	if path, err := storage.SaveExport(h.config.GetExportDir(), export, h.now()); err != nil {
		log.Printf("Ошибка сохранения выгрузки %s: %v", conv.ID, err)
	} else {
		session.ExportPath = path
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		h.send(chatID, "❌ Could not prepare the export.")
		return
	}
	h.sendJSON(chatID, string(data))
}

// handleUserInput передает ответ кандидата драйверу
func (h *Handler) handleUserInput(chatID int64, text string, session *UserSession) {
	conv := session.Conversation
	switch {
	case !session.Started():
		h.send(chatID, "Use /start to begin your screening or /help for more information.")
		return
	case conv.State.Ended:
		h.send(chatID, "This conversation has ended. Use /start to begin a new screening.")
		return
	case conv.Completed():
		h.send(chatID, "Your screening is complete. Use /export to get your data or /start to begin a new screening.")
		return
	}

	if err := h.validateUserInput(text); err != nil {
		h.send(chatID, "❌ "+err.Error())
		return
	}

	h.send(chatID, h.driver.ProcessInput(conv, text))

	if conv.Completed() {
		h.completeScreening(chatID, session)
	}
}

func (h *Handler) validateUserInput(text string) error {
	limit := h.config.Telegram.MaxMessageLength
	if utf8.RuneCountInString(text) > limit {
		return fmt.Errorf("message is too long (maximum %d characters)", limit)
	}
	return nil
}

// completeScreening сохраняет результат в каталог выгрузок и в архив
func (h *Handler) completeScreening(chatID int64, session *UserSession) {
	conv := session.Conversation
	now := h.now()
	export := conv.Export(now)

	path, err := storage.SaveExport(h.config.GetExportDir(), export, now)
	if err != nil {
		log.Printf("Ошибка сохранения выгрузки %s: %v", conv.ID, err)
	} else {
		session.ExportPath = path
		log.Printf("Собеседование %s сохранено в %s", conv.ID, path)
	}

	if h.archive != nil {
		if err := h.archive.SaveScreening(context.Background(), conv.ID, export); err != nil {
			log.Printf("Ошибка записи собеседования %s в базу: %v", conv.ID, err)
		}
	}

	h.send(chatID, "💾 Your answers have been recorded. Use /export to receive a copy or /start to begin a new screening.")
}

// sendJSON отправляет JSON в code block, разбивая на части при необходимости
func (h *Handler) sendJSON(chatID int64, data string) {
	chunks := splitRunes(data, maxChunkSize)
	if len(chunks) == 1 {
		h.sendRaw(chatID, fmt.Sprintf("📄 *Screening export:*\n\n```json\n%s\n```", data))
		return
	}

	h.send(chatID, "📄 *Screening export (sent in parts):*")
	for i, chunk := range chunks {
		if i > 0 && h.chunkDelay > 0 {
			time.Sleep(h.chunkDelay)
		}
		h.sendRaw(chatID, fmt.Sprintf("📄 *Part %d/%d:*\n\n```json\n%s\n```", i+1, len(chunks), chunk))
	}
}

func splitRunes(s string, size int) []string {
	runes := []rune(s)
	if len(runes) <= size {
		return []string{s}
	}
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// send переводит разметку ассистента в Markdown Telegram и логирует ошибки отправки
func (h *Handler) send(chatID int64, text string) {
	h.sendRaw(chatID, telegramMarkdown(text))
}

func (h *Handler) sendRaw(chatID int64, text string) {
	if err := h.bot.SendMessage(chatID, text); err != nil {
		log.Printf("Ошибка отправки сообщения в чат %d: %v", chatID, err)
	}
}

// telegramMarkdown: legacy Markdown Telegram выделяет жирным одной звездочкой
func telegramMarkdown(text string) string {
	return strings.ReplaceAll(text, "**", "*")
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// EscapeMarkdown экранирует символы разметки legacy Markdown во введенном пользователем тексте
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func (h *Handler) getOrCreateSession(userID int64) *UserSession {
	h.sessionsMutex.Lock()
	defer h.sessionsMutex.Unlock()

	if session, exists := h.sessions[userID]; exists {
		return session
	}

	session := &UserSession{
		UserID:       userID,
		Conversation: conversation.NewSession(h.now()),
		LastActivity: h.now(),
	}
	h.sessions[userID] = session
	return session
}
