// Package conversation реализует пошаговый сбор данных кандидата
// и последующие технические вопросы.
package conversation

import (
	"strings"
	"time"

	"hiring-assistant/internal/questions"
	"hiring-assistant/internal/storage"
)

// DefaultCompanyName подставляется в приветствие и итоговое сообщение
const DefaultCompanyName = "TalentScout"

// Observer получает уведомления о ходе диалога (метрики, логи)
type Observer interface {
	StageAdvanced(from, to Stage)
	InputRejected(stage Stage)
	QuestionAnswered()
	ConversationEnded(stage Stage)
	ScreeningCompleted(answered int)
}

type nopObserver struct{}

func (nopObserver) StageAdvanced(Stage, Stage) {}
func (nopObserver) InputRejected(Stage) {}
func (nopObserver) QuestionAnswered() {}
func (nopObserver) ConversationEnded(Stage) {}
func (nopObserver) ScreeningCompleted(int) {}

// Driver конечный автомат диалога. Сам по себе состояния не хранит,
// поэтому один Driver обслуживает любое количество сессий.
type Driver struct {
	companyName string
	now         func() time.Time
	selectFn    func(string) []string
	observer    Observer
	escape      func(string) string
}

// Option настраивает Driver
type Option func(*Driver)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// WithObserver подключает наблюдателя
func WithObserver(o Observer) Option {
	return func(d *Driver) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithSelector подменяет подбор вопросов
func WithSelector(fn func(string) []string) Option {
	return func(d *Driver) { d.selectFn = fn }
}

// WithEscaper задает экранирование пользовательских значений, которые
// повторяются в ответах (например, для разметки чата)
func WithEscaper(fn func(string) string) Option {
	return func(d *Driver) {
		if fn != nil {
			d.escape = fn
		}
	}
}

// WithCompanyName задает название компании в сообщениях
func WithCompanyName(name string) Option {
	return func(d *Driver) {
		if name != "" {
			d.companyName = name
		}
	}
}

// NewDriver создает драйвер диалога
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		companyName: DefaultCompanyName,
		now:         time.Now,
		selectFn:    questions.Select,
		observer:    nopObserver{},
		escape:      func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Greeting возвращает приветствие
func (d *Driver) Greeting() string { return d.greeting() }

// Goodbye возвращает прощальное сообщение
func (d *Driver) Goodbye() string { return d.goodbye() }

// CompletionSummary возвращает итоговое сообщение по сессии
func (d *Driver) CompletionSummary(s *Session) string { return d.completionSummary(s) }

// End завершает диалог так же, как ключевое слово выхода
func (d *Driver) End(s *Session) string {
	if !s.State.Ended {
		s.State.Ended = true
		d.observer.ConversationEnded(s.State.Stage)
	}
	return d.goodbye()
}

// ProcessInput обрабатывает одну реплику пользователя и возвращает ответ.
// Ошибок не бывает: любой ввод получает текстовый ответ.
func (d *Driver) ProcessInput(s *Session, raw string) string {
	if IsExitIntent(raw) {
		return d.End(s)
	}

	if s.State.Ended {
		return d.goodbye()
	}

	input := strings.TrimSpace(raw)
	c := &s.Candidate

	switch s.State.Stage {
	case StageStart:
		if input == "" {
			d.advance(s)
			return d.greeting()
		}

	case StageCollectName:
		if !ValidName(input) {
			return d.reject(s)
		}
		c.FullName = input
		d.advance(s)
		return nameAcceptedMessage(d.escape(c.FullName))

	case StageCollectEmail:
		if !ValidEmail(input) {
			return d.reject(s)
		}
		c.Email = input
		d.advance(s)
		return emailAcceptedMessage

	case StageCollectPhone:
		if !ValidPhone(input) {
			return d.reject(s)
		}
		c.Phone = input
		d.advance(s)
		return phoneAcceptedMessage

	case StageCollectExperience:
		if input == "" {
			return d.reject(s)
		}
		c.ExperienceYears = input
		d.advance(s)
		return experienceAcceptedMessage

	case StageCollectPosition:
		if input == "" {
			return d.reject(s)
		}
		c.DesiredPositions = input
		d.advance(s)
		return positionAcceptedMessage

	case StageCollectLocation:
		if input == "" {
			return d.reject(s)
		}
		c.CurrentLocation = input
		d.advance(s)
		return locationAcceptedMessage

	case StageCollectTechStack:
		if input == "" {
			return d.reject(s)
		}
		qs := d.selectFn(input)
		if len(qs) == 0 {
			return d.reject(s)
		}
		c.TechStack = input
		s.State.Questions = qs
		s.State.QuestionIndex = 0
		d.advance(s)
		return questionsIntroMessage(d.escape(c.TechStack), len(qs), d.escape(qs[0]))

	case StageAskQuestions:
		return d.answerQuestion(s, raw)
	}

	return notUnderstoodMessage
}

func (d *Driver) answerQuestion(s *Session, answer string) string {
	question, ok := s.CurrentQuestion()
	if !ok {
		return notUnderstoodMessage
	}

	s.History = append(s.History, storage.QA{
		Question:  question,
		Answer:    answer,
		Timestamp: d.now().Format(storage.TimestampLayout),
	})
	s.State.QuestionIndex++
	d.observer.QuestionAnswered()

	if s.State.QuestionIndex < len(s.State.Questions) {
		i := s.State.QuestionIndex
		return nextQuestionMessage(i, len(s.State.Questions), d.escape(s.State.Questions[i]))
	}

	d.advance(s)
	d.observer.ScreeningCompleted(len(s.State.Questions))
	return d.completionSummary(s)
}

func (d *Driver) advance(s *Session) {
	from := s.State.Stage
	to, ok := from.Next()
	if !ok {
		return
	}
	s.State.Stage = to
	d.observer.StageAdvanced(from, to)
}

func (d *Driver) reject(s *Session) string {
	d.observer.InputRejected(s.State.Stage)
	return repromptMessages[s.State.Stage]
}
