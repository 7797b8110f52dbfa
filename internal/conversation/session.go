package conversation

import (
	"time"

	"hiring-assistant/internal/storage"

	"github.com/google/uuid"
)

// State состояние диалога; меняется только драйвером
type State struct {
	Stage         Stage
	Ended         bool
	Questions     []string
	QuestionIndex int
}

// Session хранит всё, что относится к одному кандидату.
// Одновременно сессию обрабатывает только один вызов ProcessInput.
type Session struct {
	ID        string
	Candidate storage.CandidateInfo
	State     State
	History   []storage.QA
	StartedAt time.Time
}

// NewSession создает пустую сессию на этапе Start
func NewSession(now time.Time) *Session {
	s := &Session{}
	s.Reset(now)
	return s
}

// Reset полностью сбрасывает сессию, выдавая новый ID
func (s *Session) Reset(now time.Time) {
	*s = Session{
		ID: uuid.New().String(),
		Candidate: storage.CandidateInfo{
			SessionStart: now.Format(storage.TimestampLayout),
		},
		State:     State{Stage: StageStart},
		History:   []storage.QA{},
		StartedAt: now,
	}
}

// Completed сообщает, что все вопросы отвечены
func (s *Session) Completed() bool {
	return s.State.Stage == StageCompleted
}

// Active сообщает, что сессия еще принимает ввод
func (s *Session) Active() bool {
	return !s.State.Ended && !s.State.Stage.Terminal()
}

// CurrentQuestion возвращает вопрос, ожидающий ответа
func (s *Session) CurrentQuestion() (string, bool) {
	if s.State.Stage != StageAskQuestions || s.State.QuestionIndex >= len(s.State.Questions) {
		return "", false
	}
	return s.State.Questions[s.State.QuestionIndex], true
}

// Export формирует снимок сессии для выгрузки
func (s *Session) Export(now time.Time) *storage.Export {
	return &storage.Export{
		CandidateInfo:    s.Candidate,
		TechnicalQA:      append([]storage.QA{}, s.History...),
		SessionCompleted: s.Completed(),
		ExportTimestamp:  now.Format(storage.TimestampLayout),
	}
}
