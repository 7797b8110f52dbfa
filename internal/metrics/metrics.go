package metrics

import (
	"net/http"
	"sync"
	"time"

	"hiring-assistant/internal/conversation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics считает ход собеседований. Счетчики дублируются в Prometheus
// и в простых полях для /status.
type Metrics struct {
	mu                  sync.RWMutex
	SessionsStarted     int64
	ScreeningsCompleted int64
	ConversationsEnded  int64
	QuestionsAnswered   int64
	InputsRejected      int64
	LastUpdateTime      time.Time

	registry       *prometheus.Registry
	sessionsTotal  prometheus.Counter
	completedTotal prometheus.Counter
	answeredTotal  prometheus.Counter
	advancesTotal  *prometheus.CounterVec
	rejectedTotal  *prometheus.CounterVec
	endedTotal     *prometheus.CounterVec
	questionsAsked prometheus.Histogram
}

var _ conversation.Observer = (*Metrics)(nil)

// NewMetrics создает метрики на собственном реестре
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		LastUpdateTime: time.Now(),
		registry:       reg,
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "screening_sessions_started_total",
			Help: "Total number of screening sessions started",
		}),
		completedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "screening_sessions_completed_total",
			Help: "Total number of screenings where every technical question was answered",
		}),
		answeredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "screening_questions_answered_total",
			Help: "Total number of technical questions answered",
		}),
		advancesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screening_stage_advances_total",
			Help: "Stage transitions by destination stage",
		}, []string{"stage"}),
		rejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screening_inputs_rejected_total",
			Help: "Inputs that failed validation, by stage",
		}, []string{"stage"}),
		endedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screening_conversations_ended_total",
			Help: "Conversations ended with an exit keyword, by stage",
		}, []string{"stage"}),
		questionsAsked: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "screening_questions_per_session",
			Help:    "Number of technical questions selected per completed screening",
			Buckets: []float64{1, 2, 3, 4, 5},
		}),
	}
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен для тестов и дополнительных коллекторов
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdateTime = time.Now()
	m.sessionsTotal.Inc()
}

func (m *Metrics) StageAdvanced(_, to conversation.Stage) {
	m.advancesTotal.WithLabelValues(to.String()).Inc()
	m.touch()
}

func (m *Metrics) InputRejected(stage conversation.Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InputsRejected++
	m.LastUpdateTime = time.Now()
	m.rejectedTotal.WithLabelValues(stage.String()).Inc()
}

func (m *Metrics) QuestionAnswered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuestionsAnswered++
	m.LastUpdateTime = time.Now()
	m.answeredTotal.Inc()
}

func (m *Metrics) ConversationEnded(stage conversation.Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConversationsEnded++
	m.LastUpdateTime = time.Now()
	m.endedTotal.WithLabelValues(stage.String()).Inc()
}

func (m *Metrics) ScreeningCompleted(questions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScreeningsCompleted++
	m.LastUpdateTime = time.Now()
	m.completedTotal.Inc()
	m.questionsAsked.Observe(float64(questions))
}

func (m *Metrics) touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastUpdateTime = time.Now()
}

// Snapshot копия простых счетчиков
type Snapshot struct {
	SessionsStarted     int64
	ScreeningsCompleted int64
	ConversationsEnded  int64
	QuestionsAnswered   int64
	InputsRejected      int64
	LastUpdateTime      time.Time
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		SessionsStarted:     m.SessionsStarted,
		ScreeningsCompleted: m.ScreeningsCompleted,
		ConversationsEnded:  m.ConversationsEnded,
		QuestionsAnswered:   m.QuestionsAnswered,
		InputsRejected:      m.InputsRejected,
		LastUpdateTime:      m.LastUpdateTime,
	}
}
