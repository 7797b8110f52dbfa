package storage

// TimestampLayout формат всех временных меток в экспорте
const TimestampLayout = "2006-01-02 15:04:05"

// CandidateInfo представляет собранные данные кандидата
type CandidateInfo struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ExperienceYears  string `json:"experience_years"`
	DesiredPositions string `json:"desired_positions"`
	CurrentLocation  string `json:"current_location"`
	TechStack        string `json:"tech_stack"`
	SessionStart     string `json:"session_start"`
}

// QA представляет один технический вопрос и ответ кандидата
type QA struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// Export представляет снимок сессии для выгрузки
type Export struct {
	CandidateInfo    CandidateInfo `json:"candidate_info"`
	TechnicalQA      []QA          `json:"technical_qa"`
	SessionCompleted bool          `json:"session_completed"`
	ExportTimestamp  string        `json:"export_timestamp"`
}

// ScreeningSummary краткая запись из архива собеседований
type ScreeningSummary struct {
	SessionID        string
	FullName         string
	Email            string
	SessionCompleted bool
	AnsweredCount    int
	ExportTimestamp  string
}
