package conversation

// Stage представляет этап сбора данных
type Stage int

const (
	StageStart Stage = iota
	StageCollectName
	StageCollectEmail
	StageCollectPhone
	StageCollectExperience
	StageCollectPosition
	StageCollectLocation
	StageCollectTechStack
	StageAskQuestions
	StageCompleted
)

// transitions задает единственный допустимый переход вперед для каждого этапа
var transitions = map[Stage]Stage{
	StageStart:             StageCollectName,
	StageCollectName:       StageCollectEmail,
	StageCollectEmail:      StageCollectPhone,
	StageCollectPhone:      StageCollectExperience,
	StageCollectExperience: StageCollectPosition,
	StageCollectPosition:   StageCollectLocation,
	StageCollectLocation:   StageCollectTechStack,
	StageCollectTechStack:  StageAskQuestions,
	StageAskQuestions:      StageCompleted,
}

var stageNames = map[Stage]string{
	StageStart:             "start",
	StageCollectName:       "collect_name",
	StageCollectEmail:      "collect_email",
	StageCollectPhone:      "collect_phone",
	StageCollectExperience: "collect_experience",
	StageCollectPosition:   "collect_position",
	StageCollectLocation:   "collect_location",
	StageCollectTechStack:  "collect_tech_stack",
	StageAskQuestions:      "ask_questions",
	StageCompleted:         "completed",
}

var displayNames = map[Stage]string{
	StageStart:             "Start",
	StageCollectName:       "Name",
	StageCollectEmail:      "Email",
	StageCollectPhone:      "Phone",
	StageCollectExperience: "Experience",
	StageCollectPosition:   "Position",
	StageCollectLocation:   "Location",
	StageCollectTechStack:  "Tech Stack",
	StageAskQuestions:      "Questions",
	StageCompleted:         "Complete",
}

// Next возвращает следующий этап; у StageCompleted следующего нет
func (s Stage) Next() (Stage, bool) {
	next, ok := transitions[s]
	return next, ok
}

// String используется в логах и метках метрик
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// DisplayName возвращает название этапа для индикатора прогресса
func (s Stage) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Progress доля пройденного пути от 0 до 1
func (s Stage) Progress() float64 {
	if s < StageStart {
		return 0
	}
	if s > StageCompleted {
		return 1
	}
	return float64(s) / float64(StageCompleted)
}

// Terminal сообщает, что этап не принимает ввод
func (s Stage) Terminal() bool {
	return s == StageCompleted
}
