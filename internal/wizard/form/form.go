// internal/wizard/form/form.go
package form

// Step is the explicit wizard state. The zero value is the intro step; the
// terminal Success pseudo-step sits one past the last data step.
type Step int

const (
	StepIntro Step = iota
	StepMission
	StepOutcomes
	StepCompetencies
	StepPersonalInfo
	StepSuccess

	// TotalSteps counts the data-bearing steps; Step == TotalSteps means the
	// wizard reached the success screen.
	TotalSteps = int(StepSuccess)
)

func (s Step) String() string {
	switch s {
	case StepIntro:
		return "intro"
	case StepMission:
		return "mission"
	case StepOutcomes:
		return "outcomes"
	case StepCompetencies:
		return "competencies"
	case StepPersonalInfo:
		return "personal_info"
	case StepSuccess:
		return "success"
	}
	return "unknown"
}

// Clamp bounds a step to [StepIntro, StepSuccess].
func (s Step) Clamp() Step {
	if s < StepIntro {
		return StepIntro
	}
	if s > StepSuccess {
		return StepSuccess
	}
	return s
}

// OutcomeKey identifies one of the 8 fixed expected-results statements.
type OutcomeKey string

const (
	OutcomePlaybook              OutcomeKey = "playbook"
	OutcomeTeamRestructure       OutcomeKey = "teamRestructure"
	OutcomeOperationalDiscipline OutcomeKey = "operationalDiscipline"
	OutcomeHighPerformance       OutcomeKey = "highPerformance"
	OutcomeBarRaiser             OutcomeKey = "barRaiser"
	OutcomeAccountability        OutcomeKey = "accountability"
	OutcomeConversion            OutcomeKey = "conversion"
	OutcomeAI                    OutcomeKey = "ai"
)

// OutcomeKeys is the declared iteration order for the step-2 gate.
var OutcomeKeys = []OutcomeKey{
	OutcomePlaybook,
	OutcomeTeamRestructure,
	OutcomeOperationalDiscipline,
	OutcomeHighPerformance,
	OutcomeBarRaiser,
	OutcomeAccountability,
	OutcomeConversion,
	OutcomeAI,
}

// OutcomeLabels are the human-readable names used in gate messages.
var OutcomeLabels = map[OutcomeKey]string{
	OutcomePlaybook:              "Outcome 2.1 — Playbook",
	OutcomeTeamRestructure:       "Outcome 2.2 — Diagnóstico e Reestruturação do Time",
	OutcomeOperationalDiscipline: "Outcome 2.3 — Disciplina Operacional",
	OutcomeHighPerformance:       "Outcome 2.4 — Time em Alta Performance",
	OutcomeBarRaiser:             "Outcome 2.4.1 — Bar Raiser",
	OutcomeAccountability:        "Outcome 2.4.2 — Accountability",
	OutcomeConversion:            "Outcome 2.6 — Conversão",
	OutcomeAI:                    "Outcome 2.7 — IA e Eficiência",
}

// OutcomeControlIDs map outcome keys to the form control ids the UI shell
// scrolls into view when a gate blocks.
var OutcomeControlIDs = map[OutcomeKey]string{
	OutcomePlaybook:              "outcome21",
	OutcomeTeamRestructure:       "outcome22",
	OutcomeOperationalDiscipline: "outcome23",
	OutcomeHighPerformance:       "outcome24",
	OutcomeBarRaiser:             "outcome241",
	OutcomeAccountability:        "outcome242",
	OutcomeConversion:            "outcome26",
	OutcomeAI:                    "outcome27",
}

// CompetencyDefinition describes one of the 9 fixed behavioral-trait
// self-assessments, indexed positionally in the aggregate.
type CompetencyDefinition struct {
	Name  string
	Title string
}

var CompetencyDefinitions = []CompetencyDefinition{
	{Name: "comp31", Title: "3.1 Ownership Radical"},
	{Name: "comp32", Title: "3.2 Liderança por Execução"},
	{Name: "comp33", Title: "3.3 Persuasão Comercial Responsável"},
	{Name: "comp34", Title: "3.4 Rigor Analítico"},
	{Name: "comp35", Title: "3.5 Disciplina Operacional"},
	{Name: "comp36", Title: "3.6 Resiliência e Consistência"},
	{Name: "comp37", Title: "3.7 Desenvolvimento de Pessoas"},
	{Name: "comp38", Title: "3.8 Uso Inteligente de Tecnologia"},
	{Name: "comp39", Title: "3.9 Integridade Inquestionável"},
}

// BrazilianStates is the list accepted by the step-4 state select.
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS",
	"MG", "PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC",
	"SP", "SE", "TO",
}

// Minimum lengths enforced by the step gates.
const (
	MinMissionReflectionLen = 300
	MinOutcomeCommentLen    = 150
	MinCompetencyExampleLen = 200
)

// Attachment is an in-memory binary file handed over at the UI boundary.
// Attachments never reach the draft store.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

type Step0Data struct {
	Accepted bool `json:"accepted"`
}

type Step1Data struct {
	Accepted          bool   `json:"accepted"`
	MissionReflection string `json:"missionReflection"`
}

type Outcome struct {
	Accepted bool   `json:"accepted"`
	Comment  string `json:"comment"`
}

type Step2Data struct {
	Outcomes map[OutcomeKey]Outcome `json:"outcomes"`
}

type Competency struct {
	Name    string `json:"name"`
	Rating  string `json:"rating"` // "1".."5", empty until rated
	Example string `json:"example"`
}

type Step3Data struct {
	Competencies []Competency `json:"competencies"`
}

type PersonalInfo struct {
	FullName  string `json:"fullName"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birthDate"`
	City      string `json:"city"`
	State     string `json:"state"`
}

type Contact struct {
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}

type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Step4Data struct {
	PersonalInfo      PersonalInfo `json:"personalInfo"`
	Contact           Contact      `json:"contact"`
	SocialMedia       []SocialLink `json:"socialMedia"`
	SalaryExpectation string       `json:"salaryExpectation"`
	FinalNotes        string       `json:"finalNotes"`
	Files             []Attachment `json:"files"`
	Photo             *Attachment  `json:"photo,omitempty"`
}

// Application is the single root aggregate for one candidate session.
type Application struct {
	Step0       Step0Data `json:"step0"`
	Step1       Step1Data `json:"step1"`
	Step2       Step2Data `json:"step2"`
	Step3       Step3Data `json:"step3"`
	Step4       Step4Data `json:"step4"`
	CurrentStep Step      `json:"currentStep"`
}

// NewApplication returns the empty aggregate: all outcomes present but
// unaccepted, one competency slot per definition, everything else zero.
func NewApplication() *Application {
	outcomes := make(map[OutcomeKey]Outcome, len(OutcomeKeys))
	for _, key := range OutcomeKeys {
		outcomes[key] = Outcome{}
	}

	competencies := make([]Competency, len(CompetencyDefinitions))
	for i, def := range CompetencyDefinitions {
		competencies[i] = Competency{Name: def.Name}
	}

	return &Application{
		Step2: Step2Data{Outcomes: outcomes},
		Step3: Step3Data{Competencies: competencies},
		Step4: Step4Data{SocialMedia: []SocialLink{}, Files: []Attachment{}},
	}
}

// Clone returns an isolated copy of the aggregate: container fields are
// duplicated so later mutations of the original never reach the copy.
// Attachment bytes are shared; they are immutable after admission.
func (a *Application) Clone() *Application {
	clone := *a

	outcomes := make(map[OutcomeKey]Outcome, len(a.Step2.Outcomes))
	for key, outcome := range a.Step2.Outcomes {
		outcomes[key] = outcome
	}
	clone.Step2.Outcomes = outcomes

	clone.Step3.Competencies = append([]Competency(nil), a.Step3.Competencies...)
	clone.Step4.SocialMedia = append([]SocialLink(nil), a.Step4.SocialMedia...)
	clone.Step4.Files = append([]Attachment(nil), a.Step4.Files...)
	if a.Step4.Photo != nil {
		photo := *a.Step4.Photo
		clone.Step4.Photo = &photo
	}
	return &clone
}

// StripAttachments removes binary payloads from the aggregate copy that is
// about to leave the core. Names, types and sizes survive as placeholders,
// bytes never do.
func (a *Application) StripAttachments() *Application {
	clone := *a
	if a.Step4.Photo != nil {
		clone.Step4.Photo = &Attachment{
			Name:        a.Step4.Photo.Name,
			ContentType: a.Step4.Photo.ContentType,
			Size:        a.Step4.Photo.Size,
		}
	}
	if len(a.Step4.Files) > 0 {
		files := make([]Attachment, len(a.Step4.Files))
		for i, f := range a.Step4.Files {
			files[i] = Attachment{Name: f.Name, ContentType: f.ContentType, Size: f.Size}
		}
		clone.Step4.Files = files
	}
	return &clone
}
