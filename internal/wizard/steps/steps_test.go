// internal/wizard/steps/steps_test.go
package steps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiting-wizard/internal/wizard/form"
	"recruiting-wizard/internal/wizard/modal"
)

// completeApplication fills every field so that all five gates pass.
func completeApplication() *form.Application {
	app := form.NewApplication()
	app.Step0.Accepted = true
	app.Step1.Accepted = true
	app.Step1.MissionReflection = strings.Repeat("a", form.MinMissionReflectionLen)

	for _, key := range form.OutcomeKeys {
		app.Step2.Outcomes[key] = form.Outcome{
			Accepted: true,
			Comment:  strings.Repeat("b", form.MinOutcomeCommentLen),
		}
	}

	for i := range app.Step3.Competencies {
		app.Step3.Competencies[i].Rating = "4"
		app.Step3.Competencies[i].Example = strings.Repeat("c", form.MinCompetencyExampleLen)
	}

	app.Step4.PersonalInfo = form.PersonalInfo{
		FullName:  "João Silva",
		CPF:       "123.456.789-09",
		BirthDate: "31/12/1990",
		City:      "São Paulo",
		State:     "SP",
	}
	app.Step4.Contact = form.Contact{
		Email:    "joao@example.com",
		WhatsApp: "(11) 98765-4321",
	}
	app.Step4.SalaryExpectation = "R$ 15.000,00"
	return app
}

func TestCompleteApplicationPassesEveryGate(t *testing.T) {
	app := completeApplication()
	for step := form.StepIntro; step <= form.StepPersonalInfo; step++ {
		assert.Nil(t, Check(step, app), "step %s", step)
	}
}

func TestCheckIntro(t *testing.T) {
	app := completeApplication()
	app.Step0.Accepted = false

	msg := Check(form.StepIntro, app)
	require.NotNil(t, msg)
	assert.Equal(t, "Campo obrigatório não preenchido", msg.Title)
	assert.Equal(t, modal.SeverityWarning, msg.Severity)
	assert.Equal(t, "check0", msg.ScrollTarget)
}

func TestCheckMissionAcceptanceBeforeLength(t *testing.T) {
	app := completeApplication()
	app.Step1.Accepted = false
	app.Step1.MissionReflection = ""

	msg := Check(form.StepMission, app)
	require.NotNil(t, msg)
	assert.Equal(t, "check1", msg.ScrollTarget)
}

func TestCheckMissionLength(t *testing.T) {
	app := completeApplication()
	app.Step1.MissionReflection = strings.Repeat("a", 299)

	msg := Check(form.StepMission, app)
	require.NotNil(t, msg)
	assert.Equal(t, "Campo obrigatório incompleto", msg.Title)
	assert.Contains(t, msg.Message, "299 caracteres")
	assert.Contains(t, msg.Message, "pelo menos 300 caracteres")
	assert.Equal(t, "mission-text", msg.ScrollTarget)
}

func TestLengthGatesCountCharactersNotBytes(t *testing.T) {
	app := completeApplication()

	// "ã" is two bytes; 300 of them clear the gate even at 600 bytes.
	app.Step1.MissionReflection = strings.Repeat("ã", form.MinMissionReflectionLen)
	assert.Nil(t, Check(form.StepMission, app))

	app.Step1.MissionReflection = strings.Repeat("ã", 299)
	msg := Check(form.StepMission, app)
	require.NotNil(t, msg)
	assert.Contains(t, msg.Message, "299 caracteres")

	app = completeApplication()
	app.Step2.Outcomes[form.OutcomePlaybook] = form.Outcome{
		Accepted: true,
		Comment:  strings.Repeat("ç", 149),
	}
	msg = Check(form.StepOutcomes, app)
	require.NotNil(t, msg)
	assert.Contains(t, msg.Message, "149 caracteres")

	app = completeApplication()
	app.Step3.Competencies[0].Example = strings.Repeat("é", form.MinCompetencyExampleLen)
	assert.Nil(t, Check(form.StepCompetencies, app))
}

func TestCheckOutcomesAcceptanceBeatsEarlierShortComment(t *testing.T) {
	app := completeApplication()
	// First outcome has a short comment, a later one is unaccepted. The
	// acceptance pass runs in full before any comment length is looked at.
	app.Step2.Outcomes[form.OutcomePlaybook] = form.Outcome{Accepted: true, Comment: "curto"}
	app.Step2.Outcomes[form.OutcomeConversion] = form.Outcome{
		Accepted: false,
		Comment:  strings.Repeat("b", form.MinOutcomeCommentLen),
	}

	msg := Check(form.StepOutcomes, app)
	require.NotNil(t, msg)
	assert.Equal(t, "Campo obrigatório não preenchido", msg.Title)
	assert.Contains(t, msg.Message, "Outcome 2.6")
	assert.Equal(t, "outcome26", msg.ScrollTarget)
}

func TestCheckOutcomesFirstShortCommentWins(t *testing.T) {
	app := completeApplication()
	app.Step2.Outcomes[form.OutcomeTeamRestructure] = form.Outcome{
		Accepted: true,
		Comment:  strings.Repeat("b", 149),
	}

	msg := Check(form.StepOutcomes, app)
	require.NotNil(t, msg)
	assert.Contains(t, msg.Message, "149 caracteres")
	assert.Contains(t, msg.Message, "pelo menos 150 caracteres")
	assert.Equal(t, "outcome22-comment", msg.ScrollTarget)
}

func TestCheckCompetenciesRatingBeforeExample(t *testing.T) {
	app := completeApplication()
	app.Step3.Competencies[0].Example = ""
	app.Step3.Competencies[4].Rating = ""

	msg := Check(form.StepCompetencies, app)
	require.NotNil(t, msg)
	assert.Contains(t, msg.Message, "3.5 Disciplina Operacional")
	assert.Equal(t, "rating-3.5 Disciplina Operacional", msg.ScrollTarget)
}

func TestCheckCompetenciesExampleLength(t *testing.T) {
	app := completeApplication()
	app.Step3.Competencies[2].Example = strings.Repeat("c", 199)

	msg := Check(form.StepCompetencies, app)
	require.NotNil(t, msg)
	assert.Contains(t, msg.Message, "199 caracteres")
	assert.Contains(t, msg.Message, "pelo menos 200 caracteres")
	assert.Equal(t, "example-3.3 Persuasão Comercial Responsável", msg.ScrollTarget)
}

func TestCheckPersonalInfoFirstFailureWins(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*form.Application)
		target string
	}{
		{"full name", func(a *form.Application) { a.Step4.PersonalInfo.FullName = "João" }, "fullName"},
		{"cpf", func(a *form.Application) { a.Step4.PersonalInfo.CPF = "123" }, "cpf"},
		{"birth date", func(a *form.Application) { a.Step4.PersonalInfo.BirthDate = "31/13/1990" }, "birthDate"},
		{"city", func(a *form.Application) { a.Step4.PersonalInfo.City = "   " }, "city"},
		{"state", func(a *form.Application) { a.Step4.PersonalInfo.State = "" }, "state"},
		{"email", func(a *form.Application) { a.Step4.Contact.Email = "invalido" }, "email"},
		{"whatsapp", func(a *form.Application) { a.Step4.Contact.WhatsApp = "123" }, "whatsapp"},
		{"salary", func(a *form.Application) { a.Step4.SalaryExpectation = "" }, "salaryExpectation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := completeApplication()
			tt.mutate(app)

			msg := Check(form.StepPersonalInfo, app)
			require.NotNil(t, msg)
			assert.Equal(t, "Atenção", msg.Title)
			assert.Equal(t, tt.target, msg.ScrollTarget)
		})
	}
}

func TestCheckPersonalInfoChainOrder(t *testing.T) {
	app := completeApplication()
	app.Step4.PersonalInfo.CPF = ""
	app.Step4.Contact.Email = "invalido"

	// CPF comes before email in the chain.
	msg := Check(form.StepPersonalInfo, app)
	require.NotNil(t, msg)
	assert.Equal(t, "cpf", msg.ScrollTarget)
}

func TestCheckSuccessStepHasNoGate(t *testing.T) {
	assert.Nil(t, Check(form.StepSuccess, form.NewApplication()))
}
