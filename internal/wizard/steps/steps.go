// internal/wizard/steps/steps.go
package steps

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"recruiting-wizard/internal/wizard/form"
	"recruiting-wizard/internal/wizard/modal"
	"recruiting-wizard/internal/wizard/validate"
)

// Gate titles. "não preenchido" is used for missing acceptances and ratings,
// "incompleto" for free text below its minimum length.
const (
	titleMissing    = "Campo obrigatório não preenchido"
	titleIncomplete = "Campo obrigatório incompleto"
)

// Check runs the validation gate for a step. A nil result means the transition
// is allowed; otherwise the message describes the first failing control.
func Check(step form.Step, app *form.Application) *modal.Message {
	switch step {
	case form.StepIntro:
		return CheckIntro(app)
	case form.StepMission:
		return CheckMission(app)
	case form.StepOutcomes:
		return CheckOutcomes(app)
	case form.StepCompetencies:
		return CheckCompetencies(app)
	case form.StepPersonalInfo:
		return CheckPersonalInfo(app)
	}
	return nil
}

func CheckIntro(app *form.Application) *modal.Message {
	if !app.Step0.Accepted {
		return &modal.Message{
			Title:        titleMissing,
			Message:      "Por favor, marque a caixa de confirmação no final da página para confirmar que você leu e entendeu o contexto geral da vaga.",
			Severity:     modal.SeverityWarning,
			ScrollTarget: "check0",
		}
	}
	return nil
}

func CheckMission(app *form.Application) *modal.Message {
	if !app.Step1.Accepted {
		return &modal.Message{
			Title:        titleMissing,
			Message:      `Por favor, marque a caixa "Li e compreendi a missão e o nível de responsabilidade da função" antes de continuar.`,
			Severity:     modal.SeverityWarning,
			ScrollTarget: "check1",
		}
	}
	// Lengths count characters, not bytes: accented text must not need extra
	// typing to clear a gate.
	if n := utf8.RuneCountInString(app.Step1.MissionReflection); n < form.MinMissionReflectionLen {
		return &modal.Message{
			Title: titleIncomplete,
			Message: fmt.Sprintf(
				`Campo "O que, especificamente, neste desafio faz sentido para você?": sua reflexão tem %d caracteres. São necessários pelo menos %d caracteres.`,
				n, form.MinMissionReflectionLen,
			),
			Severity:     modal.SeverityWarning,
			ScrollTarget: "mission-text",
		}
	}
	return nil
}

// CheckOutcomes runs two full passes in declaration order: every outcome must
// be accepted before any comment length is considered.
func CheckOutcomes(app *form.Application) *modal.Message {
	for _, key := range form.OutcomeKeys {
		if !app.Step2.Outcomes[key].Accepted {
			return &modal.Message{
				Title: titleMissing,
				Message: fmt.Sprintf(
					`Por favor, marque a caixa de confirmação no "%s" para confirmar que você compreendeu este resultado esperado.`,
					form.OutcomeLabels[key],
				),
				Severity:     modal.SeverityWarning,
				ScrollTarget: form.OutcomeControlIDs[key],
			}
		}
	}

	for _, key := range form.OutcomeKeys {
		if n := utf8.RuneCountInString(app.Step2.Outcomes[key].Comment); n < form.MinOutcomeCommentLen {
			return &modal.Message{
				Title: titleIncomplete,
				Message: fmt.Sprintf(
					`Campo de reflexão do "%s": sua resposta tem %d caracteres. São necessários pelo menos %d caracteres.`,
					form.OutcomeLabels[key], n, form.MinOutcomeCommentLen,
				),
				Severity:     modal.SeverityWarning,
				ScrollTarget: form.OutcomeControlIDs[key] + "-comment",
			}
		}
	}

	return nil
}

// CheckCompetencies mirrors the outcome gate: all ratings first, then all
// example lengths, both in definition order.
func CheckCompetencies(app *form.Application) *modal.Message {
	for i, def := range form.CompetencyDefinitions {
		if app.Step3.Competencies[i].Rating == "" {
			return &modal.Message{
				Title: titleMissing,
				Message: fmt.Sprintf(
					`Por favor, selecione uma autoavaliação (de 1 a 5) para a competência "%s" antes de continuar.`,
					def.Title,
				),
				Severity:     modal.SeverityWarning,
				ScrollTarget: "rating-" + def.Title,
			}
		}
	}

	for i, def := range form.CompetencyDefinitions {
		if n := utf8.RuneCountInString(app.Step3.Competencies[i].Example); n < form.MinCompetencyExampleLen {
			return &modal.Message{
				Title: titleIncomplete,
				Message: fmt.Sprintf(
					`Campo de exemplo da competência "%s": sua resposta tem %d caracteres. São necessários pelo menos %d caracteres.`,
					def.Title, n, form.MinCompetencyExampleLen,
				),
				Severity:     modal.SeverityWarning,
				ScrollTarget: "example-" + def.Title,
			}
		}
	}

	return nil
}

// CheckPersonalInfo validates the final form top to bottom, first failure
// wins. All messages use the default error-style title of the original form.
func CheckPersonalInfo(app *form.Application) *modal.Message {
	fail := func(message, target string) *modal.Message {
		return &modal.Message{
			Title:        "Atenção",
			Message:      message,
			Severity:     modal.SeverityWarning,
			ScrollTarget: target,
		}
	}

	info := app.Step4.PersonalInfo
	if !validate.FullName(info.FullName) {
		return fail("Por favor, informe seu nome completo (nome e sobrenome).", "fullName")
	}
	if !validate.CPF(info.CPF) {
		return fail("Por favor, informe um CPF válido (11 dígitos).", "cpf")
	}
	if !validate.Date(info.BirthDate) {
		return fail("Por favor, informe uma data de nascimento válida (DD/MM/AAAA).", "birthDate")
	}
	if strings.TrimSpace(info.City) == "" {
		return fail("Por favor, informe sua cidade.", "city")
	}
	if info.State == "" {
		return fail("Por favor, selecione seu estado.", "state")
	}
	if !validate.Email(app.Step4.Contact.Email) {
		return fail("Por favor, informe um e-mail válido.", "email")
	}
	if !validate.WhatsApp(app.Step4.Contact.WhatsApp) {
		return fail("Por favor, informe um WhatsApp válido com DDD.", "whatsapp")
	}
	if !validate.Salary(app.Step4.SalaryExpectation) {
		return fail("Por favor, informe sua pretensão salarial.", "salaryExpectation")
	}
	return nil
}
