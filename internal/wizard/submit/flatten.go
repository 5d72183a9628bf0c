// internal/wizard/submit/flatten.go
package submit

import (
	"recruiting-wizard/internal/records"
	"recruiting-wizard/internal/wizard/form"
)

// Flatten maps the nested aggregate onto the flat applications row. Documents
// start as plain file names; the pipeline swaps in storage paths once the
// uploads finish.
func Flatten(app *form.Application) *records.ApplicationRecord {
	outcomes := app.Step2.Outcomes

	documents := make([]string, len(app.Step4.Files))
	for i, f := range app.Step4.Files {
		documents[i] = f.Name
	}

	return &records.ApplicationRecord{
		Step0Accepted: app.Step0.Accepted,

		Step1Accepted:          app.Step1.Accepted,
		Step1MissionReflection: app.Step1.MissionReflection,

		Outcome21PlaybookAccepted:              outcomes[form.OutcomePlaybook].Accepted,
		Outcome21PlaybookComment:               outcomes[form.OutcomePlaybook].Comment,
		Outcome22TeamRestructureAccepted:       outcomes[form.OutcomeTeamRestructure].Accepted,
		Outcome22TeamRestructureComment:        outcomes[form.OutcomeTeamRestructure].Comment,
		Outcome23OperationalDisciplineAccepted: outcomes[form.OutcomeOperationalDiscipline].Accepted,
		Outcome23OperationalDisciplineComment:  outcomes[form.OutcomeOperationalDiscipline].Comment,
		Outcome24HighPerformanceAccepted:       outcomes[form.OutcomeHighPerformance].Accepted,
		Outcome24HighPerformanceComment:        outcomes[form.OutcomeHighPerformance].Comment,
		Outcome241BarRaiserAccepted:            outcomes[form.OutcomeBarRaiser].Accepted,
		Outcome241BarRaiserComment:             outcomes[form.OutcomeBarRaiser].Comment,
		Outcome242AccountabilityAccepted:       outcomes[form.OutcomeAccountability].Accepted,
		Outcome242AccountabilityComment:        outcomes[form.OutcomeAccountability].Comment,
		Outcome26ConversionAccepted:            outcomes[form.OutcomeConversion].Accepted,
		Outcome26ConversionComment:             outcomes[form.OutcomeConversion].Comment,
		Outcome27AIAccepted:                    outcomes[form.OutcomeAI].Accepted,
		Outcome27AIComment:                     outcomes[form.OutcomeAI].Comment,

		Competencies: app.Step3.Competencies,

		FullName:  app.Step4.PersonalInfo.FullName,
		CPF:       app.Step4.PersonalInfo.CPF,
		BirthDate: app.Step4.PersonalInfo.BirthDate,
		City:      app.Step4.PersonalInfo.City,
		State:     app.Step4.PersonalInfo.State,

		Email:    app.Step4.Contact.Email,
		WhatsApp: app.Step4.Contact.WhatsApp,

		SocialMedia: app.Step4.SocialMedia,

		SalaryExpectation: app.Step4.SalaryExpectation,
		FinalNotes:        app.Step4.FinalNotes,

		Documents: documents,
	}
}
