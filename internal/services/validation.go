package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/invenzia/disclosure-api/internal/models"
)

// Canonical validation messages. These are a contract with the frontend:
// the first failed rule's message is returned verbatim.
const (
	msgInvalidPayload = "Dati del modulo mancanti o non validi"
	msgPrivacy        = "È necessario confermare la presa visione dell'informativa privacy"
	msgConsent        = "È necessario acconsentire ad essere ricontattati"
	msgApplicantType  = "Tipo di richiedente non valido"
	msgInventionTypes = "Seleziona almeno una tipologia di invenzione"
	msgInventors      = "Indica almeno un inventore con nome e cognome"
	msgMailRecipient  = "Configurazione email del destinatario mancante"
	msgMailTransport  = "Configurazione del server email mancante"
	msgMailSendFailed = "Invio dell'email non riuscito"
	msgTooManyFiles   = "Numero massimo di allegati superato"
	msgFileTypeFormat = "Tipo di file non consentito: %s"
	msgOversizeFormat = "Dimensione totale degli allegati superiore al limite di %d MB"
	msgRequiredFormat = "Il campo \"%s\" è obbligatorio"
	msgBadValueFormat = "Valore non valido per il campo \"%s\""
)

func msgRequired(label string) string {
	return fmt.Sprintf(msgRequiredFormat, label)
}

func msgBadValue(label string) string {
	return fmt.Sprintf(msgBadValueFormat, label)
}

// rule is one validation step. Rules are evaluated in order and the first
// failure short-circuits, so the order below determines which message the
// caller sees when several rules fail at once.
type rule struct {
	ok      func() bool
	message string
	status  int
}

// requiredText lists the unconditionally mandatory free-text fields, in
// evaluation order.
var requiredText = []struct {
	label string
	value func(*models.Submission) string
}{
	{"Titolo dell'invenzione", func(s *models.Submission) string { return s.InventionTitle }},
	{"Settore tecnico", func(s *models.Submission) string { return s.TechnicalField }},
	{"Descrizione sintetica", func(s *models.Submission) string { return s.Pitch }},
	{"Stato dell'arte", func(s *models.Submission) string { return s.PriorArtDescription }},
	{"Problema tecnico", func(s *models.Submission) string { return s.TechnicalProblem }},
	{"Soluzione", func(s *models.Submission) string { return s.Solution }},
	{"Vantaggi", func(s *models.Submission) string { return s.Advantages }},
	{"Caratteristiche innovative", func(s *models.Submission) string { return s.InnovativeFeatures }},
}

// validate runs the ordered rule list and returns the first failure, or
// nil when the submission is acceptable. The honeypot is not part of this
// list: it is checked by the handler before any parsing, and triggers a
// silent success instead of an error.
func (s *IntakeService) validate(sub *models.Submission, attachments []models.Attachment) *IntakeError {
	if sub == nil {
		return &IntakeError{Status: http.StatusBadRequest, Message: msgInvalidPayload}
	}
	for _, r := range s.rules(sub, attachments) {
		if !r.ok() {
			return &IntakeError{Status: r.status, Message: r.message}
		}
	}
	return nil
}

func (s *IntakeService) rules(sub *models.Submission, attachments []models.Attachment) []rule {
	rules := []rule{
		{func() bool { return sub.PrivacyViewed }, msgPrivacy, http.StatusBadRequest},
		{func() bool { return sub.ContactConsent }, msgConsent, http.StatusBadRequest},
		{func() bool { return isApplicantType(sub.ApplicantType) }, msgApplicantType, http.StatusBadRequest},
	}

	for _, f := range requiredText {
		value := f.value
		rules = append(rules, rule{
			ok:      func() bool { return strings.TrimSpace(value(sub)) != "" },
			message: msgRequired(f.label),
			status:  http.StatusBadRequest,
		})
	}

	rules = append(rules,
		rule{func() bool { return len(sub.InventionTypes) > 0 }, msgInventionTypes, http.StatusBadRequest},
		rule{func() bool { return isTernary(sub.Disclosed) }, msgBadValue("Divulgazione avvenuta"), http.StatusBadRequest},
		rule{func() bool { return isTernary(sub.UniversityCollab) }, msgBadValue("Collaborazioni con università"), http.StatusBadRequest},
	)

	// Conditional requiredness keyed on the applicant type. The joint
	// ownership branch has no extra mandatory sub-fields.
	switch sub.ApplicantType {
	case models.ApplicantCompany:
		co := sub.CompanyOrZero()
		rules = append(rules,
			requiredRule("Ragione sociale", co.Name),
			requiredRule("Sede legale", co.HQ),
			requiredRule("Paese", co.Country),
			requiredRule("Email", co.Email),
		)
	case models.ApplicantPerson:
		p := sub.PersonOrZero()
		rules = append(rules,
			requiredRule("Nome e cognome", p.FullName),
			requiredRule("Residenza", p.Residence),
			requiredRule("Paese", p.Country),
			requiredRule("Email", p.Email),
		)
	}

	rules = append(rules,
		rule{
			ok: func() bool {
				return len(sub.Inventors) > 0 && strings.TrimSpace(sub.Inventors[0].FullName) != ""
			},
			message: msgInventors,
			status:  http.StatusBadRequest,
		},
		// Re-checked here even though the ingress filter already enforced
		// it, so a discrepancy between the two layers can never let an
		// oversize payload through silently.
		rule{
			ok:      func() bool { return models.TotalSize(attachments) <= s.config.Upload.MaxTotalBytes },
			message: fmt.Sprintf(msgOversizeFormat, s.config.Upload.MaxUploadMB()),
			status:  http.StatusBadRequest,
		},
		// A missing recipient is a server misconfiguration, not a user
		// input error, hence the 500.
		rule{
			ok:      func() bool { return s.config.Mail.Recipient != "" },
			message: msgMailRecipient,
			status:  http.StatusInternalServerError,
		},
	)

	return rules
}

func requiredRule(label, value string) rule {
	return rule{
		ok:      func() bool { return strings.TrimSpace(value) != "" },
		message: msgRequired(label),
		status:  http.StatusBadRequest,
	}
}

func isApplicantType(v string) bool {
	return v == models.ApplicantPerson || v == models.ApplicantCompany || v == models.ApplicantJoint
}

func isTernary(v string) bool {
	for _, t := range models.TernaryAnswers {
		if v == t {
			return true
		}
	}
	return false
}
