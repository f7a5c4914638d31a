// Package report renders a validated submission into the plain-text
// document sent as the mail body. Rendering is deterministic: the same
// submission and clock produce byte-identical output. The section order,
// numbering and label text are a fixed contract with downstream readers of
// the report; do not reword them casually.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/invenzia/disclosure-api/internal/models"
)

const timestampLayout = "02/01/2006 15:04"

// Render converts a submission into the ordered plain-text report. Every
// label always appears, with missing optional values rendered as empty
// strings. The only section-level conditional is section 2, which renders
// exactly one applicant branch.
func Render(sub *models.Submission, now time.Time) string {
	var b strings.Builder

	b.WriteString("MODULO DI DIVULGAZIONE BREVETTUALE\n")
	fmt.Fprintf(&b, "Data invio: %s\n", now.Format(timestampLayout))

	section(&b, "1. CONSENSI")
	line(&b, "Informativa privacy visionata", boolLabel(sub.PrivacyViewed))
	line(&b, "Consenso al ricontatto", boolLabel(sub.ContactConsent))

	section(&b, "2. RICHIEDENTE")
	line(&b, "Tipo di richiedente", sub.ApplicantType)
	switch sub.ApplicantType {
	case models.ApplicantCompany:
		co := sub.CompanyOrZero()
		line(&b, "Ragione sociale", co.Name)
		line(&b, "Forma giuridica", co.LegalForm)
		line(&b, "Sede legale", co.HQ)
		line(&b, "Paese", co.Country)
		line(&b, "Partita IVA", co.VAT)
		line(&b, "Codice fiscale", co.TaxCode)
		line(&b, "Email", co.Email)
		line(&b, "PEC", co.PEC)
		line(&b, "Telefono", co.Phone)
		line(&b, "Legale rappresentante", co.RepName)
		line(&b, "Codice fiscale rappresentante", co.RepTaxCode)
	case models.ApplicantPerson:
		p := sub.PersonOrZero()
		line(&b, "Nome e cognome", p.FullName)
		line(&b, "Codice fiscale", p.TaxCode)
		line(&b, "Luogo e data di nascita", p.BirthPlaceDate)
		line(&b, "Residenza", p.Residence)
		line(&b, "Paese", p.Country)
		line(&b, "Email", p.Email)
		line(&b, "PEC", p.PEC)
		line(&b, "Telefono", p.Phone)
	case models.ApplicantJoint:
		line(&b, "Contitolari", sub.CoOwnersText)
	}

	section(&b, "3. INVENTORI")
	for i, inv := range sub.Inventors {
		fmt.Fprintf(&b, "-- Inventore %d --\n", i+1)
		subline(&b, "Nome e cognome", inv.FullName)
		subline(&b, "Codice fiscale", inv.TaxCode)
		subline(&b, "Luogo e data di nascita", inv.BirthPlaceDate)
		subline(&b, "Residenza", inv.Residence)
		subline(&b, "Paese", inv.Country)
		subline(&b, "Email", inv.Email)
		subline(&b, "PEC", inv.PEC)
		subline(&b, "Telefono", inv.Phone)
	}

	section(&b, "4. INVENZIONE")
	line(&b, "Titolo", sub.InventionTitle)
	line(&b, "Settore tecnico", sub.TechnicalField)
	line(&b, "Descrizione sintetica", sub.Pitch)
	line(&b, "Ambito di applicazione", sub.ApplicationArea)
	line(&b, "Beneficio principale", sub.MainBenefit)

	section(&b, "5. STATO DELL'ARTE")
	line(&b, "Descrizione", sub.PriorArtDescription)
	line(&b, "Link", joinNonEmpty(sub.PriorArtLinks))
	line(&b, "Brevetti noti", sub.PriorArtPatents)

	section(&b, "6. PROBLEMA TECNICO")
	line(&b, "Problema", sub.TechnicalProblem)
	line(&b, "Vincoli", sub.Constraints)
	line(&b, "Metriche", sub.Metrics)

	section(&b, "7. SOLUZIONE")
	line(&b, "Soluzione", sub.Solution)
	line(&b, "Vantaggi", sub.Advantages)
	line(&b, "Compromessi", sub.Tradeoffs)

	section(&b, "8. ELEMENTI INNOVATIVI")
	line(&b, "Caratteristiche innovative", sub.InnovativeFeatures)
	line(&b, "Indispensabili e opzionali", sub.MustHaveVsOptional)
	line(&b, "Varianti", sub.Variants)

	section(&b, "9. TIPOLOGIA DI INVENZIONE")
	line(&b, "Tipologia", strings.Join(sub.InventionTypes, ", "))

	section(&b, "10. DETTAGLI TECNICI")
	line(&b, "Architettura", sub.Architecture)
	line(&b, "Funzionamento", sub.Workflow)
	line(&b, "Parametri", sub.Parameters)
	line(&b, "Software di controllo", sub.ControlSoftware)
	line(&b, "Forme di realizzazione", sub.Embodiments)
	line(&b, "Casi limite", sub.EdgeCases)

	section(&b, "11. DISEGNI")
	line(&b, "Disegni disponibili", sub.DrawingsAvailable)
	line(&b, "Descrizione figure", sub.FigureDescriptions)

	section(&b, "12. PROTOTIPO E TEST")
	line(&b, "Stato del prototipo", sub.PrototypeStatus)
	line(&b, "Stato dei test", sub.TestsStatus)
	line(&b, "Risultati dei test", sub.TestResults)

	section(&b, "13. DIVULGAZIONE")
	line(&b, "Divulgazione avvenuta", sub.Disclosed)
	line(&b, "Modalità", sub.DisclosureHow)
	line(&b, "Quando e dove", sub.DisclosureWhenWhere)
	line(&b, "A chi", sub.DisclosureToWhom)
	line(&b, "Divulgazioni future", sub.FutureDisclosure)
	line(&b, "Dettagli divulgazioni future", sub.FutureDisclosureDetails)
	line(&b, "NDA firmati", sub.NdaSigned)

	section(&b, "14. TITOLARITÀ E CONTESTO")
	line(&b, "Inventore coincide con richiedente", sub.InventorEqualsApplicant)
	line(&b, "Contesto di sviluppo", joinNonEmpty(sub.DevelopmentContext))
	line(&b, "Collaborazioni con università", sub.UniversityCollab)
	line(&b, "Dettagli collaborazioni", sub.UniversityCollabDetails)
	line(&b, "Accordi rilevanti", sub.RelevantAgreements)
	line(&b, "Dettagli accordi", sub.RelevantAgreementsDetails)
	line(&b, "Contributi di terzi", sub.ThirdPartyContrib)
	line(&b, "Dettagli contributi di terzi", sub.ThirdPartyDetails)

	section(&b, "15. NOTE FINALI")
	line(&b, "Note", sub.FinalNotes)

	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

// subline writes an indented label line inside an inventor block.
func subline(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s: %s\n", label, value)
}

func boolLabel(v bool) string {
	if v {
		return "Sì"
	}
	return "No"
}

// joinNonEmpty comma-joins a list, dropping blank entries. Used for
// link-like fields where the frontend submits fixed-length arrays with
// holes.
func joinNonEmpty(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}
