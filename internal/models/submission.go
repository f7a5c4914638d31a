package models

import "strings"

// Applicant type values accepted on the intake form. The strings are the
// ones the frontend submits verbatim.
const (
	ApplicantPerson  = "Persona fisica"
	ApplicantCompany = "Azienda/Ente"
	ApplicantJoint   = "Più soggetti (contitolarità)"
)

// TernaryAnswers are the accepted values for the yes/no/unknown questions
// (disclosed, universityCollab).
var TernaryAnswers = []string{"No", "Sì", "Non so"}

// Submission is the full decoded questionnaire payload for one request.
// Everything is optional at the decoding layer; requiredness is enforced by
// the intake service so the caller always gets the canonical message for
// the first failed rule.
type Submission struct {
	PrivacyViewed  bool   `json:"privacyViewed"`
	ContactConsent bool   `json:"contactConsent"`
	ApplicantType  string `json:"applicantType"`

	Company      *Company   `json:"company"`
	Person       *Person    `json:"person"`
	CoOwnersText string     `json:"coOwnersText"`
	Inventors    []Inventor `json:"inventors"`

	InventionTitle  string `json:"inventionTitle"`
	TechnicalField  string `json:"technicalField"`
	Pitch           string `json:"pitch"`
	ApplicationArea string `json:"applicationArea"`
	MainBenefit     string `json:"mainBenefit"`

	PriorArtDescription string   `json:"priorArtDescription"`
	PriorArtLinks       []string `json:"priorArtLinks"`
	PriorArtPatents     string   `json:"priorArtPatents"`

	TechnicalProblem string `json:"technicalProblem"`
	Constraints      string `json:"constraints"`
	Metrics          string `json:"metrics"`

	Solution   string `json:"solution"`
	Advantages string `json:"advantages"`
	Tradeoffs  string `json:"tradeoffs"`

	InnovativeFeatures string `json:"innovativeFeatures"`
	MustHaveVsOptional string `json:"mustHaveVsOptional"`
	Variants           string `json:"variants"`

	InventionTypes []string `json:"inventionTypes"`

	Architecture    string `json:"architecture"`
	Workflow        string `json:"workflow"`
	Parameters      string `json:"parameters"`
	ControlSoftware string `json:"controlSoftware"`
	Embodiments     string `json:"embodiments"`
	EdgeCases       string `json:"edgeCases"`

	DrawingsAvailable  string `json:"drawingsAvailable"`
	FigureDescriptions string `json:"figureDescriptions"`

	PrototypeStatus string `json:"prototypeStatus"`
	TestsStatus     string `json:"testsStatus"`
	TestResults     string `json:"testResults"`

	Disclosed               string `json:"disclosed"`
	DisclosureHow           string `json:"disclosureHow"`
	DisclosureWhenWhere     string `json:"disclosureWhenWhere"`
	DisclosureToWhom        string `json:"disclosureToWhom"`
	FutureDisclosure        string `json:"futureDisclosure"`
	FutureDisclosureDetails string `json:"futureDisclosureDetails"`
	NdaSigned               string `json:"ndaSigned"`

	InventorEqualsApplicant   string   `json:"inventorEqualsApplicant"`
	DevelopmentContext        []string `json:"developmentContext"`
	UniversityCollab          string   `json:"universityCollab"`
	UniversityCollabDetails   string   `json:"universityCollabDetails"`
	RelevantAgreements        string   `json:"relevantAgreements"`
	RelevantAgreementsDetails string   `json:"relevantAgreementsDetails"`
	ThirdPartyContrib         string   `json:"thirdPartyContrib"`
	ThirdPartyDetails         string   `json:"thirdPartyDetails"`

	FinalNotes string `json:"finalNotes"`

	// Website is the honeypot: legitimate users never fill it.
	Website string `json:"website"`
}

// Company is the applicant sub-record used when the applicant is an
// organization.
type Company struct {
	Name       string `json:"name"`
	LegalForm  string `json:"legalForm"`
	HQ         string `json:"hq"`
	Country    string `json:"country"`
	VAT        string `json:"vat"`
	TaxCode    string `json:"taxCode"`
	Email      string `json:"email"`
	PEC        string `json:"pec"`
	Phone      string `json:"phone"`
	RepName    string `json:"repName"`
	RepTaxCode string `json:"repTaxCode"`
}

// Person is the applicant sub-record used when the applicant is an
// individual.
type Person struct {
	FullName       string `json:"fullName"`
	TaxCode        string `json:"taxCode"`
	BirthPlaceDate string `json:"birthPlaceDate"`
	Residence      string `json:"residence"`
	Country        string `json:"country"`
	Email          string `json:"email"`
	PEC            string `json:"pec"`
	Phone          string `json:"phone"`
}

// Inventor is one entry of the inventors list. The first entry's full name
// is mandatory.
type Inventor struct {
	FullName       string `json:"fullName"`
	TaxCode        string `json:"taxCode"`
	BirthPlaceDate string `json:"birthPlaceDate"`
	Residence      string `json:"residence"`
	Country        string `json:"country"`
	Email          string `json:"email"`
	PEC            string `json:"pec"`
	Phone          string `json:"phone"`
}

// CompanyOrZero returns the company sub-record, or a zero value when the
// applicant is not an organization and the object is absent.
func (s *Submission) CompanyOrZero() Company {
	if s.Company == nil {
		return Company{}
	}
	return *s.Company
}

// PersonOrZero returns the person sub-record, or a zero value when absent.
func (s *Submission) PersonOrZero() Person {
	if s.Person == nil {
		return Person{}
	}
	return *s.Person
}

// ApplicantLabel returns the short label identifying the applicant, used in
// the mail subject. Empty when the relevant name field is blank.
func (s *Submission) ApplicantLabel() string {
	switch s.ApplicantType {
	case ApplicantCompany:
		return strings.TrimSpace(s.CompanyOrZero().Name)
	case ApplicantPerson:
		return strings.TrimSpace(s.PersonOrZero().FullName)
	case ApplicantJoint:
		return "Più soggetti"
	}
	return ""
}

// ContactEmail returns the applicant's own declared address, used as the
// reply-to of the outgoing report. Empty for the joint-ownership case.
func (s *Submission) ContactEmail() string {
	switch s.ApplicantType {
	case ApplicantCompany:
		return strings.TrimSpace(s.CompanyOrZero().Email)
	case ApplicantPerson:
		return strings.TrimSpace(s.PersonOrZero().Email)
	}
	return ""
}
