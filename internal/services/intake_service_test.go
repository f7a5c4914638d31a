package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/invenzia/disclosure-api/config"
	"github.com/invenzia/disclosure-api/internal/mailer"
	"github.com/invenzia/disclosure-api/internal/models"
	"github.com/invenzia/disclosure-api/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		Mail: config.MailConfig{
			Host:      "smtp.example.com",
			Port:      587,
			Username:  "intake@example.com",
			Password:  "secret",
			Recipient: "ip-office@example.com",
		},
		Upload: config.UploadConfig{
			MaxTotalBytes:  15 << 20,
			MaxAttachments: 10,
		},
	}
}

func validSubmission() *models.Submission {
	return &models.Submission{
		PrivacyViewed:  true,
		ContactConsent: true,
		ApplicantType:  models.ApplicantPerson,
		Person: &models.Person{
			FullName:  "Anna Bianchi",
			Residence: "Via Roma 1, Torino",
			Country:   "Italia",
			Email:     "anna.bianchi@example.com",
		},
		Inventors:           []models.Inventor{{FullName: "A B"}},
		InventionTitle:      "Sistema di raffreddamento compatto",
		TechnicalField:      "Meccanica",
		Pitch:               "Scambiatore a microcanali",
		PriorArtDescription: "Dissipatori ad aria",
		TechnicalProblem:    "Dissipazione insufficiente",
		Solution:            "Geometria a microcanali",
		Advantages:          "Minore ingombro",
		InnovativeFeatures:  "Percorso del fluido",
		InventionTypes:      []string{"Software"},
		Disclosed:           "No",
		UniversityCollab:    "No",
	}
}

func intakeError(t *testing.T, err error) *services.IntakeError {
	t.Helper()
	var ierr *services.IntakeError
	require.ErrorAs(t, err, &ierr)
	return ierr
}

func TestSubmitDisclosure_Success(t *testing.T) {
	mockSender := new(MockSender)
	service := services.NewIntakeService(testConfig(), mockSender)

	var sent *mailer.Message
	mockSender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*mailer.Message)
	}).Return(nil).Once()

	attachments := []models.Attachment{
		{Filename: "schema.pdf", ContentType: "application/pdf", Size: 4, Data: []byte("%PDF")},
	}
	err := service.SubmitDisclosure(context.Background(), validSubmission(), attachments)
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, "ip-office@example.com", sent.To)
	assert.Equal(t, "intake@example.com", sent.From) // falls back to the SMTP identity
	assert.Equal(t, "anna.bianchi@example.com", sent.ReplyTo)
	assert.Equal(t, "Nuova divulgazione: Sistema di raffreddamento compatto - Anna Bianchi", sent.Subject)
	assert.Contains(t, sent.Body, "- Tipologia: Software")
	assert.Contains(t, sent.Body, "-- Inventore 1 --")
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "schema.pdf", sent.Attachments[0].Filename)
	assert.Equal(t, []byte("%PDF"), sent.Attachments[0].Data)

	mockSender.AssertExpectations(t)
}

func TestSubmitDisclosure_SenderOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Mail.Sender = "noreply@example.com"
	mockSender := new(MockSender)
	service := services.NewIntakeService(cfg, mockSender)

	var sent *mailer.Message
	mockSender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*mailer.Message)
	}).Return(nil).Once()

	require.NoError(t, service.SubmitDisclosure(context.Background(), validSubmission(), nil))
	assert.Equal(t, "noreply@example.com", sent.From)
}

func TestSubmitDisclosure_NilPayload(t *testing.T) {
	mockSender := new(MockSender)
	service := services.NewIntakeService(testConfig(), mockSender)

	err := service.SubmitDisclosure(context.Background(), nil, nil)

	ierr := intakeError(t, err)
	assert.Equal(t, http.StatusBadRequest, ierr.Status)
	assert.Equal(t, "Dati del modulo mancanti o non validi", ierr.Message)
	mockSender.AssertNotCalled(t, "Send")
}

func TestSubmitDisclosure_RuleOrder(t *testing.T) {
	// A submission violating both the privacy rule and a required-field
	// rule must report the privacy rule, which comes first.
	sub := validSubmission()
	sub.PrivacyViewed = false
	sub.InventionTitle = ""

	mockSender := new(MockSender)
	service := services.NewIntakeService(testConfig(), mockSender)

	err := service.SubmitDisclosure(context.Background(), sub, nil)

	ierr := intakeError(t, err)
	assert.Equal(t, http.StatusBadRequest, ierr.Status)
	assert.Equal(t, "È necessario confermare la presa visione dell'informativa privacy", ierr.Message)
}

func TestSubmitDisclosure_RequiredFieldMessages(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*models.Submission)
		expected string
	}{
		{
			name:     "missing_consent",
			mutate:   func(s *models.Submission) { s.ContactConsent = false },
			expected: "È necessario acconsentire ad essere ricontattati",
		},
		{
			name:     "bad_applicant_type",
			mutate:   func(s *models.Submission) { s.ApplicantType = "Altro" },
			expected: "Tipo di richiedente non valido",
		},
		{
			name:     "missing_title",
			mutate:   func(s *models.Submission) { s.InventionTitle = "   " },
			expected: "Il campo \"Titolo dell'invenzione\" è obbligatorio",
		},
		{
			name:     "missing_pitch",
			mutate:   func(s *models.Submission) { s.Pitch = "" },
			expected: "Il campo \"Descrizione sintetica\" è obbligatorio",
		},
		{
			name:     "no_invention_types",
			mutate:   func(s *models.Submission) { s.InventionTypes = nil },
			expected: "Seleziona almeno una tipologia di invenzione",
		},
		{
			name:     "bad_disclosed_value",
			mutate:   func(s *models.Submission) { s.Disclosed = "Forse" },
			expected: "Valore non valido per il campo \"Divulgazione avvenuta\"",
		},
		{
			name:     "bad_university_collab_value",
			mutate:   func(s *models.Submission) { s.UniversityCollab = "" },
			expected: "Valore non valido per il campo \"Collaborazioni con università\"",
		},
		{
			name:     "person_missing_residence",
			mutate:   func(s *models.Submission) { s.Person.Residence = "" },
			expected: "Il campo \"Residenza\" è obbligatorio",
		},
		{
			name:     "no_inventors",
			mutate:   func(s *models.Submission) { s.Inventors = nil },
			expected: "Indica almeno un inventore con nome e cognome",
		},
		{
			name:     "first_inventor_unnamed",
			mutate:   func(s *models.Submission) { s.Inventors = []models.Inventor{{Email: "x@example.com"}} },
			expected: "Indica almeno un inventore con nome e cognome",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(sub)

			mockSender := new(MockSender)
			service := services.NewIntakeService(testConfig(), mockSender)

			err := service.SubmitDisclosure(context.Background(), sub, nil)

			ierr := intakeError(t, err)
			assert.Equal(t, http.StatusBadRequest, ierr.Status)
			assert.Equal(t, tc.expected, ierr.Message)
			mockSender.AssertNotCalled(t, "Send")
		})
	}
}

func TestSubmitDisclosure_CompanyConditionalRules(t *testing.T) {
	sub := validSubmission()
	sub.ApplicantType = models.ApplicantCompany
	sub.Person = nil
	sub.Company = &models.Company{Name: "ACME S.r.l.", Country: "Italia", Email: "ip@acme.example.com"}

	mockSender := new(MockSender)
	service := services.NewIntakeService(testConfig(), mockSender)

	err := service.SubmitDisclosure(context.Background(), sub, nil)

	ierr := intakeError(t, err)
	assert.Equal(t, "Il campo \"Sede legale\" è obbligatorio", ierr.Message)
}

func TestSubmitDisclosure_CompanyAbsentSubRecord(t *testing.T) {
	sub := validSubmission()
	sub.ApplicantType = models.ApplicantCompany
	sub.Person = nil
	sub.Company = nil // absent nested object must degrade, not panic

	mockSender := new(MockSender)
	service := services.NewIntakeService(testConfig(), mockSender)

	err := service.SubmitDisclosure(context.Background(), sub, nil)

	ierr := intakeError(t, err)
	assert.Equal(t, "Il campo \"Ragione sociale\" è obbligatorio", ierr.Message)
}

func TestSubmitDisclosure_JointApplicantHasNoReplyTo(t *testing.T) {
	sub := validSubmission()
	sub.ApplicantType = models.ApplicantJoint
	sub.Person = nil
	sub.CoOwnersText = "Anna Bianchi, Carlo Verdi"

	mockSender := new(MockSender)
	service := services.NewIntakeService(testConfig(), mockSender)

	var sent *mailer.Message
	mockSender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*mailer.Message)
	}).Return(nil).Once()

	require.NoError(t, service.SubmitDisclosure(context.Background(), sub, nil))
	assert.Empty(t, sent.ReplyTo)
	assert.Equal(t, "Nuova divulgazione: Sistema di raffreddamento compatto - Più soggetti", sent.Subject)
}

func TestSubmitDisclosure_MalformedReplyToDropped(t *testing.T) {
	sub := validSubmission()
	sub.Person.Email = "not-an-email"

	mockSender := new(MockSender)
	service := services.NewIntakeService(testConfig(), mockSender)

	var sent *mailer.Message
	mockSender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*mailer.Message)
	}).Return(nil).Once()

	require.NoError(t, service.SubmitDisclosure(context.Background(), sub, nil))
	assert.Empty(t, sent.ReplyTo)
}

func TestSubmitDisclosure_AttachmentCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxTotalBytes = 10

	atCeiling := []models.Attachment{
		{Filename: "a.txt", ContentType: "text/plain", Size: 6, Data: []byte("aaaaaa")},
		{Filename: "b.txt", ContentType: "text/plain", Size: 4, Data: []byte("bbbb")},
	}
	oneOver := []models.Attachment{
		{Filename: "a.txt", ContentType: "text/plain", Size: 11, Data: []byte("aaaaaaaaaaa")},
	}

	t.Run("exactly_at_ceiling_accepted", func(t *testing.T) {
		mockSender := new(MockSender)
		mockSender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
		service := services.NewIntakeService(cfg, mockSender)

		err := service.SubmitDisclosure(context.Background(), validSubmission(), atCeiling)
		assert.NoError(t, err)
		mockSender.AssertExpectations(t)
	})

	t.Run("one_byte_over_rejected", func(t *testing.T) {
		mockSender := new(MockSender)
		service := services.NewIntakeService(cfg, mockSender)

		err := service.SubmitDisclosure(context.Background(), validSubmission(), oneOver)
		ierr := intakeError(t, err)
		assert.Equal(t, http.StatusBadRequest, ierr.Status)
		assert.Contains(t, ierr.Message, "0 MB") // 10 bytes rounds down; the configured limit is stated
		mockSender.AssertNotCalled(t, "Send")
	})
}

func TestSubmitDisclosure_MissingRecipientIsServerError(t *testing.T) {
	cfg := testConfig()
	cfg.Mail.Recipient = ""

	mockSender := new(MockSender)
	service := services.NewIntakeService(cfg, mockSender)

	err := service.SubmitDisclosure(context.Background(), validSubmission(), nil)

	ierr := intakeError(t, err)
	assert.Equal(t, http.StatusInternalServerError, ierr.Status)
	assert.Equal(t, "Configurazione email del destinatario mancante", ierr.Message)
	mockSender.AssertNotCalled(t, "Send")
}

func TestSubmitDisclosure_TransportNotConfigured(t *testing.T) {
	mockSender := new(MockSender)
	mockSender.On("Send", mock.Anything, mock.Anything).Return(mailer.ErrNotConfigured).Once()
	service := services.NewIntakeService(testConfig(), mockSender)

	err := service.SubmitDisclosure(context.Background(), validSubmission(), nil)

	ierr := intakeError(t, err)
	assert.Equal(t, http.StatusInternalServerError, ierr.Status)
	assert.Equal(t, "Configurazione del server email mancante", ierr.Message)
}

func TestSubmitDisclosure_SendFailure(t *testing.T) {
	mockSender := new(MockSender)
	mockSender.On("Send", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()
	service := services.NewIntakeService(testConfig(), mockSender)

	err := service.SubmitDisclosure(context.Background(), validSubmission(), nil)

	ierr := intakeError(t, err)
	assert.Equal(t, http.StatusInternalServerError, ierr.Status)
	assert.Equal(t, "Invio dell'email non riuscito", ierr.Message)
}
