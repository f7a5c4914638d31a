package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invenzia/disclosure-api/config"
	"github.com/invenzia/disclosure-api/internal/models"
	"github.com/invenzia/disclosure-api/internal/services"
	"github.com/invenzia/disclosure-api/pkg/logger"
	"github.com/invenzia/disclosure-api/pkg/metrics"
)

// allowedContentTypes is the attachment allow-list. Anything else is
// rejected before the business logic runs.
var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-powerpoint":                                           true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"image/png":                    true,
	"image/jpeg":                   true,
	"image/webp":                   true,
	"text/plain":                   true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

// IntakeHandler handles the disclosure submission endpoint
type IntakeHandler struct {
	service services.IntakeServiceInterface
	upload  config.UploadConfig
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(service services.IntakeServiceInterface, upload config.UploadConfig) *IntakeHandler {
	return &IntakeHandler{service: service, upload: upload}
}

// SubmitDisclosure handles POST /api/submit. The request is a multipart
// form with a JSON "payload" part and optional "attachments" parts.
func (h *IntakeHandler) SubmitDisclosure(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			metrics.SubmissionsTotal.WithLabelValues("oversize").Inc()
			respondError(c, http.StatusBadRequest,
				fmt.Sprintf("Dimensione totale degli allegati superiore al limite di %d MB", h.upload.MaxUploadMB()), err)
			return
		}
		respondError(c, http.StatusBadRequest, "Richiesta non valida", err)
		return
	}

	// Honeypot: bots fill the hidden "website" field. Answer with a plain
	// success so automated submitters get no signal, and skip everything
	// else including payload parsing.
	if website := strings.TrimSpace(firstValue(form, "website")); website != "" {
		h.acceptSilently(c, "form field")
		return
	}

	sub := decodePayload(firstValue(form, "payload"))
	if sub != nil && strings.TrimSpace(sub.Website) != "" {
		h.acceptSilently(c, "payload field")
		return
	}

	attachments, ierr := h.collectAttachments(form.File["attachments"])
	if ierr != nil {
		respondError(c, ierr.Status, ierr.Message, ierr)
		return
	}
	metrics.AttachmentBytes.Observe(float64(models.TotalSize(attachments)))

	if err := h.service.SubmitDisclosure(c.Request.Context(), sub, attachments); err != nil {
		var ierr *services.IntakeError
		if errors.As(err, &ierr) {
			respondError(c, ierr.Status, ierr.Message, err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Errore interno", err)
		return
	}

	respondOK(c, http.StatusOK)
}

func (h *IntakeHandler) acceptSilently(c *gin.Context, source string) {
	metrics.SubmissionsTotal.WithLabelValues("honeypot").Inc()
	logger.Warn("Honeypot triggered, dropping submission",
		zap.String("source", source),
		zap.String("client_ip", c.ClientIP()),
	)
	respondOK(c, http.StatusOK)
}

// collectAttachments buffers the uploaded files, enforcing the count
// limit, the content-type allow-list per file, and the total size ceiling
// while reading so an oversize set is rejected as early as possible.
func (h *IntakeHandler) collectAttachments(files []*multipart.FileHeader) ([]models.Attachment, *services.IntakeError) {
	if len(files) > h.upload.MaxAttachments {
		return nil, &services.IntakeError{
			Status:  http.StatusBadRequest,
			Message: "Numero massimo di allegati superato",
		}
	}

	attachments := make([]models.Attachment, 0, len(files))
	var total int64
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if !allowedContentTypes[contentType] {
			metrics.SubmissionsTotal.WithLabelValues("rejected_file_type").Inc()
			return nil, &services.IntakeError{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("Tipo di file non consentito: %s", fh.Filename),
			}
		}

		total += fh.Size
		if total > h.upload.MaxTotalBytes {
			metrics.SubmissionsTotal.WithLabelValues("oversize").Inc()
			return nil, &services.IntakeError{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("Dimensione totale degli allegati superiore al limite di %d MB", h.upload.MaxUploadMB()),
			}
		}

		data, err := readAll(fh)
		if err != nil {
			return nil, &services.IntakeError{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("Impossibile leggere l'allegato: %s", fh.Filename),
				Err:     err,
			}
		}

		attachments = append(attachments, models.Attachment{
			Filename:    fh.Filename,
			ContentType: contentType,
			Size:        int64(len(data)),
			Data:        data,
		})
	}

	return attachments, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// decodePayload decodes the JSON form field. A malformed or missing
// payload yields nil, which the validator reports with its canonical
// message.
func decodePayload(raw string) *models.Submission {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var sub models.Submission
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return nil
	}
	return &sub
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
