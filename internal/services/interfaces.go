package services

import (
	"context"

	"github.com/invenzia/disclosure-api/internal/models"
)

// IntakeServiceInterface defines the interface for intake service operations
type IntakeServiceInterface interface {
	SubmitDisclosure(ctx context.Context, sub *models.Submission, attachments []models.Attachment) error
}

// Ensure services implement their interfaces
var _ IntakeServiceInterface = (*IntakeService)(nil)
