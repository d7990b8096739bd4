package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/autoeq/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a run or curve does not exist
var ErrNotFound = errors.New("not found")

// CorrectionRepository defines the interface for correction run data operations
type CorrectionRepository interface {
	Create(ctx context.Context, run *models.CorrectionRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CorrectionRun, error)
	List(ctx context.Context, limit int) ([]*models.CorrectionRun, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreCurve(ctx context.Context, curve *models.CorrectionCurve, peakGain float64, outputKey *string) error
	GetCurve(ctx context.Context, runID uuid.UUID) (*models.CorrectionCurve, error)
}
