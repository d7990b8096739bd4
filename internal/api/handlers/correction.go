package handlers

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/RMahshie/autoeq/internal/processing"
	"github.com/RMahshie/autoeq/internal/repository"
	"github.com/RMahshie/autoeq/internal/spectrum"
	"github.com/RMahshie/autoeq/internal/storage"
	"github.com/RMahshie/autoeq/pkg/curve"
	"github.com/RMahshie/autoeq/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CorrectionHandler handles correction-related HTTP requests
type CorrectionHandler struct {
	repo          repository.CorrectionRepository // nil when no database is configured
	store         storage.Store
	correctionSvc processing.CorrectionService
}

// NewCorrectionHandler creates a new correction handler
func NewCorrectionHandler(repo repository.CorrectionRepository, store storage.Store, correctionSvc processing.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{
		repo:          repo,
		store:         store,
		correctionSvc: correctionSvc,
	}
}

// GetGrid returns the default analysis grid
func (h *CorrectionHandler) GetGrid(ctx context.Context, _ *struct{}) (*models.GetGridResponse, error) {
	resp := &models.GetGridResponse{}
	resp.Body.LowerHz = curve.LowerBoundHz
	resp.Body.UpperHz = curve.UpperBoundHz
	resp.Body.Frequencies = curve.DefaultGrid()
	return resp, nil
}

// CreateUpload returns a pre-signed URL for uploading a spectrogram export
func (h *CorrectionHandler) CreateUpload(ctx context.Context, req *models.CreateUploadRequest) (*models.CreateUploadResponse, error) {
	key := fmt.Sprintf("exports/%s/%s", uuid.New(), path.Base(req.Body.FileName))
	log.Info().Str("key", key).Str("contentType", req.Body.ContentType).Msg("Generating upload URL")

	uploadURL, err := h.store.GenerateUploadURL(ctx, key, req.Body.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrPresignUnsupported) {
			return nil, huma.Error501NotImplemented("Uploads are not supported by the configured storage backend", err)
		}
		if strings.Contains(err.Error(), "invalid content type") {
			return nil, huma.Error400BadRequest("Export format not supported", err)
		}
		return nil, huma.Error500InternalServerError("Failed to prepare upload", err)
	}

	resp := &models.CreateUploadResponse{}
	resp.Body.Key = key
	resp.Body.UploadURL = uploadURL
	resp.Body.ExpiresIn = int(storage.UploadURLExpiry.Seconds())
	return resp, nil
}

// CreateCorrection runs the correction pipeline on stored exports
func (h *CorrectionHandler) CreateCorrection(ctx context.Context, req *models.CreateCorrectionRequest) (*models.CreateCorrectionResponse, error) {
	log.Info().
		Strs("measurements", req.Body.MeasurementKeys).
		Str("target", req.Body.TargetKey).
		Msg("Correction request received")

	outcome, err := h.correctionSvc.Run(ctx, processing.Request{
		MeasurementKeys: req.Body.MeasurementKeys,
		TargetKey:       req.Body.TargetKey,
		OutputKey:       req.Body.OutputKey,
	})
	if err != nil {
		return nil, correctionError(err)
	}

	return &models.CreateCorrectionResponse{
		Body: models.CreateCorrectionResponseBody{
			Run:    outcome.Run,
			Points: outcome.Result.Correction.Points(),
		},
	}, nil
}

// ListCorrections returns the most recent runs
func (h *CorrectionHandler) ListCorrections(ctx context.Context, req *models.ListCorrectionsRequest) (*models.ListCorrectionsResponse, error) {
	if h.repo == nil {
		return nil, errNoHistory
	}

	runs, err := h.repo.List(ctx, req.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list corrections", err)
	}

	resp := &models.ListCorrectionsResponse{}
	resp.Body.Runs = runs
	return resp, nil
}

// GetCorrection returns the metadata of a run
func (h *CorrectionHandler) GetCorrection(ctx context.Context, req *models.GetCorrectionRequest) (*models.GetCorrectionResponse, error) {
	run, err := h.lookupRun(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &models.GetCorrectionResponse{Body: run}, nil
}

// GetCorrectionCurve returns the stored correction curve of a run
func (h *CorrectionHandler) GetCorrectionCurve(ctx context.Context, req *models.GetCorrectionRequest) (*models.GetCorrectionCurveResponse, error) {
	stored, err := h.lookupCurve(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.GetCorrectionCurveResponse{}
	resp.Body.RunID = stored.RunID
	resp.Body.Points = stored.Points
	return resp, nil
}

// ExportCorrection returns the correction curve in the equalizer text format
func (h *CorrectionHandler) ExportCorrection(ctx context.Context, req *models.GetCorrectionRequest) (*models.ExportCorrectionResponse, error) {
	stored, err := h.lookupCurve(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	c, err := curve.New(stored.Points)
	if err != nil {
		return nil, huma.Error500InternalServerError("Stored curve is invalid", err)
	}

	return &models.ExportCorrectionResponse{
		ContentType:        spectrum.ContentType,
		ContentDisposition: `attachment; filename="autoeq.csv"`,
		Body:               spectrum.EncodeEqualizer(c),
	}, nil
}

var errNoHistory = huma.Error503ServiceUnavailable("Correction history requires a database")

func (h *CorrectionHandler) lookupRun(ctx context.Context, rawID string) (*models.CorrectionRun, error) {
	if h.repo == nil {
		return nil, errNoHistory
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid correction ID", err)
	}

	run, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Correction not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to get correction", err)
	}
	return run, nil
}

func (h *CorrectionHandler) lookupCurve(ctx context.Context, rawID string) (*models.CorrectionCurve, error) {
	run, err := h.lookupRun(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if run.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Correction not yet completed",
			fmt.Errorf("correction status is %s", run.Status))
	}

	stored, err := h.repo.GetCurve(ctx, uuid.MustParse(rawID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Correction curve not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to get correction curve", err)
	}
	return stored, nil
}

// correctionError maps pipeline failures to HTTP status errors
func correctionError(err error) error {
	var notFound *spectrum.FileNotFoundError
	var parseErr *spectrum.ParseError

	switch {
	case errors.As(err, &notFound), errors.Is(err, storage.ErrNotFound):
		return huma.Error404NotFound("Input file not found", err)
	case errors.As(err, &parseErr),
		errors.Is(err, curve.ErrEmptyInput),
		errors.Is(err, curve.ErrEmptyCurve),
		errors.Is(err, curve.ErrNotAscending),
		errors.Is(err, curve.ErrInvalidFrequency),
		errors.Is(err, curve.ErrGridMismatch):
		return huma.Error422UnprocessableEntity("Invalid spectrogram export", err)
	default:
		log.Error().Err(err).Msg("Correction failed")
		return huma.Error500InternalServerError("Failed to compute correction", err)
	}
}
