package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/autoeq/internal/repository"
	"github.com/RMahshie/autoeq/internal/spectrum"
	"github.com/RMahshie/autoeq/internal/storage"
	"github.com/RMahshie/autoeq/pkg/curve"
	"github.com/RMahshie/autoeq/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Request names the stored inputs and output of one correction run
type Request struct {
	MeasurementKeys []string
	TargetKey       string
	OutputKey       string // skipped when empty
}

// Outcome is the result of a successful correction run
type Outcome struct {
	Run    *models.CorrectionRun
	Result *curve.Result
}

type CorrectionService interface {
	Run(ctx context.Context, req Request) (*Outcome, error)
}

type correctionService struct {
	store      storage.Store
	repository repository.CorrectionRepository // optional
	grid       []float64
}

// NewCorrectionService creates the pipeline driver. repo may be nil, in which
// case runs are not recorded.
func NewCorrectionService(store storage.Store, repo repository.CorrectionRepository) CorrectionService {
	return &correctionService{
		store:      store,
		repository: repo,
		grid:       curve.DefaultGrid(),
	}
}

func (s *correctionService) Run(ctx context.Context, req Request) (*Outcome, error) {
	if len(req.MeasurementKeys) == 0 {
		return nil, fmt.Errorf("%w: no measurement files", curve.ErrEmptyInput)
	}
	if req.TargetKey == "" {
		return nil, fmt.Errorf("%w: no target file", curve.ErrEmptyInput)
	}

	run := &models.CorrectionRun{
		ID:              uuid.New().String(),
		MeasurementKeys: append([]string(nil), req.MeasurementKeys...),
		TargetKey:       req.TargetKey,
		Status:          models.StatusPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if req.OutputKey != "" {
		out := req.OutputKey
		run.OutputKey = &out
	}
	runID := uuid.MustParse(run.ID)

	// Step 1: Record the run
	if s.repository != nil {
		if err := s.repository.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to create correction run: %w", err)
		}
		if err := s.repository.UpdateStatus(ctx, runID, models.StatusProcessing); err != nil {
			return nil, fmt.Errorf("failed to update correction run: %w", err)
		}
	}
	run.Status = models.StatusProcessing

	log.Info().
		Str("runID", run.ID).
		Strs("measurements", req.MeasurementKeys).
		Str("target", req.TargetKey).
		Int("gridPoints", len(s.grid)).
		Msg("Starting correction run")

	result, err := s.compute(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, runID, err)
	}

	// Step 6: Persist the curve before any output exists
	if s.repository != nil {
		stored := &models.CorrectionCurve{
			RunID:  run.ID,
			Points: result.Correction.Points(),
		}
		if err := s.repository.StoreCurve(ctx, stored, result.Peak, run.OutputKey); err != nil {
			return nil, s.fail(ctx, runID, fmt.Errorf("failed to store correction curve: %w", err))
		}
	}

	// Step 7: Serialize the correction
	if req.OutputKey != "" {
		data := spectrum.EncodeEqualizer(result.Correction)
		if err := s.store.UploadFile(ctx, req.OutputKey, data, spectrum.ContentType); err != nil {
			return nil, s.fail(ctx, runID, fmt.Errorf("failed to write %s: %w", req.OutputKey, err))
		}
		log.Info().Str("runID", run.ID).Str("output", req.OutputKey).Int("bytes", len(data)).Msg("Equalizer curve written")
	}

	now := time.Now()
	peak := result.Peak
	run.Status = models.StatusCompleted
	run.PointCount = result.Correction.Len()
	run.PeakGain = &peak
	run.UpdatedAt = now
	run.CompletedAt = &now

	log.Info().
		Str("runID", run.ID).
		Int("points", run.PointCount).
		Float64("peakGainDB", peak).
		Msg("Correction run completed")

	return &Outcome{Run: run, Result: result}, nil
}

func (s *correctionService) compute(ctx context.Context, req Request) (*curve.Result, error) {
	// Step 2: Load measurements and target
	measurements := make([]curve.Curve, 0, len(req.MeasurementKeys))
	for _, key := range req.MeasurementKeys {
		c, err := s.load(ctx, key)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, c)
	}

	target, err := s.load(ctx, req.TargetKey)
	if err != nil {
		return nil, err
	}

	// Steps 3-5: Resample, average, subtract and normalize
	return curve.Correction(measurements, target, s.grid)
}

func (s *correctionService) load(ctx context.Context, key string) (curve.Curve, error) {
	data, err := s.store.DownloadFile(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return curve.Curve{}, &spectrum.FileNotFoundError{Path: key, Err: err}
		}
		return curve.Curve{}, fmt.Errorf("failed to load %s: %w", key, err)
	}

	c, err := spectrum.Read(bytes.NewReader(data), key)
	if err != nil {
		return curve.Curve{}, err
	}

	log.Debug().Str("key", key).Int("points", c.Len()).Msg("Loaded spectrogram export")
	return c, nil
}

// fail records err on the run and returns it unchanged
func (s *correctionService) fail(ctx context.Context, runID uuid.UUID, err error) error {
	log.Error().Err(err).Str("runID", runID.String()).Msg("Correction run failed")

	if s.repository != nil {
		if uerr := s.repository.UpdateError(ctx, runID, err.Error()); uerr != nil {
			log.Warn().Err(uerr).Str("runID", runID.String()).Msg("Failed to record run failure")
		}
	}
	return err
}
