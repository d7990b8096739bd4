package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/RMahshie/autoeq/internal/processing"
	"github.com/RMahshie/autoeq/internal/repository"
	"github.com/RMahshie/autoeq/internal/spectrum"
	"github.com/RMahshie/autoeq/internal/storage"
	"github.com/RMahshie/autoeq/pkg/curve"
	"github.com/RMahshie/autoeq/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCorrectionRepository implements repository.CorrectionRepository for testing
type MockCorrectionRepository struct {
	mock.Mock
}

func (m *MockCorrectionRepository) Create(ctx context.Context, run *models.CorrectionRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockCorrectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CorrectionRun, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.CorrectionRun), args.Error(1)
}

func (m *MockCorrectionRepository) List(ctx context.Context, limit int) ([]*models.CorrectionRun, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.CorrectionRun), args.Error(1)
}

func (m *MockCorrectionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCorrectionRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockCorrectionRepository) StoreCurve(ctx context.Context, c *models.CorrectionCurve, peakGain float64, outputKey *string) error {
	args := m.Called(ctx, c, peakGain, outputKey)
	return args.Error(0)
}

func (m *MockCorrectionRepository) GetCurve(ctx context.Context, runID uuid.UUID) (*models.CorrectionCurve, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(*models.CorrectionCurve), args.Error(1)
}

// MockStore implements storage.Store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStore) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockStore) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockCorrectionService implements processing.CorrectionService for testing
type MockCorrectionService struct {
	mock.Mock
}

func (m *MockCorrectionService) Run(ctx context.Context, req processing.Request) (*processing.Outcome, error) {
	args := m.Called(ctx, req)
	outcome, _ := args.Get(0).(*processing.Outcome)
	return outcome, args.Error(1)
}

// statusOf extracts the HTTP status of a huma error
func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError
	require.True(t, errors.As(err, &se), "expected huma status error, got %v", err)
	return se.GetStatus()
}

func TestGetGrid(t *testing.T) {
	handler := NewCorrectionHandler(nil, &MockStore{}, &MockCorrectionService{})

	resp, err := handler.GetGrid(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.Body.LowerHz)
	assert.Equal(t, 14000.0, resp.Body.UpperHz)
	assert.Equal(t, curve.DefaultGrid(), resp.Body.Frequencies)
}

func TestCreateUpload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		storeErr    error
		wantStatus  int
	}{
		{name: "valid export", contentType: "text/plain"},
		{name: "local backend", contentType: "text/plain", storeErr: storage.ErrPresignUnsupported, wantStatus: 501},
		{name: "invalid content type", contentType: "text/csv", storeErr: fmt.Errorf("invalid content type: text/csv"), wantStatus: 400},
		{name: "store failure", contentType: "text/plain", storeErr: assert.AnError, wantStatus: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockStore{}
			mockStore.On("GenerateUploadURL", mock.Anything,
				mock.MatchedBy(func(key string) bool { return len(key) > 0 }),
				tt.contentType,
			).Return("https://example.com/upload", tt.storeErr)

			handler := NewCorrectionHandler(nil, mockStore, &MockCorrectionService{})

			req := &models.CreateUploadRequest{}
			req.Body.FileName = "../spectrum1.txt"
			req.Body.ContentType = tt.contentType

			resp, err := handler.CreateUpload(context.Background(), req)

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.Regexp(t, `^exports/[0-9a-f-]{36}/spectrum1\.txt$`, resp.Body.Key)
				assert.Equal(t, "https://example.com/upload", resp.Body.UploadURL)
				assert.Equal(t, 900, resp.Body.ExpiresIn) // 15 minutes in seconds
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestCreateCorrection(t *testing.T) {
	correction := curve.MustNew([]models.FrequencyPoint{
		{Frequency: 50, Gain: -4},
		{Frequency: 14000, Gain: 0},
	})

	tests := []struct {
		name       string
		outcome    *processing.Outcome
		runErr     error
		wantStatus int
	}{
		{
			name: "success",
			outcome: &processing.Outcome{
				Run:    &models.CorrectionRun{ID: uuid.New().String(), Status: models.StatusCompleted, PointCount: 2},
				Result: &curve.Result{Correction: correction},
			},
		},
		{
			name:       "missing key",
			runErr:     &spectrum.FileNotFoundError{Path: "nope.txt", Err: storage.ErrNotFound},
			wantStatus: 404,
		},
		{
			name:       "malformed export",
			runErr:     &spectrum.ParseError{File: "target.txt", Line: 3, Field: "frequency", Err: errors.New("bad")},
			wantStatus: 422,
		},
		{
			name:       "empty export",
			runErr:     fmt.Errorf("target.txt: %w", curve.ErrEmptyInput),
			wantStatus: 422,
		},
		{
			name:       "unsorted export",
			runErr:     fmt.Errorf("target.txt: %w", curve.ErrNotAscending),
			wantStatus: 422,
		},
		{
			name:       "internal failure",
			runErr:     assert.AnError,
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := &MockCorrectionService{}
			mockSvc.On("Run", mock.Anything, processing.Request{
				MeasurementKeys: []string{"spectrum1.txt", "spectrum2.txt"},
				TargetKey:       "target.txt",
				OutputKey:       "autoeq.csv",
			}).Return(tt.outcome, tt.runErr)

			handler := NewCorrectionHandler(nil, &MockStore{}, mockSvc)

			req := &models.CreateCorrectionRequest{}
			req.Body.MeasurementKeys = []string{"spectrum1.txt", "spectrum2.txt"}
			req.Body.TargetKey = "target.txt"
			req.Body.OutputKey = "autoeq.csv"

			resp, err := handler.CreateCorrection(context.Background(), req)

			if tt.wantStatus != 0 {
				assert.Nil(t, resp)
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.outcome.Run, resp.Body.Run)
				assert.Equal(t, correction.Points(), resp.Body.Points)
			}

			mockSvc.AssertExpectations(t)
		})
	}
}

func TestHistoryWithoutDatabase(t *testing.T) {
	handler := NewCorrectionHandler(nil, &MockStore{}, &MockCorrectionService{})
	ctx := context.Background()
	req := &models.GetCorrectionRequest{ID: uuid.New().String()}

	_, err := handler.ListCorrections(ctx, &models.ListCorrectionsRequest{Limit: 20})
	assert.Equal(t, 503, statusOf(t, err))

	_, err = handler.GetCorrection(ctx, req)
	assert.Equal(t, 503, statusOf(t, err))

	_, err = handler.GetCorrectionCurve(ctx, req)
	assert.Equal(t, 503, statusOf(t, err))

	_, err = handler.ExportCorrection(ctx, req)
	assert.Equal(t, 503, statusOf(t, err))
}

func TestListCorrections(t *testing.T) {
	runs := []*models.CorrectionRun{
		{ID: uuid.New().String(), Status: models.StatusCompleted},
		{ID: uuid.New().String(), Status: models.StatusFailed},
	}

	mockRepo := &MockCorrectionRepository{}
	mockRepo.On("List", mock.Anything, 20).Return(runs, nil)

	handler := NewCorrectionHandler(mockRepo, &MockStore{}, &MockCorrectionService{})
	resp, err := handler.ListCorrections(context.Background(), &models.ListCorrectionsRequest{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, runs, resp.Body.Runs)

	mockRepo.AssertExpectations(t)
}

func TestGetCorrection(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		id         string
		mockSetup  func(*MockCorrectionRepository)
		wantStatus int
	}{
		{
			name: "found",
			id:   id.String(),
			mockSetup: func(m *MockCorrectionRepository) {
				m.On("GetByID", mock.Anything, id).Return(&models.CorrectionRun{ID: id.String(), Status: models.StatusCompleted}, nil)
			},
		},
		{
			name:       "invalid id",
			id:         "not-a-uuid",
			mockSetup:  func(m *MockCorrectionRepository) {},
			wantStatus: 400,
		},
		{
			name: "not found",
			id:   id.String(),
			mockSetup: func(m *MockCorrectionRepository) {
				m.On("GetByID", mock.Anything, id).Return((*models.CorrectionRun)(nil), fmt.Errorf("run: %w", repository.ErrNotFound))
			},
			wantStatus: 404,
		},
		{
			name: "database failure",
			id:   id.String(),
			mockSetup: func(m *MockCorrectionRepository) {
				m.On("GetByID", mock.Anything, id).Return((*models.CorrectionRun)(nil), assert.AnError)
			},
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockCorrectionRepository{}
			tt.mockSetup(mockRepo)

			handler := NewCorrectionHandler(mockRepo, &MockStore{}, &MockCorrectionService{})
			resp, err := handler.GetCorrection(context.Background(), &models.GetCorrectionRequest{ID: tt.id})

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, id.String(), resp.Body.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetCorrectionCurve(t *testing.T) {
	id := uuid.New()
	points := []models.FrequencyPoint{
		{Frequency: 50, Gain: -3.25},
		{Frequency: 1000, Gain: -1.5},
		{Frequency: 14000, Gain: 0},
	}

	mockRepo := &MockCorrectionRepository{}
	mockRepo.On("GetByID", mock.Anything, id).Return(&models.CorrectionRun{ID: id.String(), Status: models.StatusCompleted}, nil)
	mockRepo.On("GetCurve", mock.Anything, id).Return(&models.CorrectionCurve{RunID: id.String(), Points: points}, nil)

	handler := NewCorrectionHandler(mockRepo, &MockStore{}, &MockCorrectionService{})

	resp, err := handler.GetCorrectionCurve(context.Background(), &models.GetCorrectionRequest{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, id.String(), resp.Body.RunID)
	assert.Equal(t, points, resp.Body.Points)

	export, err := handler.ExportCorrection(context.Background(), &models.GetCorrectionRequest{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, spectrum.ContentType, export.ContentType)
	assert.Contains(t, export.ContentDisposition, "autoeq.csv")
	assert.Equal(t, "50.000\t-3.250\n1000.000\t-1.500\n14000.000\t0.000\n", string(export.Body))

	mockRepo.AssertExpectations(t)
}

func TestGetCorrectionCurve_NotCompleted(t *testing.T) {
	id := uuid.New()

	mockRepo := &MockCorrectionRepository{}
	mockRepo.On("GetByID", mock.Anything, id).Return(&models.CorrectionRun{ID: id.String(), Status: models.StatusFailed}, nil)

	handler := NewCorrectionHandler(mockRepo, &MockStore{}, &MockCorrectionService{})

	_, err := handler.GetCorrectionCurve(context.Background(), &models.GetCorrectionRequest{ID: id.String()})
	assert.Equal(t, 409, statusOf(t, err))

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "GetCurve", mock.Anything, mock.Anything)
}
