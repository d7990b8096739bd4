package models

import (
	"time"
)

// Correction run statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CorrectionRun represents one execution of the correction pipeline (for internal use)
type CorrectionRun struct {
	ID              string     `json:"id" doc:"Run unique identifier"`
	MeasurementKeys []string   `json:"measurement_keys" doc:"Storage keys of the measurement exports"`
	TargetKey       string     `json:"target_key" doc:"Storage key of the target export"`
	OutputKey       *string    `json:"output_key,omitempty" doc:"Storage key of the written equalizer file"`
	Status          string     `json:"status" enum:"pending,processing,completed,failed" doc:"Run status"`
	PointCount      int        `json:"point_count" doc:"Number of points in the correction curve"`
	PeakGain        *float64   `json:"peak_gain,omitempty" doc:"Peak removed during normalization in dB"`
	ErrorMsg        *string    `json:"error_message,omitempty" doc:"Failure reason"`
	CreatedAt       time.Time  `json:"created_at" doc:"Run creation timestamp"`
	UpdatedAt       time.Time  `json:"updated_at" doc:"Last status change"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" doc:"Completion timestamp"`
}

// CorrectionCurve represents the stored correction curve of a run
type CorrectionCurve struct {
	ID        string           `json:"id"`
	RunID     string           `json:"run_id"`
	Points    []FrequencyPoint `json:"points"`
	CreatedAt time.Time        `json:"created_at"`
}

// CreateCorrectionRequest represents a request to compute a correction curve
type CreateCorrectionRequest struct {
	Body struct {
		MeasurementKeys []string `json:"measurement_keys" minItems:"1" required:"true" doc:"Storage keys of the measurement spectrogram exports"`
		TargetKey       string   `json:"target_key" minLength:"1" required:"true" doc:"Storage key of the target spectrogram export"`
		OutputKey       string   `json:"output_key,omitempty" required:"false" doc:"Storage key for the equalizer file, skipped when empty"`
	}
}

// CreateCorrectionResponseBody is the body of the create correction response
type CreateCorrectionResponseBody struct {
	Run    *CorrectionRun   `json:"run" doc:"Recorded run"`
	Points []FrequencyPoint `json:"points" doc:"Normalized correction curve"`
}

// CreateCorrectionResponse represents the response from computing a correction
type CreateCorrectionResponse struct {
	Body CreateCorrectionResponseBody
}

// GetCorrectionRequest represents a request addressing a single run
type GetCorrectionRequest struct {
	ID string `path:"id" doc:"Run ID"`
}

// GetCorrectionResponse represents the metadata of a run
type GetCorrectionResponse struct {
	Body *CorrectionRun
}

// ListCorrectionsRequest represents a request to list recent runs
type ListCorrectionsRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum number of runs"`
}

// ListCorrectionsResponse represents a page of recent runs
type ListCorrectionsResponse struct {
	Body struct {
		Runs []*CorrectionRun `json:"runs" doc:"Runs, newest first"`
	}
}

// GetCorrectionCurveResponse represents the stored curve of a run
type GetCorrectionCurveResponse struct {
	Body struct {
		RunID  string           `json:"run_id" doc:"Run ID"`
		Points []FrequencyPoint `json:"points" doc:"Normalized correction curve"`
	}
}

// ExportCorrectionResponse carries the equalizer text export
type ExportCorrectionResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// GetGridResponse represents the analysis frequency grid
type GetGridResponse struct {
	Body struct {
		LowerHz     float64   `json:"lower_hz" doc:"Lower bound in Hz"`
		UpperHz     float64   `json:"upper_hz" doc:"Upper bound in Hz"`
		Frequencies []float64 `json:"frequencies" doc:"Ascending grid frequencies in Hz"`
	}
}

// CreateUploadRequest represents a request for a spectrogram upload URL
type CreateUploadRequest struct {
	Body struct {
		FileName    string `json:"file_name" minLength:"1" maxLength:"200" required:"true" doc:"Original file name of the export"`
		ContentType string `json:"content_type" enum:"text/plain,text/csv,text/tab-separated-values" required:"true" doc:"Export MIME type"`
	}
}

// CreateUploadResponse represents a pre-signed upload target
type CreateUploadResponse struct {
	Body struct {
		Key       string `json:"key" doc:"Storage key to reference in correction requests"`
		UploadURL string `json:"upload_url" doc:"Pre-signed URL for file upload"`
		ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}
