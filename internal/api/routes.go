package api

import (
	"net/http"

	"github.com/RMahshie/autoeq/internal/api/handlers"
	"github.com/RMahshie/autoeq/internal/processing"
	"github.com/RMahshie/autoeq/internal/repository"
	"github.com/RMahshie/autoeq/internal/storage"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes. correctionRepo may be nil, in which
// case the history endpoints answer 503.
func RegisterRoutes(api huma.API, store storage.Store, correctionRepo repository.CorrectionRepository, correctionSvc processing.CorrectionService) {
	// Initialize handlers
	correctionHandler := handlers.NewCorrectionHandler(correctionRepo, store, correctionSvc)

	huma.Register(api, huma.Operation{
		OperationID: "getGrid",
		Method:      http.MethodGet,
		Path:        "/api/grid",
		Summary:     "Get frequency grid",
		Description: "Returns the equal-loudness frequency grid correction curves are sampled on",
		Tags:        []string{"Grid"},
	}, correctionHandler.GetGrid)

	huma.Register(api, huma.Operation{
		OperationID: "createUpload",
		Method:      http.MethodPost,
		Path:        "/api/uploads",
		Summary:     "Create an upload URL",
		Description: "Returns a storage key and a pre-signed URL for uploading a spectrogram export",
		Tags:        []string{"Uploads"},
	}, correctionHandler.CreateUpload)

	// Register correction routes
	huma.Register(api, huma.Operation{
		OperationID:   "createCorrection",
		Method:        http.MethodPost,
		Path:          "/api/corrections",
		Summary:       "Compute a correction curve",
		Description:   "Averages the measurement exports, subtracts them from the target and returns the normalized correction",
		Tags:          []string{"Corrections"},
		DefaultStatus: http.StatusCreated,
	}, correctionHandler.CreateCorrection)

	huma.Register(api, huma.Operation{
		OperationID: "listCorrections",
		Method:      http.MethodGet,
		Path:        "/api/corrections",
		Summary:     "List corrections",
		Description: "Returns the most recent correction runs",
		Tags:        []string{"Corrections"},
	}, correctionHandler.ListCorrections)

	huma.Register(api, huma.Operation{
		OperationID: "getCorrection",
		Method:      http.MethodGet,
		Path:        "/api/corrections/{id}",
		Summary:     "Get correction",
		Description: "Returns the metadata of a correction run",
		Tags:        []string{"Corrections"},
	}, correctionHandler.GetCorrection)

	huma.Register(api, huma.Operation{
		OperationID: "getCorrectionCurve",
		Method:      http.MethodGet,
		Path:        "/api/corrections/{id}/curve",
		Summary:     "Get correction curve",
		Description: "Returns the normalized correction curve of a completed run",
		Tags:        []string{"Corrections"},
	}, correctionHandler.GetCorrectionCurve)

	huma.Register(api, huma.Operation{
		OperationID: "exportCorrection",
		Method:      http.MethodGet,
		Path:        "/api/corrections/{id}/export",
		Summary:     "Export correction curve",
		Description: "Returns the correction curve as tab-separated text for equalizer import",
		Tags:        []string{"Corrections"},
	}, correctionHandler.ExportCorrection)
}
