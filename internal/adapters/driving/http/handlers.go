package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driving"
	"github.com/foliodocs/folio-core/internal/validation"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// ValidationErrorResponse carries field-scoped validation failures
// @Description Validation error response
type ValidationErrorResponse struct {
	Errors []*validation.FieldError `json:"errors"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// CreateDocumentRequest is the upload submission body
// @Description Document creation request
type CreateDocumentRequest struct {
	Name         string             `json:"name" example:"quarterly-report.pdf"`
	Key          string             `json:"key" example:"team_123/doc_abc/quarterly-report.pdf"`
	StorageType  domain.StorageType `json:"storageType" example:"PATH"`
	ContentType  string             `json:"contentType,omitempty" example:"application/pdf"`
	Type         domain.DocumentType `json:"type,omitempty" example:"pdf"`
	FileSize     int64              `json:"fileSize,omitempty" example:"102400"`
	NumPages     int                `json:"numPages,omitempty" example:"12"`
	AdvancedMode bool               `json:"advancedMode,omitempty"`

	FolderPathName   string `json:"folderPathName,omitempty" example:"reports/2026"`
	CreateLink       bool   `json:"createLink,omitempty"`
	LinkPassword     string `json:"linkPassword,omitempty"`
	IsExternalUpload bool   `json:"isExternalUpload,omitempty"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and queue connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backing service is unavailable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "queue unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Document endpoints

// handleCreateDocument godoc
// @Summary      Create a document
// @Description  Validates an uploaded file reference, commits it as a versioned document and dispatches conversion jobs
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateDocumentRequest  true  "Upload payload"
// @Success      201      {object}  domain.Document
// @Failure      400      {object}  ValidationErrorResponse  "Schema validation failed"
// @Failure      401      {object}  ErrorResponse            "Unauthorized"
// @Failure      422      {object}  ErrorResponse            "Blocking gate rejected the upload"
// @Failure      500      {object}  ErrorResponse            "Commit failed"
// @Router       /documents [post]
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := domain.DocumentPayload{
		Name:         req.Name,
		Key:          req.Key,
		StorageType:  req.StorageType,
		ContentType:  req.ContentType,
		Type:         req.Type,
		FileSize:     req.FileSize,
		NumPages:     req.NumPages,
		AdvancedMode: req.AdvancedMode,
	}

	if fieldErrs := validation.ValidatePayload(&payload); len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: fieldErrs})
		return
	}

	doc, err := s.ingestionService.CreateDocument(r.Context(), driving.CreateDocumentRequest{
		Payload:          payload,
		TeamID:           claims.TeamID,
		TeamPlan:         claims.TeamPlan,
		UserID:           claims.UserID,
		FolderPathName:   req.FolderPathName,
		CreateLink:       req.CreateLink,
		LinkPassword:     req.LinkPassword,
		IsExternalUpload: req.IsExternalUpload,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPageNotPublic):
			writeError(w, http.StatusUnprocessableEntity, "notion page is not publicly available")
		case errors.Is(err, domain.ErrLinkBlocked):
			writeError(w, http.StatusUnprocessableEntity, "link target is not allowed")
		case errors.Is(err, domain.ErrInvalidURL):
			writeError(w, http.StatusUnprocessableEntity, "invalid url")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create document")
		}
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// Progress endpoint

// handleGetProgress godoc
// @Summary      Get conversion progress
// @Description  Returns the conversion progress for a document version. Always succeeds for a valid request; backend faults map to a synthetic low-progress payload.
// @Tags         Progress
// @Produce      json
// @Security     BearerAuth
// @Param        documentVersionId  query     string  true  "Document version id"
// @Success      200  {object}  domain.ConversionProgress
// @Failure      400  {object}  ErrorResponse  "Missing documentVersionId"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /progress [get]
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	versionID := r.URL.Query().Get("documentVersionId")
	if versionID == "" {
		writeError(w, http.StatusBadRequest, "documentVersionId is required")
		return
	}

	progress := s.progressService.GetProgress(r.Context(), versionID)
	writeJSON(w, http.StatusOK, progress)
}

// Response helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
