package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/auth"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/service"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService *service.FileService
	maxUploadMB int64
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, maxUploadMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// @Summary Upload file to work order
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param file formData file true "File to upload"
// @Param fileType formData string false "File classification" Enums(logo, design, document, other)
// @Success 201 {object} domain.WorkOrderFileDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 413 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	fileType := domain.WorkOrderFileType(r.FormValue("fileType"))

	var uploadedBy string
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		uploadedBy = userCtx.DisplayName
	}

	fileDTO, err := h.fileService.Upload(r.Context(), workOrderID, header.Filename, header.Header.Get("Content-Type"), fileType, uploadedBy, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkOrderNotFound):
			respondWithError(w, http.StatusNotFound, "Work order not found")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to upload file", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to upload file")
		}
		return
	}

	respondJSON(w, http.StatusCreated, fileDTO)
}

// @Summary List work order files
// @Tags Files
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {array} domain.WorkOrderFileDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/files [get]
func (h *FileHandler) ListByWorkOrder(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	files, err := h.fileService.ListByWorkOrder(r.Context(), workOrderID)
	if err != nil {
		if errors.Is(err, service.ErrWorkOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Work order not found")
			return
		}
		h.logger.Error("failed to list files", zap.Error(err), zap.String("work_order_id", workOrderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// @Summary Download file
// @Tags Files
// @Produce application/octet-stream
// @Param id path string true "File ID" format(uuid)
// @Success 200
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID: must be a valid UUID")
		return
	}

	file, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			respondWithError(w, http.StatusNotFound, "File not found")
			return
		}
		h.logger.Error("failed to download file", zap.Error(err), zap.String("file_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to download file")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+file.FileName+"\"")
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	_, _ = io.Copy(w, reader)
}

// @Summary Delete file
// @Tags Files
// @Produce json
// @Param id path string true "File ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID: must be a valid UUID")
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			respondWithError(w, http.StatusNotFound, "File not found")
			return
		}
		h.logger.Error("failed to delete file", zap.Error(err), zap.String("file_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
