package handler

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extractkit/invoice-extraction-service/internal/repository"
	"github.com/extractkit/invoice-extraction-service/internal/service"
)

// ExtractionHandler handles HTTP requests for invoice extraction
type ExtractionHandler struct {
	extractor   service.FileExtractor
	repository  repository.ExtractionRepository
	uploadDir   string
	maxFileSize int64
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(extractor service.FileExtractor, uploadDir string, maxFileSize int64) *ExtractionHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024 // 10MB default
	}
	return &ExtractionHandler{
		extractor:   extractor,
		uploadDir:   uploadDir,
		maxFileSize: maxFileSize,
	}
}

// SetRepository enables the stored-extraction endpoints
func (h *ExtractionHandler) SetRepository(repo repository.ExtractionRepository) {
	h.repository = repo
}

// RegisterRoutes registers the handler's routes with the given router
func (h *ExtractionHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/upload", h.Upload)
	router.GET("/api/extractions", h.ListExtractions)
	router.GET("/api/extractions/:id", h.GetExtraction)
}

// Upload handles a request to extract invoice data from an uploaded file
// @Summary Extract invoice data from a file
// @Description Upload a spreadsheet, PDF or image and extract normalized invoices, products and customers
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice file (.xlsx, .xls, .pdf, .png, .jpg, .jpeg)"
// @Success 200 {object} model.ExtractionResponse "Extraction outcome, successful or not"
// @Failure 400 {object} model.ErrorResponse "Unsupported file type or malformed upload"
// @Failure 500 {object} model.ErrorResponse "Upload could not be stored"
// @Router /api/upload [post]
func (h *ExtractionHandler) Upload(c *gin.Context) {
	// Parse multipart form data
	if err := c.Request.ParseMultipartForm(h.maxFileSize); err != nil {
		respondBadRequest(c, "Failed to parse form data: "+err.Error())
		return
	}

	// Get the file from the form
	file, header, err := getFormFile(c, "file")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	defer file.Close()

	// Check file size
	if header.Size > h.maxFileSize {
		respondBadRequest(c, "File size exceeds limit")
		return
	}

	// Reject unsupported types before touching disk
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !service.IsSupported(ext) {
		respondBadRequest(c, fmt.Sprintf("Unsupported file type: %s. Supported types: .xlsx, .xls, .pdf, .png, .jpg, .jpeg", ext))
		return
	}

	// Save the upload to a temporary working file
	path, err := h.saveUpload(c, header, ext)
	if err != nil {
		respondInternalServerError(c, "Failed to store upload: "+err.Error())
		return
	}
	defer os.Remove(path)

	// Extraction failures are reported inside the envelope, not as HTTP errors
	log.Printf("Processing upload: %s (%d bytes)", header.Filename, header.Size)
	response := h.extractor.ProcessFile(c.Request.Context(), path, ext)

	respondOK(c, response)
}

// saveUpload writes the uploaded file into the upload directory under a
// collision-free name and returns its path.
func (h *ExtractionHandler) saveUpload(c *gin.Context, header *multipart.FileHeader, ext string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), sanitizeBaseName(header.Filename), ext)
	path := filepath.Join(h.uploadDir, name)

	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", err
	}
	return path, nil
}

// ListExtractions handles a request to list stored extraction runs
// @Summary List stored extractions
// @Description List previously stored extraction runs, newest first
// @Tags extractions
// @Produce json
// @Param limit query int false "Maximum rows to return" default(20)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} repository.ExtractionRecord
// @Failure 503 {object} model.ErrorResponse "Persistence is not configured"
// @Router /api/extractions [get]
func (h *ExtractionHandler) ListExtractions(c *gin.Context) {
	if h.repository == nil {
		respondServiceUnavailable(c, "Persistence is not configured")
		return
	}

	limit, err := getQueryInt(c, "limit", 20)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	offset, err := getQueryInt(c, "offset", 0)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	records, err := h.repository.ListExtractions(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalServerError(c, "Failed to list extractions: "+err.Error())
		return
	}

	respondOK(c, records)
}

// GetExtraction handles a request for one stored extraction run
// @Summary Get a stored extraction
// @Description Retrieve one stored extraction run with its full result
// @Tags extractions
// @Produce json
// @Param id path int true "Extraction ID"
// @Success 200 {object} repository.ExtractionRecord
// @Failure 404 {object} model.ErrorResponse "Extraction not found"
// @Failure 503 {object} model.ErrorResponse "Persistence is not configured"
// @Router /api/extractions/{id} [get]
func (h *ExtractionHandler) GetExtraction(c *gin.Context) {
	if h.repository == nil {
		respondServiceUnavailable(c, "Persistence is not configured")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid id: must be an integer")
		return
	}

	record, err := h.repository.GetExtractionByID(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondNotFound(c, err.Error())
			return
		}
		respondInternalServerError(c, "Failed to get extraction: "+err.Error())
		return
	}

	respondOK(c, record)
}
