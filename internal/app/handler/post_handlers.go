package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/models"
)

const (
	createTimeout = 10 * time.Second
	// multipartOverhead leaves room for the form fields around the file.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

type PostHandler struct {
	baseURL   string
	maxUpload int64
	links     service.LinkServiceIface
	logger    *zap.Logger
}

// NewPost creates the handler of the link creation endpoints. maxUpload is
// the largest accepted file in bytes.
func NewPost(baseURL string, maxUpload int64, s service.LinkServiceIface, l *zap.Logger) *PostHandler {
	return &PostHandler{
		baseURL:   baseURL,
		maxUpload: maxUpload,
		links:     s,
		logger:    l,
	}
}

// Shorten handles POST /shorten.
func (h *PostHandler) Shorten(res http.ResponseWriter, req *http.Request) {
	var request models.ShortenRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), createTimeout)
	defer cancel()

	sl, created, err := h.links.Shorten(ctx, request.URL, owner(req, request.BucketID))
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, createdStatus(created), models.NewShortLink(sl, h.baseURL))
}

// Paste handles POST /paste.
func (h *PostHandler) Paste(res http.ResponseWriter, req *http.Request) {
	var request models.PasteRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), createTimeout)
	defer cancel()

	sl, created, err := h.links.Paste(ctx, request.Code, request.Language, owner(req, request.BucketID))
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, createdStatus(created), models.NewShortLink(sl, h.baseURL))
}

// Upload handles POST /upload with a multipart "file" field and an
// optional "bucket_id" field.
func (h *PostHandler) Upload(res http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(res, req.Body, h.maxUpload+multipartOverhead)

	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		if isMaxBytesError(err) {
			writeJSON(res, http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Errors: []string{"Uploaded file is too large (the limit is " + humanize.Bytes(uint64(h.maxUpload)) + ")"},
			})
			return
		}
		writeJSON(res, http.StatusBadRequest, models.ErrorResponse{Errors: []string{"Request body must be multipart/form-data"}})
		return
	}
	defer func() {
		if err := req.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("failed to remove multipart files", zap.Error(err))
		}
	}()

	file, header, err := req.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		writeJSON(res, http.StatusBadRequest, models.ErrorResponse{Errors: []string{"A file is required"}})
		return
	}
	if err != nil {
		writeError(res, err, h.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	var bucketID *int64
	if raw := strings.TrimSpace(req.FormValue("bucket_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(res, http.StatusBadRequest, models.ErrorResponse{Errors: []string{"bucket_id must be an integer"}})
			return
		}
		bucketID = &id
	}

	ctx, cancel := context.WithTimeout(req.Context(), createTimeout)
	defer cancel()

	sl, created, err := h.links.Upload(ctx, service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, owner(req, bucketID))
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, createdStatus(created), models.NewShortLink(sl, h.baseURL))
}
