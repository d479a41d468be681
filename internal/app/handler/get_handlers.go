package handler

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/models"
)

// Version is reported by GET /info.
const Version = "1.2.0"

const readTimeout = 3 * time.Second

// Instance describes the deployment in GET /info.
type Instance struct {
	// BaseURL is where short links are served.
	BaseURL string
	// AppURL is the web app that renders pastes and uploads.
	AppURL string
	Admin  string
}

type GetHandler struct {
	instance  Instance
	links     service.LinkServiceIface
	languages []service.Language
	logger    *zap.Logger
}

func NewGet(instance Instance, s service.LinkServiceIface, languages []service.Language, l *zap.Logger) *GetHandler {
	return &GetHandler{
		instance:  instance,
		links:     s,
		languages: languages,
		logger:    l,
	}
}

// WebApp redirects GET / to the web app.
func (h *GetHandler) WebApp(res http.ResponseWriter, req *http.Request) {
	http.Redirect(res, req, h.instance.AppURL, http.StatusPermanentRedirect)
}

// Redirect handles GET /{link}. URL links go straight to the target, every
// other kind to its page in the web app.
func (h *GetHandler) Redirect(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	link := chi.URLParam(req, "link")

	sl, err := h.links.Resolve(ctx, link)
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	target := strings.TrimRight(h.instance.AppURL, "/") + "/link/" + url.PathEscape(sl.Link)
	if sl.URL != nil {
		target = sl.URL.URL
	}

	http.Redirect(res, req, target, http.StatusPermanentRedirect)
}

// LinkInfo handles GET /info/{link}.
func (h *GetHandler) LinkInfo(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	sl, err := h.links.Resolve(ctx, chi.URLParam(req, "link"))
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, models.NewShortLink(sl, h.instance.BaseURL))
}

// Download handles GET /dl/{link} and streams the uploaded file.
func (h *GetHandler) Download(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	sl, file, err := h.links.Open(ctx, chi.URLParam(req, "link"))
	if err != nil {
		writeError(res, err, h.logger)
		return
	}
	defer file.Close()

	res.Header().Set("Content-Type", sl.Upload.Mimetype)
	res.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": sl.Upload.OriginalFilename,
	}))

	http.ServeContent(res, req, "", sl.UpdatedAt, file)
}

// InstanceInfo handles GET /info.
func (h *GetHandler) InstanceInfo(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	stats, err := h.links.Stats(ctx)
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, models.InstanceInfo{
		URL:     h.instance.BaseURL,
		Admin:   h.instance.Admin,
		Version: Version,
		Stats:   models.NewStats(stats),
	})
}

// Languages handles GET /languages.
func (h *GetHandler) Languages(res http.ResponseWriter, _ *http.Request) {
	writeJSON(res, http.StatusOK, h.languages)
}

func (h *GetHandler) PingDB(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	if err := h.links.PingContext(ctx); err != nil {
		h.logger.Error("storage ping failed", zap.Error(err))
		writeJSON(res, http.StatusInternalServerError, models.ErrorResponse{Errors: []string{"Storage is unavailable"}})
		return
	}

	res.WriteHeader(http.StatusOK)
}

// UserLinks handles GET /users/me/links.
func (h *GetHandler) UserLinks(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	user := middleware.UserFrom(req.Context())

	links, err := h.links.UserLinks(ctx, user.ID)
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, models.NewShortLinks(links, h.instance.BaseURL))
}
