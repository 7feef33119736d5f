package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"picfolio/internal/album"
	"picfolio/internal/auth"
	"picfolio/internal/config"
	"picfolio/internal/eventlog"
	"picfolio/internal/guess"
	"picfolio/internal/logger"
	"picfolio/internal/metrics"
	"picfolio/internal/rps"
	"picfolio/internal/session"
	"picfolio/middleware"
	"picfolio/models"
)

//go:embed templates
var templateFS embed.FS

const (
	recentEventsLimit = 10
	resultTokenTTL    = 10 * time.Minute
)

type WebHandler struct {
	authService     *auth.AuthService
	albums          album.Store
	eventLogService *eventlog.EventLogService
	sessions        *session.Manager
	metrics         *metrics.Metrics
	tokens          *auth.TokenSigner
	guess           *guess.Engine
	rps             *rps.Game
	validate        *validator.Validate
	middleware      *middleware.Middleware
	templates       map[string]*template.Template
	config          *config.Config
	now             func() time.Time
}

type PageData struct {
	Page        string
	Username    string
	CurrentYear int
	Flashes     []session.Flash

	Albums    []models.Album
	Album     *models.Album
	EventLogs []*models.EventLog

	Choices []rps.Choice
	Round   *rps.Round

	Wordle *WordleView
	Result string
}

// WordleView is the word game as shown on its page.
type WordleView struct {
	Feedback     []guess.LetterFeedback
	Result       string
	Attempts     []string
	AttemptsLeft int
	MaxAttempts  int
}

func NewWebHandler(
	authService *auth.AuthService,
	albums album.Store,
	eventLogService *eventlog.EventLogService,
	sessions *session.Manager,
	m *metrics.Metrics,
	cfg *config.Config,
) (*WebHandler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &WebHandler{
		authService:     authService,
		albums:          albums,
		eventLogService: eventLogService,
		sessions:        sessions,
		metrics:         m,
		tokens:          auth.NewTokenSigner(cfg.SessionSecret, resultTokenTTL),
		guess:           guess.NewEngine(cfg.WordList, cfg.MaxAttempts),
		rps:             rps.NewGame(),
		validate:        validator.New(),
		middleware:      middleware.NewMiddleware(sessions),
		templates:       templates,
		config:          cfg,
		now:             time.Now,
	}, nil
}

// WithPicker fixes the random choices of both games, for tests.
func (h *WebHandler) WithPicker(pick func(n int) int) *WebHandler {
	h.guess.WithPicker(pick)
	h.rps.WithPicker(pick)
	return h
}

var templateFuncs = template.FuncMap{
	"uploadURL": func(p string) string {
		return "/uploads/" + p
	},
	"formatTime": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return "Never"
		}
		return t.Format("2006-01-02 15:04:05")
	},
}

// parseTemplates builds one template set per page, each sharing the layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob page templates: %w", err)
	}
	if len(pages) == 0 {
		return nil, errors.New("no page templates found")
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := path.Base(page)
		name = name[:len(name)-len(path.Ext(name))]
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// render fills the common page fields, saves the session (consuming any
// flashes) and writes the page.
func (h *WebHandler) render(w http.ResponseWriter, r *http.Request, page string, data *PageData) {
	h.renderStatus(w, r, http.StatusOK, page, data)
}

func (h *WebHandler) renderStatus(w http.ResponseWriter, r *http.Request, status int, page string, data *PageData) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.serverError(w, r, fmt.Errorf("unknown template %q", page))
		return
	}

	s := h.sessions.Get(r)
	data.Page = page
	data.Username = s.Username()
	data.CurrentYear = h.now().Year()
	data.Flashes = s.Flashes()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.serverError(w, r, fmt.Errorf("executing template %s: %w", page, err))
		return
	}
	if err := s.Save(w, r); err != nil {
		h.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Debug("client went away while rendering", zap.String("page", page), zap.Error(err))
	}
}

// redirectWithFlash queues a flash message and redirects with 303.
func (h *WebHandler) redirectWithFlash(w http.ResponseWriter, r *http.Request, s *session.Session, category, message, location string) {
	s.AddFlash(category, message)
	h.redirect(w, r, s, location)
}

func (h *WebHandler) redirect(w http.ResponseWriter, r *http.Request, s *session.Session, location string) {
	if err := s.Save(w, r); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (h *WebHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Page Handlers
func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albums.ListAlbums(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "index", &PageData{Albums: albums})
}

func (h *WebHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "about", &PageData{})
}

func (h *WebHandler) Games(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "games", &PageData{})
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusNotFound, "not_found", &PageData{})
}
