package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"picfolio/internal/album"
	"picfolio/internal/logger"
	"picfolio/internal/session"
	"picfolio/internal/thumbnail"
	"picfolio/models"
)

func (h *WebHandler) AlbumView(w http.ResponseWriter, r *http.Request) {
	a, err := h.albums.GetAlbum(r.Context(), mux.Vars(r)["category"])
	if errors.Is(err, album.ErrNotFound) || errors.Is(err, album.ErrInvalidName) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "album", &PageData{Album: a})
}

func (h *WebHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		events, err := h.eventLogService.GetAll(r.Context(), recentEventsLimit)
		if err != nil {
			logger.Warn("failed to load recent events", zap.Error(err))
		}
		h.render(w, r, "upload", &PageData{EventLogs: events})
		return
	}

	s := h.sessions.Get(r)
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.RecordUpload("rejected")
			h.redirectWithFlash(w, r, s, session.FlashDanger, "File is too large", "/upload")
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			h.serverError(w, r, err)
			return
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	form := parseUpload(r)
	if err := h.validate.Struct(form); err != nil {
		h.metrics.RecordUpload("rejected")
		h.redirectWithFlash(w, r, s, session.FlashDanger, validationMessage(err), "/upload")
		return
	}

	req := album.UploadRequest{Category: form.Category, Name: form.Name}
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		req.Filename = header.Filename
		req.Content = file
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		h.serverError(w, r, err)
		return
	}

	img, err := h.albums.Upload(r.Context(), req)
	if err != nil {
		if msg, ok := uploadErrorMessage(err); ok {
			h.metrics.RecordUpload("rejected")
			h.redirectWithFlash(w, r, s, session.FlashDanger, msg, "/upload")
			return
		}
		h.metrics.RecordUpload("error")
		h.serverError(w, r, err)
		return
	}

	h.metrics.RecordUpload("success")
	h.eventLogService.Record(r.Context(), models.ImageUploaded, s.Username(), img.Album, img.Name)
	h.redirectWithFlash(w, r, s, session.FlashSuccess, "Image uploaded successfully", "/upload")
}

// uploadErrorMessage maps validation failures to flash text. Anything else
// is a server fault.
func uploadErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, album.ErrNoFile):
		return "No file selected", true
	case errors.Is(err, album.ErrInvalidExtension):
		return "File type not allowed", true
	case errors.Is(err, album.ErrInvalidName):
		return "Invalid album or image name", true
	case errors.Is(err, thumbnail.ErrTooLarge):
		return "Image dimensions are too large", true
	}
	return "", false
}

func (h *WebHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	category := mux.Vars(r)["category"]

	err := h.albums.DeleteAlbum(r.Context(), category)
	if errors.Is(err, album.ErrNotFound) || errors.Is(err, album.ErrInvalidName) {
		h.redirectWithFlash(w, r, s, session.FlashDanger, fmt.Sprintf("Album %q not found", category), "/")
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.metrics.RecordDeletion("album")
	h.eventLogService.Record(r.Context(), models.AlbumDeleted, s.Username(), category, "")
	h.redirectWithFlash(w, r, s, session.FlashSuccess, fmt.Sprintf("Album %q deleted successfully", category), "/")
}

func (h *WebHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	vars := mux.Vars(r)
	category, image := vars["category"], vars["image"]

	err := h.albums.DeleteImage(r.Context(), category, image)
	if errors.Is(err, album.ErrNotFound) || errors.Is(err, album.ErrInvalidName) {
		h.redirectWithFlash(w, r, s, session.FlashDanger, fmt.Sprintf("Image %q not found", image), "/")
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.metrics.RecordDeletion("image")
	h.eventLogService.Record(r.Context(), models.ImageDeleted, s.Username(), category, image)
	h.redirectWithFlash(w, r, s, session.FlashSuccess, fmt.Sprintf("Image %q deleted successfully", image), "/")
}
