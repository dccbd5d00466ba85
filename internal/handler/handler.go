// Package handler contains the HTTP handlers for the record service.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"recordbook/internal/apperror"
	"recordbook/internal/blob"
	"recordbook/internal/export"
	"recordbook/internal/filter"
	"recordbook/internal/form"
	"recordbook/internal/live"
	"recordbook/internal/model"
	"recordbook/internal/store"
	"recordbook/internal/view"
)

const (
	pictureField    = "profilePicture"
	successMessage  = "record added successfully"
	defaultPageSize = 10
)

// Options tune listing, export, and upload behaviour.
type Options struct {
	PageSize       int
	Location       *time.Location
	ExportFileName string
	MaxUploadBytes int64
}

// Handler wraps HTTP handlers with the record store and its collaborators.
type Handler struct {
	log      *zap.Logger
	store    *store.Store
	blobs    *blob.Registry
	sessions *form.Sessions
	newForm  func() *form.Form
	hub      *live.Hub
	upgrader websocket.Upgrader
	opts     Options
}

// New creates a new Handler instance.
func New(log *zap.Logger, s *store.Store, blobs *blob.Registry, newForm func() *form.Form, sessions *form.Sessions, hub *live.Hub, opts Options) *Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ExportFileName == "" {
		opts.ExportFileName = "filtered-records"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		log:      log,
		store:    s,
		blobs:    blobs,
		sessions: sessions,
		newForm:  newForm,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		opts: opts,
	}
}

// Routes mounts every endpoint on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", h.Healthz)
	r.Route("/records", func(r chi.Router) {
		r.Get("/", h.ListRecords)
		r.Post("/", h.CreateRecord)
		r.Get("/export", h.ExportRecords)
	})
	r.Get("/pictures/{handle}", h.GetPicture)
	r.Route("/forms", func(r chi.Router) {
		r.Post("/", h.OpenForm)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/picture", h.SelectPicture)
			r.Get("/preview", h.Preview)
			r.Post("/submit", h.SubmitForm)
			r.Delete("/", h.CloseForm)
		})
	})
	r.Get("/ws", h.Live)
	return r
}

// Healthz is a simple health check endpoint.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// CreateRecord accepts a complete multipart submission in one request.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		h.log.Error("failed to parse multipart form", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": apperror.InvalidPayload()})
		return
	}

	f := h.newForm()
	defer f.Close()

	if ok := h.readPicture(w, r, f, false); !ok {
		return
	}
	h.submit(w, r, f)
}

// ListRecords returns one page of the records matching the query criteria.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteria(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	index := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		index, err = strconv.Atoi(raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page"})
			return
		}
	}

	all := h.store.All()
	page := view.Paginate(filter.Apply(all, c, h.opts.Location), len(all), h.opts.PageSize, index)
	h.writeJSON(w, http.StatusOK, page.Body())
}

// ExportRecords downloads the records matching the query criteria as xlsx.
func (h *Handler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteria(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	rows := filter.Apply(h.store.All(), c, h.opts.Location)

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(h.opts.ExportFileName)+`"`)
	if err := export.Write(w, rows); err != nil {
		h.log.Error("export failed", zap.Error(err))
		return
	}
	h.log.Info("records exported", zap.Int("rows", len(rows)))
}

// GetPicture serves the bytes behind a picture handle.
func (h *Handler) GetPicture(w http.ResponseWriter, r *http.Request) {
	b, err := h.blobs.Get(blob.Handle(chi.URLParam(r, "handle")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", b.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Data)
}

// OpenForm starts a form session.
func (h *Handler) OpenForm(w http.ResponseWriter, _ *http.Request) {
	id, _ := h.sessions.Open()
	h.log.Debug("form opened", zap.String("form", id))
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// SelectPicture uploads the profile picture of a form session.
func (h *Handler) SelectPicture(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		h.log.Error("failed to parse multipart form", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": apperror.InvalidPayload()})
		return
	}
	if ok := h.readPicture(w, r, f, true); !ok {
		return
	}
	h.Preview(w, r)
}

// Preview reports the current preview of a form session.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}
	var preview *string
	if handle, ok := f.Preview(); ok {
		u := model.PictureURL(handle)
		preview = &u
	}
	h.writeJSON(w, http.StatusOK, map[string]*string{"preview": preview})
}

// SubmitForm submits the text fields of a form session.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.log.Error("failed to parse form", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": apperror.InvalidPayload()})
		return
	}
	h.submit(w, r, f)
}

// CloseForm tears a form session down.
func (h *Handler) CloseForm(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Live upgrades to a websocket streaming the filtered table.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Serve(conn, view.NewTable(h.store, h.opts.PageSize, h.opts.Location), h.opts.Location)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, f *form.Form) {
	rec, err := f.Submit(form.Fields{
		FullName:    r.FormValue("fullName"),
		Amount:      r.FormValue("amount"),
		PhoneNumber: r.FormValue("phoneNumber"),
	})
	if err != nil {
		if apperror.IsValidation(err) {
			h.log.Warn("validation failed", zap.Error(err))
			h.writeJSON(w, http.StatusBadRequest, apperror.CustomValidationError(err))
			return
		}
		h.writeError(w, err)
		return
	}

	h.log.Info("record added",
		zap.String("fullName", rec.FullName),
		zap.Int("records", h.store.Len()))
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "Ok",
		"message": successMessage,
		"record":  rec.View(),
	})
}

// readPicture loads the uploaded picture into f. A missing file is an error
// only when required; otherwise validation reports it.
func (h *Handler) readPicture(w http.ResponseWriter, r *http.Request, f *form.Form, required bool) bool {
	file, header, err := r.FormFile(pictureField)
	if errors.Is(err, http.ErrMissingFile) && !required {
		return true
	}
	if err != nil {
		h.log.Error("failed to read picture", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": apperror.InvalidPayload()})
		return false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error("failed to read picture", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": apperror.InvalidPayload()})
		return false
	}
	if err := f.SelectPicture(header.Header.Get("Content-Type"), data); err != nil {
		h.log.Warn("picture rejected", zap.String("type", header.Header.Get("Content-Type")), zap.Error(err))
		h.writeError(w, err)
		return false
	}
	return true
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request) (*form.Form, bool) {
	f, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return f, true
}

func (h *Handler) criteria(r *http.Request) (filter.Criteria, error) {
	q := r.URL.Query()
	return filter.ParseCriteria(q.Get("q"), q.Get("start"), q.Get("end"), h.opts.Location)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := apperror.Status(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, map[string]string{"error": apperror.Message(err)})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("unable to write response stream", zap.Error(err))
	}
}
