// Package web serves the upload form and labeling endpoints.
package web

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gelimage "gel-labeler/internal/image"
	"gel-labeler/internal/labeler"
	"gel-labeler/internal/samples"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var (
	errMissingImage = errors.New("an image file is required")
	errMissingSeed  = errors.New("first sample name is required")
	errBadRows      = errors.New("rows must be a whole number")
)

const defaultMaxUpload = 20 << 20

// Handler serves the labeling UI and API.
type Handler struct {
	labeler   *labeler.Labeler
	log       *slog.Logger
	maxUpload int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithMaxUpload limits request bodies to n bytes.
func WithMaxUpload(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// New returns the router for l.
func New(l *labeler.Labeler, opts ...Option) http.Handler {
	h := &Handler{
		labeler:   l,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxUpload: defaultMaxUpload,
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/healthz", h.healthz)
	r.Post("/label", h.labelPage)
	r.Route("/api", func(api chi.Router) {
		api.Post("/label", h.labelPNG)
		api.Post("/names", h.names)
	})
	return r
}

// requestLogger logs one line per request through slog.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type indexData struct {
	Error      string
	Seed       string
	Rows       int
	MaxRows    int
	RowChoices []int
}

func (h *Handler) indexData(seed string, rows int, err error) indexData {
	choices := make([]int, h.labeler.MaxRows())
	for i := range choices {
		choices[i] = i + 1
	}
	d := indexData{Seed: seed, Rows: rows, MaxRows: h.labeler.MaxRows(), RowChoices: choices}
	if err != nil {
		d.Error = err.Error()
	}
	return d
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index", h.indexData("", 1, nil))
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

type resultData struct {
	Seed         string
	Grid         samples.Grid
	Header       []string
	MarkerColumn int
	ImageData    template.URL
	CSVData      template.URL
	Filename     string
	CSVName      string
}

func (h *Handler) labelPage(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseUpload(w, r)
	if err != nil {
		h.log.Warn("label request rejected", slog.String("error", err.Error()))
		h.render(w, statusFor(err), "index", h.indexData(req.seed, req.rows, err))
		return
	}

	res, err := h.labeler.LabelImage(req.seed, req.rows, req.img)
	if err != nil {
		h.log.Warn("labeling failed", slog.String("error", err.Error()))
		h.render(w, statusFor(err), "index", h.indexData(req.seed, req.rows, err))
		return
	}

	var png, csv bytes.Buffer
	if err := res.PNG(&png); err != nil {
		h.serverError(w, err)
		return
	}
	if err := res.Grid.WriteCSV(&csv); err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, http.StatusOK, "result", resultData{
		Seed:         req.seed,
		Grid:         res.Grid,
		Header:       samples.Header(),
		MarkerColumn: samples.MarkerColumn,
		ImageData:    dataURL("image/png", png.Bytes()),
		CSVData:      dataURL("text/csv", csv.Bytes()),
		Filename:     labeler.Filename,
		CSVName:      "sample_names.csv",
	})
}

func (h *Handler) labelPNG(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseUpload(w, r)
	if err != nil {
		h.jsonError(w, err)
		return
	}

	res, err := h.labeler.LabelImage(req.seed, req.rows, req.img)
	if err != nil {
		h.jsonError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := res.PNG(&buf); err != nil {
		h.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", labeler.Filename))
	w.Header().Set("X-Sample-Rows", strconv.Itoa(res.Grid.Rows()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

type namesResponse struct {
	Seed string       `json:"seed"`
	Rows samples.Grid `json:"rows"`
}

func (h *Handler) names(w http.ResponseWriter, r *http.Request) {
	seed, rows, err := formParams(r)
	if err != nil {
		h.jsonError(w, err)
		return
	}

	grid, err := h.labeler.Names(seed, rows)
	if err != nil {
		h.jsonError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, namesResponse{Seed: seed, Rows: grid})
}

type uploadRequest struct {
	seed string
	rows int
	img  image.Image
}

// parseUpload reads the multipart form. Seed and rows are returned even
// on error so the form can be redisplayed.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) (uploadRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return uploadRequest{rows: 1}, fmt.Errorf("failed to read upload: %w", err)
	}

	seed, rows, err := formParams(r)
	req := uploadRequest{seed: seed, rows: rows}
	if err != nil {
		return req, err
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return req, errMissingImage
	}
	defer file.Close()

	if !gelimage.IsSupportedFormat(header.Filename) {
		return req, fmt.Errorf("%w: unsupported file %q (want %s)",
			gelimage.ErrMalformedImage, header.Filename, strings.Join(gelimage.SupportedFormats(), ", "))
	}

	gel, err := gelimage.Decode(file)
	if err != nil {
		return req, err
	}
	req.img = gel.Image
	return req, nil
}

// formParams reads first_name and rows from the form or query string.
func formParams(r *http.Request) (string, int, error) {
	seed := strings.TrimSpace(r.FormValue("first_name"))
	rows := 1
	if v := strings.TrimSpace(r.FormValue("rows")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return seed, rows, errBadRows
		}
		rows = n
	}
	if seed == "" {
		return seed, rows, errMissingSeed
	}
	return seed, rows, nil
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, samples.ErrInvalidSeed),
		errors.Is(err, labeler.ErrInvalidRowCount),
		errors.Is(err, gelimage.ErrMalformedImage),
		errors.Is(err, errMissingImage),
		errors.Is(err, errMissingSeed),
		errors.Is(err, errBadRows),
		errors.Is(err, http.ErrNotMultipart),
		errors.Is(err, http.ErrMissingBoundary):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to write json", slog.String("error", err.Error()))
	}
}

func (h *Handler) jsonError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", slog.String("error", err.Error()))
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.log.Error("request failed", slog.String("error", err.Error()))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func dataURL(mime string, data []byte) template.URL {
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}
