package ui

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/luafmt/format"
	"github.com/dhamidi/luafmt/lua/parser"
)

//go:embed templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("luafmt.ui")

// maxSourceSize bounds the body of a format request.
const maxSourceSize = 1 << 20

type Server struct {
	templateFS fs.FS
	funcMap    template.FuncMap
	mux        *http.ServeMux
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	duration   prometheus.Histogram
}

// FormatRequest is the body of a JSON request to /format. Zero option
// fields take their default.
type FormatRequest struct {
	Source      string `json:"source"`
	Width       int    `json:"width,omitempty"`
	IndentCount int    `json:"indentCount,omitempty"`
	UseTabs     bool   `json:"useTabs,omitempty"`
	QuoteStyle  string `json:"quoteStyle,omitempty"`
}

type FormatResponse struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func NewServer() (*Server, error) {
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))
	funcMap := template.FuncMap{
		"list": func(items ...string) []string {
			return items
		},
	}
	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templateFS: templateFS,
		funcMap:    funcMap,
		mux:        http.NewServeMux(),
		registry:   prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "luafmt",
				Name:      "format_requests_total",
				Help:      "Format requests by outcome",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "luafmt",
				Name:      "format_duration_seconds",
				Help:      "Time spent formatting one request",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
	}
	s.registry.MustRegister(s.requests, s.duration)

	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("POST /format", s.handleFormat)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Registry exposes the server's metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %v", name, err)
	}
}

type pageData struct {
	Request  FormatRequest
	Response FormatResponse
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts := format.DefaultOptions()
	s.render(w, "index.html", pageData{Request: FormatRequest{
		Width:       opts.Width,
		IndentCount: opts.IndentCount,
		QuoteStyle:  string(opts.QuoteStyle),
	}})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceSize)

	var req FormatRequest
	isJSON := r.Header.Get("Content-Type") == "application/json"
	if isJSON {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.requests.WithLabelValues("bad_request").Inc()
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			s.requests.WithLabelValues("bad_request").Inc()
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Source = r.FormValue("source")
		req.Width, _ = strconv.Atoi(r.FormValue("width"))
		req.IndentCount, _ = strconv.Atoi(r.FormValue("indentCount"))
		req.UseTabs = r.FormValue("useTabs") != ""
		req.QuoteStyle = r.FormValue("quoteStyle")
	}

	resp, status := s.format(req)

	if isJSON || r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
		return
	}
	w.WriteHeader(status)
	s.render(w, "index.html", pageData{Request: req, Response: resp})
}

func (s *Server) format(req FormatRequest) (FormatResponse, int) {
	opts := format.DefaultOptions()
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.IndentCount != 0 {
		opts.IndentCount = req.IndentCount
	}
	opts.UseTabs = req.UseTabs
	if req.QuoteStyle != "" {
		q, err := format.ParseQuoteStyle(req.QuoteStyle)
		if err != nil {
			s.requests.WithLabelValues("invalid_options").Inc()
			return FormatResponse{Error: err.Error()}, http.StatusBadRequest
		}
		opts.QuoteStyle = q
	}

	start := time.Now()
	out, err := format.FormatString(req.Source, opts)
	s.duration.Observe(time.Since(start).Seconds())

	var perr *parser.Error
	var oerr *format.OptionError
	switch {
	case err == nil:
		s.requests.WithLabelValues("ok").Inc()
		return FormatResponse{Output: out}, http.StatusOK
	case errors.As(err, &perr):
		s.requests.WithLabelValues("syntax_error").Inc()
		return FormatResponse{Error: perr.Error(), Line: perr.Pos.Line, Column: perr.Pos.Column}, http.StatusUnprocessableEntity
	case errors.As(err, &oerr):
		s.requests.WithLabelValues("invalid_options").Inc()
		return FormatResponse{Error: oerr.Error()}, http.StatusBadRequest
	}
	s.requests.WithLabelValues("internal_error").Inc()
	log.Errorf("format: %v", err)
	return FormatResponse{Error: err.Error()}, http.StatusInternalServerError
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// overlayFSType serves files from a directory on disk when present, so
// templates can be edited without rebuilding, and from the embedded copy
// otherwise.
type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}
