package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/glyphgraph/pkg/buildinfo"
	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/graph"
	"github.com/matzehuels/glyphgraph/pkg/grid"
	gio "github.com/matzehuels/glyphgraph/pkg/io"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
	"github.com/matzehuels/glyphgraph/pkg/render/nodelink"
	"github.com/matzehuels/glyphgraph/pkg/store"
)

// imageField is the multipart form field carrying the upload.
const imageField = "image"

// ExtractResponse is the body of a successful extraction.
type ExtractResponse struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"`
	Graph     graph.Graph  `json:"graph"`
	Connected []grid.Cell  `json:"connected,omitempty"`
	Stats     ExtractStats `json:"stats"`
}

// ExtractStats summarizes one extraction.
type ExtractStats struct {
	CellSize   int  `json:"cell_size"`
	GridWidth  int  `json:"grid_width"`
	GridHeight int  `json:"grid_height"`
	Nodes      int  `json:"nodes"`
	Edges      int  `json:"edges"`
	Cached     bool `json:"cached"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleExtractImage(w http.ResponseWriter, r *http.Request) {
	cellSize, err := cellSizeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, name, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.extract(w, r, pipeline.Options{
		Source:   name,
		Image:    data,
		CellSize: cellSize,
	})
}

func (s *Server) handleExtractGrid(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxUpload)
	sq, err := gio.ReadGrid(body, gio.FormatJSON)
	if err != nil {
		s.writeError(w, r, uploadError(err))
		return
	}

	s.extract(w, r, pipeline.Options{
		Source: "grid",
		Grid:   sq,
	})
}

// extract runs the pipeline, stores the result and writes the response.
func (s *Server) extract(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Workers = s.workers
	opts.LabelSize = s.labelSize
	opts.Formats = []string{pipeline.FormatPNG}
	opts.Connected = boolParam(r, "connected")

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.NewRecord(opts.Source, res.CellSize, res.Graph)
	rec.Overlay = res.Artifacts[pipeline.FormatPNG]
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("extracted",
		"id", rec.ID,
		"request_id", middleware.GetReqID(r.Context()),
		"nodes", rec.Nodes,
		"edges", rec.Edges)

	writeJSON(w, http.StatusCreated, ExtractResponse{
		ID:        rec.ID,
		Source:    rec.Source,
		Graph:     nonNil(res.Graph),
		Connected: res.Connected,
		Stats: ExtractStats{
			CellSize:   res.CellSize,
			GridWidth:  res.Stats.GridWidth,
			GridHeight: res.Stats.GridHeight,
			Nodes:      res.Stats.NodeCount,
			Edges:      res.Stats.EdgeCount,
			Cached:     res.CacheInfo.ExtractHit,
		},
	})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.Graph = nonNil(rec.Graph)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetOverlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(rec.Overlay) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "graph %s has no overlay", id))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(rec.Overlay)))
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Overlay)
}

func (s *Server) handleGetDOT(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dot := nodelink.ToDOT(rec.Graph, nodelink.Options{
		Pinned:   boolParam(r, "pinned"),
		Detailed: boolParam(r, "detailed"),
	})
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, dot)
}

// =============================================================================
// Request Helpers
// =============================================================================

// readUpload returns the image bytes and a display name, from either the
// multipart "image" field or the raw request body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", uploadError(err)
		}
		if len(data) == 0 {
			return nil, "", errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return data, "upload", nil
	}

	f, hdr, err := r.FormFile(imageField)
	if err == http.ErrMissingFile {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "multipart field %q is required", imageField)
	}
	if err != nil {
		return nil, "", uploadError(err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, "", uploadError(err)
	}
	name := hdr.Filename
	if errors.ValidateFilename(name) != nil {
		name = "upload"
	}
	return buf.Bytes(), name, nil
}

// uploadError maps body read failures to client errors.
func uploadError(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	if strings.Contains(err.Error(), "request body too large") {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "upload too large")
	}
	return errors.Wrap(errors.ErrCodeMalformedInput, err, "read upload")
}

// cellSizeParam reads ?cell_size. Absent means the default; 0 means estimate.
func cellSizeParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("cell_size")
	if v == "" {
		return pipeline.DefaultCellSize, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeMalformedInput, err, "invalid cell_size %q", v)
	}
	if n < 0 {
		return 0, errors.New(errors.ErrCodeMalformedInput, "cell_size must not be negative, got %d", n)
	}
	return n, nil
}

func boolParam(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

func nonNil(g graph.Graph) graph.Graph {
	if g == nil {
		return graph.Graph{}
	}
	return g
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err)
	}
	reportError(r, err)

	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	})
}
