package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/playmat/internal/export"
	"github.com/rpggio/playmat/internal/mcp"
)

// maxDocumentBytes caps an uploaded project document. Uploaded backgrounds
// travel inline as data URIs.
const maxDocumentBytes = 80 << 20

// ToolHandler handles editor method dispatch.
type ToolHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// Rasterizer draws the mat as the editor sees it, chrome included.
type Rasterizer interface {
	Rasterize(ctx context.Context, region export.Region, pixelRatio float64) (image.Image, error)
}

// Options wires the HTTP server. Preview and MCP are optional.
type Options struct {
	Handler ToolHandler
	Preview Rasterizer
	MCP     http.Handler
	Logger  *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler ToolHandler
	preview Rasterizer
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(SessionMiddleware)
	r.Use(RequestLogger(opts.Logger))

	srv := &Server{handler: opts.Handler, preview: opts.Preview, logger: opts.Logger}

	r.Get("/health", srv.handleHealth)
	r.Post("/rpc", srv.handleRPC)
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/project", srv.call("get_project"))
		r.Post("/undo", srv.call("undo"))
		r.Post("/redo", srv.call("redo"))
		r.Post("/new", srv.call("new_project"))
		r.Get("/document", srv.handleGetDocument)
		r.Put("/document", srv.handlePutDocument)
		r.Get("/export.png", srv.handleExport)
		r.Get("/preview.png", srv.handlePreview)
		r.Get("/activity", srv.handleActivity)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		code := ErrParseCode
		if errors.Is(err, errInvalidRequest) {
			code = ErrInvalidReq
		}
		WriteError(w, nil, code, err.Error(), nil)
		return
	}

	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		writeCallError(w, req.ID, err)
		return
	}

	WriteResult(w, req.ID, result)
}

// call serves a parameterless editor method as JSON.
func (s *Server) call(method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.handler.Handle(r.Context(), method, nil)
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		writeBody(w, http.StatusOK, result)
	}
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	result, err := s.handler.Handle(r.Context(), "get_document", nil)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	doc, ok := result.(mcp.DocumentResponse)
	if !ok {
		s.writeFailure(w, fmt.Errorf("unexpected document result %T", result))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment(doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Document)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil {
		s.writeFailure(w, fmt.Errorf("reading document: %w", err))
		return
	}
	if len(body) > maxDocumentBytes {
		writeBody(w, http.StatusRequestEntityTooLarge, errorBody{Error: &mcp.APIError{Code: "DOCUMENT_TOO_LARGE", Message: "document exceeds upload limit"}})
		return
	}
	if !json.Valid(body) {
		writeBody(w, http.StatusBadRequest, errorBody{Error: &mcp.APIError{Code: "INVALID_DOCUMENT", Message: "document is not valid JSON"}})
		return
	}
	params, err := json.Marshal(mcp.ImportDocumentParams{Document: body})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	result, err := s.handler.Handle(r.Context(), "import_document", params)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeBody(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	params := json.RawMessage(`{}`)
	if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
		params = json.RawMessage(`{"save":true}`)
	}
	result, err := s.handler.Handle(r.Context(), "export_png", params)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	exp, ok := result.(*mcp.ExportResult)
	if !ok {
		s.writeFailure(w, fmt.Errorf("unexpected export result %T", result))
		return
	}
	w.Header().Set("Content-Disposition", attachment(exp.Filename))
	writePNG(w, exp.PNG)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.preview == nil {
		writeBody(w, http.StatusNotFound, errorBody{Error: &mcp.APIError{Code: "PREVIEW_UNAVAILABLE", Message: "no render surface configured"}})
		return
	}
	result, err := s.handler.Handle(r.Context(), "get_project", nil)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	proj, ok := result.(mcp.ProjectResponse)
	if !ok {
		s.writeFailure(w, fmt.Errorf("unexpected project result %T", result))
		return
	}
	ratio := 1.0
	if v := r.URL.Query().Get("ratio"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			writeBody(w, http.StatusBadRequest, errorBody{Error: &mcp.APIError{Code: "INVALID_PARAMS", Message: "ratio must be a positive number"}})
			return
		}
		ratio = parsed
	}
	img, err := s.preview.Rasterize(r.Context(), export.Region{Width: proj.MatPixels.Width, Height: proj.MatPixels.Height}, ratio)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	data, err := export.EncodePNG(img)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writePNG(w, data)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := map[string]any{}
	if v := q.Get("type"); v != "" {
		req["type"] = v
	}
	for _, key := range []string{"limit", "offset"} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBody(w, http.StatusBadRequest, errorBody{Error: &mcp.APIError{Code: "INVALID_PARAMS", Message: key + " must be a non-negative integer"}})
			return
		}
		req[key] = n
	}
	params, err := json.Marshal(req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	result, err := s.handler.Handle(r.Context(), "get_recent_activity", params)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeBody(w, http.StatusOK, result)
}

type errorBody struct {
	Error *mcp.APIError `json:"error"`
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var apiErr *mcp.APIError
	if errors.As(err, &apiErr) {
		writeBody(w, statusFor(apiErr.Code), errorBody{Error: apiErr})
		return
	}
	if s.logger != nil {
		s.logger.Error("request failed", "error", err)
	}
	writeBody(w, http.StatusInternalServerError, errorBody{Error: &mcp.APIError{Code: "INTERNAL", Message: err.Error()}})
}

func statusFor(code string) int {
	switch code {
	case "INVALID_PARAMS", "INVALID_INPUT", "INVALID_DOCUMENT":
		return http.StatusBadRequest
	case "ZONE_NOT_FOUND":
		return http.StatusNotFound
	case "EXPORT_TOO_LARGE":
		return http.StatusRequestEntityTooLarge
	case "SESSION_CLOSED", "EXPORT_UNAVAILABLE":
		return http.StatusServiceUnavailable
	default:
		return http.StatusConflict
	}
}

func attachment(filename string) string {
	return "attachment; filename=" + strconv.Quote(filename)
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeBody(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
