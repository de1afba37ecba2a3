package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/plotset/plotembed/internal/embed"
	"github.com/plotset/plotembed/internal/embederr"
	"github.com/plotset/plotembed/internal/output"
	"github.com/plotset/plotembed/internal/settings"
)

// embedRequest is the JSON body of POST /api/embed. Config and Settings are
// mutually exclusive; Settings is a settings tree flattened before use.
type embedRequest struct {
	Template     string          `json:"template"`
	CSV          string          `json:"csv"`
	Config       json.RawMessage `json:"config,omitempty"`
	Settings     json.RawMessage `json:"settings,omitempty"`
	Binding      json.RawMessage `json:"binding,omitempty"`
	Format       json.RawMessage `json:"format,omitempty"`
	Watermark    *bool           `json:"show_watermark,omitempty"`
	ReferenceURL *string         `json:"reference_url,omitempty"`
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var body embedRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}
	if present(body.Config) && present(body.Settings) {
		s.respondError(w, r, embederr.Parsef("config and settings are mutually exclusive"))
		return
	}

	req := embed.Request{
		Template:      body.Template,
		CSV:           body.CSV,
		Binding:       body.Binding,
		Format:        body.Format,
		ShowWatermark: s.opts.Watermark,
		ReferenceURL:  s.opts.ReferenceURL,
	}
	if body.Watermark != nil {
		req.ShowWatermark = *body.Watermark
	}
	if body.ReferenceURL != nil {
		req.ReferenceURL = *body.ReferenceURL
	}
	switch {
	case present(body.Settings):
		flat, err := settings.FlattenJSON(body.Settings)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		req.Config = flat
	case present(body.Config):
		req.Config = body.Config
	}

	out, err := s.asm.Generate(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

// handleFlatten accepts a settings tree as the raw body and writes its flat
// form in the format named by the format query parameter.
func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = "json"
	}
	f, err := output.GetFormatter(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	tree, err := settings.Parse(data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := f.Format(tree, &buf); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// present reports whether a request field was given a value. A JSON null
// counts as absent.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func contentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "yaml":
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return embederr.Parsef("request body: %v", err)
	}
	return nil
}

// respondError logs err and writes the JSON error reply. Input errors map to
// 400 and serialization failures to 422.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	kind := embederr.KindOf(err)
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
	case kind == embederr.KindParse, kind == embederr.KindSchema:
		status = http.StatusBadRequest
	case kind == embederr.KindSerialization:
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}

	slog.Warn("request error",
		"path", r.URL.Path,
		"status", status,
		"kind", string(kind),
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: string(kind)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}
