package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotset/plotembed/internal/embed"
)

const testTemplate = `<html><head><script src="lib/base.js"></script></head><body></body></html>`

func newTestServer(t *testing.T, opts Options) http.Handler {
	t.Helper()
	asm, err := embed.New(embed.Options{ExternalURL: "https://cdn.example.com/charts/"})
	require.NoError(t, err)
	return New(asm, opts).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, Options{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEmbed(t *testing.T) {
	h := newTestServer(t, Options{})
	body := mustJSON(t, map[string]any{
		"template": testTemplate,
		"csv":      "name,age\nAlice,30\n",
		"config":   map[string]any{"title": "People"},
		"binding":  map[string]any{"x": "name"},
	})

	rec := do(t, h, http.MethodPost, "/api/embed", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	assert.Contains(t, out, `src="https://cdn.example.com/charts/lib/base.js"`)
	assert.Contains(t, out, `[{"name":"Alice","age":"30"}]`)
	assert.Contains(t, out, `{"title":"People"}`)
	assert.Contains(t, out, `{"x":"name"}`)
	assert.Contains(t, out, "}, false);")
}

func TestEmbed_Settings(t *testing.T) {
	h := newTestServer(t, Options{Watermark: true})
	body := mustJSON(t, map[string]any{
		"template": testTemplate,
		"csv":      "a\n1\n",
		"settings": json.RawMessage(`[{"rows":[{"components":[{"field":"color","type":"color","default":"#ff0000"}]}]}]`),
	})

	rec := do(t, h, http.MethodPost, "/api/embed", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `{"color":"#ff0000"}`)
	assert.Contains(t, rec.Body.String(), "}, true);")
}

func TestEmbed_NullConfigIsAbsent(t *testing.T) {
	h := newTestServer(t, Options{})
	body := `{"template":"<p></p>","csv":"a\n1\n","config":null,` +
		`"settings":[{"rows":[{"components":[{"field":"title","type":"input-text","default":"Hi"}]}]}]}`

	rec := do(t, h, http.MethodPost, "/api/embed", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `{"title":"Hi"}`)

	body = `{"template":"<p></p>","csv":"a\n1\n","config":{"title":"Yo"},"settings":null}`
	rec = do(t, h, http.MethodPost, "/api/embed", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `{"title":"Yo"}`)
}

func TestEmbed_RequestOverridesDefaults(t *testing.T) {
	h := newTestServer(t, Options{Watermark: true, ReferenceURL: "https://plotset.com/"})
	body := mustJSON(t, map[string]any{
		"template":       testTemplate,
		"csv":            "a\n1\n",
		"show_watermark": false,
		"reference_url":  "",
	})

	rec := do(t, h, http.MethodPost, "/api/embed", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "}, false);")
	assert.NotContains(t, rec.Body.String(), "plotset.com")
}

func TestEmbed_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKind string
	}{
		{
			name:     "malformed body",
			body:     `{"template":`,
			wantCode: http.StatusBadRequest,
			wantKind: "parse",
		},
		{
			name:     "unknown field",
			body:     `{"template":"<p></p>","extra":1}`,
			wantCode: http.StatusBadRequest,
			wantKind: "parse",
		},
		{
			name:     "bad csv",
			body:     `{"template":"<p></p>","csv":"a\n\"open"}`,
			wantCode: http.StatusBadRequest,
			wantKind: "parse",
		},
		{
			name:     "config and settings",
			body:     `{"template":"<p></p>","config":{},"settings":[]}`,
			wantCode: http.StatusBadRequest,
			wantKind: "parse",
		},
		{
			name:     "settings schema",
			body:     `{"template":"<p></p>","settings":[{"rows":"nope"}]}`,
			wantCode: http.StatusBadRequest,
			wantKind: "schema",
		},
		{
			name:     "relative reference url",
			body:     `{"template":"<p></p>","reference_url":"/charts/1"}`,
			wantCode: http.StatusBadRequest,
			wantKind: "parse",
		},
	}

	h := newTestServer(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/embed", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestEmbed_BodyTooLarge(t *testing.T) {
	h := newTestServer(t, Options{MaxBodyBytes: 64})
	body := mustJSON(t, map[string]any{
		"template": testTemplate,
		"csv":      strings.Repeat("x", 256),
	})

	rec := do(t, h, http.MethodPost, "/api/embed", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestFlatten(t *testing.T) {
	tree := `[{"rows":[{"components":[
		{"field":"title","type":"input-text","default":"Hi"},
		{"field":"size","type":"input-slider","default":4,"min":0,"max":10,"step":1}
	]}]}]`
	h := newTestServer(t, Options{})

	t.Run("json by default", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/settings/flatten", tree)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"title":"Hi","size":4}`, rec.Body.String())
	})

	t.Run("annotated", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/settings/flatten?format=annotated", tree)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"size": 4, // number - min: 0, max: 10, step: 1`)
	})

	t.Run("annotated choice without options", func(t *testing.T) {
		body := `[{"rows":[{"components":[{"field":"mode","type":"select","default":"a"}]}]}]`
		rec := do(t, h, http.MethodPost, "/api/settings/flatten?format=annotated", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		resp := decodeError(t, rec)
		assert.Equal(t, "schema", resp.Kind)
		assert.Contains(t, resp.Error, "no options")
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/settings/flatten?format=xml", tree)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error, "unknown format")
	})

	t.Run("invalid tree", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/settings/flatten", `{"rows":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "schema", decodeError(t, rec).Kind)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(t, Options{}), http.MethodGet, "/api/embed", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
