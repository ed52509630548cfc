package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/doc-to-slides/internal/ai"
	"github.com/thywilljoshua/doc-to-slides/internal/convert"
	"github.com/thywilljoshua/doc-to-slides/internal/render"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/store"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

const deckJSON = `[{"title":"Intro","content":["Intro para."]},{"title":"Body","content":["Body para."]}]`

func newTestServer(t *testing.T, gen ai.Generator) *httptest.Server {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := render.DefaultConfig()
	cfg.Scale = 0.5
	rdr, err := render.New(cfg, zerolog.Nop())
	require.NoError(t, err)

	svc := convert.New(convert.Config{
		Synthesizer: slides.NewSynthesizer(gen),
		Renderer:    rdr,
		Store:       db,
		Log:         zerolog.Nop(),
	})
	ts := httptest.NewServer(NewRouter(svc, zerolog.Nop(), Options{MaxUploadBytes: 1 << 20}))
	t.Cleanup(ts.Close)
	return ts
}

func staticReply(s string) ai.Generator {
	return ai.GeneratorFunc(func(context.Context, string) (string, error) { return s, nil })
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func do(t *testing.T, method, url, user string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, ai.Noop{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExtractAndGenerate(t *testing.T) {
	ts := newTestServer(t, staticReply(deckJSON))

	body, ct := multipartUpload(t, "My Notes.txt", "text/plain", []byte("Intro para.\n\nBody para."), nil)
	resp, err := http.Post(ts.URL+"/api/extract", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ex := decode[extractResponse](t, resp)
	assert.Equal(t, "My Notes", ex.Title)
	assert.Equal(t, "Intro para.\n\nBody para.", ex.Text)

	body, ct = multipartUpload(t, "notes.txt", "text/plain", []byte("Intro para."), map[string]string{"template": "creative"})
	resp2, err := http.Post(ts.URL+"/api/generate", ct, body)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	res := decode[convert.Result](t, resp2)
	assert.Equal(t, style.Creative, res.Template)
	assert.Len(t, res.Slides, 2)
}

func TestExtractRejectsUnsupportedFile(t *testing.T) {
	ts := newTestServer(t, ai.Noop{})
	body, ct := multipartUpload(t, "deck.pptx", "application/vnd.ms-powerpoint", []byte("x"), nil)
	resp, err := http.Post(ts.URL+"/api/extract", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Failed to read the file content. Please try again.", decode[errorBody](t, resp).Error)
}

func TestGenerateHidesProviderError(t *testing.T) {
	ts := newTestServer(t, ai.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("invalid api key sk-secret")
	}))
	body, ct := multipartUpload(t, "a.txt", "text/plain", []byte("x"), nil)
	resp, err := http.Post(ts.URL+"/api/generate", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Failed to process content", decode[errorBody](t, resp).Error)
}

func TestTemplatesAndResolve(t *testing.T) {
	ts := newTestServer(t, ai.Noop{})

	list := decode[[]templateInfo](t, do(t, http.MethodGet, ts.URL+"/api/templates", "", nil))
	require.Len(t, list, 4)
	assert.Equal(t, style.Modern, list[0].ID)
	assert.Equal(t, style.Defaults(style.Academic), list[3].Style)

	resp := do(t, http.MethodPost, ts.URL+"/api/templates/creative/resolve", "", []byte(`{"fontSize":22,"gradient":{"start":"#000","end":"#fff"}}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[templateInfo](t, resp)
	assert.EqualValues(t, 22, got.Style.Content.FontSize)
	assert.Equal(t, "#000", got.Style.Slide.Background.LinearGradient().Start)

	resp = do(t, http.MethodPost, ts.URL+"/api/templates/modern/resolve", "", []byte(`{"textColor":"reddish"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPresentationLifecycle(t *testing.T) {
	ts := newTestServer(t, ai.Noop{})
	base := ts.URL + "/api/presentations"

	resp := do(t, http.MethodPost, base, "", []byte(`{"title":"x"}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, base, "alice", []byte(`{"title":"Deck","template":"academic","slides":`+deckJSON+`}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[store.Presentation](t, resp)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.OwnerID)

	list := decode[[]store.Presentation](t, do(t, http.MethodGet, base, "alice", nil))
	require.Len(t, list, 1)

	resp = do(t, http.MethodGet, base+"/"+created.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPatch, base+"/"+created.ID, "alice", []byte(`{"title":"Renamed"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", decode[store.Presentation](t, resp).Title)

	resp = do(t, http.MethodGet, base+"/"+created.ID+"/export", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="presentation.pdf"`, resp.Header.Get("Content-Disposition"))

	resp = do(t, http.MethodGet, base+"/"+created.ID+"/slides/2/preview.png", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp = do(t, http.MethodGet, base+"/"+created.ID+"/slides/9/preview.png", "alice", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, base+"/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateRequiresTitle(t *testing.T) {
	ts := newTestServer(t, ai.Noop{})
	resp := do(t, http.MethodPost, ts.URL+"/api/presentations", "alice", []byte(`{"title":"  "}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdHocExport(t *testing.T) {
	ts := newTestServer(t, ai.Noop{})

	resp := do(t, http.MethodPost, ts.URL+"/api/export", "", []byte(`{"template":"corporate","slides":`+deckJSON+`,"customStyles":{"fontFamily":"'Courier New', monospace"}}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = do(t, http.MethodPost, ts.URL+"/api/export", "", []byte(`{"template":"modern","slides":[]}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/export", "", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportRejectsBadColour(t *testing.T) {
	ts := newTestServer(t, ai.Noop{})

	resp := do(t, http.MethodPost, ts.URL+"/api/export", "", []byte(`{"template":"modern","slides":`+deckJSON+`,"customStyles":{"textColor":"nope"}}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "Invalid request", body.Error)
}
