package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tennisbracket "github.com/justinjudd/tennisbracket"
	"github.com/justinjudd/tennisbracket/hub"
	"github.com/justinjudd/tennisbracket/models"
	"github.com/justinjudd/tennisbracket/storage"
	"github.com/justinjudd/tennisbracket/tournament"
)

type memoryEngine struct {
	bracket models.Bracket
	saves   int
	saveErr error
}

func (m *memoryEngine) LoadBracket() (models.Bracket, models.Snapshot, error) {
	return nil, models.Snapshot{}, models.ErrNoBracket
}

func (m *memoryEngine) SaveBracket(b models.Bracket) (models.Snapshot, error) {
	if m.saveErr != nil {
		return models.Snapshot{}, m.saveErr
	}
	m.saves++
	m.bracket = b
	return models.Snapshot{Revision: "rev" + strings.Repeat("x", m.saves)}, nil
}

func (m *memoryEngine) ClearBracket() error {
	m.bracket = nil
	return nil
}

func (m *memoryEngine) Close() error { return nil }

type fakeUploader struct {
	keys []string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	f.keys = append(f.keys, key)
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeUploader) GetPublicURL(key string) string {
	return storage.PublicURL("https://cdn.example.com", key)
}

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *memoryEngine) {
	t.Helper()
	engine := &memoryEngine{}
	board := tennisbracket.NewBoard(engine, nil)
	srv := httptest.NewServer(New(board, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv, engine
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBracket(t *testing.T, resp *http.Response) models.Bracket {
	t.Helper()
	var b models.Bracket
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	return b
}

const w1Body = `{"teams":[{"name":"组合 A","score":"6"},{"name":"组合 B","score":"2"}]}`

func TestGetBracket(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/bracket", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("ETag"))
	assert.Equal(t, tournament.NewBracket(), decodeBracket(t, resp))
}

func TestUpdateMatch(t *testing.T) {
	srv, engine := newTestServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/matches/w1", w1Body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"revx"`, resp.Header.Get("ETag"))

	b := decodeBracket(t, resp)
	assert.Equal(t, "组合 A", b[b.Index("w5")].Teams[0].Name)
	assert.Equal(t, "组合 B", b[b.Index("l1")].Teams[0].Name)
	assert.Equal(t, 1, engine.saves)

	resp = do(t, http.MethodGet, srv.URL+"/matches/w5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var m models.Match
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Equal(t, "组合 A", m.Teams[0].Name)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/bracket", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", `"revx"`)
	cached, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	cached.Body.Close()
	assert.Equal(t, http.StatusNotModified, cached.StatusCode)
}

func TestUpdateLaterRoundKeepsNames(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/matches/w5", `{"teams":[{"name":"W1胜者","score":"6"},{"name":"W2胜者","score":"1"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b := decodeBracket(t, resp)

	w5 := b[b.Index("w5")]
	assert.Equal(t, models.TBD, w5.Teams[0].Name)
	assert.Equal(t, "6", w5.Teams[0].Score)
	assert.Equal(t, models.TBD, b[b.Index("w7")].Teams[0].Name)
}

func TestUpdateMatchErrors(t *testing.T) {
	srv, engine := newTestServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/matches/zz", w1Body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/matches/w1", `{"teams":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/matches/w1", `{"teams":[],"extra":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	engine.saveErr = errors.New("disk full")
	resp = do(t, http.MethodPut, srv.URL+"/matches/w1", w1Body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/matches/zz", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReset(t *testing.T) {
	srv, engine := newTestServer(t)
	do(t, http.MethodPut, srv.URL+"/matches/w1", w1Body)

	resp := do(t, http.MethodPost, srv.URL+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, tournament.NewBracket(), decodeBracket(t, resp))
	assert.Nil(t, engine.bracket)
}

func TestRenderEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/bracket.html", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Losers Bracket")

	resp = do(t, http.MethodGet, srv.URL+"/bracket.png", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
}

func TestExport(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	up := &fakeUploader{}
	srv, _ = newTestServer(t, WithUploader(up))
	do(t, http.MethodPut, srv.URL+"/matches/w1", w1Body)
	resp = do(t, http.MethodPost, srv.URL+"/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out tennisbracket.Export
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "https://cdn.example.com/brackets/revx.png", out.Image)
	assert.Equal(t, []string{"brackets/revx.png", "brackets/revx.json"}, up.keys)
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, WithOrigins([]string{"https://ui.example"}))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/bracket", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://ui.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://ui.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://other.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWebsocketUpdates(t *testing.T) {
	h := hub.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv, _ := newTestServer(t, WithHub(h))
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	type message struct {
		Type    string         `json:"type"`
		Payload models.Bracket `json:"payload"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, hub.MessageBracketUpdated, first.Type)
	assert.Equal(t, tournament.NewBracket(), first.Payload)

	do(t, http.MethodPut, srv.URL+"/matches/w1", w1Body)

	var update message
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "组合 A", update.Payload[update.Payload.Index("w5")].Teams[0].Name)
}
