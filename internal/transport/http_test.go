package transport_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"

	"github.com/rpggio/karte/internal/testserver"
	"github.com/stretchr/testify/require"
)

const token = "secret"

func call(t *testing.T, ts *testserver.TestServer, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	resp := ts.Request(t, method, path, reader, contentType)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

type idBody struct {
	ID string `json:"id"`
}

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type dashboardBody struct {
	Today   string           `json:"today"`
	Overdue []map[string]any `json:"overdue"`
	DueSoon []map[string]any `json:"due_soon"`
}

type list[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func TestHealthAndAuth(t *testing.T) {
	ts := testserver.New(t, token)

	resp, err := http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	anon, err := http.Get(ts.Server.URL + "/api/projects")
	require.NoError(t, err)
	defer anon.Body.Close()
	require.Equal(t, http.StatusUnauthorized, anon.StatusCode)

	authed, _ := call(t, ts, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, authed.StatusCode)
}

func TestProjectLifecycle(t *testing.T) {
	ts := testserver.New(t, token)

	resp, data := call(t, ts, http.MethodPost, "/api/projects", map[string]any{
		"title":    "サイト更新",
		"client":   "A社",
		"due_date": "2024-06-18",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	created := decode[map[string]any](t, data)
	id := created["id"].(string)
	require.Equal(t, "not_started", created["status"])
	require.Equal(t, "medium", created["priority"])
	require.Equal(t, "2024-06-18", created["due_date"])

	resp, data = call(t, ts, http.MethodGet, "/api/projects/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created["title"], decode[map[string]any](t, data)["title"])

	resp, data = call(t, ts, http.MethodPatch, "/api/projects/"+id, map[string]any{
		"status":         "in_progress",
		"clear_due_date": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	updated := decode[map[string]any](t, data)
	require.Equal(t, "in_progress", updated["status"])
	require.NotContains(t, updated, "due_date")
	require.Equal(t, created["created_at"], updated["created_at"])

	resp, _ = call(t, ts, http.MethodDelete, "/api/projects/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, ts, http.MethodDelete, "/api/projects/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = call(t, ts, http.MethodGet, "/api/projects/"+id, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", decode[errBody](t, data).Code)
}

func TestValidationErrors(t *testing.T) {
	ts := testserver.New(t, token)

	resp, data := call(t, ts, http.MethodPost, "/api/projects", map[string]any{"title": "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "VALIDATION_ERROR", decode[errBody](t, data).Code)

	resp, _ = call(t, ts, http.MethodPost, "/api/projects", map[string]any{"title": "x", "unknown": 1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, ts, http.MethodGet, "/api/projects?status=bogus", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, ts, http.MethodGet, "/api/notes?limit=-1", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, ts, http.MethodPost, "/api/ideas", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, ts, http.MethodGet, "/api/dashboard?horizon=-1", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNoteWeakProjectReference(t *testing.T) {
	ts := testserver.New(t, token)

	_, data := call(t, ts, http.MethodPost, "/api/projects", map[string]any{"title": "Brochure"})
	projectID := decode[idBody](t, data).ID

	resp, data := call(t, ts, http.MethodPost, "/api/notes", map[string]any{"project_id": projectID, "body": "call the printer"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	noteID := decode[idBody](t, data).ID

	_, data = call(t, ts, http.MethodGet, "/api/notes/"+noteID, nil)
	view := decode[map[string]any](t, data)
	require.Equal(t, projectID, view["project_id"])
	require.Equal(t, "Brochure", view["project"].(map[string]any)["title"])

	call(t, ts, http.MethodDelete, "/api/projects/"+projectID, nil)

	resp, data = call(t, ts, http.MethodGet, "/api/notes/"+noteID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[map[string]any](t, data)
	require.Equal(t, projectID, view["project_id"])
	require.NotContains(t, view, "project")

	_, data = call(t, ts, http.MethodGet, "/api/notes?project_id="+projectID, nil)
	require.Equal(t, 1, decode[list[idBody]](t, data).Count)
}

func TestResourceKindInference(t *testing.T) {
	ts := testserver.New(t, token)

	resp, data := call(t, ts, http.MethodPost, "/api/resources", map[string]any{"target": "https://www.notion.so/acme/brief"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	res := decode[map[string]any](t, data)
	require.Equal(t, "notion_link", res["kind"])

	_, data = call(t, ts, http.MethodGet, "/api/resources/"+res["id"].(string), nil)
	require.Equal(t, "Notion", decode[map[string]any](t, data)["kind_label"])

	_, data = call(t, ts, http.MethodGet, "/api/resources?kind=url", nil)
	require.Equal(t, 0, decode[list[idBody]](t, data).Count)
}

func TestIdeaPinOrdering(t *testing.T) {
	ts := testserver.New(t, token)

	_, data := call(t, ts, http.MethodPost, "/api/ideas", map[string]any{"caption": "first"})
	first := decode[idBody](t, data).ID
	_, data = call(t, ts, http.MethodPost, "/api/ideas", map[string]any{"caption": "second", "source_url": "https://example.com/a"})
	second := decode[idBody](t, data).ID

	resp, data := call(t, ts, http.MethodPut, "/api/ideas/"+second+"/pin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	require.Equal(t, true, decode[map[string]any](t, data)["pinned"])

	_, data = call(t, ts, http.MethodGet, "/api/boards/ideas", nil)
	cards := decode[list[map[string]any]](t, data).Items
	require.Len(t, cards, 2)
	require.Equal(t, second, cards[0]["id"])
	require.Equal(t, "link", cards[0]["layout"])
	require.Equal(t, first, cards[1]["id"])
	require.Equal(t, "text", cards[1]["layout"])

	resp, _ = call(t, ts, http.MethodDelete, "/api/ideas/"+second+"/pin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, data = call(t, ts, http.MethodGet, "/api/ideas?pinned=true", nil)
	require.Equal(t, 0, decode[list[idBody]](t, data).Count)

	resp, _ = call(t, ts, http.MethodPut, "/api/ideas/missing/pin", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, ts *testserver.TestServer, filename string, content []byte) (*http.Response, []byte) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp := ts.Request(t, http.MethodPost, "/api/attachments", &body, mw.FormDataContentType())
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestAttachmentUploadAndBoards(t *testing.T) {
	ts := testserver.New(t, token)
	img := pngBytes(t, 640, 320)

	resp, data := upload(t, ts, "moodboard.png", img)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	att := decode[map[string]any](t, data)
	ref := att["ref"].(string)
	require.Equal(t, "image/png", att["content_type"])
	require.NotEmpty(t, att["thumbnail_ref"])
	require.Equal(t, "/api/attachments/"+ref, resp.Header.Get("Location"))

	raw := ts.Request(t, http.MethodGet, "/api/attachments/"+ref, nil, "")
	require.Equal(t, http.StatusOK, raw.StatusCode)
	require.Equal(t, "image/png", raw.Header.Get("Content-Type"))
	got, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	require.Equal(t, img, got)

	thumb := ts.Request(t, http.MethodGet, "/api/attachments/"+ref+"/thumbnail", nil, "")
	require.Equal(t, http.StatusOK, thumb.StatusCode)
	require.Equal(t, "image/jpeg", thumb.Header.Get("Content-Type"))

	resp, data = call(t, ts, http.MethodPost, "/api/resources", map[string]any{"target": ref})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	res := decode[map[string]any](t, data)
	require.Equal(t, "uploaded_file", res["kind"])
	require.Equal(t, "moodboard.png", res["label"])

	_, data = call(t, ts, http.MethodGet, "/api/boards/resources", nil)
	cards := decode[list[map[string]any]](t, data).Items
	require.Len(t, cards, 1)
	require.Equal(t, "/api/attachments/"+ref, cards[0]["href"])

	call(t, ts, http.MethodPost, "/api/ideas", map[string]any{"image_ref": ref, "caption": "hero"})
	_, data = call(t, ts, http.MethodGet, "/api/boards/ideas", nil)
	ideas := decode[list[map[string]any]](t, data).Items
	require.Len(t, ideas, 1)
	require.Equal(t, "image", ideas[0]["layout"])
	require.Equal(t, "/api/attachments/"+ref+"/thumbnail", ideas[0]["thumbnail_url"])

	resp, _ = call(t, ts, http.MethodGet, "/api/attachments/att_missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, ts, http.MethodPost, "/api/resources", map[string]any{"target": "att_missing"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAttachmentUploadRejectsEmpty(t *testing.T) {
	ts := testserver.New(t, token)

	resp, data := upload(t, ts, "empty.txt", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "VALIDATION_ERROR", decode[errBody](t, data).Code)

	resp, _ = call(t, ts, http.MethodPost, "/api/attachments", map[string]any{"file": "nope"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardAndSearch(t *testing.T) {
	ts := testserver.New(t, token)

	for _, p := range []map[string]any{
		{"title": "サイト更新", "client": "A社", "due_date": "2024-06-18"},
		{"title": "ロゴ制作", "client": "B社", "due_date": "2024-06-05", "status": "in_progress"},
		{"title": "名刺", "client": "A社", "due_date": "2024-06-12"},
		{"title": "完了済み", "due_date": "2024-06-01", "status": "done"},
	} {
		resp, data := call(t, ts, http.MethodPost, "/api/projects", p)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	}

	resp, data := call(t, ts, http.MethodGet, "/api/dashboard?today=2024-06-10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	view := decode[dashboardBody](t, data)
	require.Equal(t, "2024-06-10", view.Today)
	require.Len(t, view.Overdue, 1)
	require.Equal(t, "ロゴ制作", view.Overdue[0]["title"])
	require.Len(t, view.DueSoon, 1)
	require.Equal(t, "名刺", view.DueSoon[0]["title"])
	require.EqualValues(t, 2, view.DueSoon[0]["days_left"])

	resp, data = call(t, ts, http.MethodGet, "/api/search?q="+url.QueryEscape("A社 来週"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	hits := decode[list[map[string]any]](t, data).Items
	require.Len(t, hits, 1)
	require.Equal(t, "project", hits[0]["kind"])
	require.Equal(t, "サイト更新", hits[0]["title"])

	_, data = call(t, ts, http.MethodGet, "/api/search?q=", nil)
	require.Equal(t, 0, decode[list[map[string]any]](t, data).Count)

	_, data = call(t, ts, http.MethodGet, "/api/search?kind=note&q="+url.QueryEscape("A社"), nil)
	require.Equal(t, 0, decode[list[map[string]any]](t, data).Count)

	_, data = call(t, ts, http.MethodGet, "/api/activity?kind=project", nil)
	require.Equal(t, 4, decode[list[map[string]any]](t, data).Count)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := testserver.New(t, token)
	call(t, ts, http.MethodGet, "/api/projects", nil)

	resp, err := http.Get(ts.Server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "karte_http_requests_total")
	require.Contains(t, string(body), `path="/api/projects`)
}
