package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"medidoc-backend/internal/extract"
	"medidoc-backend/internal/shared/storage/files"
)

func newHandlerTestEngine(t *testing.T, extractor *stubExtractor, classifier *stubClassifier, repo Repo) *gin.Engine {
	t.Helper()
	store, err := files.New(t.TempDir())
	if err != nil {
		t.Fatalf("files.New: %v", err)
	}
	svc := &Service{Files: store, Extractor: extractor, Classifier: classifier, Repo: repo}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func multipartUpload(t *testing.T, fileName, contentType, body string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

func TestUploadEndpointSuccess(t *testing.T) {
	classifier := &stubClassifier{fields: extract.Fields{
		Category:     "Lab Report",
		DocumentDate: "2024-06-02",
		DoctorName:   "N/A",
		HospitalName: "Metro Labs",
		Summary:      "CBC within normal limits.",
	}}
	r := newHandlerTestEngine(t, &stubExtractor{text: "CBC results"}, classifier, NewMemoryRepo())

	body, contentType := multipartUpload(t, "cbc.pdf", "application/pdf", "%PDF-1.4 fake")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Filename string         `json:"filename"`
		Info     extract.Fields `json:"info"`
		Status   string         `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Filename != "cbc.pdf" || res.Status != "success" {
		t.Fatalf("unexpected envelope: %#v", res)
	}
	if res.Info.Category != "Lab Report" || res.Info.HospitalName != "Metro Labs" {
		t.Fatalf("unexpected info: %#v", res.Info)
	}
}

func TestUploadEndpointMissingFile(t *testing.T) {
	r := newHandlerTestEngine(t, &stubExtractor{}, &stubClassifier{}, NewMemoryRepo())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload/", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=none")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUploadEndpointErrorCodes(t *testing.T) {
	cases := []struct {
		name        string
		fileName    string
		contentType string
		body        string
		text        string
		wantCode    string
	}{
		{"unsupported type", "notes.txt", "text/plain", "hello", "hello", "unsupported_type"},
		{"empty upload", "empty.pdf", "application/pdf", "", "x", "empty_upload"},
		{"extraction failed", "scan.png", "image/png", "pngbytes", "", "extraction_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newHandlerTestEngine(t, &stubExtractor{text: tc.text}, &stubClassifier{fields: extract.FallbackFields()}, NewMemoryRepo())

			body, contentType := multipartUpload(t, tc.fileName, tc.contentType, tc.body)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/upload/", body)
			req.Header.Set("Content-Type", contentType)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var res struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if res.Error.Code != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, res.Error.Code)
			}
		})
	}
}

func TestUploadEndpointRepoFailure(t *testing.T) {
	r := newHandlerTestEngine(t, &stubExtractor{text: "body"}, &stubClassifier{fields: extract.FallbackFields()}, failingRepo{})

	body, contentType := multipartUpload(t, "a.pdf", "application/pdf", "bytes")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "processing_failed") {
		t.Fatalf("expected processing_failed code, got %s", w.Body.String())
	}
}

func TestListEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if _, err := repo.Insert(ctx, Document{Filename: "a.pdf", Category: "Other", DocumentDate: "2024-01-01", DoctorName: "N/A", HospitalName: "N/A", Summary: "First", Content: "secret text"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.Insert(ctx, Document{Filename: "b.pdf", Category: "Other", DocumentDate: "N/A", DoctorName: "N/A", HospitalName: "N/A", Summary: "Second", Content: "more text"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	r := newHandlerTestEngine(t, &stubExtractor{}, &stubClassifier{}, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/documents/", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res struct {
		Documents []map[string]any `json:"documents"`
		Count     int              `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Count != 2 || len(res.Documents) != 2 {
		t.Fatalf("expected 2 documents, got count=%d len=%d", res.Count, len(res.Documents))
	}
	if res.Documents[0]["filename"] != "a.pdf" {
		t.Fatalf("expected dated document first, got %v", res.Documents[0]["filename"])
	}
	if _, ok := res.Documents[0]["content"]; ok {
		t.Fatal("list items must not expose raw content")
	}
}
