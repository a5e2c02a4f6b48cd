package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medidoc-backend/internal/extract"
	"medidoc-backend/internal/shared/storage/files"
)

type stubExtractor struct {
	text  string
	calls int
}

func (s *stubExtractor) Text(ctx context.Context, path string) string {
	s.calls++
	return s.text
}

type stubClassifier struct {
	fields   extract.Fields
	calls    int
	lastText string
}

func (s *stubClassifier) Classify(ctx context.Context, text string) extract.Fields {
	s.calls++
	s.lastText = text
	return s.fields
}

func newTestService(t *testing.T, extractor *stubExtractor, classifier *stubClassifier, repo Repo) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := files.New(dir)
	if err != nil {
		t.Fatalf("files.New: %v", err)
	}
	return &Service{
		Files:      store,
		Extractor:  extractor,
		Classifier: classifier,
		Repo:       repo,
	}, dir
}

func TestIngestUnsupportedType(t *testing.T) {
	extractor := &stubExtractor{text: "some text"}
	svc, dir := newTestService(t, extractor, &stubClassifier{}, NewMemoryRepo())

	_, err := svc.Ingest(context.Background(), "notes.txt", "text/plain", strings.NewReader("hello"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if extractor.calls != 0 {
		t.Fatalf("expected no extraction for rejected type, got %d calls", extractor.calls)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "notes.txt")); !os.IsNotExist(statErr) {
		t.Fatal("rejected upload must not leave a file behind")
	}
}

func TestIngestEmptyUpload(t *testing.T) {
	svc, dir := newTestService(t, &stubExtractor{}, &stubClassifier{}, NewMemoryRepo())

	_, err := svc.Ingest(context.Background(), "empty.pdf", "application/pdf", strings.NewReader(""))
	if !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "empty.pdf")); !os.IsNotExist(statErr) {
		t.Fatal("empty upload must be removed from disk")
	}
}

func TestIngestExtractionFailed(t *testing.T) {
	repo := NewMemoryRepo()
	classifier := &stubClassifier{}
	svc, dir := newTestService(t, &stubExtractor{text: "   "}, classifier, repo)

	_, err := svc.Ingest(context.Background(), "scan.png", "image/png", strings.NewReader("pngbytes"))
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if classifier.calls != 0 {
		t.Fatalf("expected no classification on extraction failure, got %d calls", classifier.calls)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "scan.png")); !os.IsNotExist(statErr) {
		t.Fatal("unreadable upload must be removed from disk")
	}
	docs, _ := repo.ListAll(context.Background())
	if len(docs) != 0 {
		t.Fatalf("expected no stored record, got %d", len(docs))
	}
}

func TestIngestSuccessPersistsRecord(t *testing.T) {
	repo := NewMemoryRepo()
	classifier := &stubClassifier{fields: extract.Fields{
		Category:     "Prescription",
		DocumentDate: "2024-03-15",
		DoctorName:   "Dr. Asha Rao",
		HospitalName: "City Care Clinic",
		Summary:      "Amoxicillin 500mg three times daily for 7 days.",
	}}
	extractor := &stubExtractor{text: "Rx: Amoxicillin 500mg TID x7d\nDr. Asha Rao, City Care Clinic, 15 Mar 2024"}
	svc, dir := newTestService(t, extractor, classifier, repo)

	fields, err := svc.Ingest(context.Background(), "rx.pdf", "application/pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.Category != "Prescription" || fields.DoctorName != "Dr. Asha Rao" {
		t.Fatalf("unexpected fields: %#v", fields)
	}
	if classifier.lastText != extractor.text {
		t.Fatal("classifier must receive the extracted text verbatim")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "rx.pdf")); statErr != nil {
		t.Fatalf("stored file missing: %v", statErr)
	}

	rows, err := repo.AllForSearch(context.Background())
	if err != nil {
		t.Fatalf("AllForSearch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(rows))
	}
	if rows[0].Filename != "rx.pdf" || rows[0].Content != extractor.text || rows[0].Category != "Prescription" {
		t.Fatalf("unexpected stored row: %#v", rows[0])
	}
}

func TestIngestContentTypeNormalization(t *testing.T) {
	repo := NewMemoryRepo()
	svc, _ := newTestService(t, &stubExtractor{text: "body"}, &stubClassifier{fields: extract.FallbackFields()}, repo)

	_, err := svc.Ingest(context.Background(), "a.jpg", "Image/JPEG; charset=binary", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("expected parameterized content type to be accepted, got %v", err)
	}
}

func TestIngestRepoFailureIsServerFault(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{text: "body"}, &stubClassifier{fields: extract.FallbackFields()}, failingRepo{})

	_, err := svc.Ingest(context.Background(), "a.pdf", "application/pdf", strings.NewReader("bytes"))
	if err == nil {
		t.Fatal("expected error from failing repo")
	}
	if errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrEmptyUpload) || errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("repo failure must not map to a client error, got %v", err)
	}
}

type failingRepo struct{}

func (failingRepo) Insert(ctx context.Context, doc Document) (int64, error) {
	return 0, errors.New("insert failed")
}

func (failingRepo) ListAll(ctx context.Context) ([]Document, error) {
	return nil, errors.New("list failed")
}

func (failingRepo) AllForSearch(ctx context.Context) ([]SearchRow, error) {
	return nil, errors.New("search failed")
}
