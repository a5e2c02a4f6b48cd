package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubRunner fakes the pdftoppm/tesseract binaries. A pdftoppm invocation
// materializes page PNGs under the requested prefix; a tesseract invocation
// returns canned text keyed by the page file name.
type stubRunner struct {
	pages    int
	pageText map[string]string
	fail     error
	calls    []string
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, name)
	if r.fail != nil {
		return nil, []byte("boom"), r.fail
	}
	if strings.Contains(name, "pdftoppm") {
		prefix := args[len(args)-1]
		for i := 1; i <= r.pages; i++ {
			path := fmt.Sprintf("%s-%d.png", prefix, i)
			if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}
	// tesseract <file> stdout -l <lang>
	page := filepath.Base(args[0])
	if txt, ok := r.pageText[page]; ok {
		return []byte(txt), nil, nil
	}
	return []byte("ocr text for " + page), nil, nil
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestTextImageRunsTesseractAndTrims(t *testing.T) {
	runner := &stubRunner{pageText: map[string]string{"scan.png": "  Prescription for patient  \n"}}
	e := NewExtractorWithRunner(Config{}, runner)

	path := writeTempFile(t, "scan.png", "not-a-real-png")
	got := e.Text(context.Background(), path)
	if got != "Prescription for patient" {
		t.Fatalf("unexpected text: %q", got)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected one tesseract call, got %d", len(runner.calls))
	}
}

func TestTextMissingFileIsEmpty(t *testing.T) {
	runner := &stubRunner{}
	e := NewExtractorWithRunner(Config{}, runner)

	if got := e.Text(context.Background(), filepath.Join(t.TempDir(), "nope.pdf")); got != "" {
		t.Fatalf("expected empty text for missing file, got %q", got)
	}
}

func TestTextUnsupportedExtensionIsEmpty(t *testing.T) {
	runner := &stubRunner{}
	e := NewExtractorWithRunner(Config{}, runner)

	path := writeTempFile(t, "notes.txt", "hello")
	if got := e.Text(context.Background(), path); got != "" {
		t.Fatalf("expected empty text for unsupported extension, got %q", got)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no external calls, got %d", len(runner.calls))
	}
}

func TestTextOCRFailureIsEmpty(t *testing.T) {
	runner := &stubRunner{fail: errors.New("exit status 1")}
	e := NewExtractorWithRunner(Config{}, runner)

	path := writeTempFile(t, "scan.jpg", "jpg")
	if got := e.Text(context.Background(), path); got != "" {
		t.Fatalf("expected empty text on OCR failure, got %q", got)
	}
}

func TestPDFOCRJoinsPagesInOrder(t *testing.T) {
	runner := &stubRunner{
		pages: 2,
		pageText: map[string]string{
			"page-1.png": "first page\n",
			"page-2.png": "second page\n",
		},
	}
	e := NewExtractorWithRunner(Config{}, runner)

	// Not a real PDF, so the embedded text layer path fails and the
	// rasterize+OCR fallback takes over.
	path := writeTempFile(t, "doc.pdf", "%PDF-fake")
	got := e.Text(context.Background(), path)
	want := "first page\n\nsecond page"
	if got != want {
		t.Fatalf("unexpected pdf text: %q, want %q", got, want)
	}
	// one pdftoppm run plus one tesseract run per page
	if len(runner.calls) != 3 {
		t.Fatalf("expected 3 external calls, got %d: %v", len(runner.calls), runner.calls)
	}
}
