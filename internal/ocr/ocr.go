package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"medidoc-backend/internal/shared/telemetry"
)

// Config controls the external OCR toolchain.
type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang string // tesseract language, default "eng"
	DPI  int    // rasterization DPI for scanned PDFs, default 300
}

// Extractor converts stored PDF and image files into plain text.
type Extractor struct {
	cfg    Config
	runner Runner
}

// NewExtractor builds an Extractor with defaults applied.
func NewExtractor(cfg Config) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}}
}

// NewExtractorWithRunner is like NewExtractor but with an injected command runner.
func NewExtractorWithRunner(cfg Config, runner Runner) *Extractor {
	e := NewExtractor(cfg)
	if runner != nil {
		e.runner = runner
	}
	return e
}

// Text extracts text from the file at path. Any failure, including a missing
// file, yields an empty string; callers treat whitespace-only output as total
// extraction failure.
func (e *Extractor) Text(ctx context.Context, path string) string {
	text, err := e.extract(ctx, path)
	if err != nil {
		telemetry.Error("ocr.extract.failed", map[string]any{
			"path": path,
			"err":  err.Error(),
		})
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *Extractor) extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "pdf":
		return e.extractPDF(ctx, path)
	case "jpg", "jpeg", "png":
		return e.tesseract(ctx, path)
	default:
		return "", fmt.Errorf("unsupported extension: %q", ext)
	}
}

// tesseract runs OCR on a single image file.
func (e *Extractor) tesseract(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.Lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
