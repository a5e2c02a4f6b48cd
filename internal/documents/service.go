package documents

import (
	"context"
	"io"
	"strings"
	"time"

	"medidoc-backend/internal/extract"
	"medidoc-backend/internal/shared/metrics"
	"medidoc-backend/internal/shared/storage/files"
	"medidoc-backend/internal/shared/telemetry"
)

// TextExtractor converts a stored file into plain text; empty output means
// total extraction failure.
type TextExtractor interface {
	Text(ctx context.Context, path string) string
}

// FieldClassifier turns extracted text into structured fields; it always
// returns a usable record.
type FieldClassifier interface {
	Classify(ctx context.Context, text string) extract.Fields
}

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
}

// Service orchestrates ingestion of one uploaded file: persist raw bytes,
// extract text, classify, store the record. No step is retried.
type Service struct {
	Files      *files.Store
	Extractor  TextExtractor
	Classifier FieldClassifier
	Repo       Repo
}

// Ingest runs the upload pipeline end to end and returns the structured
// fields of the persisted record. Validation and extraction failures are the
// named sentinel errors; anything else is a server fault for the caller to
// report generically.
func (s *Service) Ingest(ctx context.Context, fileName, contentType string, r io.Reader) (extract.Fields, error) {
	metrics.IncIngestStarted()
	start := time.Now()

	fields, err := s.ingest(ctx, fileName, contentType, r)
	metrics.ObserveIngestDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncIngestFailed()
		return extract.Fields{}, err
	}
	metrics.IncIngestSucceeded()
	return fields, nil
}

func (s *Service) ingest(ctx context.Context, fileName, contentType string, r io.Reader) (extract.Fields, error) {
	if _, ok := allowedContentTypes[normalizeContentType(contentType)]; !ok {
		return extract.Fields{}, ErrUnsupportedType
	}

	path, size, err := s.Files.Save(ctx, fileName, r)
	if err != nil {
		return extract.Fields{}, err
	}
	if size == 0 {
		_ = s.Files.Remove(fileName)
		return extract.Fields{}, ErrEmptyUpload
	}

	text := s.Extractor.Text(ctx, path)
	if strings.TrimSpace(text) == "" {
		// No record and no orphaned file for unreadable input.
		if err := s.Files.Remove(fileName); err != nil {
			telemetry.Error("ingest.cleanup.failed", map[string]any{"file_name": fileName, "err": err.Error()})
		}
		return extract.Fields{}, ErrExtractionFailed
	}

	fields := s.Classifier.Classify(ctx, text)

	doc := Document{
		Filename:     fileName,
		Category:     fields.Category,
		DocumentDate: fields.DocumentDate,
		DoctorName:   fields.DoctorName,
		HospitalName: fields.HospitalName,
		Summary:      fields.Summary,
		Content:      text,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.Repo.Insert(ctx, doc)
	if err != nil {
		return extract.Fields{}, err
	}

	telemetry.Info("ingest.complete", map[string]any{
		"document_id": id,
		"file_name":   fileName,
		"category":    fields.Category,
		"bytes":       size,
	})
	return fields, nil
}

// List returns all stored documents as summary rows, ordered per Repo.ListAll.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.ListAll(ctx)
}

func normalizeContentType(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}
