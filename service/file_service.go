package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"github.com/knowra/knowra-be/database"
	"github.com/knowra/knowra-be/types"
)

// FileService handles PDF uploads: it stores the raw file for the
// preview endpoints, extracts and chunks the text, builds the vector
// index and publishes it to the registry.
type FileService struct {
	uploadDir    string
	registry     database.DocumentRegistry
	pdfService   *PDFService
	embedder     Embedder
	buildTimeout time.Duration
}

func NewFileService(
	uploadDir string,
	registry database.DocumentRegistry,
	pdfService *PDFService,
	embedder Embedder,
	buildTimeout time.Duration,
) *FileService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		panic(err)
	}
	return &FileService{
		uploadDir:    uploadDir,
		registry:     registry,
		pdfService:   pdfService,
		embedder:     embedder,
		buildTimeout: buildTimeout,
	}
}

// UploadDocument ingests one PDF. The index is built in full before it
// is published, so concurrent chats for the same filename observe either
// the previous index or the new one, never a partial build. Re-uploading
// a filename replaces its index, last write wins.
func (s *FileService) UploadDocument(ctx context.Context, filename string, file io.Reader) (*types.UploadResponse, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return nil, fmt.Errorf("%w: only PDF files allowed", types.ErrInvalidInput)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	pages, err := s.pdfService.ExtractPages(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidInput, err)
	}

	chunks := s.pdfService.ChunkPages(filename, pages)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrNoExtractableText, filename)
	}

	buildCtx, cancel := context.WithTimeout(ctx, s.buildTimeout)
	defer cancel()
	index, err := database.BuildChromemIndex(buildCtx, filename, chunks, chromem.EmbeddingFunc(s.embedder.EmbedQuery))
	if err != nil {
		return nil, fmt.Errorf("%w: building index: %v", types.ErrUpstream, err)
	}

	// Keep the raw PDF around for the preview endpoints. A failure here
	// only degrades preview, the index is still published.
	if err := os.WriteFile(s.StoredPath(filename), data, 0644); err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("failed to store uploaded PDF")
	}

	s.registry.Put(filename, index)
	log.Info().Str("filename", filename).Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("uploaded and indexed PDF")

	return &types.UploadResponse{
		Filename: filename,
		Pages:    len(pages),
		Chunks:   len(chunks),
		Message:  fmt.Sprintf("PDF '%s' processed successfully.", filename),
	}, nil
}

// StoredPath returns the on-disk location for an uploaded filename, with
// unsafe characters replaced.
func (s *FileService) StoredPath(filename string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, filepath.Base(filename))
	return filepath.Join(s.uploadDir, sanitized)
}
