package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/knowra/knowra-be/types"
)

// PDFService handles PDF text extraction and chunking.
type PDFService struct {
	maxChunkSize int // Maximum size of each text chunk, in characters
	overlapSize  int // Size of overlap between chunks of the same page
}

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxChunkSize: 1000,
	OverlapSize:  100,
}

// NewPDFService creates a new PDF service with configurable chunk sizes.
func NewPDFService(config types.DocumentServiceConfig) *PDFService {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultDocumentServiceConfig.MaxChunkSize
	}
	if config.OverlapSize < 0 || config.OverlapSize >= config.MaxChunkSize {
		config.OverlapSize = DefaultDocumentServiceConfig.OverlapSize
	}
	return &PDFService{
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
	}
}

// ExtractPages reads per-page plain text from a PDF. A page whose text
// cannot be extracted yields an empty entry and a warning, it never
// aborts the rest of the document. Returned pages are 0-based.
func (s *PDFService) ExtractPages(r io.ReaderAt, size int64) ([]types.PageText, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	totalPages := reader.NumPage()
	pages := make([]types.PageText, 0, totalPages)
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		text, err := extractPageText(reader, pageNum)
		if err != nil {
			log.Warn().Err(err).Int("page", pageNum-1).Msg("failed to extract text from page")
			text = ""
		}
		pages = append(pages, types.PageText{
			Page: pageNum - 1,
			Text: text,
		})
	}

	return pages, nil
}

// PageCount reports the number of pages in a PDF without extracting text.
func (s *PDFService) PageCount(r io.ReaderAt, size int64) (int, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return reader.NumPage(), nil
}

// extractPageText pulls the plain text of one 1-based page. The pdf
// library panics on some malformed content streams, so panics are
// converted to errors here.
func extractPageText(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is missing", pageNum)
	}
	return page.GetPlainText(nil)
}

// ChunkPages splits per-page text into overlapping chunks. Every chunk
// keeps the 0-based page index of the text it was extracted from; chunks
// never span page boundaries. Chunking is deterministic for a given
// input and configuration.
func (s *PDFService) ChunkPages(source string, pages []types.PageText) []types.DocumentChunk {
	var chunks []types.DocumentChunk
	for _, page := range pages {
		chunks = append(chunks, s.chunkPage(source, page)...)
	}
	return chunks
}

func (s *PDFService) chunkPage(source string, page types.PageText) []types.DocumentChunk {
	text := cleanText(page.Text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	textLen := len(runes)

	if textLen <= s.maxChunkSize {
		return []types.DocumentChunk{{
			Content: text,
			Page:    page.Page,
			Source:  source,
		}}
	}

	var chunks []types.DocumentChunk
	currentPos := 0
	for currentPos < textLen {
		chunkEnd := currentPos + s.maxChunkSize
		if chunkEnd >= textLen {
			if chunk := strings.TrimSpace(string(runes[currentPos:])); chunk != "" {
				chunks = append(chunks, types.DocumentChunk{
					Content: chunk,
					Page:    page.Page,
					Source:  source,
				})
			}
			break
		}

		// Prefer cutting at a sentence end, then a word boundary.
		sentenceEnd := chunkEnd
		for i := chunkEnd - 1; i > currentPos; i-- {
			if r := runes[i]; r == '.' || r == '?' || r == '!' || r == '\n' {
				sentenceEnd = i + 1
				break
			}
		}
		if sentenceEnd == chunkEnd {
			for i := chunkEnd - 1; i > currentPos; i-- {
				if runes[i] == ' ' {
					sentenceEnd = i
					break
				}
			}
		}

		if chunk := strings.TrimSpace(string(runes[currentPos:sentenceEnd])); chunk != "" {
			chunks = append(chunks, types.DocumentChunk{
				Content: chunk,
				Page:    page.Page,
				Source:  source,
			})
		}

		// Step back by the overlap so context survives the split, but
		// always make forward progress.
		nextPos := sentenceEnd - s.overlapSize
		if nextPos <= currentPos {
			nextPos = sentenceEnd
		}
		currentPos = nextPos
	}

	return chunks
}

var textScrubber = strings.NewReplacer(
	"\u0000", "", // Null character
	"\ufffd", "", // Unicode replacement character
	"\u001b", "", // Escape character
	"\r", "", // Carriage return
	"\f", "\n", // Form feed to newline
)

// cleanText scrubs control characters and collapses runs of spaces.
// Replacements run in a fixed order so chunking stays deterministic.
func cleanText(text string) string {
	cleaned := textScrubber.Replace(text)
	for strings.Contains(cleaned, "  ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}
	return strings.TrimSpace(cleaned)
}
