package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/openlearn/learnportal-be/types"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"
)

// ErrNoUsableText is returned when a PDF yields too little text and OCR is
// either disabled or also came up empty.
var ErrNoUsableText = errors.New("no usable text extracted")

// PDFService extracts text from PDF files and splits it into overlapping
// chunks. Direct extraction is tried first; scanned documents fall back to
// rasterization plus OCR when enabled.
type PDFService struct {
	minTextLength int
	pdftoppmPath  string
	tesseractPath string
	splitter      textsplitter.RecursiveCharacter
}

func NewPDFService(cfg types.DocumentServiceConfig) *PDFService {
	return &PDFService{
		minTextLength: cfg.MinTextLength,
		pdftoppmPath:  cfg.PdftoppmPath,
		tesseractPath: cfg.TesseractPath,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.ChunkSize),
			textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		),
	}
}

// ExtractText returns the cleaned text of a PDF. When direct extraction yields
// less than the configured minimum and OCR is enabled, pages are rasterized
// and run through tesseract instead.
func (s *PDFService) ExtractText(ctx context.Context, path string, ocrEnabled bool) (string, error) {
	text, err := s.extractDirect(path)
	if err != nil {
		log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("direct text extraction failed")
	}
	text = cleanText(text)
	if len(text) >= s.minTextLength {
		return text, nil
	}

	if !ocrEnabled {
		return "", fmt.Errorf("%w from %s (ocr disabled)", ErrNoUsableText, filepath.Base(path))
	}

	log.Info().Str("file", filepath.Base(path)).Int("direct_len", len(text)).Msg("falling back to OCR")
	ocrText, err := s.extractOCR(ctx, path)
	if err != nil {
		return "", err
	}
	ocrText = cleanText(ocrText)
	if len(ocrText) == 0 {
		return "", fmt.Errorf("%w from %s (ocr produced nothing)", ErrNoUsableText, filepath.Base(path))
	}
	return ocrText, nil
}

// ChunkText splits text into overlapping chunks sized for retrieval.
func (s *PDFService) ChunkText(text string) ([]string, error) {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}
	filtered := chunks[:0]
	for _, chunk := range chunks {
		if trimmed := strings.TrimSpace(chunk); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	return filtered, nil
}

func (s *PDFService) extractDirect(path string) (text string, err error) {
	// The pdf parser panics on some malformed files; a single bad PDF must not
	// take down a whole batch.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic on %s: %v", filepath.Base(path), r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		return "", fmt.Errorf("failed to read extracted text: %w", err)
	}
	return buf.String(), nil
}

// extractOCR rasterizes every page to PNG with pdftoppm and runs tesseract
// over each image, concatenating the recognized text in page order.
func (s *PDFService) extractOCR(ctx context.Context, path string) (string, error) {
	tempDir, err := os.MkdirTemp("", "learnportal-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	convertCmd := exec.CommandContext(ctx, s.pdftoppmPath, "-png", "-r", "150", path, filepath.Join(tempDir, "page"))
	if out, err := convertCmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(filepath.Join(tempDir, "page-*.png"))
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("no page images produced for %s", filepath.Base(path))
	}
	sort.Strings(images)

	var sb strings.Builder
	for _, image := range images {
		ocrCmd := exec.CommandContext(ctx, s.tesseractPath, image, "stdout", "--oem", "3", "--psm", "3")
		var out bytes.Buffer
		ocrCmd.Stdout = &out
		if err := ocrCmd.Run(); err != nil {
			log.Warn().Err(err).Str("image", filepath.Base(image)).Msg("tesseract failed on page")
			continue
		}
		sb.WriteString(out.String())
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var textCleaner = strings.NewReplacer(
	"\x00", "",
	"\uFFFD", "",
	"\x1b", "",
	"\r", "",
	"\f", "\n",
)

func cleanText(text string) string {
	cleaned := textCleaner.Replace(text)
	for strings.Contains(cleaned, "  ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}
	return strings.TrimSpace(cleaned)
}
