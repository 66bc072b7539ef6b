// Package textsource turns input files into the plain text consumed by the extractors.
// Text files are decoded as UTF-8 or BOM-marked UTF-16. PDFs are read through their text
// layer; pages without one are reported because they need OCR, which is not done here.
package textsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format is the detected kind of input.
type Format string

const (
	FormatText    Format = "text"
	FormatPDF     Format = "pdf"
	FormatUnknown Format = "unknown"
)

// minPageText is the shortest trimmed page text treated as a real text layer.
const minPageText = 10

var (
	// ErrUnsupportedFormat is returned for binary inputs that are neither text nor PDF.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	pdfMagic = []byte("%PDF-")
	bomUTF8  = []byte{0xEF, 0xBB, 0xBF}
	bomLE    = []byte{0xFF, 0xFE}
	bomBE    = []byte{0xFE, 0xFF}
)

// Document is the text read from one input.
type Document struct {
	Name     string
	Format   Format
	Text     string
	Pages    int
	Warnings []string
}

// Detect sniffs the format from the first bytes of an input.
func Detect(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return FormatPDF
	case bytes.HasPrefix(head, bomUTF8), bytes.HasPrefix(head, bomLE), bytes.HasPrefix(head, bomBE):
		return FormatText
	case utf8.Valid(trimPartialRune(head)):
		return FormatText
	default:
		return FormatUnknown
	}
}

// ReadFile reads a text or PDF file from disk.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Name = path
	return doc, nil
}

// ReadBytes decodes an in-memory input.
func ReadBytes(data []byte) (*Document, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}

	switch Detect(head) {
	case FormatPDF:
		return readPDF(data)
	case FormatText:
		text, err := DecodeText(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Document{Format: FormatText, Text: text, Pages: 1}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// DecodeText reads UTF-8 or BOM-marked UTF-16 text and normalizes line endings to '\n'.
func DecodeText(r io.Reader) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	raw, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}

func readPDF(data []byte) (doc *Document, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc = &Document{Format: FormatPDF, Pages: reader.NumPage()}
	var sb strings.Builder

	for i := 1; i <= doc.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("page %d is empty", i))
			continue
		}
		text, perr := pageText(page)
		if perr != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, perr)
		}
		if len(strings.TrimSpace(text)) <= minPageText {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("page %d has no text layer and needs OCR", i))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	doc.Text = sb.String()
	return doc, nil
}

// pageText joins the words of each row with spaces, one row per line.
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, row := range rows {
		words := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			words = append(words, word.S)
		}
		sb.WriteString(strings.Join(words, " "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of a sniffed head.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size != 1 {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}
