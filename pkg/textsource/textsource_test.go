package textsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Format
	}{
		{"pdf magic", []byte("%PDF-1.7\n%âãÏÓ"), FormatPDF},
		{"plain utf8", []byte("Số tiền: 5.000.000"), FormatText},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "Ngày"...), FormatText},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'A', 0x00}, FormatText},
		{"cut inside a rune", []byte("Ngày")[:3], FormatText},
		{"binary", []byte{0x00, 0xFF, 0x10, 0x80, 0x81}, FormatUnknown},
		{"empty", nil, FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.head))
		})
	}
}

func TestReadBytes_Text(t *testing.T) {
	doc, err := ReadBytes([]byte("\xEF\xBB\xBFỦY NHIỆM CHI\r\nSố tiền:\r\n5.000.000\r"))
	require.NoError(t, err)

	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, "ỦY NHIỆM CHI\nSố tiền:\n5.000.000\n", doc.Text)
	assert.Equal(t, 1, doc.Pages)
	assert.Empty(t, doc.Warnings)
}

func TestReadBytes_UTF16(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("Tổng cộng 1.080.000\n")
	require.NoError(t, err)

	doc, err := ReadBytes([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Tổng cộng 1.080.000\n", doc.Text)
}

func TestReadBytes_Unsupported(t *testing.T) {
	_, err := ReadBytes([]byte{0x00, 0xFF, 0xFE, 0x00, 0xC0})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadBytes_MalformedPDF(t *testing.T) {
	_, err := ReadBytes([]byte("%PDF-1.4\nthis is not a real pdf body"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "advice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Số tiền: 25.000.000 VND\n"), 0o600))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Name)
	assert.Equal(t, "Số tiền: 25.000.000 VND\n", doc.Text)

	_, err = ReadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
