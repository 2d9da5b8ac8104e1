package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Quarterly</w:t></w:r><w:r><w:tab/><w:t>report</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": testRelsXML,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildPDF(t *testing.T, text string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(40, 10, text)
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestTextEmptyInputReturnsEmptyForSupportedTypes(t *testing.T) {
	for _, mime := range []string{MimePDF, MimeDOCX, MimeText, "text/plain; charset=utf-8"} {
		got, err := Text(context.Background(), nil, mime)
		require.NoError(t, err, mime)
		require.Equal(t, "", got, mime)
	}
}

func TestTextUnsupportedTypeFails(t *testing.T) {
	for _, mime := range []string{"image/png", "application/zip", ""} {
		_, err := Text(context.Background(), []byte("data"), mime)
		require.ErrorIs(t, err, ErrUnsupportedFileType, mime)

		var typed *UnsupportedFileTypeError
		require.True(t, errors.As(err, &typed))
		require.Equal(t, mime, typed.MimeType)
	}
}

func TestTextPlainIsVerbatimUTF8(t *testing.T) {
	got, err := Text(context.Background(), []byte("héllo\nworld\xff"), "TEXT/PLAIN")
	require.NoError(t, err)
	require.Equal(t, "héllo\nworld�", got)
}

func TestTextDOCX(t *testing.T) {
	got, err := Text(context.Background(), buildDocx(t, testDocumentXML), MimeDOCX)
	require.NoError(t, err)
	require.Equal(t, "Quarterly\treport\nLine one\nLine two", got)
}

func TestTextDOCXCorruptFails(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a zip archive"), MimeDOCX)
	require.ErrorIs(t, err, ErrExtractionFailed)

	var typed *ExtractionError
	require.True(t, errors.As(err, &typed))
	require.Equal(t, "docx", typed.Format)
	require.NotNil(t, typed.Err)
}

func TestTextPDF(t *testing.T) {
	got, err := Text(context.Background(), buildPDF(t, "Hello PDF"), MimePDF)
	require.NoError(t, err)
	require.Contains(t, got, "Hello PDF")
}

func TestTextPDFCorruptFails(t *testing.T) {
	_, err := Text(context.Background(), []byte("%PDF-1.4 truncated"), MimePDF)
	require.ErrorIs(t, err, ErrExtractionFailed)
}

func TestTextHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Text(ctx, []byte("x"), MimeText)
	require.ErrorIs(t, err, context.Canceled)
}

func stallPDFDecoder(t *testing.T) {
	t.Helper()
	release := make(chan struct{})
	orig := decodePDF
	decodePDF = func([]byte) (string, error) {
		<-release
		return "too late", nil
	}
	t.Cleanup(func() {
		close(release)
		decodePDF = orig
	})
}

func TestTextPDFStopsWhenContextEnds(t *testing.T) {
	stallPDFDecoder(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Text(ctx, []byte("%PDF-1.4"), MimePDF)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, ErrExtractionFailed)
}

func TestTextPDFDecodeTimeout(t *testing.T) {
	stallPDFDecoder(t)
	orig := pdfDecodeTimeout
	pdfDecodeTimeout = 20 * time.Millisecond
	t.Cleanup(func() { pdfDecodeTimeout = orig })

	_, err := Text(context.Background(), []byte("%PDF-1.4"), MimePDF)
	require.ErrorIs(t, err, ErrExtractionFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNormalizeMimeType(t *testing.T) {
	tests := []struct {
		mime     string
		fileName string
		want     string
	}{
		{mime: "application/pdf", fileName: "a.bin", want: MimePDF},
		{mime: "Text/Plain; charset=UTF-8", fileName: "a.txt", want: MimeText},
		{mime: "application/zip", fileName: "report.DOCX", want: MimeDOCX},
		{mime: "application/octet-stream", fileName: "scan.pdf", want: MimePDF},
		{mime: "", fileName: "notes.txt", want: MimeText},
		{mime: "application/zip", fileName: "bundle.zip", want: "application/zip"},
		{mime: "image/png", fileName: "x.pdf", want: "image/png"},
	}
	for _, tt := range tests {
		if got := NormalizeMimeType(tt.mime, tt.fileName); got != tt.want {
			t.Fatalf("NormalizeMimeType(%q, %q) = %q, want %q", tt.mime, tt.fileName, got, tt.want)
		}
	}
}

func TestSupportedAndFormat(t *testing.T) {
	require.True(t, Supported("application/pdf"))
	require.True(t, Supported("text/plain; charset=utf-8"))
	require.False(t, Supported("image/png"))
	require.Equal(t, "docx", Format(MimeDOCX))
	require.Equal(t, "unknown", Format("image/png"))
}
