// Package extract turns uploaded PDF, DOCX and plain-text bytes into text.
package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"docsum-backend/internal/shared/metrics"
)

// Text extracts plain text from data according to mimeType.
// Empty input yields "" for every supported type.
func Text(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized := cleanMime(mimeType)
	if !Supported(normalized) {
		return "", &UnsupportedFileTypeError{MimeType: normalized}
	}
	format := Format(normalized)
	if len(data) == 0 {
		return "", nil
	}

	start := time.Now()
	defer func() { metrics.ObserveExtractDuration(format, time.Since(start)) }()

	var (
		text string
		err  error
	)
	switch normalized {
	case MimePDF:
		text, err = extractPDF(ctx, data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	default:
		text = strings.ToValidUTF8(string(data), "\uFFFD")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &ExtractionError{Format: format, Err: err}
	}
	return text, nil
}

// pdfDecodeTimeout bounds one PDF decode.
var pdfDecodeTimeout = 30 * time.Second

// decodePDF is swapped in tests.
var decodePDF = decodePDFText

// extractPDF runs the decoder off the caller's goroutine because it takes
// no context. An abandoned decode finishes in the background and its result
// is dropped.
func extractPDF(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfDecodeTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	decode := decodePDF
	done := make(chan result, 1)
	go func() {
		text, err := decode(data)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("pdf decode: %w", ctx.Err())
	}
}

func decodePDFText(data []byte) (text string, err error) {
	// The decoder panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	raw := doc.Editable().GetContent()
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("document.xml is empty")
	}
	return stripDocxXML(raw)
}

// stripDocxXML keeps character data from WordprocessingML. Paragraph ends
// and breaks become newlines, tabs become '\t'.
func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	inTabStops := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case "tabs":
				inTabStops = true
			case "tab":
				if !inTabStops {
					buf.WriteByte('\t')
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tabs" {
				inTabStops = false
			}
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
