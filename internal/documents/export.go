package documents

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/encoding/charmap"

	"docsum-backend/internal/shared/util"
)

// Export formats.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatTXT  = "txt"
)

// Export is a rendered summary ready to download.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportSummary renders the stored summary of id as a downloadable file.
func (s *Service) ExportSummary(ctx context.Context, id, format string) (Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatDOCX && format != FormatTXT {
		return Export{}, &ValidationError{Field: "format", Reason: "must be one of pdf, docx, txt"}
	}

	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Export{}, err
	}
	if doc.Summary == nil {
		return Export{}, ErrNoSummary
	}

	blocks := parseSummary(*doc.Summary)
	out := Export{FileName: util.Slug(doc.Title) + "_summary." + format}
	switch format {
	case FormatPDF:
		if len(s.PDFFont) == 0 && !coreFontSafe(doc.Title, blocks) {
			return Export{}, &ValidationError{
				Field:  "format",
				Reason: "pdf needs EXPORT_PDF_FONT for text outside Windows-1252; use docx or txt",
			}
		}
		out.ContentType = "application/pdf"
		out.Data, err = renderPDF(doc.Title, blocks, s.PDFFont)
	case FormatDOCX:
		out.ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		out.Data, err = renderDOCX(doc.Title, blocks)
	default:
		out.ContentType = "text/plain; charset=utf-8"
		out.Data = renderText(doc.Title, blocks)
	}
	if err != nil {
		return Export{}, fmt.Errorf("render %s: %w", format, err)
	}
	return out, nil
}

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockBullet
)

type block struct {
	kind  blockKind
	level int
	text  string
}

// parseSummary flattens model output, usually light markdown, into headings,
// bullets and paragraphs.
func parseSummary(summary string) []block {
	source := []byte(summary)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []block
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			blocks = append(blocks, block{kind: blockHeading, level: n.Level, text: nodeText(n, source)})
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				blocks = append(blocks, block{kind: blockBullet, text: nodeText(item, source)})
			}
		default:
			if t := nodeText(n, source); t != "" {
				blocks = append(blocks, block{kind: blockParagraph, text: t})
			}
		}
	}
	return blocks
}

func nodeText(n ast.Node, source []byte) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 && n.FirstChild() == nil {
		var b strings.Builder
		for i := 0; i < n.Lines().Len(); i++ {
			line := n.Lines().At(i)
			b.Write(line.Value(source))
		}
		return strings.TrimSpace(b.String())
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock {
			if t := nodeText(c, source); t != "" {
				parts = append(parts, t)
			}
			continue
		}
		parts = append(parts, inlineText(c, source))
	}
	sep := ""
	if n.Type() == ast.TypeBlock && n.FirstChild() != nil && n.FirstChild().Type() == ast.TypeBlock {
		sep = " "
	}
	return strings.TrimSpace(strings.Join(parts, sep))
}

func inlineText(n ast.Node, source []byte) string {
	switch t := n.(type) {
	case *ast.Text:
		s := string(t.Segment.Value(source))
		if t.SoftLineBreak() || t.HardLineBreak() {
			s += " "
		}
		return s
	case *ast.String:
		return string(t.Value)
	}
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(inlineText(c, source))
	}
	return b.String()
}

func renderText(title string, blocks []block) []byte {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, bl := range blocks {
		switch bl.kind {
		case blockHeading:
			b.WriteString(strings.ToUpper(bl.text))
		case blockBullet:
			b.WriteString("- " + bl.text)
		default:
			b.WriteString(bl.text)
		}
		b.WriteString("\n")
		if bl.kind != blockBullet {
			b.WriteString("\n")
		}
	}
	return []byte(strings.TrimRight(b.String(), "\n") + "\n")
}

// coreFontSafe reports whether every string fits the Windows-1252 range of
// the built-in PDF fonts.
func coreFontSafe(title string, blocks []block) bool {
	enc := charmap.Windows1252.NewEncoder()
	if _, err := enc.String(title); err != nil {
		return false
	}
	for _, bl := range blocks {
		if _, err := enc.String(bl.text); err != nil {
			return false
		}
	}
	return true
}

// renderPDF lays out the summary with Helvetica, or with font (a TrueType
// file) when one is supplied.
func renderPDF(title string, blocks []block, font []byte) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(title, true)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if len(font) > 0 {
		family = "Body"
		pdf.AddUTF8FontFromBytes(family, "", font)
		pdf.AddUTF8FontFromBytes(family, "B", font)
		tr = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(4)

	for _, bl := range blocks {
		switch bl.kind {
		case blockHeading:
			pdf.SetFont(family, "B", headingSize(bl.level))
			pdf.MultiCell(0, 7, tr(bl.text), "", "L", false)
			pdf.Ln(1)
		case blockBullet:
			pdf.SetFont(family, "", 11)
			pdf.MultiCell(0, 6, tr("• "+bl.text), "", "L", false)
		default:
			pdf.SetFont(family, "", 11)
			pdf.MultiCell(0, 6, tr(bl.text), "", "L", false)
			pdf.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderDOCX(title string, blocks []block) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}

	addRun(doc.AddParagraph(""), title, true, 16)
	for _, bl := range blocks {
		switch bl.kind {
		case blockHeading:
			addRun(doc.AddParagraph(""), bl.text, true, uint64(headingSize(bl.level)))
		case blockBullet:
			addRun(doc.AddParagraph(""), "• "+bl.text, false, 11)
		default:
			addRun(doc.AddParagraph(""), bl.text, false, 11)
		}
	}

	dir, err := os.MkdirTemp("", "docsum-export-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "summary.docx")
	if err := doc.SaveTo(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func addRun(p *docx.Paragraph, s string, bold bool, size uint64) {
	run := p.AddText(s).Font("Calibri").Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 15
	case 2:
		return 13
	default:
		return 12
	}
}
