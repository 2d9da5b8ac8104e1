package documents

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const markdownSummary = `## Key points

- Revenue grew **12%** year over year
- Costs held flat

Overall the quarter was strong.`

func summarizedDoc(t *testing.T, title string) (*Service, Document) {
	t.Helper()
	svc, repo := newTestService(&fakeSummarizer{})
	doc := mustCreate(t, repo, title, "body")
	doc, err := repo.UpdateSummary(context.Background(), doc.ID, markdownSummary, time.Now())
	require.NoError(t, err)
	return svc, doc
}

func TestParseSummaryBlocks(t *testing.T) {
	blocks := parseSummary(markdownSummary)

	require.Equal(t, []block{
		{kind: blockHeading, level: 2, text: "Key points"},
		{kind: blockBullet, text: "Revenue grew 12% year over year"},
		{kind: blockBullet, text: "Costs held flat"},
		{kind: blockParagraph, text: "Overall the quarter was strong."},
	}, blocks)
}

func TestExportSummaryText(t *testing.T) {
	svc, doc := summarizedDoc(t, "Q3 Report.pdf")

	out, err := svc.ExportSummary(context.Background(), doc.ID, "TXT")
	require.NoError(t, err)
	require.Equal(t, "q3_report_pdf_summary.txt", out.FileName)
	require.Equal(t, "text/plain; charset=utf-8", out.ContentType)

	body := string(out.Data)
	require.True(t, strings.HasPrefix(body, "Q3 Report.pdf\n\nKEY POINTS\n"))
	require.Contains(t, body, "- Revenue grew 12% year over year\n- Costs held flat\n")
	require.True(t, strings.HasSuffix(body, "Overall the quarter was strong.\n"))
}

func TestExportSummaryPDFByDefault(t *testing.T) {
	svc, doc := summarizedDoc(t, "notes")

	out, err := svc.ExportSummary(context.Background(), doc.ID, "")
	require.NoError(t, err)
	require.Equal(t, "notes_summary.pdf", out.FileName)
	require.Equal(t, "application/pdf", out.ContentType)
	require.True(t, bytes.HasPrefix(out.Data, []byte("%PDF-")))
}

func TestExportSummaryDOCX(t *testing.T) {
	svc, doc := summarizedDoc(t, "notes")

	out, err := svc.ExportSummary(context.Background(), doc.ID, FormatDOCX)
	require.NoError(t, err)
	require.Equal(t, "notes_summary.docx", out.FileName)
	require.True(t, bytes.HasPrefix(out.Data, []byte("PK")))
}

func TestExportSummaryErrors(t *testing.T) {
	svc, repo := newTestService(&fakeSummarizer{})
	doc := mustCreate(t, repo, "notes", "body")
	ctx := context.Background()

	_, err := svc.ExportSummary(ctx, doc.ID, "txt")
	require.ErrorIs(t, err, ErrNoSummary)

	_, err = svc.ExportSummary(ctx, doc.ID, "rtf")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.ExportSummary(ctx, "missing", "txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExportPDFRejectsTextOutsideCoreFont(t *testing.T) {
	svc, repo := newTestService(&fakeSummarizer{})
	doc := mustCreate(t, repo, "Отчёт", "body")
	_, err := repo.UpdateSummary(context.Background(), doc.ID, "## 要点\n\n- 売上が伸びた", time.Now())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.ExportSummary(ctx, doc.ID, "pdf")
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "EXPORT_PDF_FONT")

	out, err := svc.ExportSummary(ctx, doc.ID, "txt")
	require.NoError(t, err)
	require.Contains(t, string(out.Data), "売上が伸びた")

	_, err = svc.ExportSummary(ctx, doc.ID, "docx")
	require.NoError(t, err)
}

func TestCoreFontSafe(t *testing.T) {
	latin := []block{{kind: blockBullet, text: "Café – naïve “quotes” €5"}}
	require.True(t, coreFontSafe("Résumé", latin))
	require.False(t, coreFontSafe("Résumé", []block{{text: "Привет"}}))
	require.False(t, coreFontSafe("日本語", latin))
}
