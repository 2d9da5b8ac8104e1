package respond

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorWritesEnvelopeAndAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reached := false
	r := gin.New()
	r.GET("/documents/:id", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	}, func(c *gin.Context) {
		reached = true
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/documents/abc", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if reached {
		t.Fatalf("expected chain to abort after Error")
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "not_found" || body.Error.Message != "document not found" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAttachmentSetsDisposition(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/file", func(c *gin.Context) {
		Attachment(c, "report_summary.txt", "text/plain; charset=utf-8", []byte("hi"))
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/file", nil))

	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename=report_summary.txt` {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if resp.Body.String() != "hi" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func TestContentDispositionEscapesFileName(t *testing.T) {
	cases := map[string]string{
		"":                    "attachment",
		"notes final.txt":     `attachment; filename="notes final.txt"`,
		`evil".txt`:           `attachment; filename="evil\".txt"`,
		"a\r\nSet-Cookie: x=1": `attachment; filename*=utf-8''a%0D%0ASet-Cookie%3A%20x%3D1`,
		"résumé.pdf":          `attachment; filename*=utf-8''r%C3%A9sum%C3%A9.pdf`,
	}
	for in, want := range cases {
		got := ContentDisposition(in)
		if got != want {
			t.Fatalf("ContentDisposition(%q) = %q, want %q", in, got, want)
		}
		if _, params, err := mime.ParseMediaType(got); err != nil || params["filename"] != in {
			t.Fatalf("round trip of %q: params=%v err=%v", in, params, err)
		}
	}
}
