package respond

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Attachment streams data as a downloadable file.
func Attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", ContentDisposition(fileName))
	c.Data(http.StatusOK, contentType, data)
}

// ContentDisposition builds an attachment header with fileName quoted or
// RFC 2231 encoded as needed. An unusable name degrades to a bare attachment.
func ContentDisposition(fileName string) string {
	if fileName == "" {
		return "attachment"
	}
	v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
	if v == "" {
		return "attachment"
	}
	return v
}
