package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/upskill-backend/internal/platform/apierr"
)

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: msg, Code: code})
}

// RespondAPIError writes err when it is an *apierr.Error and a generic 500
// carrying publicMsg otherwise.
func RespondAPIError(c *gin.Context, err error, publicMsg string) {
	ae := apierr.As(err, publicMsg)
	RespondError(c, ae.Status, ae.Code, ae)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
