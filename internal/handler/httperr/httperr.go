// Package httperr shapes the error body of the triage API. Every failure
// the API reports (settings outage, read-store errors, bad parameters)
// goes through AbortWithError so clients see one envelope.
package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON error envelope. Detail carries optional
// machine-readable context, such as the offending query parameter.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError writes the envelope and attaches the underlying error to
// the gin context so the error-handling middleware can log it with its
// stack. msg is what the client sees; err is what the operator sees.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
