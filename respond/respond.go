// Package respond writes the shared JSON envelopes at the endpoint
// boundary. API routes use {success:false, error:{type,message}};
// the auth routes keep their flatter {success:false, message} shape.
package respond

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bananina/storefront-api/apperr"
)

// Err renders a tagged error as {success:false, error:{type,message}}.
// Storage detail goes to the log only.
func Err(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	errType := "request_error"
	if kind == apperr.Storage {
		errType = "database_error"
		logrus.WithField("path", c.FullPath()).Errorf("storage error: %v", err)
	}
	c.JSON(apperr.Status(err), gin.H{
		"success": false,
		"error": gin.H{
			"type":    errType,
			"message": apperr.ClientMessage(err),
		},
	})
}

// AuthErr renders the auth endpoints' flat envelope.
func AuthErr(c *gin.Context, err error) {
	msg := apperr.ClientMessage(err)
	if apperr.KindOf(err) == apperr.Storage {
		msg = "An internal server error occurred"
		logrus.WithField("path", c.FullPath()).Errorf("storage error: %v", err)
	}
	c.JSON(apperr.Status(err), gin.H{
		"success": false,
		"message": msg,
	})
}
