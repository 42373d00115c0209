package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kenijima/chainmark/internal/apperr"
)

// respondError writes the plain-text error body. Known kinds carry
// their own status; anything else is a 500.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			log.Errorf("%s: %v", appErr.Code, err)
		}
		c.String(appErr.Status, appErr.Message)
		return
	}

	log.Errorf("Unclassified error: %v", err)
	c.String(http.StatusInternalServerError, "Internal server error")
}
