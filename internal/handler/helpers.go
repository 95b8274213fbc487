package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/synopsis/internal/ai"
	"github.com/xxxsen/synopsis/internal/pdftext"
	appErr "github.com/xxxsen/synopsis/internal/pkg/errors"
	"github.com/xxxsen/synopsis/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get("user_id")
	userID, _ := value.(string)
	return userID
}

// handleError maps a pipeline failure to its HTTP classification. Every
// caller-facing reason is explicit; true infrastructure faults stay generic
// while the detail goes to the log.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)

	var insufficient *pdftext.InsufficientContentError
	switch {
	case errors.Is(err, appErr.ErrQuotaExceeded):
		response.Error(c, http.StatusForbidden, "You have exceeded your PDF summarization limit. Please upgrade your plan.")
	case errors.As(err, &insufficient):
		response.Error(c, http.StatusUnprocessableEntity, insufficientContentMessage(insufficient.Words))
	case errors.Is(err, pdftext.ErrEmptyContent):
		response.Error(c, http.StatusUnprocessableEntity, "Unable to extract text from the PDF. It might be an image-only PDF.")
	case errors.Is(err, ai.ErrNotConfigured):
		response.Error(c, http.StatusInternalServerError, "Service configuration error. Please contact support.")
	case errors.Is(err, ai.ErrRejected), errors.Is(err, ai.ErrUnreachable):
		response.Error(c, http.StatusInternalServerError, "AI Provider Error: "+providerDetail(err))
	case errors.Is(err, ai.ErrMalformed):
		response.Error(c, http.StatusInternalServerError, "Unexpected response from AI provider")
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "invalid request")
	default:
		response.Error(c, http.StatusInternalServerError, "An error occurred while processing the PDF.")
	}
}

func providerDetail(err error) string {
	return err.Error()
}

func insufficientContentMessage(words int) string {
	return fmt.Sprintf("The PDF contains too little text (%d words) to generate a meaningful summary. Please upload a document with more substantive content.", words)
}
