package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/karwash91/my-chatbot/internal/pkg/errors"
	"github.com/karwash91/my-chatbot/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case appErr.IsInvalid(err):
		response.Error(c, http.StatusBadRequest, "invalid request")
	case appErr.IsNotFound(err):
		response.Error(c, http.StatusNotFound, "not found")
	case appErr.IsMalformedResponse(err):
		response.Error(c, http.StatusBadGateway, "malformed upstream response")
	default:
		response.Error(c, http.StatusInternalServerError, "internal error")
	}
}
