package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karwash91/my-chatbot/internal/pkg/response"
	"github.com/karwash91/my-chatbot/internal/service"
)

type UploadHandler struct {
	upload *service.UploadService
}

func NewUploadHandler(upload *service.UploadService) *UploadHandler {
	return &UploadHandler{upload: upload}
}

type uploadRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (h *UploadHandler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" || req.Content == "" {
		response.Error(c, http.StatusBadRequest, "missing filename or content")
		return
	}
	result, err := h.upload.Upload(c.Request.Context(), req.Filename, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message": "file uploaded and ingest job queued",
		"doc_id":  result.DocID,
		"s3_key":  result.S3Key,
	})
}
