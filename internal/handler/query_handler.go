package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karwash91/my-chatbot/internal/pkg/response"
	"github.com/karwash91/my-chatbot/internal/service"
)

type QueryHandler struct {
	query *service.QueryService
}

func NewQueryHandler(query *service.QueryService) *QueryHandler {
	return &QueryHandler{query: query}
}

type queryRequest struct {
	Query string `json:"query"`
}

func (h *QueryHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		response.Error(c, http.StatusBadRequest, "no query provided")
		return
	}
	result, err := h.query.Answer(c.Request.Context(), req.Query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
