package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Upload *UploadHandler
	Query  *QueryHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/documents/upload", deps.Upload.Upload)
	api.POST("/chat/query", deps.Query.Query)
	api.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
