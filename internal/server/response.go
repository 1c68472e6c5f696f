// Package server exposes a types.Cupboard as the catalog's HTTP data service.
//
// Routes (all under /v1):
//
//	GET    /health
//	GET    /:table            list, filtered by ?author_id= and ?deleted=
//	POST   /:table            create; body is the entity
//	GET    /:table/:id
//	PUT    /:table/:id        upsert under id; body is the entity
//	PATCH  /:table/:id        body {"field": ..., "value": ...}
//	DELETE /:table/:id
//
// Every response uses the wire.Response envelope.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/catalog/internal/wire"
)

func success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, wire.Response{Success: true, Data: data})
}

func errorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, wire.Response{
		Success: false,
		Error:   &wire.Error{Code: code, Message: message},
	})
}

func badRequest(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, wire.CodeBadRequest, message)
}

func storeError(c *gin.Context, err error) {
	status, code := wire.StatusFor(err)
	errorResponse(c, status, code, err.Error())
}
