package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/catalog/internal/wire"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// handler serves the table routes for one Cupboard.
type handler struct {
	cupboard types.Cupboard
}

func (h *handler) table(c *gin.Context) (types.Table, bool) {
	table, err := h.cupboard.GetTable(c.Param("table"))
	if err != nil {
		storeError(c, err)
		return nil, false
	}
	return table, true
}

func (h *handler) health(c *gin.Context) {
	if _, err := h.cupboard.GetTable(types.AuthorsTable); err != nil {
		storeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) list(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}
	filter, err := filterFromQuery(c)
	if err != nil {
		storeError(c, err)
		return
	}
	rows, err := table.Fetch(c.Request.Context(), filter)
	if err != nil {
		storeError(c, err)
		return
	}
	success(c, http.StatusOK, rows)
}

func (h *handler) get(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}
	row, err := table.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	success(c, http.StatusOK, row)
}

func (h *handler) create(c *gin.Context) {
	h.set(c, "", http.StatusCreated)
}

func (h *handler) put(c *gin.Context) {
	h.set(c, c.Param("id"), http.StatusOK)
}

func (h *handler) set(c *gin.Context, id string, status int) {
	table, ok := h.table(c)
	if !ok {
		return
	}
	entity, err := decodeEntity(c.Param("table"), c.Request.Body)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	newID, err := table.Set(c.Request.Context(), id, entity)
	if err != nil {
		storeError(c, err)
		return
	}
	success(c, status, wire.CreatedData{ID: newID})
}

func (h *handler) patch(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}
	var req wire.PatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := table.Patch(c.Request.Context(), c.Param("id"), req.Field, req.Value); err != nil {
		storeError(c, err)
		return
	}
	success(c, http.StatusOK, nil)
}

func (h *handler) delete(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}
	if err := table.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err)
		return
	}
	success(c, http.StatusOK, nil)
}

func decodeEntity(table string, body io.Reader) (types.Entity, error) {
	entity, err := types.NewEntity(table)
	if err != nil {
		return nil, err
	}
	if err := json.NewDecoder(body).Decode(entity); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return entity, nil
}

// filterFromQuery builds a Filter from the recognised query parameters.
func filterFromQuery(c *gin.Context) (types.Filter, error) {
	filter := types.Filter{}
	if v, ok := c.GetQuery(types.FilterAuthorID); ok {
		filter[types.FilterAuthorID] = v
	}
	if v, ok := c.GetQuery(types.FilterDeleted); ok {
		deleted, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("deleted=%q: %w", v, types.ErrInvalidFilter)
		}
		filter[types.FilterDeleted] = deleted
	}
	return filter, nil
}
