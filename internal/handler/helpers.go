package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backoffice/internal/records"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

// bindPayload decodes a JSON object body into a field map for the record
// store.
func bindPayload(c *gin.Context) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("invalid request payload"))
		return nil, false
	}
	return fields, true
}

// extractID pulls the row id from the payload (grid PUTs send it in the
// body) and removes it so it cannot masquerade as a column.
func extractID(c *gin.Context, fields map[string]interface{}) (int64, bool) {
	raw, ok := fields["id"]
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error("id is required"))
		return 0, false
	}
	delete(fields, "id")

	switch v := raw.(type) {
	case float64:
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return id, true
		}
	}
	c.JSON(http.StatusBadRequest, response.Error("id must be a number"))
	return 0, false
}

// queryID reads the row id for DELETE requests from ?id=.
func queryID(c *gin.Context) (int64, bool) {
	raw := c.Query("id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, response.Error("id is required"))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("id must be a number"))
		return 0, false
	}
	return id, true
}

// writeStoreError maps record store and routing errors to statuses: missing
// rows to 404, referential conflicts and bad payloads to 400, the rest to
// 500 without leaking internals beyond the message.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, records.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error("record not found"))
	case errors.Is(err, records.ErrRowInUse):
		c.JSON(http.StatusBadRequest, response.Error("record is in use and cannot be deleted"))
	case errors.Is(err, records.ErrTableNotAllowed),
		errors.Is(err, records.ErrColumnNotAllowed),
		errors.Is(err, records.ErrEmptyPayload),
		errors.Is(err, service.ErrStageWithoutContract),
		errors.Is(err, service.ErrMixedStageUpdate):
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(err.Error()))
	}
}
