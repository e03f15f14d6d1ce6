package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetItems handles GET /api/saves/:slot/items. Unknown slots return an
// empty list rather than 404; the inventory of a missing save is empty.
func (h *SaveHandler) GetItems(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	items, err := h.store.GetItems(c.Request.Context(), slot)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type putItemRequest struct {
	Quantity int `json:"quantity"`
}

// PutItem handles PUT /api/saves/:slot/items/:type.
func (h *SaveHandler) PutItem(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}
	itemType := c.Param("type")

	var req putItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()

	err := h.store.SetItem(c.Request.Context(), slot, itemType, req.Quantity)
	h.record(c, slot, "item.set", gin.H{"item_type": itemType, "quantity": req.Quantity}, nil, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
