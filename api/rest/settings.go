package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetSettings handles GET /api/saves/:slot/settings.
func (h *SaveHandler) GetSettings(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	settings, err := h.store.GetSettings(c.Request.Context(), slot)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetSetting handles GET /api/saves/:slot/settings/:key. A stored NULL and
// an absent key both come back as a null value; clients that care should
// list instead.
func (h *SaveHandler) GetSetting(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	value, err := h.store.GetSetting(c.Request.Context(), slot, c.Param("key"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

type putSettingRequest struct {
	Value *string `json:"value"`
}

// PutSetting handles PUT /api/saves/:slot/settings/:key.
func (h *SaveHandler) PutSetting(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}
	key := c.Param("key")

	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()

	err := h.store.SetSetting(c.Request.Context(), slot, key, req.Value)
	h.record(c, slot, "setting.set", gin.H{"key": key, "value": req.Value}, nil, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSetting handles DELETE /api/saves/:slot/settings/:key.
func (h *SaveHandler) DeleteSetting(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}
	key := c.Param("key")
	start := time.Now()

	err := h.store.DeleteSetting(c.Request.Context(), slot, key)
	h.record(c, slot, "setting.delete", gin.H{"key": key}, nil, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
