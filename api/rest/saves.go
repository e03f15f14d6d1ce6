package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/dungeon-crawler/server/audit"
	mw "github.com/kawasemi/dungeon-crawler/server/middleware"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"go.uber.org/zap"
)

// SaveHandler exposes the save store over HTTP.
type SaveHandler struct {
	store  *save.Store
	audit  *audit.Service
	logger *zap.Logger
}

// NewSaveHandler creates a new SaveHandler. The audit service may be nil,
// in which case mutations are not audited.
func NewSaveHandler(store *save.Store, aud *audit.Service, logger *zap.Logger) *SaveHandler {
	return &SaveHandler{store: store, audit: aud, logger: logger}
}

// parseSlot reads the :slot path parameter. It only checks that the value is
// a number; range checks belong to the store.
func parseSlot(c *gin.Context) (int, bool) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot"})
		return 0, false
	}
	return slot, true
}

// storeError maps a store failure onto an HTTP response.
func storeError(c *gin.Context, err error) {
	if errors.Is(err, save.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// record enqueues an audit row for a mutation.
func (h *SaveHandler) record(c *gin.Context, slot int, action string, req, resp interface{}, start time.Time, err error) {
	if h.audit == nil {
		return
	}
	entry := audit.Entry{
		TraceID:    mw.GetTraceID(c),
		ClientID:   mw.GetClientID(c),
		Slot:       slot,
		Action:     action,
		Request:    req,
		Response:   resp,
		IP:         c.ClientIP(),
		DurationMs: int(time.Since(start).Milliseconds()),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	h.audit.Log(entry)
}

// List handles GET /api/saves.
func (h *SaveHandler) List(c *gin.Context) {
	summaries, err := h.store.ListSaves(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saves": summaries})
}

// Create handles POST /api/saves/:slot. Creating an occupied slot only
// bumps its timestamp.
func (h *SaveHandler) Create(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}
	start := time.Now()

	_, err := h.store.CreateSave(c.Request.Context(), slot)
	h.record(c, slot, "save.create", nil, nil, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

// GetFull handles GET /api/saves/:slot.
func (h *SaveHandler) GetFull(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	full, err := h.store.LoadFull(c.Request.Context(), slot)
	if err != nil {
		storeError(c, err)
		return
	}
	if full == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
		return
	}
	c.JSON(http.StatusOK, full)
}

// PutFull handles PUT /api/saves/:slot.
func (h *SaveHandler) PutFull(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	var bundle save.Bundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()

	err := h.store.SaveFull(c.Request.Context(), slot, bundle)
	h.record(c, slot, "save.put_full", bundle, nil, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

// Delete handles DELETE /api/saves/:slot. The route sits behind the admin
// key middleware; slot wipes are not a player-facing operation.
func (h *SaveHandler) Delete(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}
	start := time.Now()

	err := h.store.DeleteSave(c.Request.Context(), slot)
	h.record(c, slot, "save.delete", nil, nil, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}
