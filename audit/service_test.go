package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/kawasemi/dungeon-crawler/server/audit"
	"github.com/kawasemi/dungeon-crawler/server/model"
	"github.com/kawasemi/dungeon-crawler/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogAndStopFlushes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := audit.New(db, zap.NewNop())

	svc.Log(audit.Entry{
		TraceID:    "trace-001",
		Slot:       1,
		Action:     "update_player",
		Request:    map[string]int{"level": 5},
		DurationMs: 3,
	})
	svc.Log(audit.Entry{
		TraceID: "trace-002",
		Slot:    1,
		Action:  "set_item",
		Error:   "quantity -1 violates quantity >= 0",
	})

	// Stop drains the channel before returning.
	svc.Stop(context.Background())

	var logs []model.AuditLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "update_player", logs[0].Action)
	assert.Equal(t, 1, logs[0].Slot)
	assert.Equal(t, "set_item", logs[1].Action)
	assert.NotEmpty(t, logs[1].Error)
}

func TestPeriodicFlush(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := audit.New(db, zap.NewNop())
	defer svc.Stop(context.Background())

	svc.Log(audit.Entry{TraceID: "trace-003", Slot: 2, Action: "create_save"})

	require.Eventually(t, func() bool {
		var logs []model.AuditLog
		if err := db.Find(&logs).Error; err != nil {
			return false
		}
		return len(logs) == 1
	}, 5*time.Second, 100*time.Millisecond)
}
