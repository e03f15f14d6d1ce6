package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/kawasemi/dungeon-crawler/server/blob"
	"github.com/kawasemi/dungeon-crawler/server/model"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullSaveFlowSurvivesRestart(t *testing.T) {
	ts := NewTestServer(t)
	token := ts.Session(t)

	bundle := map[string]interface{}{
		"player": map[string]interface{}{
			"name": "テスト勇者", "level": 10, "exp": 300,
			"hp": 190, "gold": 500, "steps": 1234,
		},
		"items": []map[string]interface{}{
			{"item_type": "potion", "quantity": 2},
			{"item_type": "key", "quantity": 1},
		},
		"progress": map[string]interface{}{
			"floor": 4, "player_x": 8, "player_y": 2, "player_dir": "E",
			"boss_defeated":    true,
			"built_bases":      []string{"0:3,4"},
			"opened_chests":    []string{"0:8,1"},
			"last_rested_base": map[string]int{"x": 3, "y": 4, "floor": 0},
		},
		"settings": []map[string]interface{}{
			{"key": "bgmVolume", "value": "0.8"},
			{"key": "seVolume", "value": "0.5"},
		},
	}

	status, _ := ts.Do(t, http.MethodPut, "/api/saves/1", bundle, token, nil)
	require.Equal(t, http.StatusOK, status)

	verify := func(token string) {
		status, full := ts.Do(t, http.MethodGet, "/api/saves/1", nil, token, nil)
		require.Equal(t, http.StatusOK, status)

		player := full["player"].(map[string]interface{})
		assert.Equal(t, "テスト勇者", player["name"])
		assert.Equal(t, float64(10), player["level"])
		assert.Equal(t, float64(300), player["exp"])
		assert.Equal(t, float64(190), player["hp"])
		assert.Equal(t, float64(500), player["gold"])
		assert.Equal(t, float64(1234), player["steps"])

		items := full["items"].([]interface{})
		assert.Len(t, items, 2)

		progress := full["progress"].(map[string]interface{})
		assert.Equal(t, float64(4), progress["floor"])
		assert.Equal(t, "E", progress["player_dir"])
		assert.Equal(t, true, progress["boss_defeated"])
		assert.Equal(t, []interface{}{"0:3,4"}, progress["built_bases"])
		assert.Equal(t, []interface{}{"0:8,1"}, progress["opened_chests"])
		rest := progress["last_rested_base"].(map[string]interface{})
		assert.Equal(t, float64(3), rest["x"])
		assert.Equal(t, float64(4), rest["y"])
		assert.Equal(t, float64(0), rest["floor"])

		settings := full["settings"].([]interface{})
		assert.Len(t, settings, 2)
	}
	verify(token)

	ts.Restart(t)
	verify(ts.Session(t))
}

func TestLegacyRecordMigratesOnBoot(t *testing.T) {
	ts := NewTestServer(t)

	legacy := `{"floor":2,"playerPos":{"x":5,"y":3},"playerDir":"S","level":4,` +
		`"exp":10,"hp":70,"gold":55,"steps":321,"potions":2,` +
		`"builtBases":["0:1,1"],"bossDefeated":false,` +
		`"lastRestedBase":{"x":1,"y":1,"floor":0}}`
	require.NoError(t, ts.Blobs.Write(context.Background(), save.LegacyKey, legacy))

	ts.Restart(t)
	token := ts.Session(t)

	status, full := ts.Do(t, http.MethodGet, "/api/saves/1", nil, token, nil)
	require.Equal(t, http.StatusOK, status)

	player := full["player"].(map[string]interface{})
	assert.Equal(t, float64(4), player["level"])
	assert.Equal(t, float64(321), player["steps"])

	progress := full["progress"].(map[string]interface{})
	assert.Equal(t, float64(2), progress["floor"])
	assert.Equal(t, "S", progress["player_dir"])
	assert.Equal(t, []interface{}{"0:1,1"}, progress["built_bases"])
	assert.Equal(t, []interface{}{}, progress["opened_chests"])

	_, err := ts.Blobs.Read(context.Background(), save.LegacyKey)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestAdminDeletePersists(t *testing.T) {
	ts := NewTestServer(t)
	token := ts.Session(t)

	status, _ := ts.Do(t, http.MethodPost, "/api/saves/2", nil, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.Do(t, http.MethodDelete, "/api/saves/2", nil, token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = ts.Do(t, http.MethodDelete, "/api/saves/2", nil, token, AdminHeaders())
	require.Equal(t, http.StatusOK, status)

	ts.Restart(t)
	token = ts.Session(t)
	status, _ = ts.Do(t, http.MethodGet, "/api/saves/2", nil, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuditTrailRecordsClientID(t *testing.T) {
	ts := NewTestServer(t)
	token := ts.Session(t)

	status, _ := ts.Do(t, http.MethodPost, "/api/saves/1", nil, token, nil)
	require.Equal(t, http.StatusOK, status)

	ts.Audit.Stop(context.Background())

	var rows []model.AuditLog
	require.NoError(t, ts.Store.DB().Where(map[string]interface{}{"action": "save.create"}).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.NotEmpty(t, rows[0].ClientID)
	assert.NotEmpty(t, rows[0].TraceID)
	assert.Equal(t, 1, rows[0].Slot)
}

func TestGameActionsOverHTTP(t *testing.T) {
	ts := NewTestServer(t)
	token := ts.Session(t)

	status, _ := ts.Do(t, http.MethodPost, "/api/saves/1", nil, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := ts.Do(t, http.MethodPost, "/api/saves/1/step", map[string]string{"turn": "right"}, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "E", resp["dir"])

	status, resp = ts.Do(t, http.MethodPost, "/api/saves/1/step", nil, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, resp["moved"])
	assert.Equal(t, float64(1), resp["steps"])

	status, resp = ts.Do(t, http.MethodPost, "/api/saves/1/battle/result", map[string]int{
		"exp": 30, "gold": 3, "hp": 80,
	}, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), resp["level"])

	status, resp = ts.Do(t, http.MethodPost, "/api/saves/1/camp", nil, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(110), resp["hp"])
}
