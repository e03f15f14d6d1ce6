package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kawasemi/dungeon-crawler/server/blob"
	"github.com/kawasemi/dungeon-crawler/server/model"
	"go.uber.org/zap"
)

// LegacyKey is the blob key the pre-relational flat save format lived under.
const LegacyKey = "dungeon-crawler-save"

// legacyRecord mirrors the old single-slot JSON save format.
type legacyRecord struct {
	Floor     int `json:"floor"`
	PlayerPos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"playerPos"`
	PlayerDir      model.Direction `json:"playerDir"`
	Level          int             `json:"level"`
	Exp            int             `json:"exp"`
	HP             int             `json:"hp"`
	Gold           int             `json:"gold"`
	Steps          int             `json:"steps"`
	Potions        int             `json:"potions"`
	BuiltBases     []string        `json:"builtBases"`
	BossDefeated   bool            `json:"bossDefeated"`
	LastRestedBase *RestPoint      `json:"lastRestedBase"`
}

// MigrateLegacy imports a legacy flat-format save, if one exists, into
// slot 1 and deletes the legacy key. Run once at startup, after Open.
// An absent key is a no-op; a corrupt record is logged and left in place so
// nothing is destroyed.
func MigrateLegacy(ctx context.Context, blobs blob.Store, store *Store, logger *zap.Logger) error {
	if blobs == nil {
		return nil
	}

	raw, err := blobs.Read(ctx, LegacyKey)
	if errors.Is(err, blob.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("save: read legacy record: %w", err)
	}

	var rec legacyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logger.Warn("legacy save is unreadable, skipping migration", zap.Error(err))
		return nil
	}

	// Old records predate field validation; coerce to schema minimums.
	if !rec.PlayerDir.Valid() {
		rec.PlayerDir = model.DirNorth
	}
	if rec.Level < 1 {
		rec.Level = 1
	}
	builtBases := rec.BuiltBases
	if builtBases == nil {
		builtBases = []string{}
	}
	bundle := Bundle{
		Player: PlayerData{
			Name:  model.DefaultPlayerName,
			Level: rec.Level,
			Exp:   rec.Exp,
			HP:    rec.HP,
			Gold:  rec.Gold,
			Steps: rec.Steps,
		},
		Items: []ItemData{
			{ItemType: model.ItemTypePotion, Quantity: rec.Potions},
		},
		Progress: ProgressData{
			Floor:          rec.Floor,
			PlayerX:        rec.PlayerPos.X,
			PlayerY:        rec.PlayerPos.Y,
			PlayerDir:      rec.PlayerDir,
			BossDefeated:   rec.BossDefeated,
			BuiltBases:     builtBases,
			OpenedChests:   []string{}, // not tracked by the legacy format
			LastRestedBase: rec.LastRestedBase,
		},
	}
	if err := store.SaveFull(ctx, 1, bundle); err != nil {
		return fmt.Errorf("save: migrate legacy record: %w", err)
	}

	if err := blobs.Delete(ctx, LegacyKey); err != nil {
		logger.Warn("failed to delete migrated legacy record", zap.Error(err))
	} else {
		logger.Info("legacy save migrated to slot 1")
	}
	return nil
}
