package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kawasemi/dungeon-crawler/server/model"
	"gorm.io/gorm"
)

// GetProgress returns the dungeon progression for the slot, or nil if the
// slot has never been created.
func (s *Store) GetProgress(ctx context.Context, slot int) (*ProgressData, error) {
	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return nil, err
	}

	var gp model.GameProgress
	err = s.db.WithContext(ctx).Where("save_id = ?", saveID).First(&gp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	built, err := decodeStringList(gp.BuiltBases)
	if err != nil {
		return nil, fmt.Errorf("save: built_bases: %w", err)
	}
	opened, err := decodeStringList(gp.OpenedChests)
	if err != nil {
		return nil, fmt.Errorf("save: opened_chests: %w", err)
	}

	data := &ProgressData{
		Floor:        gp.Floor,
		PlayerX:      gp.PlayerX,
		PlayerY:      gp.PlayerY,
		PlayerDir:    gp.PlayerDir,
		BossDefeated: gp.BossDefeated,
		BuiltBases:   built,
		OpenedChests: opened,
	}
	if gp.LastRestedBaseX != nil {
		data.LastRestedBase = &RestPoint{
			X:     *gp.LastRestedBaseX,
			Y:     *gp.LastRestedBaseY,
			Floor: *gp.LastRestedBaseFloor,
		}
	}
	return data, nil
}

// UpdateProgress applies the non-nil fields of upd. Unknown slots and empty
// updates are silent no-ops. The last-rested-base triple is written or
// cleared as a unit; a partially null triple can never be produced.
func (s *Store) UpdateProgress(ctx context.Context, slot int, upd ProgressUpdate) error {
	if upd.LastRestedBase != nil && upd.ClearLastRestedBase {
		return fmt.Errorf("save: last_rested_base set and cleared in the same update: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return err
	}

	fields := map[string]interface{}{}
	if upd.Floor != nil {
		if *upd.Floor < 0 {
			return fmt.Errorf("save: floor %d violates floor >= 0: %w", *upd.Floor, ErrValidation)
		}
		fields["floor"] = *upd.Floor
	}
	if upd.PlayerX != nil {
		fields["player_x"] = *upd.PlayerX
	}
	if upd.PlayerY != nil {
		fields["player_y"] = *upd.PlayerY
	}
	if upd.PlayerDir != nil {
		if !upd.PlayerDir.Valid() {
			return fmt.Errorf("save: invalid direction %q: %w", *upd.PlayerDir, ErrValidation)
		}
		fields["player_dir"] = *upd.PlayerDir
	}
	if upd.BossDefeated != nil {
		fields["boss_defeated"] = *upd.BossDefeated
	}
	if upd.BuiltBases != nil {
		raw, err := json.Marshal(*upd.BuiltBases)
		if err != nil {
			return fmt.Errorf("save: built_bases: %w", err)
		}
		fields["built_bases"] = string(raw)
	}
	if upd.OpenedChests != nil {
		raw, err := json.Marshal(*upd.OpenedChests)
		if err != nil {
			return fmt.Errorf("save: opened_chests: %w", err)
		}
		fields["opened_chests"] = string(raw)
	}
	if upd.LastRestedBase != nil {
		fields["last_rested_base_x"] = upd.LastRestedBase.X
		fields["last_rested_base_y"] = upd.LastRestedBase.Y
		fields["last_rested_base_floor"] = upd.LastRestedBase.Floor
	}
	if upd.ClearLastRestedBase {
		fields["last_rested_base_x"] = nil
		fields["last_rested_base_y"] = nil
		fields["last_rested_base_floor"] = nil
	}
	if len(fields) == 0 {
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.GameProgress{}).Where("save_id = ?", saveID).Updates(fields).Error; err != nil {
			return err
		}
		return touchSave(tx, saveID)
	})
	if err != nil {
		return err
	}

	s.persist()
	return nil
}

// decodeStringList unmarshals a JSON array column, treating an empty column
// as the empty list.
func decodeStringList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
