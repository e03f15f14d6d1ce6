package save

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kawasemi/dungeon-crawler/server/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateSave creates the slot if absent, otherwise only refreshes its
// timestamp. In both cases it ensures the player/progress rows exist and
// seeds the starting potion, inserting only what is missing — re-creating an
// occupied slot never resets its data. Returns the internal save id, which
// is informational only.
func (s *Store) CreateSave(ctx context.Context, slot int) (int64, error) {
	if slot < 1 || slot > model.MaxSlots {
		return 0, fmt.Errorf("save: slot %d out of range 1-%d: %w", slot, model.MaxSlots, ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var saveID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sv model.Save
		err := tx.Where("slot = ?", slot).First(&sv).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sv = model.Save{Slot: slot}
			if err := tx.Create(&sv).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&sv).Update("updated_at", time.Now()).Error; err != nil {
				return err
			}
		}
		saveID = sv.ID

		// Defaults are written explicitly so every engine, not only ones
		// honoring column DEFAULT clauses, produces the same new-save state.
		var p model.Player
		if err := tx.Where("save_id = ?", saveID).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			p = model.Player{
				SaveID: saveID,
				Name:   model.DefaultPlayerName,
				Level:  1,
				HP:     100,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var gp model.GameProgress
		if err := tx.Where("save_id = ?", saveID).First(&gp).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			gp = model.GameProgress{
				SaveID:       saveID,
				PlayerX:      1,
				PlayerY:      1,
				PlayerDir:    model.DirNorth,
				BuiltBases:   datatypes.JSON("[]"),
				OpenedChests: datatypes.JSON("[]"),
			}
			if err := tx.Create(&gp).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var it model.Item
		err = tx.Where("save_id = ? AND item_type = ?", saveID, model.ItemTypePotion).First(&it).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			it = model.Item{SaveID: saveID, ItemType: model.ItemTypePotion, Quantity: 3}
			return tx.Create(&it).Error
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	s.persist()
	return saveID, nil
}

// DeleteSave removes the slot and every row belonging to it. Unknown slots
// are a no-op. The cascade runs in one transaction so no orphan can survive,
// whatever the engine's foreign-key support.
func (s *Store) DeleteSave(ctx context.Context, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("save_id = ?", saveID).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("save_id = ?", saveID).Delete(&model.Setting{}).Error; err != nil {
			return err
		}
		if err := tx.Where("save_id = ?", saveID).Delete(&model.GameProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("save_id = ?", saveID).Delete(&model.Player{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", saveID).Delete(&model.Save{}).Error
	})
	if err != nil {
		return err
	}

	s.persist()
	return nil
}

// ListSaves returns a summary for every created slot in ascending slot
// order. A save without a player row cannot appear; CreateSave guarantees
// that never happens for a properly created slot.
func (s *Store) ListSaves(ctx context.Context) ([]Summary, error) {
	var saves []model.Save
	if err := s.db.WithContext(ctx).Order("slot").Find(&saves).Error; err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(saves))
	for _, sv := range saves {
		var p model.Player
		err := s.db.WithContext(ctx).Where("save_id = ?", sv.ID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			Slot:      sv.Slot,
			Name:      p.Name,
			Level:     p.Level,
			UpdatedAt: sv.UpdatedAt,
		})
	}
	return out, nil
}
