package save

import (
	"context"
	"errors"

	"github.com/kawasemi/dungeon-crawler/server/model"
	"gorm.io/gorm"
)

// LoadFull returns the complete aggregate for a slot, or nil when the slot
// does not exist (missing player or progress is treated the same way).
func (s *Store) LoadFull(ctx context.Context, slot int) (*FullSave, error) {
	player, err := s.GetPlayer(ctx, slot)
	if err != nil {
		return nil, err
	}
	progress, err := s.GetProgress(ctx, slot)
	if err != nil {
		return nil, err
	}
	if player == nil || progress == nil {
		return nil, nil
	}

	items, err := s.GetItems(ctx, slot)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx, slot)
	if err != nil {
		return nil, err
	}

	var sv model.Save
	err = s.db.WithContext(ctx).Where("slot = ?", slot).First(&sv).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &FullSave{
		Slot:      slot,
		Player:    *player,
		Items:     items,
		Progress:  *progress,
		Settings:  settings,
		UpdatedAt: sv.UpdatedAt,
	}, nil
}

// SaveFull writes a whole bundle to a slot, creating it if needed. It is a
// sequence of independent operations, not one transaction: a failure partway
// leaves the earlier steps committed and persisted. The caller owns any
// compensating action.
func (s *Store) SaveFull(ctx context.Context, slot int, bundle Bundle) error {
	if _, err := s.CreateSave(ctx, slot); err != nil {
		return err
	}
	if err := s.UpdatePlayer(ctx, slot, bundle.Player.asUpdate()); err != nil {
		return err
	}
	for _, item := range bundle.Items {
		if err := s.SetItem(ctx, slot, item.ItemType, item.Quantity); err != nil {
			return err
		}
	}
	if err := s.UpdateProgress(ctx, slot, bundle.Progress.asUpdate()); err != nil {
		return err
	}
	for _, setting := range bundle.Settings {
		if err := s.SetSetting(ctx, slot, setting.Key, setting.Value); err != nil {
			return err
		}
	}
	return nil
}
