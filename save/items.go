package save

import (
	"context"
	"errors"
	"fmt"

	"github.com/kawasemi/dungeon-crawler/server/model"
	"gorm.io/gorm"
)

// GetItems returns every item stack for the slot; the slice is empty for
// unknown slots.
func (s *Store) GetItems(ctx context.Context, slot int) ([]ItemData, error) {
	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return []ItemData{}, err
	}

	var items []model.Item
	if err := s.db.WithContext(ctx).Where("save_id = ?", saveID).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]ItemData, 0, len(items))
	for _, it := range items {
		out = append(out, ItemData{ItemType: it.ItemType, Quantity: it.Quantity})
	}
	return out, nil
}

// SetItem upserts the quantity for an item type: existing rows are
// overwritten in place, new types are inserted. Unknown slots are a silent
// no-op. The store never clamps quantities beyond rejecting negatives; game
// maxima are the caller's business.
func (s *Store) SetItem(ctx context.Context, slot int, itemType string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("save: quantity %d violates quantity >= 0: %w", quantity, ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it model.Item
		err := tx.Where("save_id = ? AND item_type = ?", saveID, itemType).First(&it).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			it = model.Item{SaveID: saveID, ItemType: itemType, Quantity: quantity}
			if err := tx.Create(&it).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&it).Update("quantity", quantity).Error; err != nil {
				return err
			}
		}
		return touchSave(tx, saveID)
	})
	if err != nil {
		return err
	}

	s.persist()
	return nil
}
