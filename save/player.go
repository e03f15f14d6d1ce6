package save

import (
	"context"
	"errors"
	"fmt"

	"github.com/kawasemi/dungeon-crawler/server/model"
	"gorm.io/gorm"
)

// GetPlayer returns the player record for the slot, or nil if the slot has
// never been created.
func (s *Store) GetPlayer(ctx context.Context, slot int) (*PlayerData, error) {
	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return nil, err
	}

	var p model.Player
	err = s.db.WithContext(ctx).Where("save_id = ?", saveID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &PlayerData{
		Name:  p.Name,
		Level: p.Level,
		Exp:   p.Exp,
		HP:    p.HP,
		Gold:  p.Gold,
		Steps: p.Steps,
	}, nil
}

// UpdatePlayer applies the non-nil fields of upd. Unknown slots and empty
// updates are silent no-ops. Negative stat values are rejected before the
// engine sees them, matching the schema CHECK constraints.
func (s *Store) UpdatePlayer(ctx context.Context, slot int, upd PlayerUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveID, ok, err := s.saveID(ctx, slot)
	if err != nil || !ok {
		return err
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Level != nil {
		if *upd.Level < 1 {
			return fmt.Errorf("save: level %d violates level >= 1: %w", *upd.Level, ErrValidation)
		}
		fields["level"] = *upd.Level
	}
	for col, v := range map[string]*int{
		"exp": upd.Exp, "hp": upd.HP, "gold": upd.Gold, "steps": upd.Steps,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return fmt.Errorf("save: %s %d violates %s >= 0: %w", col, *v, col, ErrValidation)
		}
		fields[col] = *v
	}
	if len(fields) == 0 {
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Player{}).Where("save_id = ?", saveID).Updates(fields).Error; err != nil {
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
