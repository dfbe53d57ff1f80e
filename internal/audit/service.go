package audit

import (
	"encoding/json"
	"fmt"

	"wms-backend/internal/models"

	"gorm.io/gorm"
)

type Entry struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Write records e using tx, so the entry commits or rolls back together
// with the change it describes.
func Write(tx *gorm.DB, e Entry) error {
	beforeStr, err := snapshot(e.Before)
	if err != nil {
		return err
	}
	afterStr, err := snapshot(e.After)
	if err != nil {
		return err
	}

	log := models.AuditLog{
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}
	if err := tx.Create(&log).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func snapshot(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit snapshot: %w", err)
	}
	return string(b), nil
}
