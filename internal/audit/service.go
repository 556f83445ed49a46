package audit

import (
	"encoding/json"
	"fmt"

	"galpao-backend/internal/database"
	"galpao-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog: registra a mutação na trilha de auditoria. Falha aqui não aborta a
// operação que a originou; o chamador decide apenas logar o erro.
func WriteLog(opts LogOptions) error {
	// jsonb não aceita string vazia, usa "null"
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("erro ao gravar log de auditoria: %w", err)
	}

	return nil
}

// ItemSnapshot: subconjunto dos campos de item relevantes para o before/after.
type ItemSnapshot struct {
	IsCollected  bool `json:"is_collected"`
	IsAvailable  bool `json:"is_available"`
	QuantitySent *int `json:"quantity_sent"`
}

func SnapshotItem(item models.PickingListItem) ItemSnapshot {
	return ItemSnapshot{
		IsCollected:  item.IsCollected,
		IsAvailable:  item.IsAvailable,
		QuantitySent: item.QuantitySent,
	}
}
