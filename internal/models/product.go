package models

import "time"

// Product: item do catálogo. SKU é imutável após a criação; produtos nunca são
// excluídos, apenas desativados.
type Product struct {
	ID          uint   `gorm:"primaryKey"`
	SKU         string `gorm:"size:50;uniqueIndex;not null"`
	Description string `gorm:"size:255;not null"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
