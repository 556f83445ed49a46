package models

import "time"

type UserRole string

const (
	RoleExpedicao UserRole = "EXPEDICAO" // solicita listas de coleta
	RoleGalpao    UserRole = "GALPAO"    // separa os itens no galpão
	RoleGestor    UserRole = "GESTOR"    // administra produtos, usuários e relatórios
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	FullName     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	IsActive     bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
