package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListStatus string

const (
	StatusPendente    ListStatus = "PENDENTE"
	StatusEmSeparacao ListStatus = "EM_SEPARACAO"
	StatusConcluido   ListStatus = "CONCLUIDO"
)

type ItemForm string

const (
	FormCaixa   ItemForm = "CAIXA"
	FormUnidade ItemForm = "UNIDADE"
)

// PickingList: lista de coleta criada pela expedição e processada pelo galpão.
// CompletedAt é preenchido somente quando o status vira CONCLUIDO.
// StartedAt é gravado uma única vez na transição PENDENTE -> EM_SEPARACAO.
type PickingList struct {
	ID          uint       `gorm:"primaryKey"`
	Code        string     `gorm:"size:36;uniqueIndex;not null"` // uuid exibido como Lista #xxxxxxxx
	RequesterID uint       `gorm:"index;not null"`
	Requester   User
	Status      ListStatus `gorm:"size:20;index;not null;default:PENDENTE"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	Items []PickingListItem `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}

func (l *PickingList) BeforeCreate(tx *gorm.DB) error {
	if l.Code == "" {
		l.Code = uuid.NewString()
	}
	return nil
}

// ShortCode: prefixo do uuid usado nas telas ("Lista #a1b2c3d4").
func (l *PickingList) ShortCode() string {
	if len(l.Code) >= 8 {
		return l.Code[:8]
	}
	return l.Code
}

// PickingListItem: linha de produto de uma lista. QuantitySent fica nulo até um
// envio parcial; quando preenchido vale 0 <= enviado <= solicitado. Item
// indisponível implica QuantitySent=0 e IsCollected=false.
type PickingListItem struct {
	ID           uint `gorm:"primaryKey"`
	ListID       uint `gorm:"index;not null"`
	ProductID    uint `gorm:"index;not null"`
	Product      Product
	Quantity     int      `gorm:"not null"`
	Form         ItemForm `gorm:"size:10;not null"`
	IsCollected  bool     `gorm:"not null;default:false"`
	IsAvailable  bool     `gorm:"not null;default:true"`
	QuantitySent *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
