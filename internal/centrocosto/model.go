package centrocosto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CentroCosto 是 centros_costo 表的 GORM 模型。
type CentroCosto struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Nombre      string          `gorm:"size:128;not null"`
	Codigo      string          `gorm:"uniqueIndex;size:32;not null"`
	Presupuesto decimal.Decimal `gorm:"type:decimal(14,2)"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (CentroCosto) TableName() string { return "centros_costo" }
