package proyecto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipo 项目类型。INTERNO 用百分比分摊成本，EXTERNO 用固定单价计费，
// 二者的配置字段互斥（建模+校验双重保证，不只是约定）。
type Tipo string

const (
	TipoInterno Tipo = "INTERNO"
	TipoExterno Tipo = "EXTERNO"
)

// Estado 项目状态。
type Estado string

const (
	EstadoActivo     Estado = "ACTIVO"
	EstadoFinalizado Estado = "FINALIZADO"
	EstadoSuspendido Estado = "SUSPENDIDO"
)

// Proyecto 是 proyectos 表的 GORM 模型。
type Proyecto struct {
	ID              string          `gorm:"primaryKey;size:36"`
	Nombre          string          `gorm:"size:128;not null"`
	Tipo            Tipo            `gorm:"type:varchar(16);index;not null"`
	CostoHora       decimal.Decimal `gorm:"type:decimal(12,2)"` // 内部项目的小时成本基准
	PorcentajeCosto decimal.Decimal `gorm:"type:decimal(5,2)"`  // 内部项目的默认分摊百分比
	Estado          Estado          `gorm:"type:varchar(16);index;not null"`
	Responsable     string          `gorm:"size:128"`
	Cliente         string          `gorm:"size:128"` // 仅外部项目
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (Proyecto) TableName() string { return "proyectos" }
