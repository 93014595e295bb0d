package asignacion

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado 指派状态枚举（持久化为字符串）。
type Estado string

const (
	EstadoActiva     Estado = "ACTIVA"
	EstadoFinalizada Estado = "FINALIZADA"
	EstadoSuspendida Estado = "SUSPENDIDA"
	EstadoCancelada  Estado = "CANCELADA"
)

// RetribucionTipo 成本分摊方式。与项目类型一一对应：
// 内部项目 PORCENTAJE，外部项目 VALOR_FIJO。
type RetribucionTipo string

const (
	RetribucionPorcentaje RetribucionTipo = "PORCENTAJE"
	RetribucionValorFijo  RetribucionTipo = "VALOR_FIJO"
)

// Asignacion 是 asignaciones 表的 GORM 模型（设备 -> 项目/成本中心）。
//
// CostoTotal 是派生列，永远由 {RetribucionTipo, RetribucionValor, 工时,
// 项目 CostoHora} 重算得到，不允许独立写入。
//
// EquipoActivoID 是唯一性哨兵列：Estado 为 ACTIVA 时等于 EquipoID，
// 否则为 NULL。靠它的唯一索引在数据库层面保证“每台设备最多一条
// ACTIVA 指派”，并发创建时第二条会撞唯一键（1062）。
type Asignacion struct {
	ID            string `gorm:"primaryKey;size:36"`
	EquipoID      string `gorm:"index;size:36;not null"`
	ProyectoID    string `gorm:"index;size:36;not null"`
	CentroCostoID string `gorm:"index;size:36;not null"`

	FechaInicio      time.Time  `gorm:"type:date;not null"`
	FechaFinPrevista *time.Time `gorm:"type:date"`
	FechaFin         *time.Time `gorm:"type:date"`

	RetribucionTipo  RetribucionTipo `gorm:"type:varchar(16);not null"`
	RetribucionValor decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	HorasEstimadas   *float64
	HorasReales      *float64

	Estado                  Estado          `gorm:"type:varchar(16);index;not null"`
	CostoTotal              decimal.Decimal `gorm:"type:decimal(14,2)"`
	ValidacionMantenimiento bool            `gorm:"not null;default:false"`
	Observaciones           string          `gorm:"size:255"`
	CreadoPor               string          `gorm:"size:64"`

	EquipoActivoID *string `gorm:"uniqueIndex;size:36"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Asignacion) TableName() string { return "asignaciones" }

// Horas 计费工时：优先取大于零的实际工时，其次预估工时，都没有按 0。
func (a *Asignacion) Horas() float64 {
	if a == nil {
		return 0
	}
	if a.HorasReales != nil && *a.HorasReales > 0 {
		return *a.HorasReales
	}
	if a.HorasEstimadas != nil {
		return *a.HorasEstimadas
	}
	return 0
}

// EsTerminal 是否处于终态（终态只读，不允许再改字段）。
func (a *Asignacion) EsTerminal() bool {
	return a != nil && (a.Estado == EstadoFinalizada || a.Estado == EstadoCancelada)
}
