package mantenimiento

import "time"

// Status 保养工单状态（沿用维保系统的英文词汇）。
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusOverdue    Status = "OVERDUE"
)

// Abierto 工单是否还占用设备（排期中或进行中）。
func (s Status) Abierto() bool {
	return s == StatusScheduled || s == StatusInProgress
}

// Registro 是 registros_mantenimiento 表的 GORM 模型。
// 驱动设备的指派资格校验。
type Registro struct {
	ID              string    `gorm:"primaryKey;size:36"`
	EquipoID        string    `gorm:"index;size:36;not null"`
	Status          Status    `gorm:"type:varchar(16);index;not null"`
	WorkOrderNumber string    `gorm:"uniqueIndex;size:32;not null"`
	ScheduledDate   time.Time `gorm:"type:date"`
	Descripcion     string    `gorm:"size:255"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Registro) TableName() string { return "registros_mantenimiento" }
