package equipo

import "time"

// Status 设备状态枚举（持久化为字符串）。
type Status string

const (
	StatusOperativo     Status = "OPERATIVO"     // 可用，可被指派
	StatusMantenimiento Status = "MANTENIMIENTO" // 保养/维修中
	StatusFueraServicio Status = "FUERA_SERVICIO" // 停用
	StatusParticular    Status = "PARTICULAR"    // 私用，不参与项目
	StatusBaja          Status = "BAJA"          // 已报废/注销
)

// TipoVehiculo 车辆类型枚举。
type TipoVehiculo string

const (
	TipoRetroexcavadora TipoVehiculo = "RETROEXCAVADORA"
	TipoCamioneta       TipoVehiculo = "CAMIONETA"
	TipoCamion          TipoVehiculo = "CAMION"
	TipoAutoelevador    TipoVehiculo = "AUTOELEVADOR"
	TipoTractor         TipoVehiculo = "TRACTOR"
	TipoOtro            TipoVehiculo = "OTRO"
)

// Equipo 是 equipos 表的 GORM 模型。
// PolizaVto / VtvVto 保留旧系统的 DD/MM/YYYY 文本格式，
// 解析在指派资格校验里做，解析不了视为未过期。
type Equipo struct {
	ID           string       `gorm:"primaryKey;size:36"`
	Dominio      string       `gorm:"uniqueIndex;size:16;not null"` // 车牌/资产号
	Marca        string       `gorm:"size:64"`
	Modelo       string       `gorm:"size:64"`
	Anio         int          `gorm:"column:anio"`
	TipoVehiculo TipoVehiculo `gorm:"type:varchar(32);index"`
	Status       Status       `gorm:"type:varchar(16);index;not null"`
	PolizaVto    string       `gorm:"size:16"` // 保险到期（旧格式文本）
	VtvVto       string       `gorm:"size:16"` // 年检到期（旧格式文本）
	ImagenURL    string       `gorm:"size:255"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime"`
}

func (Equipo) TableName() string { return "equipos" }
