package asignacion

import (
	"fmt"
	"time"
)

// AllowTransition 定义指派状态机的允许流转关系。
// 初始态为 ACTIVA；FINALIZADA / CANCELADA 是终态，不允许再流转。
var AllowTransition = map[Estado][]Estado{
	EstadoActiva:     {EstadoSuspendida, EstadoFinalizada, EstadoCancelada},
	EstadoSuspendida: {EstadoActiva, EstadoCancelada},
	EstadoFinalizada: {},
	EstadoCancelada:  {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Estado) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, e := range allowed {
		if e == to {
			return true
		}
	}
	return false
}

// ApplyTransition 对指派应用状态变更，并维护派生字段：
// - FINALIZADA 时落 FechaFin
// - EquipoActivoID 哨兵列跟随状态（ACTIVA 置为 EquipoID，否则清空）
// 仅在 CanTransition 返回 true 时生效。
func ApplyTransition(a *Asignacion, to Estado, now time.Time) error {
	if a == nil {
		return fmt.Errorf("asignacion is nil")
	}
	from := a.Estado
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid asignacion estado transition: %s -> %s", from, to)
	}

	a.Estado = to

	switch to {
	case EstadoActiva:
		id := a.EquipoID
		a.EquipoActivoID = &id
	case EstadoFinalizada:
		if a.FechaFin == nil {
			t := now
			a.FechaFin = &t
		}
		a.EquipoActivoID = nil
	default:
		a.EquipoActivoID = nil
	}
	return nil
}
