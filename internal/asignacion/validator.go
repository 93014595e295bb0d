package asignacion

import (
	"fmt"
	"strings"
	"time"

	"github.com/FlotaEquipos/FlotaEquipos/internal/equipo"
	"github.com/FlotaEquipos/FlotaEquipos/internal/mantenimiento"
)

// Elegibilidad 设备指派资格校验结果。
type Elegibilidad struct {
	Valida bool
	Motivo string
}

// fechaLegacyLayout 旧系统的 DD/MM/YYYY 文本日期。
const fechaLegacyLayout = "02/01/2006"

// parseFechaLegacy 解析旧格式日期。解析失败返回 ok=false，
// 调用方按“未过期”处理（不阻塞指派）。
func parseFechaLegacy(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(fechaLegacyLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CanAssign 判断设备当前能否被指派。纯函数，按顺序短路：
// 1. 状态必须是 OPERATIVO
// 2. 不能有排期中/进行中的保养工单（列出工单号）
// 3. 不能有逾期工单
// 4. 保险/年检若能解析且严格早于 now 则拒绝（列出过期项）
func CanAssign(eq *equipo.Equipo, registros []mantenimiento.Registro, now time.Time) Elegibilidad {
	if eq == nil {
		return Elegibilidad{Valida: false, Motivo: "equipo inexistente"}
	}

	if eq.Status != equipo.StatusOperativo {
		return Elegibilidad{
			Valida: false,
			Motivo: fmt.Sprintf("el equipo no está operativo (estado actual: %s)", eq.Status),
		}
	}

	var abiertos []string
	for _, reg := range registros {
		if reg.Status.Abierto() {
			abiertos = append(abiertos, reg.WorkOrderNumber)
		}
	}
	if len(abiertos) > 0 {
		return Elegibilidad{
			Valida: false,
			Motivo: fmt.Sprintf("el equipo tiene mantenimientos pendientes: %s", strings.Join(abiertos, ", ")),
		}
	}

	for _, reg := range registros {
		if reg.Status == mantenimiento.StatusOverdue {
			return Elegibilidad{Valida: false, Motivo: "el equipo tiene mantenimientos vencidos"}
		}
	}

	hoy := dateOnly(now)
	var vencidos []string
	if vto, ok := parseFechaLegacy(eq.PolizaVto); ok && vto.Before(hoy) {
		vencidos = append(vencidos, fmt.Sprintf("póliza de seguro (%s)", eq.PolizaVto))
	}
	if vto, ok := parseFechaLegacy(eq.VtvVto); ok && vto.Before(hoy) {
		vencidos = append(vencidos, fmt.Sprintf("VTV (%s)", eq.VtvVto))
	}
	if len(vencidos) > 0 {
		return Elegibilidad{
			Valida: false,
			Motivo: fmt.Sprintf("documentación vencida: %s", strings.Join(vencidos, ", ")),
		}
	}

	return Elegibilidad{Valida: true}
}

// HasActiveAssignment 该设备是否已有 ACTIVA 指派。
// 创建前的应用层预检；真正的防并发靠 EquipoActivoID 唯一索引。
func HasActiveAssignment(equipoID string, asignaciones []Asignacion) bool {
	for i := range asignaciones {
		if asignaciones[i].EquipoID == equipoID && asignaciones[i].Estado == EstadoActiva {
			return true
		}
	}
	return false
}

// dateOnly 去掉时分秒，只留日期（统一 UTC，方便和旧格式日期比较）。
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
