package asignacion

import (
	"testing"
	"time"

	"github.com/FlotaEquipos/FlotaEquipos/internal/equipo"
	"github.com/FlotaEquipos/FlotaEquipos/internal/mantenimiento"
	"github.com/stretchr/testify/assert"
)

var ahora = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func equipoOperativo() *equipo.Equipo {
	return &equipo.Equipo{
		ID:           "eq-1",
		Dominio:      "AB123CD",
		TipoVehiculo: equipo.TipoCamioneta,
		Status:       equipo.StatusOperativo,
		PolizaVto:    "31/12/2026",
		VtvVto:       "30/06/2026",
	}
}

func TestCanAssignOperativo(t *testing.T) {
	elig := CanAssign(equipoOperativo(), nil, ahora)
	assert.True(t, elig.Valida)
	assert.Empty(t, elig.Motivo)
}

func TestCanAssignRejectsNonOperativo(t *testing.T) {
	for _, status := range []equipo.Status{
		equipo.StatusMantenimiento,
		equipo.StatusFueraServicio,
		equipo.StatusParticular,
		equipo.StatusBaja,
	} {
		eq := equipoOperativo()
		eq.Status = status
		elig := CanAssign(eq, nil, ahora)
		assert.False(t, elig.Valida, "status %s", status)
		assert.Contains(t, elig.Motivo, "no está operativo")
		assert.Contains(t, elig.Motivo, string(status))
	}
}

func TestCanAssignRejectsOpenWorkOrders(t *testing.T) {
	registros := []mantenimiento.Registro{
		{EquipoID: "eq-1", Status: mantenimiento.StatusScheduled, WorkOrderNumber: "OT-100"},
		{EquipoID: "eq-1", Status: mantenimiento.StatusCompleted, WorkOrderNumber: "OT-099"},
		{EquipoID: "eq-1", Status: mantenimiento.StatusInProgress, WorkOrderNumber: "OT-101"},
	}

	elig := CanAssign(equipoOperativo(), registros, ahora)
	assert.False(t, elig.Valida)
	assert.Contains(t, elig.Motivo, "mantenimientos pendientes")
	assert.Contains(t, elig.Motivo, "OT-100")
	assert.Contains(t, elig.Motivo, "OT-101")
	assert.NotContains(t, elig.Motivo, "OT-099")
}

func TestCanAssignRejectsOverdue(t *testing.T) {
	registros := []mantenimiento.Registro{
		{EquipoID: "eq-1", Status: mantenimiento.StatusOverdue, WorkOrderNumber: "OT-050"},
	}

	elig := CanAssign(equipoOperativo(), registros, ahora)
	assert.False(t, elig.Valida)
	assert.Contains(t, elig.Motivo, "mantenimientos vencidos")
}

func TestCanAssignRejectsExpiredDocs(t *testing.T) {
	eq := equipoOperativo()
	eq.PolizaVto = "01/03/2026" // antes de ahora

	elig := CanAssign(eq, nil, ahora)
	assert.False(t, elig.Valida)
	assert.Contains(t, elig.Motivo, "documentación vencida")
	assert.Contains(t, elig.Motivo, "póliza de seguro (01/03/2026)")

	eq = equipoOperativo()
	eq.VtvVto = "09/03/2026"
	elig = CanAssign(eq, nil, ahora)
	assert.False(t, elig.Valida)
	assert.Contains(t, elig.Motivo, "VTV (09/03/2026)")
}

// 到期日等于今天不算过期（严格早于才拒绝）。
func TestCanAssignDocExpiringTodayStillValid(t *testing.T) {
	eq := equipoOperativo()
	eq.PolizaVto = "10/03/2026"

	elig := CanAssign(eq, nil, ahora)
	assert.True(t, elig.Valida, "motivo: %s", elig.Motivo)
}

// 旧系统的脏数据：解析不了的日期按未过期处理，不阻塞指派。
func TestCanAssignUnparseableDatesIgnored(t *testing.T) {
	for _, raw := range []string{"", "sin dato", "2026-12-31", "31/13/2026"} {
		eq := equipoOperativo()
		eq.PolizaVto = raw
		eq.VtvVto = raw
		elig := CanAssign(eq, nil, ahora)
		assert.True(t, elig.Valida, "raw %q motivo %s", raw, elig.Motivo)
	}
}

func TestCanAssignNilEquipo(t *testing.T) {
	elig := CanAssign(nil, nil, ahora)
	assert.False(t, elig.Valida)
}

func TestHasActiveAssignment(t *testing.T) {
	asignaciones := []Asignacion{
		{EquipoID: "eq-1", Estado: EstadoFinalizada},
		{EquipoID: "eq-1", Estado: EstadoSuspendida},
		{EquipoID: "eq-2", Estado: EstadoActiva},
	}

	assert.False(t, HasActiveAssignment("eq-1", asignaciones))
	assert.True(t, HasActiveAssignment("eq-2", asignaciones))
	assert.False(t, HasActiveAssignment("eq-3", asignaciones))

	asignaciones = append(asignaciones, Asignacion{EquipoID: "eq-1", Estado: EstadoActiva})
	assert.True(t, HasActiveAssignment("eq-1", asignaciones))
}
