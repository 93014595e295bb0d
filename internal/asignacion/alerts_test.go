package asignacion

import (
	"context"
	"testing"
	"time"

	"github.com/FlotaEquipos/FlotaEquipos/internal/equipo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fechaPtr(t time.Time) *time.Time { return &t }

func TestUmbralHoras(t *testing.T) {
	assert.Equal(t, 400.0, UmbralHoras(equipo.TipoRetroexcavadora, nil))
	assert.Equal(t, 300.0, UmbralHoras(equipo.TipoCamioneta, nil))
	assert.Equal(t, 500.0, UmbralHoras(equipo.TipoCamion, nil))
	assert.Equal(t, 200.0, UmbralHoras(equipo.TipoAutoelevador, nil))
	assert.Equal(t, 350.0, UmbralHoras(equipo.TipoTractor, nil))

	// 类型不在表里走兜底
	assert.Equal(t, 300.0, UmbralHoras(equipo.TipoOtro, nil))
	assert.Equal(t, 300.0, UmbralHoras("", nil))

	// 部署级覆盖优先
	overrides := map[string]float64{"CAMION": 650}
	assert.Equal(t, 650.0, UmbralHoras(equipo.TipoCamion, overrides))
	assert.Equal(t, 300.0, UmbralHoras(equipo.TipoCamioneta, overrides))
}

func TestExpiringAssignments(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	asignaciones := []Asignacion{
		{ID: "dentro", Estado: EstadoActiva, FechaFinPrevista: fechaPtr(base.AddDate(0, 0, 3))},
		{ID: "borde", Estado: EstadoActiva, FechaFinPrevista: fechaPtr(base.AddDate(0, 0, 7))},
		{ID: "fuera", Estado: EstadoActiva, FechaFinPrevista: fechaPtr(base.AddDate(0, 0, 8))},
		{ID: "sin-fecha", Estado: EstadoActiva},
		{ID: "no-activa", Estado: EstadoSuspendida, FechaFinPrevista: fechaPtr(base.AddDate(0, 0, 1))},
	}

	out := ExpiringAssignments(asignaciones, base, 7)
	require.Len(t, out, 2)
	ids := []string{out[0].ID, out[1].ID}
	assert.Contains(t, ids, "dentro")
	assert.Contains(t, ids, "borde")
}

func TestExpiringAssignmentsDefaultLeadDays(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	asignaciones := []Asignacion{
		{ID: "a", Estado: EstadoActiva, FechaFinPrevista: fechaPtr(base.AddDate(0, 0, DefaultLeadDays))},
	}
	assert.Len(t, ExpiringAssignments(asignaciones, base, 0), 1)
}

func TestMaintenanceDue(t *testing.T) {
	tipoDe := func(equipoID string) equipo.TipoVehiculo {
		if equipoID == "eq-retro" {
			return equipo.TipoRetroexcavadora
		}
		return equipo.TipoCamioneta
	}

	asignaciones := []Asignacion{
		{ID: "retro-justo", EquipoID: "eq-retro", Estado: EstadoFinalizada, HorasReales: horasPtr(400)},
		{ID: "retro-corto", EquipoID: "eq-retro", Estado: EstadoFinalizada, HorasReales: horasPtr(399)},
		{ID: "camioneta-pasada", EquipoID: "eq-cam", Estado: EstadoFinalizada, HorasReales: horasPtr(310)},
		{ID: "sin-horas", EquipoID: "eq-cam", Estado: EstadoFinalizada},
		{ID: "activa", EquipoID: "eq-cam", Estado: EstadoActiva, HorasReales: horasPtr(999)},
	}

	out := MaintenanceDue(asignaciones, tipoDe, nil)
	require.Len(t, out, 2)
	ids := []string{out[0].ID, out[1].ID}
	assert.Contains(t, ids, "retro-justo")
	assert.Contains(t, ids, "camioneta-pasada")
}

func TestScannerScan(t *testing.T) {
	store := seedStore()
	svc := NewService(store, fixedClock)

	// 一条快到期的 ACTIVA
	horasEst := 100.0
	fin := hoy.AddDate(0, 0, 5)
	activa, err := svc.Create(context.Background(), CreateInput{
		EquipoID:         "eq-1",
		ProyectoID:       "pr-interno",
		CentroCostoID:    "cc-1",
		FechaInicio:      hoy,
		FechaFinPrevista: &fin,
		RetribucionTipo:  RetribucionPorcentaje,
		RetribucionValor: decimal.NewFromInt(15),
		HorasEstimadas:   &horasEst,
	})
	require.NoError(t, err)

	// 一条超过阈值的 FINALIZADA（RETROEXCAVADORA: 400h）
	id := "eq-retro"
	store.asignaciones["done"] = &Asignacion{
		ID:          "done",
		EquipoID:    id,
		Estado:      EstadoFinalizada,
		HorasReales: horasPtr(450),
	}
	store.equipos[id] = &equipo.Equipo{
		ID: id, Dominio: "RE456TR", TipoVehiculo: equipo.TipoRetroexcavadora, Status: equipo.StatusMantenimiento,
	}

	sc := NewScanner(store, nil, 7, nil, fixedClock)
	alertas, err := sc.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, alertas.PorVencer, 1)
	assert.Equal(t, activa.ID, alertas.PorVencer[0].ID)

	require.Len(t, alertas.MantenimientoPendiente, 1)
	assert.Equal(t, "done", alertas.MantenimientoPendiente[0].ID)

	// 无状态：重复扫描结果一致
	otra, err := sc.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, otra.PorVencer, 1)
	assert.Len(t, otra.MantenimientoPendiente, 1)
}
