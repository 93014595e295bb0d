package asignacion

import (
	"context"
	"fmt"
	"time"

	"github.com/FlotaEquipos/FlotaEquipos/internal/common/logger"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/middleware"
	"github.com/FlotaEquipos/FlotaEquipos/internal/equipo"
)

// DefaultLeadDays 到期提醒默认提前天数。
const DefaultLeadDays = 7

// umbralPorDefecto 类型不在表里时的兜底阈值。
const umbralPorDefecto = 300.0

// UmbralesMantenimiento 完工指派触发保养提醒的工时阈值（按车辆类型）。
var UmbralesMantenimiento = map[equipo.TipoVehiculo]float64{
	equipo.TipoRetroexcavadora: 400,
	equipo.TipoCamioneta:       300,
	equipo.TipoCamion:          500,
	equipo.TipoAutoelevador:    200,
	equipo.TipoTractor:         350,
}

// UmbralHoras 某车辆类型的保养阈值，支持部署级覆盖。
func UmbralHoras(tipo equipo.TipoVehiculo, overrides map[string]float64) float64 {
	if overrides != nil {
		if v, ok := overrides[string(tipo)]; ok {
			return v
		}
	}
	if v, ok := UmbralesMantenimiento[tipo]; ok {
		return v
	}
	return umbralPorDefecto
}

// ExpiringAssignments 过滤将到期的 ACTIVA 指派：
// fechaFinPrevista ≤ hoy + leadDays。对快照的纯过滤，无状态、可重入。
func ExpiringAssignments(asignaciones []Asignacion, hoy time.Time, leadDays int) []Asignacion {
	if leadDays <= 0 {
		leadDays = DefaultLeadDays
	}
	limite := dateOnly(hoy).AddDate(0, 0, leadDays)

	var out []Asignacion
	for i := range asignaciones {
		a := asignaciones[i]
		if a.Estado != EstadoActiva || a.FechaFinPrevista == nil {
			continue
		}
		if !a.FechaFinPrevista.After(limite) {
			out = append(out, a)
		}
	}
	return out
}

// MaintenanceDue 过滤完工后工时达到保养阈值的 FINALIZADA 指派。
// tipoDe 把设备 id 映射到车辆类型（查不到按默认阈值）。
func MaintenanceDue(asignaciones []Asignacion, tipoDe func(equipoID string) equipo.TipoVehiculo, overrides map[string]float64) []Asignacion {
	var out []Asignacion
	for i := range asignaciones {
		a := asignaciones[i]
		if a.Estado != EstadoFinalizada || a.HorasReales == nil {
			continue
		}
		var tipo equipo.TipoVehiculo
		if tipoDe != nil {
			tipo = tipoDe(a.EquipoID)
		}
		if *a.HorasReales >= UmbralHoras(tipo, overrides) {
			out = append(out, a)
		}
	}
	return out
}

// Alertas 一次扫描的结果快照。
type Alertas struct {
	PorVencer              []Asignacion `json:"porVencer"`
	MantenimientoPendiente []Asignacion `json:"mantenimientoPendiente"`
}

// Scanner 批量扫描指派/设备并产出告警。扫描本身无持久化状态，
// 每次都基于当前数据重算，重复执行幂等。
// 存储访问包在熔断器里：连续失败后暂停打库。
type Scanner struct {
	store    Store
	log      logger.Logger
	breaker  *middleware.CircuitBreaker
	leadDays int
	umbrales map[string]float64
	clock    Clock
}

func NewScanner(store Store, log logger.Logger, leadDays int, umbrales map[string]float64, clock Clock) *Scanner {
	if leadDays <= 0 {
		leadDays = DefaultLeadDays
	}
	if clock == nil {
		clock = time.Now
	}
	return &Scanner{
		store:    store,
		log:      log,
		breaker:  middleware.NewCircuitBreaker("alert-scanner", 5, 30*time.Second),
		leadDays: leadDays,
		umbrales: umbrales,
		clock:    clock,
	}
}

// Scan 执行一次扫描。
func (sc *Scanner) Scan(ctx context.Context) (*Alertas, error) {
	if sc == nil || sc.store == nil {
		return nil, fmt.Errorf("scanner not initialized")
	}

	var activas, finalizadas []Asignacion
	err := sc.breaker.Call(ctx, func() error {
		var err error
		if activas, err = sc.store.ListByEstado(ctx, EstadoActiva); err != nil {
			return err
		}
		finalizadas, err = sc.store.ListByEstado(ctx, EstadoFinalizada)
		return err
	})
	if err != nil {
		return nil, err
	}

	// 车辆类型查缓存，一台设备只打一次库。
	tipos := make(map[string]equipo.TipoVehiculo)
	tipoDe := func(equipoID string) equipo.TipoVehiculo {
		if t, ok := tipos[equipoID]; ok {
			return t
		}
		var t equipo.TipoVehiculo
		if eq, err := sc.store.GetEquipo(ctx, equipoID); err == nil {
			t = eq.TipoVehiculo
		}
		tipos[equipoID] = t
		return t
	}

	return &Alertas{
		PorVencer:              ExpiringAssignments(activas, sc.clock(), sc.leadDays),
		MantenimientoPendiente: MaintenanceDue(finalizadas, tipoDe, sc.umbrales),
	}, nil
}

// Run 周期扫描并记录告警，直到 ctx 取消。
func (sc *Scanner) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			alertas, err := sc.Scan(ctx)
			if err != nil {
				if sc.log != nil {
					sc.log.Warnf("alert scan failed: %v", err)
				}
				continue
			}
			if sc.log == nil {
				continue
			}
			for i := range alertas.PorVencer {
				a := alertas.PorVencer[i]
				sc.log.WithFields(map[string]interface{}{
					"asignacion": a.ID,
					"equipo":     a.EquipoID,
					"vence":      a.FechaFinPrevista.Format("2006-01-02"),
				}).Warn("asignacion por vencer")
			}
			for i := range alertas.MantenimientoPendiente {
				a := alertas.MantenimientoPendiente[i]
				sc.log.WithFields(map[string]interface{}{
					"asignacion": a.ID,
					"equipo":     a.EquipoID,
					"horas":      *a.HorasReales,
				}).Warn("equipo requiere mantenimiento post-asignacion")
			}
		}
	}
}
