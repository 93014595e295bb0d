package asignacion

import (
	"testing"
	"time"
)

func TestCanTransitionAndApply(t *testing.T) {
	if !CanTransition(EstadoActiva, EstadoSuspendida) {
		t.Fatalf("expected ACTIVA -> SUSPENDIDA allowed")
	}
	if !CanTransition(EstadoSuspendida, EstadoActiva) {
		t.Fatalf("expected SUSPENDIDA -> ACTIVA allowed")
	}
	if CanTransition(EstadoFinalizada, EstadoActiva) {
		t.Fatalf("expected FINALIZADA -> ACTIVA not allowed")
	}
	if CanTransition(EstadoCancelada, EstadoActiva) {
		t.Fatalf("expected CANCELADA -> ACTIVA not allowed")
	}
	if CanTransition(EstadoSuspendida, EstadoFinalizada) {
		t.Fatalf("expected SUSPENDIDA -> FINALIZADA not allowed")
	}
	if !CanTransition(EstadoActiva, EstadoActiva) {
		t.Fatalf("expected self transition allowed")
	}

	a := &Asignacion{ID: "a-1", EquipoID: "eq-1", Estado: EstadoActiva}
	id := a.EquipoID
	a.EquipoActivoID = &id

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	if err := ApplyTransition(a, EstadoSuspendida, now); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if a.Estado != EstadoSuspendida {
		t.Fatalf("expected estado SUSPENDIDA, got %s", a.Estado)
	}
	if a.EquipoActivoID != nil {
		t.Fatalf("expected sentinel cleared on suspend")
	}

	if err := ApplyTransition(a, EstadoActiva, now); err != nil {
		t.Fatalf("ApplyTransition back to ACTIVA: %v", err)
	}
	if a.EquipoActivoID == nil || *a.EquipoActivoID != a.EquipoID {
		t.Fatalf("expected sentinel restored on resume, got %v", a.EquipoActivoID)
	}

	if err := ApplyTransition(a, EstadoFinalizada, now); err != nil {
		t.Fatalf("ApplyTransition to FINALIZADA: %v", err)
	}
	if a.FechaFin == nil || !a.FechaFin.Equal(now) {
		t.Fatalf("expected FechaFin stamped with now, got %v", a.FechaFin)
	}
	if a.EquipoActivoID != nil {
		t.Fatalf("expected sentinel cleared on finish")
	}

	if err := ApplyTransition(a, EstadoActiva, now); err == nil {
		t.Fatalf("expected transition out of terminal state to fail")
	}
}

func TestApplyTransitionKeepsExistingFechaFin(t *testing.T) {
	prev := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	a := &Asignacion{ID: "a-2", EquipoID: "eq-2", Estado: EstadoActiva, FechaFin: &prev}

	if err := ApplyTransition(a, EstadoFinalizada, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if !a.FechaFin.Equal(prev) {
		t.Fatalf("expected manual FechaFin preserved, got %v", a.FechaFin)
	}
}

func TestApplyTransitionNil(t *testing.T) {
	if err := ApplyTransition(nil, EstadoCancelada, time.Now()); err == nil {
		t.Fatalf("expected error for nil asignacion")
	}
}
