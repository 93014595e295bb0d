package asignacion

import (
	"context"
	"fmt"

	"github.com/FlotaEquipos/FlotaEquipos/internal/centrocosto"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/storage"
	"github.com/FlotaEquipos/FlotaEquipos/internal/equipo"
	"github.com/FlotaEquipos/FlotaEquipos/internal/mantenimiento"
	"github.com/FlotaEquipos/FlotaEquipos/internal/proyecto"
	"gorm.io/gorm"
)

// Repo GORM 实现的 Store。关联实体直接查各自的表，
// 不经过各包的 Repo，避免在用例层攒一堆依赖。
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, a *Asignacion) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Create(a).Error)
}

func (r *Repo) Save(ctx context.Context, a *Asignacion) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Save(a).Error)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Asignacion, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var a Asignacion
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &a, nil
}

// List 支持按 equipo_id / proyecto_id / estado 过滤 + 分页。
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Asignacion, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := db.Model(&Asignacion{})
	if f.EquipoID != "" {
		q = q.Where("equipo_id = ?", f.EquipoID)
	}
	if f.ProyectoID != "" {
		q = q.Where("proyecto_id = ?", f.ProyectoID)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var asignaciones []Asignacion
	if err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&asignaciones).Error; err != nil {
		return nil, 0, err
	}
	return asignaciones, total, nil
}

func (r *Repo) ListByEquipo(ctx context.Context, equipoID string) ([]Asignacion, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var asignaciones []Asignacion
	if err := db.Where("equipo_id = ?", equipoID).Find(&asignaciones).Error; err != nil {
		return nil, err
	}
	return asignaciones, nil
}

func (r *Repo) ListByEstado(ctx context.Context, estado Estado) ([]Asignacion, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var asignaciones []Asignacion
	if err := db.Where("estado = ?", estado).Find(&asignaciones).Error; err != nil {
		return nil, err
	}
	return asignaciones, nil
}

func (r *Repo) GetEquipo(ctx context.Context, id string) (*equipo.Equipo, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var e equipo.Equipo
	if err := db.Where("id = ?", id).First(&e).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &e, nil
}

func (r *Repo) GetProyecto(ctx context.Context, id string) (*proyecto.Proyecto, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var p proyecto.Proyecto
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &p, nil
}

func (r *Repo) GetCentroCosto(ctx context.Context, id string) (*centrocosto.CentroCosto, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var cc centrocosto.CentroCosto
	if err := db.Where("id = ?", id).First(&cc).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &cc, nil
}

func (r *Repo) RegistrosDeEquipo(ctx context.Context, equipoID string) ([]mantenimiento.Registro, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var registros []mantenimiento.Registro
	if err := db.Where("equipo_id = ?", equipoID).Find(&registros).Error; err != nil {
		return nil, err
	}
	return registros, nil
}
