package equipo

import (
	"context"
	"fmt"

	"github.com/FlotaEquipos/FlotaEquipos/internal/common/storage"
	"gorm.io/gorm"
)

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

func (r *Repo) Create(ctx context.Context, e *Equipo) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Create(e).Error)
}

func (r *Repo) Save(ctx context.Context, e *Equipo) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Save(e).Error)
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Equipo, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var e Equipo
	if err := db.Where("id = ?", id).First(&e).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &e, nil
}

func (r *Repo) FindByDominio(ctx context.Context, dominio string) (*Equipo, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var e Equipo
	if err := db.Where("dominio = ?", dominio).First(&e).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &e, nil
}

// List 支持按 status / tipo_vehiculo 过滤 + 分页。
func (r *Repo) List(ctx context.Context, status Status, tipo TipoVehiculo, offset, limit int) ([]Equipo, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := db.Model(&Equipo{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if tipo != "" {
		q = q.Where("tipo_vehiculo = ?", tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var equipos []Equipo
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&equipos).Error; err != nil {
		return nil, 0, err
	}
	return equipos, total, nil
}

// Delete 删除设备。存在指派历史的设备禁止硬删。
func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	var dependientes int64
	if err := db.Table("asignaciones").Where("equipo_id = ?", id).Count(&dependientes).Error; err != nil {
		return err
	}
	if dependientes > 0 {
		return &storage.ReferentialIntegrityError{Entidad: "equipo", Dependientes: dependientes}
	}

	res := db.Where("id = ?", id).Delete(&Equipo{})
	if res.Error != nil {
		return storage.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
