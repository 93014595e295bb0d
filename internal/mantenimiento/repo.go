package mantenimiento

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

func (r *Repo) Create(ctx context.Context, reg *Registro) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Create(reg).Error)
}

func (r *Repo) Save(ctx context.Context, reg *Registro) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Save(reg).Error)
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Registro, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var reg Registro
	if err := db.Where("id = ?", id).First(&reg).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &reg, nil
}

// ListByEquipo 某设备的全部保养记录（资格校验用，不分页）。
func (r *Repo) ListByEquipo(ctx context.Context, equipoID string) ([]Registro, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var registros []Registro
	if err := db.Where("equipo_id = ?", equipoID).Order("scheduled_date ASC").Find(&registros).Error; err != nil {
		return nil, err
	}
	return registros, nil
}

// List 支持按 equipo_id / status 过滤 + 分页。
func (r *Repo) List(ctx context.Context, equipoID string, status Status, offset, limit int) ([]Registro, int64, error) {
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

	q := db.Model(&Registro{})
	if equipoID != "" {
		q = q.Where("equipo_id = ?", equipoID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var registros []Registro
	if err := q.Order("scheduled_date DESC").Offset(offset).Limit(limit).Find(&registros).Error; err != nil {
		return nil, 0, err
	}
	return registros, total, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	res := db.Where("id = ?", id).Delete(&Registro{})
	if res.Error != nil {
		return storage.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
