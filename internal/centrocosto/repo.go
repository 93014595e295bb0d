package centrocosto

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

func (r *Repo) Create(ctx context.Context, cc *CentroCosto) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Create(cc).Error)
}

func (r *Repo) Save(ctx context.Context, cc *CentroCosto) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Save(cc).Error)
}

func (r *Repo) FindByID(ctx context.Context, id string) (*CentroCosto, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var cc CentroCosto
	if err := db.Where("id = ?", id).First(&cc).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &cc, nil
}

// List 支持按 activo 过滤 + 分页。
func (r *Repo) List(ctx context.Context, soloActivos bool, offset, limit int) ([]CentroCosto, int64, error) {
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

	q := db.Model(&CentroCosto{})
	if soloActivos {
		q = q.Where("activo = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var centros []CentroCosto
	if err := q.Order("codigo ASC").Offset(offset).Limit(limit).Find(&centros).Error; err != nil {
		return nil, 0, err
	}
	return centros, total, nil
}

// Delete 删除成本中心。还有 ACTIVA 指派引用时禁止删除。
func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	var dependientes int64
	if err := db.Table("asignaciones").
		Where("centro_costo_id = ? AND estado = ?", id, "ACTIVA").
		Count(&dependientes).Error; err != nil {
		return err
	}
	if dependientes > 0 {
		return &storage.ReferentialIntegrityError{Entidad: "centro de costo", Dependientes: dependientes}
	}

	res := db.Where("id = ?", id).Delete(&CentroCosto{})
	if res.Error != nil {
		return storage.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
