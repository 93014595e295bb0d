package proyecto

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

func (r *Repo) Create(ctx context.Context, p *Proyecto) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Create(p).Error)
}

func (r *Repo) Save(ctx context.Context, p *Proyecto) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return storage.MapError(db.Save(p).Error)
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Proyecto, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var p Proyecto
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, storage.MapError(err)
	}
	return &p, nil
}

// List 支持按 tipo / estado 过滤 + 分页。
func (r *Repo) List(ctx context.Context, tipo Tipo, estado Estado, offset, limit int) ([]Proyecto, int64, error) {
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

	q := db.Model(&Proyecto{})
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proyectos []Proyecto
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&proyectos).Error; err != nil {
		return nil, 0, err
	}
	return proyectos, total, nil
}

// Delete 删除项目。仍被指派引用的项目禁止删除。
func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	var dependientes int64
	if err := db.Table("asignaciones").Where("proyecto_id = ?", id).Count(&dependientes).Error; err != nil {
		return err
	}
	if dependientes > 0 {
		return &storage.ReferentialIntegrityError{Entidad: "proyecto", Dependientes: dependientes}
	}

	res := db.Where("id = ?", id).Delete(&Proyecto{})
	if res.Error != nil {
		return storage.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
