package storage

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在（按 id 查询/更新/删除时返回）。
var ErrNotFound = errors.New("record not found")

// ConstraintViolationError 唯一键冲突（dominio / codigo / workOrderNumber /
// 同一设备并发创建第二条 ACTIVA 指派等场景）。
// 这是 create 路径上的预期结果，调用方按 409 语义处理。
type ConstraintViolationError struct {
	Constraint string
}

func (e *ConstraintViolationError) Error() string {
	if e.Constraint == "" {
		return "unique constraint violation"
	}
	return fmt.Sprintf("unique constraint violation: %s", e.Constraint)
}

// ReferentialIntegrityError 删除被下游数据阻止（例如项目仍有指派引用）。
// Dependientes 为依赖行数，回传给调用方展示。
type ReferentialIntegrityError struct {
	Entidad      string
	Dependientes int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s has %d dependent record(s)", e.Entidad, e.Dependientes)
}

// MySQL 错误码。1062=duplicate entry，1451/1452=外键约束。
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

// MapError 把 gorm / mysql 驱动错误翻译成本包的错误分类。
// 识别不了的错误原样返回（基础设施错误不在分类之内，由上层透传）。
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDuplicateEntry:
			return &ConstraintViolationError{Constraint: myErr.Message}
		case mysqlErrRowIsReferenced, mysqlErrNoReferencedRow:
			return &ReferentialIntegrityError{Entidad: "record", Dependientes: 1}
		}
	}
	return err
}

// IsConstraintViolation 判断是否唯一键冲突。
func IsConstraintViolation(err error) bool {
	var target *ConstraintViolationError
	return errors.As(err, &target)
}
