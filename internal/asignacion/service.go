package asignacion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FlotaEquipos/FlotaEquipos/internal/centrocosto"
	"github.com/FlotaEquipos/FlotaEquipos/internal/equipo"
	"github.com/FlotaEquipos/FlotaEquipos/internal/mantenimiento"
	"github.com/FlotaEquipos/FlotaEquipos/internal/proyecto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store 指派用例依赖的持久化接口。生产实现是 Repo（GORM/MySQL），
// 测试里用内存假实现。显式注入，不走全局单例。
type Store interface {
	Create(ctx context.Context, a *Asignacion) error
	Save(ctx context.Context, a *Asignacion) error
	GetByID(ctx context.Context, id string) (*Asignacion, error)
	List(ctx context.Context, f ListFilter) ([]Asignacion, int64, error)
	ListByEquipo(ctx context.Context, equipoID string) ([]Asignacion, error)
	ListByEstado(ctx context.Context, estado Estado) ([]Asignacion, error)

	GetEquipo(ctx context.Context, id string) (*equipo.Equipo, error)
	GetProyecto(ctx context.Context, id string) (*proyecto.Proyecto, error)
	GetCentroCosto(ctx context.Context, id string) (*centrocosto.CentroCosto, error)
	RegistrosDeEquipo(ctx context.Context, equipoID string) ([]mantenimiento.Registro, error)
}

// Clock 可注入时钟，测试时固定时间。
type Clock func() time.Time

// ListFilter 查询条件。
type ListFilter struct {
	EquipoID   string
	ProyectoID string
	Estado     Estado
	Offset     int
	Limit      int
}

// Service 封装指派领域的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	store Store
	clock Clock
}

func NewService(store Store, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, clock: clock}
}

// CreateInput 创建指派的入参（传输层 DTO 解码后的形态）。
type CreateInput struct {
	EquipoID      string
	ProyectoID    string
	CentroCostoID string

	FechaInicio      time.Time
	FechaFinPrevista *time.Time

	RetribucionTipo  RetribucionTipo
	RetribucionValor decimal.Decimal
	HorasEstimadas   *float64

	Observaciones string
	CreadoPor     string
}

// Create 创建指派。先取三个关联实体（缺了直接 NotFound 短路，
// 后面的校验都没意义），然后把输入规则和资格校验的违规项攒成
// 一个列表一次性回给调用方。
// 成功路径：置 ACTIVA + ValidacionMantenimiento=true + 重算 CostoTotal，
// 并落 EquipoActivoID 哨兵；并发下第二条同设备 ACTIVA 会在存储层
// 撞唯一键，调用方收到 ConstraintViolation。
func (s *Service) Create(ctx context.Context, in CreateInput) (*Asignacion, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	eq, err := s.store.GetEquipo(ctx, strings.TrimSpace(in.EquipoID))
	if err != nil {
		return nil, err
	}
	pr, err := s.store.GetProyecto(ctx, strings.TrimSpace(in.ProyectoID))
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetCentroCosto(ctx, strings.TrimSpace(in.CentroCostoID)); err != nil {
		return nil, err
	}

	now := s.clock()
	hoy := dateOnly(now)
	var motivos []string

	if dateOnly(in.FechaInicio).Before(hoy) {
		motivos = append(motivos, "la fecha de inicio no puede ser anterior a hoy")
	}
	if in.FechaFinPrevista != nil && !in.FechaFinPrevista.After(in.FechaInicio) {
		motivos = append(motivos, "la fecha de fin prevista debe ser posterior a la fecha de inicio")
	}
	if in.HorasEstimadas != nil && *in.HorasEstimadas <= 0 {
		motivos = append(motivos, "las horas estimadas deben ser mayores a cero")
	}
	if !in.RetribucionValor.IsPositive() {
		motivos = append(motivos, "el valor de retribución debe ser mayor a cero")
	}
	if !pairingOK(pr.Tipo, in.RetribucionTipo) {
		motivos = append(motivos, fmt.Sprintf(
			"el tipo de retribución %s no corresponde a un proyecto %s", in.RetribucionTipo, pr.Tipo))
	}

	existentes, err := s.store.ListByEquipo(ctx, eq.ID)
	if err != nil {
		return nil, err
	}
	if HasActiveAssignment(eq.ID, existentes) {
		motivos = append(motivos, "el equipo ya tiene una asignación activa")
	}

	registros, err := s.store.RegistrosDeEquipo(ctx, eq.ID)
	if err != nil {
		return nil, err
	}
	if elig := CanAssign(eq, registros, now); !elig.Valida {
		motivos = append(motivos, elig.Motivo)
	}

	if len(motivos) > 0 {
		return nil, &ValidationError{Motivos: motivos}
	}

	equipoID := eq.ID
	a := &Asignacion{
		ID:            uuid.NewString(),
		EquipoID:      eq.ID,
		ProyectoID:    pr.ID,
		CentroCostoID: strings.TrimSpace(in.CentroCostoID),

		FechaInicio:      dateOnly(in.FechaInicio),
		FechaFinPrevista: in.FechaFinPrevista,

		RetribucionTipo:  in.RetribucionTipo,
		RetribucionValor: in.RetribucionValor,
		HorasEstimadas:   in.HorasEstimadas,

		Estado:                  EstadoActiva,
		ValidacionMantenimiento: true,
		Observaciones:           strings.TrimSpace(in.Observaciones),
		CreadoPor:               strings.TrimSpace(in.CreadoPor),
		EquipoActivoID:          &equipoID,
	}
	a.CostoTotal = CalculateCost(a, pr)

	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Complete 完成指派：要求当前 ACTIVA 且实际工时大于零。
// 成功后 FINALIZADA、落 FechaFin、重算 CostoTotal。
// horasReales 可在完成时一并提交；不传则用已登记的值。
func (s *Service) Complete(ctx context.Context, id string, horasReales *float64) (*Asignacion, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var motivos []string
	if a.Estado != EstadoActiva {
		motivos = append(motivos, fmt.Sprintf("sólo se puede finalizar una asignación activa (estado actual: %s)", a.Estado))
	}

	horas := a.HorasReales
	if horasReales != nil {
		horas = horasReales
	}
	if horas == nil || *horas <= 0 {
		motivos = append(motivos, "se requieren horas reales mayores a cero para finalizar")
	}

	if len(motivos) > 0 {
		return nil, &ValidationError{Motivos: motivos}
	}

	a.HorasReales = horas
	if err := ApplyTransition(a, EstadoFinalizada, s.clock()); err != nil {
		return nil, newValidationError(err.Error())
	}

	pr, err := s.store.GetProyecto(ctx, a.ProyectoID)
	if err != nil {
		return nil, err
	}
	a.CostoTotal = CalculateCost(a, pr)

	if err := s.store.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ModifyInput 可修改字段的补丁。nil 表示不动。
type ModifyInput struct {
	FechaFinPrevista *time.Time
	FechaFin         *time.Time
	HorasEstimadas   *float64
	HorasReales      *float64
	RetribucionValor *decimal.Decimal
	Observaciones    *string
}

// Modify 修改指派。终态一律拒绝；FechaFinPrevista / FechaFin 必须严格
// 晚于 FechaInicio；HorasReales 必须大于零。HorasReales 或 RetribucionValor 变化时重算
// CostoTotal。
func (s *Service) Modify(ctx context.Context, id string, in ModifyInput) (*Asignacion, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var motivos []string
	if a.EsTerminal() {
		motivos = append(motivos, fmt.Sprintf("la asignación está en estado terminal %s y no admite cambios", a.Estado))
	}
	if in.FechaFinPrevista != nil && !in.FechaFinPrevista.After(a.FechaInicio) {
		motivos = append(motivos, "la fecha de fin prevista debe ser posterior a la fecha de inicio")
	}
	if in.FechaFin != nil && !in.FechaFin.After(a.FechaInicio) {
		motivos = append(motivos, "la fecha de fin debe ser posterior a la fecha de inicio")
	}
	if in.HorasReales != nil && *in.HorasReales <= 0 {
		motivos = append(motivos, "las horas reales deben ser mayores a cero")
	}
	if in.HorasEstimadas != nil && *in.HorasEstimadas <= 0 {
		motivos = append(motivos, "las horas estimadas deben ser mayores a cero")
	}
	if in.RetribucionValor != nil && !in.RetribucionValor.IsPositive() {
		motivos = append(motivos, "el valor de retribución debe ser mayor a cero")
	}
	if len(motivos) > 0 {
		return nil, &ValidationError{Motivos: motivos}
	}

	recalcular := false
	if in.FechaFinPrevista != nil {
		a.FechaFinPrevista = in.FechaFinPrevista
	}
	if in.FechaFin != nil {
		a.FechaFin = in.FechaFin
	}
	if in.HorasEstimadas != nil {
		a.HorasEstimadas = in.HorasEstimadas
	}
	if in.HorasReales != nil {
		a.HorasReales = in.HorasReales
		recalcular = true
	}
	if in.RetribucionValor != nil {
		a.RetribucionValor = *in.RetribucionValor
		recalcular = true
	}
	if in.Observaciones != nil {
		a.Observaciones = *in.Observaciones
	}

	if recalcular {
		pr, err := s.store.GetProyecto(ctx, a.ProyectoID)
		if err != nil {
			return nil, err
		}
		a.CostoTotal = CalculateCost(a, pr)
	}

	if err := s.store.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Suspend 暂停指派（ACTIVA -> SUSPENDIDA）。
func (s *Service) Suspend(ctx context.Context, id string) (*Asignacion, error) {
	return s.transition(ctx, id, EstadoSuspendida)
}

// Resume 恢复指派（SUSPENDIDA -> ACTIVA）。哨兵列重新占位，
// 若期间该设备另有 ACTIVA 指派，存储层唯一键会拦住。
func (s *Service) Resume(ctx context.Context, id string) (*Asignacion, error) {
	return s.transition(ctx, id, EstadoActiva)
}

// Cancel 取消指派（非终态 -> CANCELADA）。
func (s *Service) Cancel(ctx context.Context, id string) (*Asignacion, error) {
	return s.transition(ctx, id, EstadoCancelada)
}

func (s *Service) transition(ctx context.Context, id string, to Estado) (*Asignacion, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Estado == to {
		return a, nil
	}
	if err := ApplyTransition(a, to, s.clock()); err != nil {
		return nil, newValidationError(err.Error())
	}
	if err := s.store.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Asignacion, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Asignacion, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.store.List(ctx, f)
}

// Metricas 完工指派的财务/效率指标。
type Metricas struct {
	CostoTotal      decimal.Decimal `json:"costoTotal"`
	Rentabilidad    decimal.Decimal `json:"rentabilidad"`
	EficienciaHoras float64         `json:"eficienciaHoras"`
}

// Metrics 计算指派的指标。costPerHour 为利润率的成本基准，
// 传零值时退回项目的 CostoHora。
func (s *Service) Metrics(ctx context.Context, id string, costPerHour decimal.Decimal) (*Metricas, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pr, err := s.store.GetProyecto(ctx, a.ProyectoID)
	if err != nil {
		return nil, err
	}

	if costPerHour.IsZero() {
		costPerHour = pr.CostoHora
	}
	return &Metricas{
		CostoTotal:      CalculateCost(a, pr),
		Rentabilidad:    CalculateProfitability(a, pr, costPerHour),
		EficienciaHoras: CalculateHourEfficiency(a),
	}, nil
}

// SuggestedForProyecto 项目的建议分摊配置。
func (s *Service) SuggestedForProyecto(ctx context.Context, proyectoID string) (Sugerencia, error) {
	if s == nil || s.store == nil {
		return Sugerencia{}, fmt.Errorf("service not initialized")
	}
	pr, err := s.store.GetProyecto(ctx, proyectoID)
	if err != nil {
		return Sugerencia{}, err
	}
	return SuggestedRetribution(pr), nil
}
