package asignacion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/FlotaEquipos/FlotaEquipos/internal/common/logger"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/server"
	"github.com/shopspring/decimal"
)

// Handler 指派的 HTTP 适配层。业务全部在 Service，这里只做
// 编解码、日期格式转换和错误映射。
type Handler struct {
	svc     *Service
	scanner *Scanner
	log     logger.Logger
}

func NewHandler(svc *Service, scanner *Scanner, log logger.Logger) *Handler {
	return &Handler{svc: svc, scanner: scanner, log: log}
}

const fechaLayout = "2006-01-02"

// CreateAsignacionDTO 创建请求体（字段名兼容旧前端）。
type CreateAsignacionDTO struct {
	EquipoID         string          `json:"equipoId"`
	ProyectoID       string          `json:"proyectoId"`
	CentroCostoID    string          `json:"centroCostoId"`
	FechaInicio      string          `json:"fechaInicio"`                // YYYY-MM-DD
	FechaFinPrevista string          `json:"fechaFinPrevista,omitempty"` // YYYY-MM-DD
	RetribucionTipo  string          `json:"retribucionTipo"`
	RetribucionValor decimal.Decimal `json:"retribucionValor"`
	HorasEstimadas   *float64        `json:"horasEstimadas,omitempty"`
	Observaciones    string          `json:"observaciones,omitempty"`
}

// AsignacionDTO 响应体。
type AsignacionDTO struct {
	ID                      string           `json:"id"`
	EquipoID                string           `json:"equipoId"`
	ProyectoID              string           `json:"proyectoId"`
	CentroCostoID           string           `json:"centroCostoId"`
	FechaInicio             string           `json:"fechaInicio"`
	FechaFinPrevista        string           `json:"fechaFinPrevista,omitempty"`
	FechaFin                string           `json:"fechaFin,omitempty"`
	RetribucionTipo         string           `json:"retribucionTipo"`
	RetribucionValor        decimal.Decimal  `json:"retribucionValor"`
	HorasEstimadas          *float64         `json:"horasEstimadas,omitempty"`
	HorasReales             *float64         `json:"horasReales,omitempty"`
	Estado                  string           `json:"estado"`
	CostoTotal              *decimal.Decimal `json:"costoTotal,omitempty"`
	ValidacionMantenimiento bool             `json:"validacionMantenimiento"`
	Observaciones           string           `json:"observaciones,omitempty"`
	CreadoPor               string           `json:"creadoPor,omitempty"`
	CreatedAt               time.Time        `json:"createdAt"`
	UpdatedAt               time.Time        `json:"updatedAt"`
}

func toDTO(a *Asignacion) AsignacionDTO {
	dto := AsignacionDTO{
		ID:                      a.ID,
		EquipoID:                a.EquipoID,
		ProyectoID:              a.ProyectoID,
		CentroCostoID:           a.CentroCostoID,
		FechaInicio:             a.FechaInicio.Format(fechaLayout),
		RetribucionTipo:         string(a.RetribucionTipo),
		RetribucionValor:        a.RetribucionValor,
		HorasEstimadas:          a.HorasEstimadas,
		HorasReales:             a.HorasReales,
		Estado:                  string(a.Estado),
		ValidacionMantenimiento: a.ValidacionMantenimiento,
		Observaciones:           a.Observaciones,
		CreadoPor:               a.CreadoPor,
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.UpdatedAt,
	}
	if a.FechaFinPrevista != nil {
		dto.FechaFinPrevista = a.FechaFinPrevista.Format(fechaLayout)
	}
	if a.FechaFin != nil {
		dto.FechaFin = a.FechaFin.Format(fechaLayout)
	}
	costo := a.CostoTotal
	dto.CostoTotal = &costo
	return dto
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/asignaciones", h.create)
	mux.HandleFunc("GET /api/asignaciones", h.list)
	mux.HandleFunc("GET /api/asignaciones/{id}", h.get)
	mux.HandleFunc("PUT /api/asignaciones/{id}", h.modify)
	mux.HandleFunc("POST /api/asignaciones/{id}/completar", h.complete)
	mux.HandleFunc("POST /api/asignaciones/{id}/suspender", h.suspend)
	mux.HandleFunc("POST /api/asignaciones/{id}/reanudar", h.resume)
	mux.HandleFunc("POST /api/asignaciones/{id}/cancelar", h.cancel)
	mux.HandleFunc("GET /api/asignaciones/{id}/metricas", h.metrics)
	mux.HandleFunc("GET /api/alertas", h.alerts)
	mux.HandleFunc("GET /api/proyectos/{id}/retribucion-sugerida", h.suggested)
}

// writeError 业务校验失败回 400 + 违规项列表，其余走存储错误映射。
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		server.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{"errores": ve.Motivos})
		return
	}
	server.WriteStoreError(w, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateAsignacionDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	fechaInicio, err := time.Parse(fechaLayout, in.FechaInicio)
	if err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "fechaInicio must be YYYY-MM-DD")
		return
	}
	var fechaFinPrevista *time.Time
	if in.FechaFinPrevista != "" {
		f, err := time.Parse(fechaLayout, in.FechaFinPrevista)
		if err != nil {
			server.WriteErrorMessage(w, http.StatusBadRequest, "fechaFinPrevista must be YYYY-MM-DD")
			return
		}
		fechaFinPrevista = &f
	}

	creadoPor := r.Header.Get("X-Usuario")
	if creadoPor == "" {
		creadoPor = "sistema"
	}

	a, err := h.svc.Create(r.Context(), CreateInput{
		EquipoID:         in.EquipoID,
		ProyectoID:       in.ProyectoID,
		CentroCostoID:    in.CentroCostoID,
		FechaInicio:      fechaInicio,
		FechaFinPrevista: fechaFinPrevista,
		RetribucionTipo:  RetribucionTipo(in.RetribucionTipo),
		RetribucionValor: in.RetribucionValor,
		HorasEstimadas:   in.HorasEstimadas,
		Observaciones:    in.Observaciones,
		CreadoPor:        creadoPor,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, toDTO(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	asignaciones, total, err := h.svc.List(r.Context(), ListFilter{
		EquipoID:   q.Get("equipoId"),
		ProyectoID: q.Get("proyectoId"),
		Estado:     Estado(q.Get("estado")),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	items := make([]AsignacionDTO, 0, len(asignaciones))
	for i := range asignaciones {
		items = append(items, toDTO(&asignaciones[i]))
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(a))
}

// ModifyAsignacionDTO 修改请求体。指针字段缺省表示不修改。
type ModifyAsignacionDTO struct {
	FechaFinPrevista *string          `json:"fechaFinPrevista,omitempty"`
	FechaFin         *string          `json:"fechaFin,omitempty"`
	HorasEstimadas   *float64         `json:"horasEstimadas,omitempty"`
	HorasReales      *float64         `json:"horasReales,omitempty"`
	RetribucionValor *decimal.Decimal `json:"retribucionValor,omitempty"`
	Observaciones    *string          `json:"observaciones,omitempty"`
}

func (h *Handler) modify(w http.ResponseWriter, r *http.Request) {
	var in ModifyAsignacionDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	patch := ModifyInput{
		HorasEstimadas:   in.HorasEstimadas,
		HorasReales:      in.HorasReales,
		RetribucionValor: in.RetribucionValor,
		Observaciones:    in.Observaciones,
	}
	if in.FechaFinPrevista != nil {
		f, err := time.Parse(fechaLayout, *in.FechaFinPrevista)
		if err != nil {
			server.WriteErrorMessage(w, http.StatusBadRequest, "fechaFinPrevista must be YYYY-MM-DD")
			return
		}
		patch.FechaFinPrevista = &f
	}
	if in.FechaFin != nil {
		f, err := time.Parse(fechaLayout, *in.FechaFin)
		if err != nil {
			server.WriteErrorMessage(w, http.StatusBadRequest, "fechaFin must be YYYY-MM-DD")
			return
		}
		patch.FechaFin = &f
	}

	a, err := h.svc.Modify(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(a))
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	var in struct {
		HorasReales *float64 `json:"horasReales,omitempty"`
	}
	// body 可为空：horasReales 也可以提前用 PUT 登记。
	_ = json.NewDecoder(r.Body).Decode(&in)

	a, err := h.svc.Complete(r.Context(), r.PathValue("id"), in.HorasReales)
	if err != nil {
		h.writeError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(a))
}

func (h *Handler) suspend(w http.ResponseWriter, r *http.Request) {
	h.doTransition(w, r, h.svc.Suspend)
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	h.doTransition(w, r, h.svc.Resume)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.doTransition(w, r, h.svc.Cancel)
}

func (h *Handler) doTransition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) (*Asignacion, error)) {
	a, err := fn(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(a))
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	costPerHour := decimal.Zero
	if raw := r.URL.Query().Get("costoHora"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			server.WriteErrorMessage(w, http.StatusBadRequest, "costoHora must be a decimal number")
			return
		}
		costPerHour = v
	}

	m, err := h.svc.Metrics(r.Context(), r.PathValue("id"), costPerHour)
	if err != nil {
		h.writeError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		server.WriteErrorMessage(w, http.StatusServiceUnavailable, "alert scanner not configured")
		return
	}
	alertas, err := h.scanner.Scan(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	porVencer := make([]AsignacionDTO, 0, len(alertas.PorVencer))
	for i := range alertas.PorVencer {
		porVencer = append(porVencer, toDTO(&alertas.PorVencer[i]))
	}
	pendientes := make([]AsignacionDTO, 0, len(alertas.MantenimientoPendiente))
	for i := range alertas.MantenimientoPendiente {
		pendientes = append(pendientes, toDTO(&alertas.MantenimientoPendiente[i]))
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"porVencer":              porVencer,
		"mantenimientoPendiente": pendientes,
	})
}

func (h *Handler) suggested(w http.ResponseWriter, r *http.Request) {
	sug, err := h.svc.SuggestedForProyecto(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, sug)
}
