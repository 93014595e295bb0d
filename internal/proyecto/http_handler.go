package proyecto

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/FlotaEquipos/FlotaEquipos/internal/common/logger"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/server"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handler struct {
	repo *Repo
	log  logger.Logger
}

func NewHandler(repo *Repo, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// ProyectoDTO 请求/响应体。costoHora / porcentajeCosto 仅内部项目，
// cliente 仅外部项目；服务端落库前会清掉不属于该类型的字段。
type ProyectoDTO struct {
	ID              string           `json:"id,omitempty"`
	Nombre          string           `json:"nombre"`
	Tipo            string           `json:"tipo"`
	CostoHora       *decimal.Decimal `json:"costoHora,omitempty"`
	PorcentajeCosto *decimal.Decimal `json:"porcentajeCosto,omitempty"`
	Estado          string           `json:"estado,omitempty"`
	Responsable     string           `json:"responsable,omitempty"`
	Cliente         string           `json:"cliente,omitempty"`
}

func toDTO(p *Proyecto) ProyectoDTO {
	dto := ProyectoDTO{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Tipo:        string(p.Tipo),
		Estado:      string(p.Estado),
		Responsable: p.Responsable,
	}
	if p.Tipo == TipoInterno {
		ch := p.CostoHora
		pc := p.PorcentajeCosto
		dto.CostoHora = &ch
		dto.PorcentajeCosto = &pc
	} else {
		dto.Cliente = p.Cliente
	}
	return dto
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/proyectos", h.create)
	mux.HandleFunc("GET /api/proyectos", h.list)
	mux.HandleFunc("GET /api/proyectos/{id}", h.get)
	mux.HandleFunc("PUT /api/proyectos/{id}", h.update)
	mux.HandleFunc("DELETE /api/proyectos/{id}", h.remove)
}

// apply 把 DTO 合并进模型，并维持 INTERNO/EXTERNO 字段互斥。
func apply(p *Proyecto, in *ProyectoDTO) string {
	if strings.TrimSpace(in.Nombre) != "" {
		p.Nombre = strings.TrimSpace(in.Nombre)
	}
	if in.Tipo != "" {
		p.Tipo = Tipo(in.Tipo)
	}
	if p.Tipo != TipoInterno && p.Tipo != TipoExterno {
		return "tipo must be INTERNO or EXTERNO"
	}
	if in.Estado != "" {
		p.Estado = Estado(in.Estado)
	}
	if in.Responsable != "" {
		p.Responsable = in.Responsable
	}

	switch p.Tipo {
	case TipoInterno:
		if in.CostoHora != nil {
			p.CostoHora = *in.CostoHora
		}
		if in.PorcentajeCosto != nil {
			p.PorcentajeCosto = *in.PorcentajeCosto
		}
		p.Cliente = ""
		if !p.CostoHora.IsPositive() {
			return "costoHora must be > 0 for INTERNO projects"
		}
	case TipoExterno:
		if in.Cliente != "" {
			p.Cliente = in.Cliente
		}
		p.CostoHora = decimal.Zero
		p.PorcentajeCosto = decimal.Zero
	}
	return ""
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in ProyectoDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Nombre) == "" {
		server.WriteErrorMessage(w, http.StatusBadRequest, "nombre required")
		return
	}

	p := &Proyecto{
		ID:     uuid.NewString(),
		Estado: EstadoActivo,
	}
	if msg := apply(p, &in); msg != "" {
		server.WriteErrorMessage(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, toDTO(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	proyectos, total, err := h.repo.List(r.Context(), Tipo(q.Get("tipo")), Estado(q.Get("estado")), offset, limit)
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}

	items := make([]ProyectoDTO, 0, len(proyectos))
	for i := range proyectos {
		items = append(items, toDTO(&proyectos[i]))
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}

	var in ProyectoDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := apply(p, &in); msg != "" {
		server.WriteErrorMessage(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.Save(r.Context(), p); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(p))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
