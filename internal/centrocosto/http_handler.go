package centrocosto

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

type CentroCostoDTO struct {
	ID          string           `json:"id,omitempty"`
	Nombre      string           `json:"nombre"`
	Codigo      string           `json:"codigo"`
	Presupuesto *decimal.Decimal `json:"presupuesto,omitempty"`
	Activo      *bool            `json:"activo,omitempty"`
}

func toDTO(cc *CentroCosto) CentroCostoDTO {
	presupuesto := cc.Presupuesto
	activo := cc.Activo
	return CentroCostoDTO{
		ID:          cc.ID,
		Nombre:      cc.Nombre,
		Codigo:      cc.Codigo,
		Presupuesto: &presupuesto,
		Activo:      &activo,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/centros-costo", h.create)
	mux.HandleFunc("GET /api/centros-costo", h.list)
	mux.HandleFunc("GET /api/centros-costo/{id}", h.get)
	mux.HandleFunc("PUT /api/centros-costo/{id}", h.update)
	mux.HandleFunc("DELETE /api/centros-costo/{id}", h.remove)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CentroCostoDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Codigo) == "" {
		server.WriteErrorMessage(w, http.StatusBadRequest, "nombre and codigo required")
		return
	}

	cc := &CentroCosto{
		ID:     uuid.NewString(),
		Nombre: strings.TrimSpace(in.Nombre),
		Codigo: strings.ToUpper(strings.TrimSpace(in.Codigo)),
		Activo: true,
	}
	if in.Presupuesto != nil {
		cc.Presupuesto = *in.Presupuesto
	}
	if in.Activo != nil {
		cc.Activo = *in.Activo
	}

	if err := h.repo.Create(r.Context(), cc); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, toDTO(cc))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	soloActivos := q.Get("activo") == "true"

	centros, total, err := h.repo.List(r.Context(), soloActivos, offset, limit)
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}

	items := make([]CentroCostoDTO, 0, len(centros))
	for i := range centros {
		items = append(items, toDTO(&centros[i]))
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	cc, err := h.repo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(cc))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	cc, err := h.repo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}

	var in CentroCostoDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	if strings.TrimSpace(in.Nombre) != "" {
		cc.Nombre = strings.TrimSpace(in.Nombre)
	}
	if strings.TrimSpace(in.Codigo) != "" {
		cc.Codigo = strings.ToUpper(strings.TrimSpace(in.Codigo))
	}
	if in.Presupuesto != nil {
		cc.Presupuesto = *in.Presupuesto
	}
	if in.Activo != nil {
		cc.Activo = *in.Activo
	}

	if err := h.repo.Save(r.Context(), cc); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(cc))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
