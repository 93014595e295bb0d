package mantenimiento

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FlotaEquipos/FlotaEquipos/internal/common/logger"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/server"
	"github.com/google/uuid"
)

type Handler struct {
	repo *Repo
	log  logger.Logger
}

func NewHandler(repo *Repo, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

type RegistroDTO struct {
	ID              string `json:"id,omitempty"`
	EquipoID        string `json:"equipoId"`
	Status          string `json:"status,omitempty"`
	WorkOrderNumber string `json:"workOrderNumber"`
	ScheduledDate   string `json:"scheduledDate,omitempty"` // YYYY-MM-DD
	Descripcion     string `json:"descripcion,omitempty"`
}

func toDTO(reg *Registro) RegistroDTO {
	dto := RegistroDTO{
		ID:              reg.ID,
		EquipoID:        reg.EquipoID,
		Status:          string(reg.Status),
		WorkOrderNumber: reg.WorkOrderNumber,
		Descripcion:     reg.Descripcion,
	}
	if !reg.ScheduledDate.IsZero() {
		dto.ScheduledDate = reg.ScheduledDate.Format("2006-01-02")
	}
	return dto
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/mantenimientos", h.create)
	mux.HandleFunc("GET /api/mantenimientos", h.list)
	mux.HandleFunc("GET /api/mantenimientos/{id}", h.get)
	mux.HandleFunc("PUT /api/mantenimientos/{id}", h.update)
	mux.HandleFunc("DELETE /api/mantenimientos/{id}", h.remove)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in RegistroDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.EquipoID) == "" || strings.TrimSpace(in.WorkOrderNumber) == "" {
		server.WriteErrorMessage(w, http.StatusBadRequest, "equipoId and workOrderNumber required")
		return
	}

	reg := &Registro{
		ID:              uuid.NewString(),
		EquipoID:        strings.TrimSpace(in.EquipoID),
		Status:          StatusScheduled,
		WorkOrderNumber: strings.ToUpper(strings.TrimSpace(in.WorkOrderNumber)),
		Descripcion:     strings.TrimSpace(in.Descripcion),
	}
	if in.Status != "" {
		reg.Status = Status(in.Status)
	}
	if in.ScheduledDate != "" {
		d, err := time.Parse("2006-01-02", in.ScheduledDate)
		if err != nil {
			server.WriteErrorMessage(w, http.StatusBadRequest, "scheduledDate must be YYYY-MM-DD")
			return
		}
		reg.ScheduledDate = d
	}

	if err := h.repo.Create(r.Context(), reg); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, toDTO(reg))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	registros, total, err := h.repo.List(r.Context(), q.Get("equipoId"), Status(q.Get("status")), offset, limit)
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}

	items := make([]RegistroDTO, 0, len(registros))
	for i := range registros {
		items = append(items, toDTO(&registros[i]))
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	reg, err := h.repo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(reg))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	reg, err := h.repo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}

	var in RegistroDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	if in.Status != "" {
		reg.Status = Status(in.Status)
	}
	if in.Descripcion != "" {
		reg.Descripcion = in.Descripcion
	}
	if in.ScheduledDate != "" {
		d, err := time.Parse("2006-01-02", in.ScheduledDate)
		if err != nil {
			server.WriteErrorMessage(w, http.StatusBadRequest, "scheduledDate must be YYYY-MM-DD")
			return
		}
		reg.ScheduledDate = d
	}

	if err := h.repo.Save(r.Context(), reg); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(reg))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
