package equipo

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/FlotaEquipos/FlotaEquipos/internal/common/logger"
	"github.com/FlotaEquipos/FlotaEquipos/internal/common/server"
	"github.com/google/uuid"
)

// Handler equipos 的 HTTP 适配层（只做编解码和错误映射）。
type Handler struct {
	repo *Repo
	log  logger.Logger
}

func NewHandler(repo *Repo, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// EquipoDTO 响应/请求体（字段名兼容旧前端）。
type EquipoDTO struct {
	ID           string `json:"id,omitempty"`
	Dominio      string `json:"dominio"`
	Marca        string `json:"marca,omitempty"`
	Modelo       string `json:"modelo,omitempty"`
	Anio         int    `json:"anio,omitempty"`
	TipoVehiculo string `json:"tipoVehiculo,omitempty"`
	Status       string `json:"status,omitempty"`
	PolizaVto    string `json:"polizaVto,omitempty"`
	VtvVto       string `json:"vtvVto,omitempty"`
	ImagenURL    string `json:"imagenUrl,omitempty"`
}

func toDTO(e *Equipo) EquipoDTO {
	return EquipoDTO{
		ID:           e.ID,
		Dominio:      e.Dominio,
		Marca:        e.Marca,
		Modelo:       e.Modelo,
		Anio:         e.Anio,
		TipoVehiculo: string(e.TipoVehiculo),
		Status:       string(e.Status),
		PolizaVto:    e.PolizaVto,
		VtvVto:       e.VtvVto,
		ImagenURL:    e.ImagenURL,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/equipos", h.create)
	mux.HandleFunc("GET /api/equipos", h.list)
	mux.HandleFunc("GET /api/equipos/{id}", h.get)
	mux.HandleFunc("PUT /api/equipos/{id}", h.update)
	mux.HandleFunc("DELETE /api/equipos/{id}", h.remove)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in EquipoDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Dominio) == "" {
		server.WriteErrorMessage(w, http.StatusBadRequest, "dominio required")
		return
	}

	status := Status(in.Status)
	if status == "" {
		status = StatusOperativo
	}

	e := &Equipo{
		ID:           uuid.NewString(),
		Dominio:      strings.ToUpper(strings.TrimSpace(in.Dominio)),
		Marca:        strings.TrimSpace(in.Marca),
		Modelo:       strings.TrimSpace(in.Modelo),
		Anio:         in.Anio,
		TipoVehiculo: TipoVehiculo(in.TipoVehiculo),
		Status:       status,
		PolizaVto:    strings.TrimSpace(in.PolizaVto),
		VtvVto:       strings.TrimSpace(in.VtvVto),
		ImagenURL:    strings.TrimSpace(in.ImagenURL),
	}
	if err := h.repo.Create(r.Context(), e); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, toDTO(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// dominio 唯一，按它查直接回单条
	if dominio := strings.TrimSpace(q.Get("dominio")); dominio != "" {
		e, err := h.repo.FindByDominio(r.Context(), strings.ToUpper(dominio))
		if err != nil {
			server.WriteStoreError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"items": []EquipoDTO{toDTO(e)},
			"total": int64(1),
		})
		return
	}

	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	equipos, total, err := h.repo.List(r.Context(), Status(q.Get("status")), TipoVehiculo(q.Get("tipo")), offset, limit)
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}

	items := make([]EquipoDTO, 0, len(equipos))
	for i := range equipos {
		items = append(items, toDTO(&equipos[i]))
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.repo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(e))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	e, err := h.repo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		server.WriteStoreError(w, err)
		return
	}

	var in EquipoDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		server.WriteErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	if strings.TrimSpace(in.Dominio) != "" {
		e.Dominio = strings.ToUpper(strings.TrimSpace(in.Dominio))
	}
	if in.Marca != "" {
		e.Marca = in.Marca
	}
	if in.Modelo != "" {
		e.Modelo = in.Modelo
	}
	if in.Anio != 0 {
		e.Anio = in.Anio
	}
	if in.TipoVehiculo != "" {
		e.TipoVehiculo = TipoVehiculo(in.TipoVehiculo)
	}
	if in.Status != "" {
		e.Status = Status(in.Status)
	}
	if in.PolizaVto != "" {
		e.PolizaVto = in.PolizaVto
	}
	if in.VtvVto != "" {
		e.VtvVto = in.VtvVto
	}
	if in.ImagenURL != "" {
		e.ImagenURL = in.ImagenURL
	}

	if err := h.repo.Save(r.Context(), e); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toDTO(e))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		server.WriteStoreError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
