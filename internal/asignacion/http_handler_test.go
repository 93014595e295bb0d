package asignacion

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FlotaEquipos/FlotaEquipos/internal/equipo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(store *fakeStore) *http.ServeMux {
	svc := NewService(store, fixedClock)
	scanner := NewScanner(store, nil, 7, nil, fixedClock)
	mux := http.NewServeMux()
	NewHandler(svc, scanner, nil).RegisterRoutes(mux)
	return mux
}

func TestHandlerCreateAndComplete(t *testing.T) {
	mux := newTestMux(seedStore())

	body := `{
		"equipoId": "eq-1",
		"proyectoId": "pr-interno",
		"centroCostoId": "cc-1",
		"fechaInicio": "2026-03-10",
		"fechaFinPrevista": "2026-05-10",
		"retribucionTipo": "PORCENTAJE",
		"retribucionValor": 15,
		"horasEstimadas": 160
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/asignaciones", strings.NewReader(body))
	req.Header.Set("X-Usuario", "jsosa")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created AsignacionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ACTIVA", created.Estado)
	assert.Equal(t, "2026-03-10", created.FechaInicio)
	assert.Equal(t, "jsosa", created.CreadoPor)
	assert.True(t, created.ValidacionMantenimiento)
	require.NotNil(t, created.CostoTotal)
	assert.Equal(t, "36000", created.CostoTotal.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/asignaciones/"+created.ID+"/completar", strings.NewReader(`{"horasReales": 180}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var done AsignacionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.Equal(t, "FINALIZADA", done.Estado)
	assert.NotEmpty(t, done.FechaFin)
	assert.Equal(t, "40500", done.CostoTotal.String())
}

func TestHandlerCreateValidationErrors(t *testing.T) {
	store := seedStore()
	store.equipos["eq-1"].Status = equipo.StatusMantenimiento
	mux := newTestMux(store)

	body := `{
		"equipoId": "eq-1",
		"proyectoId": "pr-interno",
		"centroCostoId": "cc-1",
		"fechaInicio": "2026-03-10",
		"retribucionTipo": "PORCENTAJE",
		"retribucionValor": 15
	}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/asignaciones", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errores []string `json:"errores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errores, 1)
	assert.Contains(t, resp.Errores[0], "no está operativo")
}

func TestHandlerCreateBadDates(t *testing.T) {
	mux := newTestMux(seedStore())

	body := `{"equipoId":"eq-1","proyectoId":"pr-interno","centroCostoId":"cc-1","fechaInicio":"10/03/2026","retribucionTipo":"PORCENTAJE","retribucionValor":15}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/asignaciones", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGetNotFound(t *testing.T) {
	mux := newTestMux(seedStore())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/asignaciones/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerSuggested(t *testing.T) {
	mux := newTestMux(seedStore())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proyectos/pr-externo/retribucion-sugerida", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sug Sugerencia
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sug))
	assert.Equal(t, RetribucionValorFijo, sug.Tipo)
	assert.Equal(t, "1500", sug.Valor.String())
}

func TestHandlerAlerts(t *testing.T) {
	mux := newTestMux(seedStore())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alertas", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		PorVencer              []AsignacionDTO `json:"porVencer"`
		MantenimientoPendiente []AsignacionDTO `json:"mantenimientoPendiente"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.PorVencer)
	assert.Empty(t, resp.MantenimientoPendiente)
}
