package asignacion

import (
	"testing"

	"github.com/FlotaEquipos/FlotaEquipos/internal/proyecto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func horasPtr(v float64) *float64 { return &v }

// 内部项目：160h × $1500/h × 15% = $36000。
func TestCalculateCostInterno(t *testing.T) {
	pr := &proyecto.Proyecto{Tipo: proyecto.TipoInterno, CostoHora: decimal.NewFromInt(1500)}
	a := &Asignacion{
		RetribucionTipo:  RetribucionPorcentaje,
		RetribucionValor: decimal.NewFromInt(15),
		HorasEstimadas:   horasPtr(160),
	}

	got := CalculateCost(a, pr)
	assert.True(t, got.Equal(decimal.NewFromInt(36000)), "got %s", got)
}

// 外部项目：200h × $500/h = $100000。
func TestCalculateCostExterno(t *testing.T) {
	pr := &proyecto.Proyecto{Tipo: proyecto.TipoExterno}
	a := &Asignacion{
		RetribucionTipo:  RetribucionValorFijo,
		RetribucionValor: decimal.NewFromInt(500),
		HorasReales:      horasPtr(200),
	}

	got := CalculateCost(a, pr)
	assert.True(t, got.Equal(decimal.NewFromInt(100000)), "got %s", got)
}

// 实际工时优先于预估工时。
func TestCalculateCostPrefersHorasReales(t *testing.T) {
	pr := &proyecto.Proyecto{Tipo: proyecto.TipoExterno}
	a := &Asignacion{
		RetribucionTipo:  RetribucionValorFijo,
		RetribucionValor: decimal.NewFromInt(100),
		HorasEstimadas:   horasPtr(50),
		HorasReales:      horasPtr(80),
	}

	got := CalculateCost(a, pr)
	assert.True(t, got.Equal(decimal.NewFromInt(8000)), "got %s", got)
}

func TestCalculateCostMismatchedPairingIsZero(t *testing.T) {
	pr := &proyecto.Proyecto{Tipo: proyecto.TipoInterno, CostoHora: decimal.NewFromInt(1000)}
	a := &Asignacion{
		RetribucionTipo:  RetribucionValorFijo,
		RetribucionValor: decimal.NewFromInt(500),
		HorasEstimadas:   horasPtr(10),
	}

	assert.True(t, CalculateCost(a, pr).IsZero())
	assert.True(t, CalculateCost(nil, pr).IsZero())
	assert.True(t, CalculateCost(a, nil).IsZero())
}

// 同一输入重复计算结果一致（decimal，无有效数字漂移）。
func TestCalculateCostDeterministic(t *testing.T) {
	pr := &proyecto.Proyecto{Tipo: proyecto.TipoInterno, CostoHora: decimal.RequireFromString("1333.33")}
	a := &Asignacion{
		RetribucionTipo:  RetribucionPorcentaje,
		RetribucionValor: decimal.RequireFromString("12.5"),
		HorasEstimadas:   horasPtr(173),
	}

	first := CalculateCost(a, pr)
	for i := 0; i < 10; i++ {
		assert.True(t, CalculateCost(a, pr).Equal(first))
	}
}

func TestCalculateProfitability(t *testing.T) {
	pr := &proyecto.Proyecto{Tipo: proyecto.TipoExterno}
	a := &Asignacion{
		RetribucionTipo:  RetribucionValorFijo,
		RetribucionValor: decimal.NewFromInt(500),
		HorasReales:      horasPtr(100),
	}

	// revenue 50000, cost 40000 -> 25%
	got := CalculateProfitability(a, pr, decimal.NewFromInt(400))
	assert.True(t, got.Equal(decimal.NewFromInt(25)), "got %s", got)

	// cost 0 -> 0（不除零）
	assert.True(t, CalculateProfitability(a, pr, decimal.Zero).IsZero())

	// 内部项目没有利润率概念
	interno := &proyecto.Proyecto{Tipo: proyecto.TipoInterno}
	assert.True(t, CalculateProfitability(a, interno, decimal.NewFromInt(400)).IsZero())
}

func TestCalculateHourEfficiency(t *testing.T) {
	a := &Asignacion{HorasEstimadas: horasPtr(160), HorasReales: horasPtr(200)}
	assert.InDelta(t, 80.0, CalculateHourEfficiency(a), 0.0001)

	assert.Zero(t, CalculateHourEfficiency(&Asignacion{HorasEstimadas: horasPtr(160)}))
	assert.Zero(t, CalculateHourEfficiency(&Asignacion{HorasReales: horasPtr(200)}))
	assert.Zero(t, CalculateHourEfficiency(&Asignacion{HorasEstimadas: horasPtr(160), HorasReales: horasPtr(0)}))
	assert.Zero(t, CalculateHourEfficiency(nil))
}

func TestValidateRetributionBounds(t *testing.T) {
	interno := &proyecto.Proyecto{Tipo: proyecto.TipoInterno}
	externo := &proyecto.Proyecto{Tipo: proyecto.TipoExterno}

	cases := []struct {
		name  string
		p     *proyecto.Proyecto
		tipo  RetribucionTipo
		valor string
		want  bool
	}{
		{"porcentaje cero", interno, RetribucionPorcentaje, "0", false},
		{"porcentaje minimo", interno, RetribucionPorcentaje, "1", true},
		{"porcentaje maximo", interno, RetribucionPorcentaje, "50", true},
		{"porcentaje excedido", interno, RetribucionPorcentaje, "51", false},
		{"valor fijo positivo", externo, RetribucionValorFijo, "0.01", true},
		{"valor fijo cero", externo, RetribucionValorFijo, "0", false},
		{"valor fijo negativo", externo, RetribucionValorFijo, "-10", false},
		{"pareja invertida interno", interno, RetribucionValorFijo, "100", false},
		{"pareja invertida externo", externo, RetribucionPorcentaje, "10", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateRetribution(tc.p, tc.tipo, decimal.RequireFromString(tc.valor))
			assert.Equal(t, tc.want, got)
		})
	}

	assert.False(t, ValidateRetribution(nil, RetribucionPorcentaje, decimal.NewFromInt(10)))
}

func TestSuggestedRetribution(t *testing.T) {
	externo := &proyecto.Proyecto{Tipo: proyecto.TipoExterno}
	sug := SuggestedRetribution(externo)
	require.Equal(t, RetribucionValorFijo, sug.Tipo)
	assert.True(t, sug.Valor.Equal(decimal.NewFromInt(1500)))

	interno := &proyecto.Proyecto{Tipo: proyecto.TipoInterno, PorcentajeCosto: decimal.NewFromInt(20)}
	sug = SuggestedRetribution(interno)
	require.Equal(t, RetribucionPorcentaje, sug.Tipo)
	assert.True(t, sug.Valor.Equal(decimal.NewFromInt(20)))

	// 项目没配默认百分比时兜底 15
	sinDefecto := &proyecto.Proyecto{Tipo: proyecto.TipoInterno}
	sug = SuggestedRetribution(sinDefecto)
	require.Equal(t, RetribucionPorcentaje, sug.Tipo)
	assert.True(t, sug.Valor.Equal(decimal.NewFromInt(15)))

	// 建议值本身要通过校验
	assert.True(t, ValidateRetribution(interno, sug.Tipo, SuggestedRetribution(interno).Valor))
	assert.True(t, ValidateRetribution(externo, RetribucionValorFijo, SuggestedRetribution(externo).Valor))
}
