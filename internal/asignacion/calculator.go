package asignacion

import (
	"github.com/FlotaEquipos/FlotaEquipos/internal/proyecto"
	"github.com/shopspring/decimal"
)

var (
	cien = decimal.NewFromInt(100)

	// 外部项目建议单价（货币单位/小时），业务默认值。
	valorFijoSugerido = decimal.NewFromInt(1500)

	// 内部项目无默认分摊百分比时的兜底值。
	porcentajeSugerido = decimal.NewFromInt(15)
)

// pairingOK 项目类型与分摊方式是否匹配（INTERNO⇔PORCENTAJE，EXTERNO⇔VALOR_FIJO）。
func pairingOK(tipoProyecto proyecto.Tipo, tipoRetribucion RetribucionTipo) bool {
	switch tipoProyecto {
	case proyecto.TipoInterno:
		return tipoRetribucion == RetribucionPorcentaje
	case proyecto.TipoExterno:
		return tipoRetribucion == RetribucionValorFijo
	}
	return false
}

// CalculateCost 计算指派的分摊成本。纯函数：
// - INTERNO + PORCENTAJE：CostoHora × 工时 × (valor/100)
// - EXTERNO + VALOR_FIJO：valor × 工时
// - 其他组合按 0 处理。这是定义好的退化结果而不是错误：
//   创建路径的校验会在上游拦住不匹配的组合，调用方不要依赖这个 0。
func CalculateCost(a *Asignacion, p *proyecto.Proyecto) decimal.Decimal {
	if a == nil || p == nil {
		return decimal.Zero
	}
	horas := decimal.NewFromFloat(a.Horas())

	switch {
	case p.Tipo == proyecto.TipoInterno && a.RetribucionTipo == RetribucionPorcentaje:
		return p.CostoHora.Mul(horas).Mul(a.RetribucionValor.Div(cien))
	case p.Tipo == proyecto.TipoExterno && a.RetribucionTipo == RetribucionValorFijo:
		return a.RetribucionValor.Mul(horas)
	}
	return decimal.Zero
}

// CalculateProfitability 外部项目的利润率（%）。
// revenue = valor × 工时；cost = costPerHour × 工时；((revenue-cost)/cost) × 100。
// 非外部项目或 cost 为 0 时返回 0（避免除零）。
func CalculateProfitability(a *Asignacion, p *proyecto.Proyecto, costPerHour decimal.Decimal) decimal.Decimal {
	if a == nil || p == nil || p.Tipo != proyecto.TipoExterno {
		return decimal.Zero
	}
	horas := decimal.NewFromFloat(a.Horas())
	revenue := a.RetribucionValor.Mul(horas)
	cost := costPerHour.Mul(horas)
	if cost.IsZero() {
		return decimal.Zero
	}
	return revenue.Sub(cost).Div(cost).Mul(cien)
}

// CalculateHourEfficiency 工时效率（%）：预估/实际 × 100。
// 实际工时缺失或不大于零时返回 0。
func CalculateHourEfficiency(a *Asignacion) float64 {
	if a == nil || a.HorasEstimadas == nil || a.HorasReales == nil || *a.HorasReales <= 0 {
		return 0
	}
	return (*a.HorasEstimadas / *a.HorasReales) * 100
}

// ValidateRetribution 校验分摊方式与数值：
// - INTERNO + PORCENTAJE：1 ≤ valor ≤ 50
// - EXTERNO + VALOR_FIJO：valor > 0
// - 其余组合一律无效。
func ValidateRetribution(p *proyecto.Proyecto, tipo RetribucionTipo, valor decimal.Decimal) bool {
	if p == nil || !pairingOK(p.Tipo, tipo) {
		return false
	}
	switch tipo {
	case RetribucionPorcentaje:
		return valor.GreaterThanOrEqual(decimal.NewFromInt(1)) && valor.LessThanOrEqual(decimal.NewFromInt(50))
	case RetribucionValorFijo:
		return valor.IsPositive()
	}
	return false
}

// Sugerencia 建议的分摊配置（前端表单预填）。
type Sugerencia struct {
	Tipo  RetribucionTipo `json:"tipo"`
	Valor decimal.Decimal `json:"valor"`
}

// SuggestedRetribution 按项目类型给出建议分摊：
// INTERNO 用项目配置的默认百分比（没配则 15），EXTERNO 用默认单价 1500。
func SuggestedRetribution(p *proyecto.Proyecto) Sugerencia {
	if p != nil && p.Tipo == proyecto.TipoExterno {
		return Sugerencia{Tipo: RetribucionValorFijo, Valor: valorFijoSugerido}
	}
	valor := porcentajeSugerido
	if p != nil && p.PorcentajeCosto.IsPositive() {
		valor = p.PorcentajeCosto
	}
	return Sugerencia{Tipo: RetribucionPorcentaje, Valor: valor}
}
