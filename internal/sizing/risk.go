package sizing

import (
	"fmt"

	"vtp-api/internal/instrument"
)

// RiskMode 指定风险金额的来源。
type RiskMode string

const (
	RiskFixed          RiskMode = "fixed"
	RiskPercentBalance RiskMode = "percent_balance"
	RiskPercentEquity  RiskMode = "percent_equity"
)

// RiskInput 是手数计算器的入参。
// StopDistance 与 Slippage 均为价格单位（不是 pip）。
type RiskInput struct {
	Mode         RiskMode
	Value        float64
	Balance      float64
	Equity       float64
	StopDistance float64
	Slippage     float64
	Spec         instrument.Spec
}

// RiskResult 是手数计算器的输出，数值已统一修约到 8 位小数。
type RiskResult struct {
	SuggestedLots   float64  `json:"suggested_lots"`
	RoundedToStep   float64  `json:"rounded_to_step"`
	PerLotRisk      float64  `json:"per_lot_risk"`
	RiskAtSuggested float64  `json:"risk_at_suggested"`
	Warnings        []string `json:"warnings"`
}

// ComputeRisk 把目标风险金额换算为建议手数：
// risk_amount → per_lot_risk = ((stop+slippage)/tick_size)*tick_value → raw = amount/per_lot_risk，
// 再走与跟单相同的 min/max/step 约束。
func ComputeRisk(in RiskInput) (RiskResult, error) {
	if err := in.Spec.Validate(); err != nil {
		return RiskResult{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if in.Value <= 0 {
		return RiskResult{}, fmt.Errorf("%w: risk_value 必须大于0", ErrConfig)
	}

	var riskAmount float64
	switch in.Mode {
	case RiskFixed:
		riskAmount = in.Value
	case RiskPercentBalance:
		if in.Balance <= 0 {
			return RiskResult{}, fmt.Errorf("%w: percent_balance 模式需要正的 balance", ErrConfig)
		}
		riskAmount = in.Balance * (in.Value / 100.0)
	case RiskPercentEquity:
		if in.Equity <= 0 {
			return RiskResult{}, fmt.Errorf("%w: percent_equity 模式需要正的 equity", ErrConfig)
		}
		riskAmount = in.Equity * (in.Value / 100.0)
	default:
		return RiskResult{}, fmt.Errorf("%w: 未知的 risk_mode %q", ErrConfig, in.Mode)
	}

	totalDistance := in.StopDistance + in.Slippage
	if totalDistance <= 0 {
		return RiskResult{}, fmt.Errorf("%w: stop_distance + slippage 必须大于0", ErrConfig)
	}

	ticks := totalDistance / in.Spec.TickSize
	perLotRisk := ticks * in.Spec.TickValue
	if perLotRisk <= 0 {
		return RiskResult{}, fmt.Errorf("%w: per_lot_risk 非法，请检查 tick_size/tick_value", ErrConfig)
	}

	raw := riskAmount / perLotRisk
	rounded, warnings := applyBounds(raw, in.Spec)

	return RiskResult{
		SuggestedLots:   Round8(raw),
		RoundedToStep:   Round8(rounded),
		PerLotRisk:      Round8(perLotRisk),
		RiskAtSuggested: Round8(rounded * perLotRisk),
		Warnings:        warnings,
	}, nil
}
