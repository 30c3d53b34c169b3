package sizing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"vtp-api/internal/instrument"
)

// 固定告警文案，与前端展示约定一致。
const (
	WarnCappedToMax     = "capped to max_lot"
	WarnRaisedToMin     = "raised to min_lot"
	WarnAlignedAboveMin = "aligned to step above min_lot"
	WarnNegativeToZero  = "negative raw lot treated as zero"
)

// stepEpsilon 抵消 float64 除法噪声，避免 0.07/0.01 这类结果向下取整时丢一档。
const stepEpsilon = 1e-9

// Result 是单个跟单账户的手数换算结果。
type Result struct {
	RawLot     float64  `json:"raw_lot"`
	RoundedLot float64  `json:"rounded_lot"`
	Warnings   []string `json:"warnings"`
}

// Compute 把主单和跟单账户参数换算为该账户的手数。
// 纯函数：不持有状态，不做 I/O，可并发调用。
func Compute(spec instrument.Spec, rule Rule, masterLot, masterBalance, masterEquity, followerBalance, followerEquity float64) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	raw, err := rule.Evaluate(masterLot, masterBalance, masterEquity, followerBalance, followerEquity)
	if err != nil {
		return Result{}, err
	}

	rounded, warnings := applyBounds(raw, spec)

	return Result{
		RawLot:     Round8(raw),
		RoundedLot: Round8(rounded),
		Warnings:   warnings,
	}, nil
}

// applyBounds 依次执行：负值归零 → max_lot 截断 → 抬升到 min_lot →
// 向下对齐到 lot_step → 若对齐后跌破 min_lot 则向上对齐到首个不低于 min_lot 的步进。
// 截断发生在取整之前；全程使用未经修饰的 float64，精度修饰只在出口做。
func applyBounds(raw float64, spec instrument.Spec) (float64, []string) {
	warnings := make([]string, 0, 2)
	lots := raw

	if lots < 0 {
		return 0, append(warnings, WarnNegativeToZero)
	}

	if spec.HasMaxLot() && lots > spec.MaxLot {
		lots = spec.MaxLot
		warnings = append(warnings, WarnCappedToMax)
	}

	if lots < spec.MinLot {
		lots = spec.MinLot
		warnings = append(warnings, WarnRaisedToMin)
	}

	rounded := floorToStep(lots, spec.LotStep)

	if rounded < spec.MinLot {
		rounded = math.Ceil(spec.MinLot/spec.LotStep-stepEpsilon) * spec.LotStep
		warnings = append(warnings, WarnAlignedAboveMin)
	}

	return rounded, warnings
}

// floorToStep 向下取整到 step 的整数倍，永不向上，防止放大跟单仓位。
func floorToStep(value, step float64) float64 {
	steps := math.Floor(value/step + stepEpsilon)
	return steps * step
}

// Round8 把输出统一修约到 8 位小数，避免浮点噪声在多账户预览里累积。
// 仅用于展示修饰，步进判定始终基于未修约值。
func Round8(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(8).Float64()
	return out
}
