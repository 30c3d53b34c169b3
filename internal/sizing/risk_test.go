package sizing

import (
	"errors"
	"testing"
)

func TestComputeRisk_FixedAmount(t *testing.T) {
	// 20 个 tick，每手每 tick 10 → 每手风险 200，预算 100 → 0.5 手。
	res, err := ComputeRisk(RiskInput{
		Mode:         RiskFixed,
		Value:        100,
		StopDistance: 0.0020,
		Spec:         fxSpec(),
	})
	if err != nil {
		t.Fatalf("ComputeRisk returned error: %v", err)
	}
	if res.PerLotRisk != 200 {
		t.Fatalf("expected per_lot_risk 200, got %v", res.PerLotRisk)
	}
	if res.SuggestedLots != 0.5 || res.RoundedToStep != 0.5 {
		t.Fatalf("expected 0.5 lots, got suggested=%v rounded=%v", res.SuggestedLots, res.RoundedToStep)
	}
	if res.RiskAtSuggested != 100 {
		t.Fatalf("expected risk_at_suggested 100, got %v", res.RiskAtSuggested)
	}
}

func TestComputeRisk_PercentModes(t *testing.T) {
	in := RiskInput{
		Mode:         RiskPercentBalance,
		Value:        1, // 1% of 10000 = 100
		Balance:      10000,
		StopDistance: 0.0020,
		Spec:         fxSpec(),
	}
	res, err := ComputeRisk(in)
	if err != nil {
		t.Fatalf("ComputeRisk returned error: %v", err)
	}
	if res.RoundedToStep != 0.5 {
		t.Fatalf("expected 0.5 lots, got %v", res.RoundedToStep)
	}

	in.Mode = RiskPercentEquity
	in.Balance = 0
	in.Equity = 20000
	res, err = ComputeRisk(in)
	if err != nil {
		t.Fatalf("ComputeRisk returned error: %v", err)
	}
	if res.RoundedToStep != 1 {
		t.Fatalf("expected 1 lot, got %v", res.RoundedToStep)
	}
}

func TestComputeRisk_SlippageWidensDistance(t *testing.T) {
	res, err := ComputeRisk(RiskInput{
		Mode:         RiskFixed,
		Value:        100,
		StopDistance: 0.0015,
		Slippage:     0.0005,
		Spec:         fxSpec(),
	})
	if err != nil {
		t.Fatalf("ComputeRisk returned error: %v", err)
	}
	if res.PerLotRisk != 200 {
		t.Fatalf("expected per_lot_risk 200 with slippage included, got %v", res.PerLotRisk)
	}
}

func TestComputeRisk_TinyBudgetRaisedToMin(t *testing.T) {
	res, err := ComputeRisk(RiskInput{
		Mode:         RiskFixed,
		Value:        0.5,
		StopDistance: 0.0020,
		Spec:         fxSpec(),
	})
	if err != nil {
		t.Fatalf("ComputeRisk returned error: %v", err)
	}
	if res.RoundedToStep != 0.01 {
		t.Fatalf("expected min lot 0.01, got %v", res.RoundedToStep)
	}
	if !hasWarning(res.Warnings, WarnRaisedToMin) {
		t.Fatalf("expected %q warning, got %v", WarnRaisedToMin, res.Warnings)
	}
	// 建议手数低于最小手数时，实际风险会高于预算，结果必须把它显式算出来。
	if res.RiskAtSuggested != 2 {
		t.Fatalf("expected risk_at_suggested 2, got %v", res.RiskAtSuggested)
	}
}

func TestComputeRisk_ConfigErrors(t *testing.T) {
	base := RiskInput{Mode: RiskFixed, Value: 100, StopDistance: 0.0020, Spec: fxSpec()}

	cases := []struct {
		name   string
		mutate func(*RiskInput)
	}{
		{"non-positive value", func(in *RiskInput) { in.Value = 0 }},
		{"unknown mode", func(in *RiskInput) { in.Mode = "percent_margin" }},
		{"percent_balance without balance", func(in *RiskInput) { in.Mode = RiskPercentBalance }},
		{"percent_equity without equity", func(in *RiskInput) { in.Mode = RiskPercentEquity }},
		{"zero stop distance", func(in *RiskInput) { in.StopDistance = 0; in.Slippage = 0 }},
		{"invalid spec", func(in *RiskInput) { in.Spec.TickSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if _, err := ComputeRisk(in); !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}
