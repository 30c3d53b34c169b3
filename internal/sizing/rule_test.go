package sizing

import (
	"errors"
	"math"
	"testing"
)

func TestRuleEvaluate(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
		want float64
	}{
		{
			name: "proportional defaults to equity base and multiplier 1",
			rule: Rule{Type: RuleProportional},
			want: 0.25, // 1.0 * (2500/10000)
		},
		{
			name: "proportional by balance with multiplier",
			rule: Rule{Type: RuleProportional, Base: BaseBalance, Multiplier: 2},
			want: 0.25, // 1.0 * (1500/12000) * 2
		},
		{
			name: "fixed ignores master state",
			rule: Rule{Type: RuleFixed, Lots: 0.7},
			want: 0.7,
		},
		{
			name: "unit based with default unit 10000",
			rule: Rule{Type: RuleUnitBased, LotsPerUnit: 0.1},
			want: 0.025, // (2500/10000) * 0.1
		},
		{
			name: "legacy tag behaves as unit based",
			rule: Rule{Type: "lot_per_10k", LotsPerUnit: 0.2},
			want: 0.05,
		},
		{
			name: "unit based by balance with custom unit",
			rule: Rule{Type: RuleUnitBased, Base: BaseBalance, LotsPerUnit: 0.1, Unit: 5000},
			want: 0.03, // (1500/5000) * 0.1
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.rule.Evaluate(1.0, 12000, 10000, 1500, 2500)
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRuleEvaluate_ConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
		// Evaluate(masterLot, masterBalance, masterEquity, followerBalance, followerEquity)
		args [5]float64
	}{
		{"unknown type", Rule{Type: "martingale"}, [5]float64{1, 0, 10000, 0, 2500}},
		{"unknown base", Rule{Type: RuleProportional, Base: "margin"}, [5]float64{1, 0, 10000, 0, 2500}},
		{"master base not positive", Rule{Type: RuleProportional}, [5]float64{1, 0, 0, 0, 2500}},
		{"negative multiplier", Rule{Type: RuleProportional, Multiplier: -1}, [5]float64{1, 0, 10000, 0, 2500}},
		{"fixed without lots", Rule{Type: RuleFixed}, [5]float64{1, 0, 10000, 0, 2500}},
		{"unit based without lots_per_unit", Rule{Type: RuleUnitBased}, [5]float64{1, 0, 10000, 0, 2500}},
		{"unit based negative unit", Rule{Type: RuleUnitBased, LotsPerUnit: 0.1, Unit: -1}, [5]float64{1, 0, 10000, 0, 2500}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.args
			if _, err := tc.rule.Evaluate(a[0], a[1], a[2], a[3], a[4]); !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}
