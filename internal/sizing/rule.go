package sizing

import (
	"errors"
	"fmt"
)

// ErrConfig 表示请求携带的品种或规则常量非法。
// 这类错误必须反馈给调用方，绝不允许静默降级为 0 手。
var ErrConfig = errors.New("sizing 配置错误")

// RuleType 是跟单规则的封闭标签集，未知标签显式拒绝。
type RuleType string

const (
	RuleProportional RuleType = "proportional"
	RuleFixed        RuleType = "fixed"
	RuleUnitBased    RuleType = "unit_based"

	// legacyUnitTag 兼容旧版客户端的写法，语义与 unit_based 相同。
	legacyUnitTag RuleType = "lot_per_10k"
)

// RuleBase 指定按余额还是净值取基数。
type RuleBase string

const (
	BaseBalance RuleBase = "balance"
	BaseEquity  RuleBase = "equity"
)

// Rule 是带判别字段的跟单规则。每次请求中每个跟单账户恰好使用一条规则。
//   - proportional: rawLot = masterLot * (followerBase/masterBase) * multiplier
//   - fixed:        rawLot = lots（与主单手数无关）
//   - unit_based:   rawLot = (followerBase/unit) * lots_per_unit
type Rule struct {
	Type        RuleType `json:"type"`
	Base        RuleBase `json:"base,omitempty"`
	Multiplier  float64  `json:"multiplier,omitempty"`
	Lots        float64  `json:"lots,omitempty"`
	LotsPerUnit float64  `json:"lots_per_unit,omitempty"`
	Unit        float64  `json:"unit,omitempty"`
}

// normalized 补齐缺省字段后返回副本。缺省值与原有客户端约定一致。
func (r Rule) normalized() Rule {
	if r.Type == legacyUnitTag {
		r.Type = RuleUnitBased
	}
	if r.Base == "" {
		r.Base = BaseEquity
	}
	if r.Type == RuleProportional && r.Multiplier == 0 {
		r.Multiplier = 1.0
	}
	if r.Type == RuleUnitBased && r.Unit == 0 {
		r.Unit = 10000.0
	}
	return r
}

func (r Rule) baseOf(balance, equity float64) (float64, error) {
	switch r.Base {
	case BaseBalance:
		return balance, nil
	case BaseEquity:
		return equity, nil
	default:
		return 0, fmt.Errorf("%w: 未知的 base %q", ErrConfig, r.Base)
	}
}

// Evaluate 按规则标签分派计算原始手数。
// masterBase ≤ 0 时 proportional 规则直接报错，不做静默归零。
func (r Rule) Evaluate(masterLot, masterBalance, masterEquity, followerBalance, followerEquity float64) (float64, error) {
	r = r.normalized()

	switch r.Type {
	case RuleProportional:
		if r.Multiplier <= 0 {
			return 0, fmt.Errorf("%w: proportional.multiplier 必须大于0", ErrConfig)
		}
		masterBase, err := r.baseOf(masterBalance, masterEquity)
		if err != nil {
			return 0, err
		}
		if masterBase <= 0 {
			return 0, fmt.Errorf("%w: 主账户 %s 必须大于0", ErrConfig, r.Base)
		}
		followerBase, err := r.baseOf(followerBalance, followerEquity)
		if err != nil {
			return 0, err
		}
		return masterLot * (followerBase / masterBase) * r.Multiplier, nil

	case RuleFixed:
		if r.Lots <= 0 {
			return 0, fmt.Errorf("%w: fixed.lots 必须大于0", ErrConfig)
		}
		return r.Lots, nil

	case RuleUnitBased:
		if r.LotsPerUnit <= 0 {
			return 0, fmt.Errorf("%w: unit_based.lots_per_unit 必须大于0", ErrConfig)
		}
		if r.Unit <= 0 {
			return 0, fmt.Errorf("%w: unit_based.unit 必须大于0", ErrConfig)
		}
		followerBase, err := r.baseOf(followerBalance, followerEquity)
		if err != nil {
			return 0, err
		}
		return (followerBase / r.Unit) * r.LotsPerUnit, nil

	default:
		return 0, fmt.Errorf("%w: 未知的 rule type %q", ErrConfig, r.Type)
	}
}
