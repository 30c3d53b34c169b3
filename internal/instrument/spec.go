package instrument

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Spec 描述一个可交易品种的 sizing 约束。
// MaxLot 为 0 表示该品种没有单笔手数上限。
type Spec struct {
	Symbol    string  `json:"symbol"`
	TickSize  float64 `json:"tick_size"`
	TickValue float64 `json:"tick_value"`
	MinLot    float64 `json:"min_lot"`
	LotStep   float64 `json:"lot_step"`
	MaxLot    float64 `json:"max_lot,omitempty"`
}

// HasMaxLot 判断是否配置了单笔上限。
func (s Spec) HasMaxLot() bool {
	return s.MaxLot > 0
}

// Validate 校验品种常量。常量非法属于配置错误，必须在计算前拒绝。
func (s Spec) Validate() error {
	var err error

	if s.TickSize <= 0 {
		err = multierr.Append(err, errors.New("tick_size 必须大于0"))
	}
	if s.TickValue <= 0 {
		err = multierr.Append(err, errors.New("tick_value 必须大于0"))
	}
	if s.MinLot <= 0 {
		err = multierr.Append(err, errors.New("min_lot 必须大于0"))
	}
	if s.LotStep <= 0 {
		err = multierr.Append(err, errors.New("lot_step 必须大于0"))
	}
	if s.HasMaxLot() && s.MinLot > s.MaxLot {
		err = multierr.Append(err, errors.New("min_lot 不能大于 max_lot"))
	}

	if err != nil {
		return fmt.Errorf("品种 %s 配置非法: %w", s.Symbol, err)
	}
	return nil
}
