package queue

import "math"

// priceDeviationOK 按方向比较参考价与最近缓存报价的偏离百分比：
// buy 对照 ask，sell/close 对照 bid。守卫默认关闭；开启后若缓存中没有
// 该品种的报价、或条目未携带参考价，则放行（报价缺失不应卡死计划创建）。
func (s *Service) priceDeviationOK(symbol string, side Side, refPrice float64) bool {
	if !s.cfg.EnforcePriceDeviation {
		return true
	}
	if refPrice <= 0 || s.prices == nil {
		return true
	}

	quote, ok := s.prices.Get(symbol)
	if !ok {
		return true
	}

	market := quote.Ask
	if side == SideSell || side == SideClose {
		market = quote.Bid
	}
	if market <= 0 {
		return true
	}

	deviationPct := math.Abs(refPrice-market) / market * 100.0
	return deviationPct <= s.cfg.MaxDeviationPct
}
