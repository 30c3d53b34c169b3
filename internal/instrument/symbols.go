package instrument

import "strings"

// supportedSymbols 是平台使用的标准化 ticker 全集。
var supportedSymbols = map[string]struct{}{
	// 外汇
	"EURUSD": {}, "GBPUSD": {}, "AUDUSD": {}, "NZDUSD": {}, "USDJPY": {}, "USDCHF": {}, "USDCAD": {},
	"EURJPY": {}, "GBPJPY": {}, "AUDJPY": {}, "NZDJPY": {}, "CADJPY": {}, "EURNZD": {}, "AUDNZD": {},
	"EURCAD": {}, "EURAUD": {},
	// 指数
	"SPX": {}, "US100": {}, "DAX": {}, "US500": {}, "FTSEMIB": {}, "JP225": {},
	// 大宗商品与贵金属
	"XAUUSD": {}, "XAGUSD": {}, "USOIL": {}, "NGAS": {}, "CORN": {}, "WHEAT": {},
	"COFFEE": {}, "COCOA": {}, "SUGAR": {}, "SOYBEAN": {}, "XPTUSD": {},
	// 债券与加密
	"US10Y": {}, "BTCUSD": {}, "ETHUSD": {}, "DXY": {},
}

// aliases 把外部常见写法映射到标准 ticker。保持为简单查表，不做多态抽象。
var aliases = map[string]string{
	"SPX500": "SPX",
	"US500":  "SPX",
	"NAS100": "US100",
}

// Normalize 去除首尾空白、转大写并解析别名。
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}

// Supported 判断（已标准化的）ticker 是否受支持。
func Supported(symbol string) bool {
	_, ok := supportedSymbols[symbol]
	return ok
}

// Builtin 返回内置品种默认参数，不存在时第二个返回值为 false。
// 数值为行业常见默认值，接入新经纪商时应核对后修正。
func Builtin(symbol string) (Spec, bool) {
	spec, ok := builtinSpecs[Normalize(symbol)]
	return spec, ok
}

// Builtins 返回全部内置品种默认参数的浅拷贝切片，按不保证的遍历序排列。
func Builtins() []Spec {
	out := make([]Spec, 0, len(builtinSpecs))
	for _, spec := range builtinSpecs {
		out = append(out, spec)
	}
	return out
}

var builtinSpecs = map[string]Spec{
	// 外汇：tick 0.0001（JPY 交叉盘 0.01），1 lot 每 tick 约 10 货币单位
	"EURUSD": {Symbol: "EURUSD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"GBPUSD": {Symbol: "GBPUSD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"AUDUSD": {Symbol: "AUDUSD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"NZDUSD": {Symbol: "NZDUSD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"USDJPY": {Symbol: "USDJPY", TickSize: 0.01, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"USDCHF": {Symbol: "USDCHF", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"USDCAD": {Symbol: "USDCAD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"EURJPY": {Symbol: "EURJPY", TickSize: 0.01, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"GBPJPY": {Symbol: "GBPJPY", TickSize: 0.01, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"AUDJPY": {Symbol: "AUDJPY", TickSize: 0.01, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"NZDJPY": {Symbol: "NZDJPY", TickSize: 0.01, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"CADJPY": {Symbol: "CADJPY", TickSize: 0.01, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"EURNZD": {Symbol: "EURNZD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"AUDNZD": {Symbol: "AUDNZD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"EURCAD": {Symbol: "EURCAD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"EURAUD": {Symbol: "EURAUD", TickSize: 0.0001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},

	// 指数 CFD
	"SPX":     {Symbol: "SPX", TickSize: 1, TickValue: 1, MinLot: 0.1, LotStep: 0.1, MaxLot: 500},
	"US100":   {Symbol: "US100", TickSize: 1, TickValue: 1, MinLot: 0.1, LotStep: 0.1, MaxLot: 500},
	"DAX":     {Symbol: "DAX", TickSize: 1, TickValue: 1, MinLot: 0.1, LotStep: 0.1, MaxLot: 500},
	"US500":   {Symbol: "US500", TickSize: 1, TickValue: 1, MinLot: 0.1, LotStep: 0.1, MaxLot: 500},
	"FTSEMIB": {Symbol: "FTSEMIB", TickSize: 1, TickValue: 1, MinLot: 0.1, LotStep: 0.1, MaxLot: 500},
	"JP225":   {Symbol: "JP225", TickSize: 1, TickValue: 1, MinLot: 0.1, LotStep: 0.1, MaxLot: 500},

	// 大宗商品与贵金属
	"XAUUSD":  {Symbol: "XAUUSD", TickSize: 0.1, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 100},
	"XAGUSD":  {Symbol: "XAGUSD", TickSize: 0.01, TickValue: 5, MinLot: 0.01, LotStep: 0.01, MaxLot: 100},
	"XPTUSD":  {Symbol: "XPTUSD", TickSize: 0.1, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 50},
	"USOIL":   {Symbol: "USOIL", TickSize: 0.01, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 1000},
	"NGAS":    {Symbol: "NGAS", TickSize: 0.001, TickValue: 10, MinLot: 0.01, LotStep: 0.01, MaxLot: 1000},
	"CORN":    {Symbol: "CORN", TickSize: 0.25, TickValue: 12.5, MinLot: 0.1, LotStep: 0.1, MaxLot: 1000},
	"WHEAT":   {Symbol: "WHEAT", TickSize: 0.25, TickValue: 12.5, MinLot: 0.1, LotStep: 0.1, MaxLot: 1000},
	"COFFEE":  {Symbol: "COFFEE", TickSize: 0.05, TickValue: 18.75, MinLot: 0.1, LotStep: 0.1, MaxLot: 1000},
	"COCOA":   {Symbol: "COCOA", TickSize: 1, TickValue: 10, MinLot: 0.1, LotStep: 0.1, MaxLot: 1000},
	"SUGAR":   {Symbol: "SUGAR", TickSize: 0.01, TickValue: 11.2, MinLot: 0.1, LotStep: 0.1, MaxLot: 1000},
	"SOYBEAN": {Symbol: "SOYBEAN", TickSize: 0.25, TickValue: 12.5, MinLot: 0.1, LotStep: 0.1, MaxLot: 1000},

	// 债券与加密
	"US10Y":  {Symbol: "US10Y", TickSize: 0.005, TickValue: 7.8125, MinLot: 0.1, LotStep: 0.1, MaxLot: 500},
	"BTCUSD": {Symbol: "BTCUSD", TickSize: 1, TickValue: 1, MinLot: 0.01, LotStep: 0.01, MaxLot: 100},
	"ETHUSD": {Symbol: "ETHUSD", TickSize: 0.1, TickValue: 1, MinLot: 0.01, LotStep: 0.01, MaxLot: 100},
}
