package prices

import (
	"sync"
	"time"
)

// Quote 是某个品种最近一次观察到的双边报价。
type Quote struct {
	Symbol    string    `json:"symbol"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Timestamp time.Time `json:"ts"`
}

// Cache 保存每个品种的最新报价。
// 纯内存、易失；进程重启即清空。读多写少，用读写锁即可。
type Cache struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

// NewCache 创建空缓存。
func NewCache() *Cache {
	return &Cache{quotes: make(map[string]Quote)}
}

// Set 记录一条报价，时间戳为零值时补当前时间。
func (c *Cache) Set(symbol string, bid, ask float64, ts time.Time) {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[symbol] = Quote{Symbol: symbol, Bid: bid, Ask: ask, Timestamp: ts}
}

// Get 返回品种的最新报价，不存在时第二个返回值为 false。
func (c *Cache) Get(symbol string) (Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[symbol]
	return q, ok
}
