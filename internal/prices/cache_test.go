package prices

import (
	"sync"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := NewCache()

	if _, ok := c.Get("EURUSD"); ok {
		t.Fatal("expected empty cache miss")
	}

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.Set("EURUSD", 1.1000, 1.1002, ts)

	q, ok := c.Get("EURUSD")
	if !ok {
		t.Fatal("expected quote after Set")
	}
	if q.Bid != 1.1000 || q.Ask != 1.1002 || !q.Timestamp.Equal(ts) {
		t.Fatalf("unexpected quote: %+v", q)
	}

	// 同一品种写入即覆盖。
	c.Set("EURUSD", 1.2000, 1.2002, ts)
	if q, _ := c.Get("EURUSD"); q.Bid != 1.2000 {
		t.Fatalf("expected overwrite, got %+v", q)
	}
}

func TestCache_ZeroTimestampFilled(t *testing.T) {
	c := NewCache()
	c.Set("XAUUSD", 2400.0, 2400.5, time.Time{})

	q, _ := c.Get("XAUUSD")
	if q.Timestamp.IsZero() {
		t.Fatal("expected zero timestamp to be replaced with current time")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(bid float64) {
			defer wg.Done()
			c.Set("EURUSD", bid, bid+0.0002, time.Time{})
			c.Get("EURUSD")
		}(1.1 + float64(i)*0.0001)
	}
	wg.Wait()

	if _, ok := c.Get("EURUSD"); !ok {
		t.Fatal("expected quote to survive concurrent writes")
	}
}
