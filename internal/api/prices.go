package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vtp-api/internal/instrument"
)

type priceIngest struct {
	Symbol    string    `json:"symbol"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Timestamp time.Time `json:"ts,omitempty"`
}

// ingestPrice 实现 POST /prices/ingest，更新易失的最新报价缓存。
func (h *Handlers) ingestPrice(c *gin.Context) {
	var req priceIngest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体解析失败"})
		return
	}

	symbol := instrument.Normalize(req.Symbol)
	if !instrument.Supported(symbol) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的品种 " + symbol})
		return
	}
	if req.Bid <= 0 || req.Ask <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bid/ask 必须大于0"})
		return
	}

	h.prices.Set(symbol, req.Bid, req.Ask, req.Timestamp)
	c.Status(http.StatusNoContent)
}

// latestPrice 实现 GET /prices/latest。
func (h *Handlers) latestPrice(c *gin.Context) {
	symbol := instrument.Normalize(c.Query("symbol"))

	quote, ok := h.prices.Get(symbol)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "没有 " + symbol + " 的报价"})
		return
	}

	c.JSON(http.StatusOK, quote)
}
