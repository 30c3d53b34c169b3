package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vtp-api/internal/instrument"
	"vtp-api/internal/sizing"
)

type calcRequest struct {
	RiskMode     sizing.RiskMode `json:"risk_mode"`
	RiskValue    float64         `json:"risk_value"`
	Balance      float64         `json:"balance,omitempty"`
	Equity       float64         `json:"equity,omitempty"`
	StopDistance float64         `json:"stop_distance"`
	Slippage     float64         `json:"slippage,omitempty"`
	Instrument   instrument.Spec `json:"instrument"`
}

// calcSizing 实现 POST /sizing/calc，纯计算无副作用。
func (h *Handlers) calcSizing(c *gin.Context) {
	var req calcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体解析失败"})
		return
	}
	if req.Slippage < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slippage 不能为负"})
		return
	}

	result, err := sizing.ComputeRisk(sizing.RiskInput{
		Mode:         req.RiskMode,
		Value:        req.RiskValue,
		Balance:      req.Balance,
		Equity:       req.Equity,
		StopDistance: req.StopDistance,
		Slippage:     req.Slippage,
		Spec:         req.Instrument,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
