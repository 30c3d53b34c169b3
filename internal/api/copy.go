package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vtp-api/internal/instrument"
	"vtp-api/internal/queue"
	"vtp-api/internal/sizing"
)

type masterInfo struct {
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
}

type masterOrder struct {
	Symbol  string  `json:"symbol"`
	Side    string  `json:"side"`
	Lot     float64 `json:"lot"`
	SL      float64 `json:"sl,omitempty"`
	TP      float64 `json:"tp,omitempty"`
	Comment string  `json:"comment,omitempty"`
}

// followerAccount 只在一次预览请求内有效，不落库。
// Enabled 缺省为 true，用指针区分「未填」与「显式 false」。
type followerAccount struct {
	ID      string      `json:"id"`
	Name    string      `json:"name,omitempty"`
	Balance float64     `json:"balance"`
	Equity  float64     `json:"equity"`
	Rule    sizing.Rule `json:"rule"`
	Enabled *bool       `json:"enabled,omitempty"`
}

func (f followerAccount) enabled() bool {
	return f.Enabled == nil || *f.Enabled
}

type previewRequest struct {
	Instrument  instrument.Spec   `json:"instrument"`
	MasterInfo  masterInfo        `json:"master_info"`
	MasterOrder masterOrder       `json:"master_order"`
	Followers   []followerAccount `json:"followers"`
}

type followerPreview struct {
	FollowerID   string   `json:"follower_id"`
	FollowerName string   `json:"follower_name,omitempty"`
	RawLot       float64  `json:"raw_lot"`
	RoundedLot   float64  `json:"rounded_lot"`
	Warnings     []string `json:"warnings"`
}

type previewResponse struct {
	Symbol           string            `json:"symbol"`
	Side             string            `json:"side"`
	MasterLot        float64           `json:"master_lot"`
	TotalFollowers   int               `json:"total_followers"`
	TotalLotsRaw     float64           `json:"total_lots_raw"`
	TotalLotsRounded float64           `json:"total_lots_rounded"`
	Previews         []followerPreview `json:"previews"`
}

// copyPreview 实现 POST /copy/preview：对每个启用的跟单账户跑一遍
// SizingEngine，返回逐账户结果与汇总。纯计算，无副作用。
func (h *Handlers) copyPreview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体解析失败"})
		return
	}
	if req.MasterOrder.Side != "buy" && req.MasterOrder.Side != "sell" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "master_order.side 只能是 buy 或 sell"})
		return
	}
	if req.MasterOrder.Lot <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "master_order.lot 必须大于0"})
		return
	}

	resp := previewResponse{
		Symbol:    req.MasterOrder.Symbol,
		Side:      req.MasterOrder.Side,
		MasterLot: req.MasterOrder.Lot,
		Previews:  make([]followerPreview, 0, len(req.Followers)),
	}

	var sumRaw, sumRounded float64
	for _, f := range req.Followers {
		if !f.enabled() {
			continue
		}

		result, err := sizing.Compute(
			req.Instrument, f.Rule,
			req.MasterOrder.Lot, req.MasterInfo.Balance, req.MasterInfo.Equity,
			f.Balance, f.Equity,
		)
		if err != nil {
			writeError(c, err)
			return
		}

		resp.Previews = append(resp.Previews, followerPreview{
			FollowerID:   f.ID,
			FollowerName: f.Name,
			RawLot:       result.RawLot,
			RoundedLot:   result.RoundedLot,
			Warnings:     result.Warnings,
		})
		sumRaw += result.RawLot
		sumRounded += result.RoundedLot
		resp.TotalFollowers++
	}

	resp.TotalLotsRaw = sizing.Round8(sumRaw)
	resp.TotalLotsRounded = sizing.Round8(sumRounded)

	c.JSON(http.StatusOK, resp)
}

// createPlan 实现 POST /copy/queue，落库创建执行计划。
func (h *Handlers) createPlan(c *gin.Context) {
	var req queue.PlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体解析失败"})
		return
	}

	counts, err := h.queue.CreatePlan(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}
