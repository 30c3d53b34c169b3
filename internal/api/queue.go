package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vtp-api/internal/queue"
)

// peekQueue 实现 GET /queue/peek：取出并预留该账户最旧的 queued 条目。
// 没有可用条目时返回显式的 empty 信号，不作为错误。
func (h *Handlers) peekQueue(c *gin.Context) {
	accountID := c.Query("account_id")
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "plain" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format 只能是 json 或 plain"})
		return
	}

	item, err := h.queue.Peek(c.Request.Context(), accountID)
	if err != nil {
		writeError(c, err)
		return
	}

	if item == nil {
		if format == "plain" {
			c.String(http.StatusOK, "NONE")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "empty"})
		return
	}

	if format == "plain" {
		// 面向解析能力有限的执行端的紧凑行：id|symbol|side|lot|sl|tp
		c.String(http.StatusOK, "%d|%s|%s|%s|%s|%s",
			item.ID, item.Symbol, item.Side,
			formatLot(item.Lot), formatPrice(item.SL), formatPrice(item.TP),
		)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     item.ID,
		"symbol": item.Symbol,
		"side":   item.Side,
		"lot":    item.Lot,
		"sl":     item.SL,
		"tp":     item.TP,
	})
}

// ackItem 实现 POST /queue/ack，记录执行结果。重复回执返回首次结果。
func (h *Handlers) ackItem(c *gin.Context) {
	var req queue.AckInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体解析失败"})
		return
	}

	status, err := h.queue.Ack(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// planStatus 实现 GET /queue/status，只读。
func (h *Handlers) planStatus(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Query("plan_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_id 必须是整数"})
		return
	}

	snap, err := h.queue.PlanStatus(c.Request.Context(), planID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

func formatLot(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatPrice 将 0（未设置）渲染为空字段。
func formatPrice(v float64) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
