package queue

import "time"

// Side 是队列条目的方向。close 表示平仓，手数强制为 0。
type Side string

const (
	SideBuy   Side = "buy"
	SideSell  Side = "sell"
	SideClose Side = "close"
)

// ValidSide 判断方向是否属于封闭集合。
func ValidSide(s Side) bool {
	switch s {
	case SideBuy, SideSell, SideClose:
		return true
	default:
		return false
	}
}

// Status 是条目的状态机：queued → reserved → filled | rejected。
// 只允许向前推进，终态不可离开。
type Status string

const (
	StatusQueued   Status = "queued"
	StatusReserved Status = "reserved"
	StatusFilled   Status = "filled"
	StatusRejected Status = "rejected"
)

// Terminal 判断状态是否为终态。
func (s Status) Terminal() bool {
	return s == StatusFilled || s == StatusRejected
}

// ItemInput 是计划创建时的单条目入参。
// RefPrice 为计划方的参考价，仅供价格偏离守卫比较，不落库。
type ItemInput struct {
	AccountID      string  `json:"account_id"`
	Symbol         string  `json:"symbol"`
	Side           Side    `json:"side"`
	Lot            float64 `json:"lot"`
	SL             float64 `json:"sl,omitempty"`
	TP             float64 `json:"tp,omitempty"`
	RefPrice       float64 `json:"ref_price,omitempty"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
	ClientOrderID  string  `json:"client_order_id,omitempty"`
}

// PlanInput 是计划创建入参。
type PlanInput struct {
	PlanName  string      `json:"plan_name"`
	CreatedBy string      `json:"created_by,omitempty"`
	Items     []ItemInput `json:"items"`
}

// Counts 按状态聚合一个计划内的条目数量。
type Counts struct {
	PlanID   int64 `json:"plan_id"`
	Queued   int   `json:"queued"`
	Reserved int   `json:"reserved"`
	Filled   int   `json:"filled"`
	Rejected int   `json:"rejected"`
}

// Item 是条目的当前快照。
type Item struct {
	ID             int64      `json:"id"`
	PlanID         int64      `json:"plan_id"`
	AccountID      string     `json:"account_id"`
	Symbol         string     `json:"symbol"`
	Side           Side       `json:"side"`
	Lot            float64    `json:"lot"`
	SL             float64    `json:"sl"`
	TP             float64    `json:"tp"`
	Status         Status     `json:"status"`
	ReservedAt     *time.Time `json:"reserved_at,omitempty"`
	AckedAt        *time.Time `json:"acked_at,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	ExecPrice      float64    `json:"exec_price,omitempty"`
	BrokerOrderID  string     `json:"broker_order_id,omitempty"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
	ClientOrderID  string     `json:"client_order_id,omitempty"`
}

// AckInput 是执行端回执入参。
type AckInput struct {
	ID            int64   `json:"id"`
	Status        Status  `json:"status"`
	Price         float64 `json:"price,omitempty"`
	BrokerOrderID string  `json:"broker_order_id,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}

// PlanSnapshot 是计划状态查询的输出。
type PlanSnapshot struct {
	PlanID    int64     `json:"plan_id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Counts    Counts    `json:"counts"`
	Items     []Item    `json:"items"`
}
