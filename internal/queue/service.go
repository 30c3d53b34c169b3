package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"vtp-api/internal/config"
	"vtp-api/internal/instrument"
	"vtp-api/internal/prices"
	"vtp-api/internal/store"
)

const (
	maxPlanNameLen = 120
	maxIdemKeyLen  = 128
)

// Service 拥有计划/条目的持久化模型，负责幂等、手数上限、kill switch
// 以及执行端的 reserve/acknowledge 协议。所有操作都是同步的存储事务，
// 不派生任何后台任务。
type Service struct {
	db     *sql.DB
	cfg    config.QueueConfig
	prices *prices.Cache
	logger *zap.Logger
}

// NewService 初始化队列服务并建表。
func NewService(st *store.Store, cfg config.QueueConfig, priceCache *prices.Cache, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, errors.New("queue: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		db:     st.DB(),
		cfg:    cfg,
		prices: priceCache,
		logger: logger,
	}

	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) initSchema() error {
	stmt := `
CREATE TABLE IF NOT EXISTS queue_plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	created_by TEXT,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS queue_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	plan_id INTEGER NOT NULL REFERENCES queue_plans(id) ON DELETE CASCADE,
	account_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	lot REAL NOT NULL,
	sl REAL NOT NULL DEFAULT 0,
	tp REAL NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'queued',
	reserved_at TEXT,
	acked_at TEXT,
	reason TEXT,
	exec_price REAL,
	broker_order_id TEXT,
	idempotency_key TEXT NOT NULL,
	client_order_id TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_items_idem ON queue_items(account_id, idempotency_key);
CREATE INDEX IF NOT EXISTS idx_queue_items_plan ON queue_items(plan_id);
CREATE INDEX IF NOT EXISTS idx_queue_items_account_status ON queue_items(account_id, status);
CREATE INDEX IF NOT EXISTS idx_queue_items_symbol ON queue_items(symbol);
`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("queue: 初始化表失败: %w", err)
	}
	return nil
}

// CreatePlan 创建一个计划及其全部条目。任何条目校验失败则整体回绝，
// 不做部分写入；与既有 (account_id, idempotency_key) 重复的条目静默跳过，
// 使整份计划可以安全重提。
func (s *Service) CreatePlan(ctx context.Context, in PlanInput) (Counts, error) {
	if s.cfg.KillSwitch {
		return Counts{}, ErrKillSwitch
	}
	if strings.TrimSpace(in.PlanName) == "" {
		return Counts{}, fmt.Errorf("%w: plan_name 不能为空", ErrValidation)
	}
	if len(in.Items) == 0 {
		return Counts{}, fmt.Errorf("%w: 计划不包含任何条目", ErrValidation)
	}

	items, err := s.validateItems(in.Items)
	if err != nil {
		return Counts{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("queue: 开启事务失败: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO queue_plans (name, created_by, created_at) VALUES (?, ?, ?)`,
		truncate(in.PlanName, maxPlanNameLen), in.CreatedBy, now,
	)
	if err != nil {
		return Counts{}, fmt.Errorf("queue: 写入计划失败: %w", err)
	}
	planID, err := res.LastInsertId()
	if err != nil {
		return Counts{}, fmt.Errorf("queue: 获取计划 id 失败: %w", err)
	}

	for _, it := range items {
		key := it.IdempotencyKey
		if key == "" {
			key = defaultIdemKey(in.PlanName, it)
		}
		key = truncate(key, maxIdemKeyLen)

		// 唯一索引 + DO NOTHING 实现幂等跳过，读写竞争下也不会产生重复条目。
		_, err := tx.ExecContext(ctx, `
INSERT INTO queue_items (plan_id, account_id, symbol, side, lot, sl, tp, status, idempotency_key, client_order_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(account_id, idempotency_key) DO NOTHING`,
			planID, it.AccountID, it.Symbol, string(it.Side), it.Lot, it.SL, it.TP,
			string(StatusQueued), key, it.ClientOrderID,
		)
		if err != nil {
			return Counts{}, fmt.Errorf("queue: 写入条目失败: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("queue: 提交事务失败: %w", err)
	}

	s.logger.Info("计划已入队",
		zap.Int64("plan_id", planID),
		zap.String("name", in.PlanName),
		zap.Int("items", len(items)),
	)

	return s.countsFor(ctx, planID)
}

// validateItems 标准化并校验全部条目，聚合所有错误一次性返回。
func (s *Service) validateItems(raw []ItemInput) ([]ItemInput, error) {
	items := make([]ItemInput, len(raw))
	var verr error

	for i, it := range raw {
		it.Symbol = instrument.Normalize(it.Symbol)

		if strings.TrimSpace(it.AccountID) == "" {
			verr = multierr.Append(verr, fmt.Errorf("items[%d]: account_id 不能为空", i))
		}
		if !ValidSide(it.Side) {
			verr = multierr.Append(verr, fmt.Errorf("items[%d]: 未知的 side %q", i, it.Side))
			continue
		}
		if it.Side == SideClose {
			// 平仓不关心手数，强制归零并豁免上限。
			it.Lot = 0
		} else {
			if it.Lot <= 0 {
				verr = multierr.Append(verr, fmt.Errorf("items[%d]: lot 必须大于0", i))
			}
			if lotCap := s.cfg.CapFor(it.AccountID); it.Lot > lotCap {
				verr = multierr.Append(verr, fmt.Errorf("items[%d]: lot %v 超过账户 %s 的上限 %v", i, it.Lot, it.AccountID, lotCap))
			}
		}
		if !instrument.Supported(it.Symbol) {
			verr = multierr.Append(verr, fmt.Errorf("items[%d]: 不支持的品种 %s", i, it.Symbol))
		}
		if it.SL < 0 || it.TP < 0 {
			verr = multierr.Append(verr, fmt.Errorf("items[%d]: sl/tp 不能为负", i))
		}
		if !s.priceDeviationOK(it.Symbol, it.Side, it.RefPrice) {
			verr = multierr.Append(verr, fmt.Errorf("items[%d]: %s 价格偏离超过 %.2f%%", i, it.Symbol, s.cfg.MaxDeviationPct))
		}

		items[i] = it
	}

	if verr != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, verr)
	}
	return items, nil
}

// Peek 以严格 FIFO（插入 id 升序）取出指定账户最旧的 queued 条目并原子地
// 标记为 reserved。没有可用条目时返回 (nil, nil)，这不是错误。
// 选取与标记在同一条带条件的 UPDATE 中完成，并发轮询下每个条目至多发放一次。
func (s *Service) Peek(ctx context.Context, accountID string) (*Item, error) {
	if s.cfg.KillSwitch {
		return nil, ErrKillSwitch
	}
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: account_id 不能为空", ErrValidation)
	}

	if s.cfg.ReservationTimeout > 0 {
		if err := s.requeueExpired(ctx, accountID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var id int64
	err := s.db.QueryRowContext(ctx, `
UPDATE queue_items SET status = ?, reserved_at = ?
WHERE id = (
	SELECT id FROM queue_items WHERE account_id = ? AND status = ? ORDER BY id ASC LIMIT 1
) AND status = ?
RETURNING id`,
		string(StatusReserved), now, accountID, string(StatusQueued), string(StatusQueued),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("queue: 预留条目失败: %w", err)
	}

	item, err := s.itemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("条目已预留",
		zap.Int64("id", item.ID),
		zap.String("account_id", item.AccountID),
		zap.String("symbol", item.Symbol),
	)
	return &item, nil
}

// requeueExpired 把超过预留时限仍未回执的条目放回 queued。
// 惰性执行于 Peek 入口，避免引入后台线程。
func (s *Service) requeueExpired(ctx context.Context, accountID string) error {
	cutoff := time.Now().UTC().Add(-s.cfg.ReservationTimeout).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
UPDATE queue_items SET status = ?, reserved_at = NULL
WHERE account_id = ? AND status = ? AND reserved_at <= ?`,
		string(StatusQueued), accountID, string(StatusReserved), cutoff,
	)
	if err != nil {
		return fmt.Errorf("queue: 回收过期预留失败: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Warn("过期预留已重新排队", zap.String("account_id", accountID), zap.Int64("count", n))
	}
	return nil
}

// Ack 记录执行端回执。条目已处于终态时退化为 no-op 并返回既有终态，
// 保证网络超时后的重试安全；首次落盘的结果不会被后续回执改写。
func (s *Service) Ack(ctx context.Context, in AckInput) (Status, error) {
	if in.Status != StatusFilled && in.Status != StatusRejected {
		return "", fmt.Errorf("%w: status 只能是 filled 或 rejected", ErrValidation)
	}

	item, err := s.itemByID(ctx, in.ID)
	if err != nil {
		return "", err
	}
	if item.Status.Terminal() {
		return item.Status, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
UPDATE queue_items SET status = ?, acked_at = ?, exec_price = ?, broker_order_id = ?, reason = ?
WHERE id = ? AND status IN (?, ?)`,
		string(in.Status), now, in.Price, in.BrokerOrderID, in.Reason,
		in.ID, string(StatusQueued), string(StatusReserved),
	)
	if err != nil {
		return "", fmt.Errorf("queue: 写入回执失败: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// 并发回执抢先落盘，读回既有结果。
		current, err := s.itemByID(ctx, in.ID)
		if err != nil {
			return "", err
		}
		return current.Status, nil
	}

	s.logger.Info("条目已回执",
		zap.Int64("id", in.ID),
		zap.String("status", string(in.Status)),
		zap.String("broker_order_id", in.BrokerOrderID),
	)
	return in.Status, nil
}

// PlanStatus 返回计划元数据、状态计数和全部条目快照。
func (s *Service) PlanStatus(ctx context.Context, planID int64) (PlanSnapshot, error) {
	var (
		snap      PlanSnapshot
		createdBy sql.NullString
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_by, created_at FROM queue_plans WHERE id = ?`, planID,
	).Scan(&snap.PlanID, &snap.Name, &createdBy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanSnapshot{}, fmt.Errorf("%w: 计划 %d", ErrNotFound, planID)
	}
	if err != nil {
		return PlanSnapshot{}, fmt.Errorf("queue: 查询计划失败: %w", err)
	}

	snap.CreatedBy = createdBy.String
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		snap.CreatedAt = ts
	}

	snap.Counts, err = s.countsFor(ctx, planID)
	if err != nil {
		return PlanSnapshot{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		itemSelect+` WHERE plan_id = ? ORDER BY id ASC`, planID)
	if err != nil {
		return PlanSnapshot{}, fmt.Errorf("queue: 查询条目失败: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return PlanSnapshot{}, err
		}
		snap.Items = append(snap.Items, item)
	}
	if err := rows.Err(); err != nil {
		return PlanSnapshot{}, fmt.Errorf("queue: 遍历条目失败: %w", err)
	}

	return snap, nil
}

func (s *Service) countsFor(ctx context.Context, planID int64) (Counts, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM queue_items WHERE plan_id = ? GROUP BY status`, planID)
	if err != nil {
		return Counts{}, fmt.Errorf("queue: 统计条目失败: %w", err)
	}
	defer rows.Close()

	counts := Counts{PlanID: planID}
	for rows.Next() {
		var (
			status Status
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return Counts{}, fmt.Errorf("queue: 读取计数失败: %w", err)
		}
		switch status {
		case StatusQueued:
			counts.Queued = n
		case StatusReserved:
			counts.Reserved = n
		case StatusFilled:
			counts.Filled = n
		case StatusRejected:
			counts.Rejected = n
		}
	}
	if err := rows.Err(); err != nil {
		return Counts{}, fmt.Errorf("queue: 遍历计数失败: %w", err)
	}
	return counts, nil
}

const itemSelect = `
SELECT id, plan_id, account_id, symbol, side, lot, sl, tp, status,
       reserved_at, acked_at, reason, exec_price, broker_order_id,
       idempotency_key, client_order_id
FROM queue_items`

func (s *Service) itemByID(ctx context.Context, id int64) (Item, error) {
	row := s.db.QueryRowContext(ctx, itemSelect+` WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("%w: 条目 %d", ErrNotFound, id)
	}
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var it Item
	var reservedAt, ackedAt, reason, brokerID, clientOrderID sql.NullString
	var execPrice sql.NullFloat64
	err := row.Scan(
		&it.ID, &it.PlanID, &it.AccountID, &it.Symbol, &it.Side, &it.Lot, &it.SL, &it.TP, &it.Status,
		&reservedAt, &ackedAt, &reason, &execPrice, &brokerID, &it.IdempotencyKey, &clientOrderID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, err
		}
		return Item{}, fmt.Errorf("queue: 读取条目失败: %w", err)
	}

	it.ReservedAt = parseNullTime(reservedAt)
	it.AckedAt = parseNullTime(ackedAt)
	it.Reason = reason.String
	it.BrokerOrderID = brokerID.String
	it.ClientOrderID = clientOrderID.String
	it.ExecPrice = execPrice.Float64

	return it, nil
}

func parseNullTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil
	}
	return &ts
}

// defaultIdemKey 在调用方未提供幂等键时按固定格式推导。
func defaultIdemKey(planName string, it ItemInput) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		planName, it.AccountID, it.Symbol, it.Side,
		strconv.FormatFloat(it.Lot, 'g', -1, 64),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
