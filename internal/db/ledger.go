package loyalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	config "github.com/electrohub/loyalty/internal/config"
	interf "github.com/electrohub/loyalty/internal/interfaces"
	models "github.com/electrohub/loyalty/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS wallets (
	user_id           TEXT PRIMARY KEY,
	total_earned      BIGINT NOT NULL DEFAULT 0 CHECK (total_earned >= 0),
	total_redeemed    BIGINT NOT NULL DEFAULT 0 CHECK (total_redeemed >= 0),
	available_balance BIGINT NOT NULL DEFAULT 0 CHECK (available_balance >= 0),
	version           BIGINT NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (available_balance = total_earned - total_redeemed)
);
CREATE TABLE IF NOT EXISTS coin_transactions (
	id                   UUID PRIMARY KEY,
	user_id              TEXT NOT NULL REFERENCES wallets(user_id),
	type                 TEXT NOT NULL,
	amount               BIGINT NOT NULL,
	reference_order_id   TEXT,
	reference_product_id TEXT,
	reference_redeem_id  TEXT,
	created_at           TIMESTAMPTZ NOT NULL,
	expires_at           TIMESTAMPTZ
);
ALTER TABLE coin_transactions ADD COLUMN IF NOT EXISTS reference_redeem_id TEXT;
CREATE INDEX IF NOT EXISTS coin_transactions_user_idx ON coin_transactions (user_id, created_at);
CREATE UNIQUE INDEX IF NOT EXISTS coin_transactions_redeem_idx ON coin_transactions (reference_redeem_id) WHERE reference_redeem_id IS NOT NULL;
CREATE TABLE IF NOT EXISTS coupon_usage (
	id              UUID PRIMARY KEY,
	coupon_id       UUID NOT NULL,
	user_id         TEXT NOT NULL,
	order_id        TEXT NOT NULL,
	discount_amount NUMERIC(20,2) NOT NULL,
	used_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS coupon_usage_coupon_idx ON coupon_usage (coupon_id, user_id);
`

var tnxColumns = []string{"id", "user_id", "type", "amount", "reference_order_id", "reference_product_id", "reference_redeem_id", "created_at", "expires_at"}

// LedgerDB stores wallets, the coin journal and coupon usage in Postgres.
type LedgerDB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	clock  func() time.Time
}

func NewLedgerDB(ctx context.Context, cfg config.Postgres, logger *zap.Logger) (db *LedgerDB, err error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &LedgerDB{pool, logger, time.Now}, nil
}

func (p *LedgerDB) Close() {
	p.pool.Close()
}

func (p *LedgerDB) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schema)
	return err
}

func (p *LedgerDB) logSQL(err error, sql string, args []any) {
	p.logger.Error("SQL error",
		zap.Error(err),
		zap.String("query", sql),
		zap.Any("args", args),
	)
}

// Кошелек пользователя, создается при первом обращении
func (p *LedgerDB) GetOrCreate(ctx context.Context, userId string) (models.Wallet, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return models.Wallet{}, err
	}
	defer conn.Release()

	if err := p.ensureWallet(ctx, conn, userId); err != nil {
		return models.Wallet{}, err
	}
	return p.selectWallet(ctx, conn, userId)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *LedgerDB) ensureWallet(ctx context.Context, q querier, userId string) error {
	now := p.clock().UTC()
	sql, args, err := sq.Insert("wallets").
		Columns("user_id", "total_earned", "total_redeemed", "available_balance", "version", "created_at", "updated_at").
		Values(userId, 0, 0, 0, 0, now, now).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		p.logSQL(err, sql, args)
		return err
	}
	_, err = q.Exec(ctx, sql, args...)
	if err != nil {
		p.logSQL(err, sql, args)
		return err
	}
	return nil
}

func (p *LedgerDB) selectWallet(ctx context.Context, q querier, userId string) (w models.Wallet, err error) {
	sql, args, err := sq.Select("user_id", "total_earned", "total_redeemed", "available_balance", "version", "created_at", "updated_at").
		From("wallets").
		Where(sq.Eq{"user_id": userId}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return w, err
	}
	err = q.QueryRow(ctx, sql, args...).Scan(&w.UserID, &w.TotalEarned, &w.TotalRedeemed, &w.AvailableBalance, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return w, fmt.Errorf("wallet %w", models.ErrNotFound)
		}
		return w, err
	}
	return w, nil
}

// Атомарное изменение кошелька.
// Строка кошелька обновляется только если версия не изменилась с момента чтения,
// иначе параллельная операция уже выиграла и возвращается ErrConflict.
func (p *LedgerDB) ApplyAtomic(ctx context.Context, userId string, mutation interf.WalletMutation) (wallet models.Wallet, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return wallet, err
	}
	defer conn.Release()

	if err = p.ensureWallet(ctx, conn, userId); err != nil {
		return wallet, err
	}

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return wallet, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	wallet, err = p.selectWallet(ctx, tx, userId)
	if err != nil {
		return wallet, err
	}
	version := wallet.Version

	err = mutation(ctx, &wallet, &pgLog{tx: tx, db: p})
	if err != nil {
		return models.Wallet{}, err
	}

	wallet.Version = version + 1
	wallet.UpdatedAt = p.clock().UTC()
	sql, args, err := sq.Update("wallets").
		Set("total_earned", wallet.TotalEarned).
		Set("total_redeemed", wallet.TotalRedeemed).
		Set("available_balance", wallet.AvailableBalance).
		Set("version", wallet.Version).
		Set("updated_at", wallet.UpdatedAt).
		Where(sq.Eq{"user_id": userId, "version": version}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		p.logSQL(err, sql, args)
		return models.Wallet{}, err
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		err = conflict(err)
		return models.Wallet{}, err
	}
	if tag.RowsAffected() == 0 {
		err = models.ErrConflict
		return models.Wallet{}, err
	}
	err = tx.Commit(ctx)
	if err != nil {
		err = conflict(err)
		return models.Wallet{}, err
	}
	return wallet, nil
}

// ошибки сериализации и взаимоблокировки - повод повторить операцию
func conflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %s", models.ErrConflict, pgErr.Message)
		}
	}
	return err
}

// История транзакций
func (p *LedgerDB) History(ctx context.Context, userId string) ([]models.Transaction, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()
	return p.selectTnx(ctx, conn, userId)
}

func (p *LedgerDB) selectTnx(ctx context.Context, q querier, userId string) ([]models.Transaction, error) {
	sql, args, err := sq.Select(tnxColumns...).
		From("coin_transactions").
		Where(sq.Eq{"user_id": userId}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		p.logSQL(err, sql, args)
		return nil, err
	}
	defer rows.Close()

	tnxs := make([]models.Transaction, 0)
	for rows.Next() {
		var tnx models.Transaction
		var typ string
		var orderId, productId, redeemId pgtype.Text
		var expires *time.Time
		err = rows.Scan(&tnx.ID, &tnx.UserID, &typ, &tnx.Amount, &orderId, &productId, &redeemId, &tnx.CreatedAt, &expires)
		if err != nil {
			return nil, err
		}
		tnx.Type = models.TransactionType(typ)
		tnx.ReferenceOrderID = orderId.String
		tnx.ReferenceProductID = productId.String
		tnx.ReferenceRedeemID = redeemId.String
		tnx.ExpiresAt = expires
		tnxs = append(tnxs, tnx)
	}
	return tnxs, rows.Err()
}

// Пользователи с положительным балансом и сгоревшими начислениями
func (p *LedgerDB) UsersWithExpiredCoins(ctx context.Context, asOf time.Time) ([]string, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	sql, args, err := sq.Select("DISTINCT t.user_id").
		From("coin_transactions t").
		Join("wallets w ON w.user_id = t.user_id").
		Where(sq.Eq{"t.type": string(models.EARNED)}).
		Where(sq.LtOrEq{"t.expires_at": asOf}).
		Where(sq.Gt{"w.available_balance": 0}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		p.logSQL(err, sql, args)
		return nil, err
	}
	defer rows.Close()
	var users []string
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// журнал в рамках транзакции кошелька
type pgLog struct {
	tx pgx.Tx
	db *LedgerDB
}

func (l *pgLog) Append(ctx context.Context, tnx models.Transaction) error {
	if !tnx.Type.Valid() {
		return models.ErrInvalidTransaction
	}
	sql, args, err := sq.Insert("coin_transactions").
		Columns(tnxColumns...).
		Values(tnx.ID, tnx.UserID, string(tnx.Type), tnx.Amount, nullable(tnx.ReferenceOrderID), nullable(tnx.ReferenceProductID), nullable(tnx.ReferenceRedeemID), tnx.CreatedAt, tnx.ExpiresAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		l.db.logSQL(err, sql, args)
		return err
	}
	_, err = l.tx.Exec(ctx, sql, args...)
	if err != nil {
		l.db.logSQL(err, sql, args)
		return err
	}
	return nil
}

func (l *pgLog) List(ctx context.Context, userId string) ([]models.Transaction, error) {
	return l.db.selectTnx(ctx, l.tx, userId)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Использование купонов

func (p *LedgerDB) CountGlobal(ctx context.Context, couponId uuid.UUID) (int64, error) {
	return p.countUsage(ctx, p.pool, sq.Eq{"coupon_id": couponId})
}

func (p *LedgerDB) CountForUser(ctx context.Context, couponId uuid.UUID, userId string) (int64, error) {
	return p.countUsage(ctx, p.pool, sq.Eq{"coupon_id": couponId, "user_id": userId})
}

func (p *LedgerDB) countUsage(ctx context.Context, q querier, where sq.Eq) (n int64, err error) {
	sql, args, err := sq.Select("COUNT(*)").
		From("coupon_usage").
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}
	err = q.QueryRow(ctx, sql, args...).Scan(&n)
	if err != nil {
		p.logSQL(err, sql, args)
		return 0, err
	}
	return n, nil
}

// Запись использования. Advisory lock по купону сериализует параллельные записи,
// поэтому лимиты не превышаются.
func (p *LedgerDB) Record(ctx context.Context, rec models.CouponUsageRecord, limits models.UsageLimits) (err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", rec.CouponID.String())
	if err != nil {
		return err
	}
	if limits.Total != nil {
		var n int64
		n, err = p.countUsage(ctx, tx, sq.Eq{"coupon_id": rec.CouponID})
		if err != nil {
			return err
		}
		if n >= *limits.Total {
			err = models.ErrUsageLimitExceeded
			return err
		}
	}
	if limits.PerUser != nil {
		var n int64
		n, err = p.countUsage(ctx, tx, sq.Eq{"coupon_id": rec.CouponID, "user_id": rec.UserID})
		if err != nil {
			return err
		}
		if n >= *limits.PerUser {
			err = models.ErrPerUserLimitExceeded
			return err
		}
	}

	sql, args, err := sq.Insert("coupon_usage").
		Columns("id", "coupon_id", "user_id", "order_id", "discount_amount", "used_at").
		Values(rec.ID, rec.CouponID, rec.UserID, rec.OrderID, rec.DiscountAmount.StringFixed(2), rec.UsedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		p.logSQL(err, sql, args)
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		p.logSQL(err, sql, args)
		return err
	}
	return tx.Commit(ctx)
}
