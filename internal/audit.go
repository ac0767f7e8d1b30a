package internal

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/georgysavva/scany/sqlscan"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"order-sentry/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

const auditFields = "id, order_id, total_amount, notified_at"

type AuditRecord struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"orderID"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	NotifiedAt  time.Time       `db:"notified_at" json:"notifiedAt"`
}

// AuditStore keeps a durable trail of dispatched alerts for ops review. The
// order cache itself is never persisted, only the notification log is.
type AuditStore struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewAuditStore(dsn string, logger *zap.SugaredLogger) (*AuditStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations)
	if err = goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	if err = goose.Up(db, "migrations"); err != nil {
		return nil, err
	}

	return &AuditStore{DB: db, Logger: logger}, nil
}

func (s *AuditStore) Record(ctx context.Context, o model.Order) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO notified_orders (order_id, total_amount, notified_at) VALUES ($1, $2, $3)",
		o.ID, o.TotalAmount, time.Now().UTC())
	return err
}

func (s *AuditStore) History(ctx context.Context, limit int) ([]AuditRecord, error) {
	var records []AuditRecord
	err := sqlscan.Select(ctx, s.DB, &records,
		"SELECT "+auditFields+" FROM notified_orders ORDER BY notified_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *AuditStore) Close() error {
	return s.DB.Close()
}

// AuditSink adapts the store to the notification sink interface.
type AuditSink struct {
	Store *AuditStore
}

func (s AuditSink) Notify(ctx context.Context, o model.Order) error {
	return s.Store.Record(ctx, o)
}
