package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"gpwebpay-gateway/internal/config"
	"gpwebpay-gateway/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names recorded in the audit trail.
const (
	EventPaymentCreated    = "payment_created"
	EventCallbackProcessed = "callback_processed"
)

// PaymentEventLog is one audit entry: a payment created or a gateway
// callback processed, with the raw protocol fields and the outcome.
type PaymentEventLog struct {
	RequestID  string
	OrderID    string
	Event      string
	Fields     map[string]string
	Outcome    string
	Reason     string
	PRCode     string
	SRCode     string
	ResultText string
	TraceID    string
	CreatedAt  time.Time
}

// DBClient interface for database operations
type DBClient interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Repository handles audit log storage
type Repository struct {
	db     DBClient
	config config.Config
	logger *zap.Logger
}

// NewRepository creates a new audit repository
func NewRepository(db DBClient, cfg config.Config, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// StorePaymentEventLog stores one audit entry.
// Note: created_at is set by the database (DEFAULT now())
func (r *Repository) StorePaymentEventLog(ctx context.Context, log *PaymentEventLog) error {
	if log.RequestID == "" {
		log.RequestID = uuid.New().String()
	}

	var fieldsJSON []byte
	if log.Fields != nil {
		var err error
		fieldsJSON, err = json.Marshal(log.Fields)
		if err != nil {
			return errors.WrapDomainError(err, 30020, "audit log serialization failed", "failed to marshal fields")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	query := `INSERT INTO audit.payment_event_logs (
		request_id, order_id, event, fields, outcome, reason,
		prcode, srcode, result_text, trace_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		log.RequestID,
		log.OrderID,
		log.Event,
		sqlNullJSONB(fieldsJSON),
		log.Outcome,
		sqlNullString(log.Reason),
		sqlNullString(log.PRCode),
		sqlNullString(log.SRCode),
		sqlNullString(log.ResultText),
		sqlNullString(log.TraceID),
	)

	if err != nil {
		r.logger.Error("failed to store payment event log", zap.Error(err))
		return errors.WrapDomainError(err, 30020, "audit log storage failed", "database error")
	}

	r.logger.Debug("audit payment_event stored",
		zap.String("request_id", log.RequestID),
		zap.String("order_id", log.OrderID),
		zap.String("event", log.Event),
		zap.String("outcome", log.Outcome),
	)

	return nil
}

func sqlNullJSONB(data []byte) sql.NullString {
	if len(data) == 0 {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: string(data), Valid: true}
}

func sqlNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
