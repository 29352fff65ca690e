package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var subscriptionSortColumns = map[string]string{
	"createdAt": "sub.created_at",
	"status":    "sub.status",
	"price":     "sub.price",
	"startedAt": "sub.started_at",
	"expiresAt": "sub.expires_at",
}

var transactionSortColumns = map[string]string{
	"createdAt":  "t.created_at",
	"status":     "t.status",
	"amount":     "t.amount",
	"occurredAt": "t.occurred_at",
}

var usageLogSortColumns = map[string]string{
	"createdAt":  "ul.created_at",
	"service":    "ul.service",
	"tokensUsed": "ul.tokens_used",
	"cost":       "ul.cost",
}

// paymentRepository reads the billing mirror tables. Rows are written by
// the billing webhook consumer, so only list and aggregate queries live
// here.
type paymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) *paymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

const userRefColumns = `u.id, u.first_name, u.last_name, u.email`

func scanUserRef(userID sql.NullInt64, first, last, email sql.NullString) *models.UserRef {
	if !userID.Valid {
		return nil
	}
	return &models.UserRef{
		ID:        int(userID.Int64),
		FirstName: first.String,
		LastName:  last.String,
		Email:     email.String,
	}
}

// ListSubscriptions retrieves a page of subscriptions plus the total count
func (r *paymentRepository) ListSubscriptions(ctx context.Context, filter models.SubscriptionListFilter) ([]models.Subscription, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(u.email LIKE ? OR u.first_name LIKE ? OR u.last_name LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		conditions = append(conditions, `sub.status = ?`)
		args = append(args, filter.Status)
	}
	if filter.Plan != "" {
		conditions = append(conditions, `sub.plan = ?`)
		args = append(args, filter.Plan)
	}
	if filter.UserID != 0 {
		conditions = append(conditions, `sub.user_id = ?`)
		args = append(args, filter.UserID)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM subscriptions sub
		LEFT JOIN users u ON u.id = sub.user_id
		%s
	`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT sub.id, sub.user_id, sub.revenue_purchase_id, sub.product_id, sub.plan, sub.status, sub.price, sub.currency, sub.started_at, sub.expires_at, sub.cancelled_at, sub.created_at, sub.updated_at, %s
		FROM subscriptions sub
		LEFT JOIN users u ON u.id = sub.user_id
		%s
		%s
		LIMIT ? OFFSET ?
	`, userRefColumns, whereClause,
		orderClause(filter.SortBy, filter.SortOrder, subscriptionSortColumns, "sub.created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var expiresAt, cancelledAt sql.NullTime
		var refID sql.NullInt64
		var refFirst, refLast, refEmail sql.NullString
		err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.RevenuePurchaseID,
			&sub.ProductID,
			&sub.Plan,
			&sub.Status,
			&sub.Price,
			&sub.Currency,
			&sub.StartedAt,
			&expiresAt,
			&cancelledAt,
			&sub.CreatedAt,
			&sub.UpdatedAt,
			&refID,
			&refFirst,
			&refLast,
			&refEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan subscription: %w", err)
		}
		if expiresAt.Valid {
			sub.ExpiresAt = &expiresAt.Time
		}
		if cancelledAt.Valid {
			sub.CancelledAt = &cancelledAt.Time
		}
		sub.User = scanUserRef(refID, refFirst, refLast, refEmail)
		subscriptions = append(subscriptions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return subscriptions, total, nil
}

// ListTransactions retrieves a page of transactions plus the total count
func (r *paymentRepository) ListTransactions(ctx context.Context, filter models.TransactionListFilter) ([]models.Transaction, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(u.email LIKE ? OR t.revenue_transaction_id LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern)
	}
	if filter.Status != "" {
		conditions = append(conditions, `t.status = ?`)
		args = append(args, filter.Status)
	}
	if filter.UserID != 0 {
		conditions = append(conditions, `t.user_id = ?`)
		args = append(args, filter.UserID)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM transactions t
		LEFT JOIN users u ON u.id = t.user_id
		%s
	`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.revenue_transaction_id, t.product_id, t.amount, t.currency, t.status, t.payment_method, t.occurred_at, t.created_at, %s
		FROM transactions t
		LEFT JOIN users u ON u.id = t.user_id
		%s
		%s
		LIMIT ? OFFSET ?
	`, userRefColumns, whereClause,
		orderClause(filter.SortBy, filter.SortOrder, transactionSortColumns, "t.occurred_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var paymentMethod sql.NullString
		var refID sql.NullInt64
		var refFirst, refLast, refEmail sql.NullString
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.RevenueTransactionID,
			&t.ProductID,
			&t.Amount,
			&t.Currency,
			&t.Status,
			&paymentMethod,
			&t.OccurredAt,
			&t.CreatedAt,
			&refID,
			&refFirst,
			&refLast,
			&refEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if paymentMethod.Valid {
			t.PaymentMethod = paymentMethod.String
		}
		t.User = scanUserRef(refID, refFirst, refLast, refEmail)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return transactions, total, nil
}

// ListUsageLogs retrieves a page of usage log rows plus the total count
func (r *paymentRepository) ListUsageLogs(ctx context.Context, filter models.UsageLogListFilter) ([]models.UsageLog, int, error) {
	var conditions []string
	var args []any

	if filter.Service != "" {
		conditions = append(conditions, `ul.service = ?`)
		args = append(args, filter.Service)
	}
	if filter.UserID != 0 {
		conditions = append(conditions, `ul.user_id = ?`)
		args = append(args, filter.UserID)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM usage_logs ul %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count usage logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT ul.id, ul.user_id, ul.service, ul.operation, ul.tokens_used, ul.cost, ul.created_at, %s
		FROM usage_logs ul
		LEFT JOIN users u ON u.id = ul.user_id
		%s
		%s
		LIMIT ? OFFSET ?
	`, userRefColumns, whereClause,
		orderClause(filter.SortBy, filter.SortOrder, usageLogSortColumns, "ul.created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query usage logs: %w", err)
	}
	defer rows.Close()

	var logs []models.UsageLog
	for rows.Next() {
		var log models.UsageLog
		var refID sql.NullInt64
		var refFirst, refLast, refEmail sql.NullString
		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Service,
			&log.Operation,
			&log.TokensUsed,
			&log.Cost,
			&log.CreatedAt,
			&refID,
			&refFirst,
			&refLast,
			&refEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan usage log: %w", err)
		}
		log.User = scanUserRef(refID, refFirst, refLast, refEmail)
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return logs, total, nil
}

// Stats aggregates revenue, subscription and usage figures
func (r *paymentRepository) Stats(ctx context.Context) (*models.PaymentStats, error) {
	stats := &models.PaymentStats{}

	revenueQuery := `
		SELECT
			COALESCE(SUM(IF(status = 'completed', amount, 0)), 0),
			COALESCE(SUM(IF(status = 'completed' AND occurred_at >= DATE_SUB(NOW(), INTERVAL 30 DAY), amount, 0)), 0),
			COUNT(*),
			COALESCE(SUM(status = 'failed'), 0)
		FROM transactions
	`
	err := r.db.QueryRowContext(ctx, revenueQuery).Scan(
		&stats.TotalRevenue,
		&stats.MonthlyRevenue,
		&stats.TotalTransactions,
		&stats.FailedTransactions,
	)
	if err != nil {
		r.logger.Error("failed to get payment stats", zap.Error(err))
		return nil, fmt.Errorf("failed to get payment stats: %w", err)
	}

	subscriptionQuery := `SELECT COUNT(*) FROM subscriptions WHERE status = 'active'`
	if err := r.db.QueryRowContext(ctx, subscriptionQuery).Scan(&stats.ActiveSubscriptions); err != nil {
		return nil, fmt.Errorf("failed to count active subscriptions: %w", err)
	}

	monthlyQuery := `
		SELECT YEAR(occurred_at), MONTH(occurred_at), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE status = 'completed' AND occurred_at >= DATE_SUB(NOW(), INTERVAL 12 MONTH)
		GROUP BY YEAR(occurred_at), MONTH(occurred_at)
		ORDER BY YEAR(occurred_at), MONTH(occurred_at)
	`
	rows, err := r.db.QueryContext(ctx, monthlyQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket models.RevenueBucket
		if err := rows.Scan(&bucket.Year, &bucket.Month, &bucket.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue bucket: %w", err)
		}
		stats.RevenueByMonth = append(stats.RevenueByMonth, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	usageQuery := `
		SELECT service, COUNT(*), COALESCE(SUM(tokens_used), 0), COALESCE(SUM(cost), 0)
		FROM usage_logs
		GROUP BY service
		ORDER BY service
	`
	usageRows, err := r.db.QueryContext(ctx, usageQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage stats: %w", err)
	}
	defer usageRows.Close()

	for usageRows.Next() {
		var bucket models.ServiceBucket
		if err := usageRows.Scan(&bucket.Service, &bucket.Calls, &bucket.TokensUsed, &bucket.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan service bucket: %w", err)
		}
		stats.UsageByService = append(stats.UsageByService, bucket)
	}
	if err := usageRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stats, nil
}
