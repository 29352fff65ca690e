package models

import "time"

// SubscriptionStatuses lists the lifecycle states of a subscription record.
var SubscriptionStatuses = []string{"active", "cancelled", "past_due", "paused"}

// TransactionStatuses lists the settlement states of a transaction.
var TransactionStatuses = []string{"completed", "failed", "pending", "refunded"}

// UsageServices lists the external services a usage log row can reference.
var UsageServices = []string{"anythingllm", "openrouter", "paddle"}

// Subscription mirrors a billing provider subscription for a user.
type Subscription struct {
	ID                int        `json:"id"`
	UserID            int        `json:"-"`
	User              *UserRef   `json:"user,omitempty"`
	RevenuePurchaseID string     `json:"revenuePurchaseId"`
	ProductID         string     `json:"productId"`
	Plan              string     `json:"plan"`
	Status            string     `json:"status"`
	Price             float64    `json:"price"`
	Currency          string     `json:"currency"`
	StartedAt         time.Time  `json:"startedAt"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	CancelledAt       *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Transaction is a single payment event tied to a subscription or purchase.
type Transaction struct {
	ID                   int       `json:"id"`
	UserID               int       `json:"-"`
	User                 *UserRef  `json:"user,omitempty"`
	RevenueTransactionID string    `json:"revenueTransactionId"`
	ProductID            string    `json:"productId"`
	Amount               float64   `json:"amount"`
	Currency             string    `json:"currency"`
	Status               string    `json:"status"`
	PaymentMethod        string    `json:"paymentMethod,omitempty"`
	OccurredAt           time.Time `json:"occurredAt"`
	CreatedAt            time.Time `json:"createdAt"`
}

// UsageLog records a metered call to an external service on behalf of a user.
type UsageLog struct {
	ID         int       `json:"id"`
	UserID     int       `json:"-"`
	User       *UserRef  `json:"user,omitempty"`
	Service    string    `json:"service"`
	Operation  string    `json:"operation"`
	TokensUsed int       `json:"tokensUsed"`
	Cost       float64   `json:"cost"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SubscriptionListFilter narrows a subscription list query.
type SubscriptionListFilter struct {
	ListParams
	Status string
	Plan   string
	UserID int
}

// TransactionListFilter narrows a transaction list query.
type TransactionListFilter struct {
	ListParams
	Status string
	UserID int
}

// UsageLogListFilter narrows a usage log list query.
type UsageLogListFilter struct {
	ListParams
	Service string
	UserID  int
}

// PaymentStats aggregates revenue and usage figures for the dashboard.
type PaymentStats struct {
	TotalRevenue        float64         `json:"totalRevenue"`
	MonthlyRevenue      float64         `json:"monthlyRevenue"`
	ActiveSubscriptions int             `json:"activeSubscriptions"`
	TotalTransactions   int             `json:"totalTransactions"`
	FailedTransactions  int             `json:"failedTransactions"`
	RevenueByMonth      []RevenueBucket `json:"revenueByMonth"`
	UsageByService      []ServiceBucket `json:"usageByService"`
}

// RevenueBucket is one row of the monthly revenue aggregate.
type RevenueBucket struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// ServiceBucket is a per-service usage aggregate.
type ServiceBucket struct {
	Service    string  `json:"service"`
	Calls      int     `json:"calls"`
	TokensUsed int     `json:"tokensUsed"`
	Cost       float64 `json:"cost"`
}
