package dto

import "time"

type SubmitPaymentRequest struct {
	PlanID        string  `json:"plan_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,is-payment-method"`
	TxnRef        string  `json:"txn_ref" validate:"omitempty,utr12"`
	Notes         string  `json:"notes" validate:"max=1000"`
}

type SubmitPaymentResponse struct {
	Message   string `json:"message"`
	PaymentID string `json:"payment_id"`
}

type PaymentHistoryItem struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Plan          string    `json:"plan"`
	PaymentMethod string    `json:"payment_method"`
	TxnRef        *string   `json:"txn_ref"`
	Status        string    `json:"status"`
	Date          time.Time `json:"date"`
	Notes         string    `json:"notes,omitempty"`
}

type PendingPaymentItem struct {
	ID            string    `json:"id"`
	UserName      string    `json:"user_name"`
	UserID        string    `json:"user_id"`
	Plan          string    `json:"plan"`
	Amount        float64   `json:"amount"`
	TxnRef        *string   `json:"txn_ref"`
	PaymentMethod string    `json:"payment_method"`
	Date          time.Time `json:"date"`
	Notes         string    `json:"notes,omitempty"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// MembershipRange is the period granted by an approval or renewal.
type MembershipRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type MembershipGrantResponse struct {
	Message    string          `json:"message"`
	Membership MembershipRange `json:"membership"`
}

type TransactionItem struct {
	ID            string     `json:"id"`
	UserName      string     `json:"user_name"`
	UserEmail     string     `json:"user_email,omitempty"`
	UserPhone     string     `json:"user_phone,omitempty"`
	Plan          string     `json:"plan"`
	Amount        float64    `json:"amount"`
	TxnRef        *string    `json:"txn_ref"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status"`
	Date          time.Time  `json:"date"`
	ApprovedAt    *time.Time `json:"approved_at"`
	Notes         string     `json:"notes,omitempty"`
}

type TransactionListResponse struct {
	Transactions []TransactionItem `json:"transactions"`
	Count        int               `json:"count"`
	TotalRevenue *float64          `json:"total_revenue,omitempty"`
}

// DateRangeFilter is used by the manager transactions view.
type DateRangeFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,date-ymd"`
	EndDate   string `form:"end_date" validate:"omitempty,date-ymd"`
}

// TransactionFilter is used by the admin transactions view.
type TransactionFilter struct {
	Filter    string `form:"filter" validate:"omitempty,oneof=this_month last_month custom last_30_days last_7_days"`
	StartDate string `form:"start_date" validate:"omitempty,date-ymd"`
	EndDate   string `form:"end_date" validate:"omitempty,date-ymd"`
}
