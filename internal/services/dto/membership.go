package dto

type RenewMembershipRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

type PriorityItem struct {
	ID            string `json:"id"`
	UserName      string `json:"user_name"`
	UserID        string `json:"user_id"`
	Phone         string `json:"phone"`
	Plan          string `json:"plan"`
	EndDate       string `json:"end_date"`
	DaysRemaining int    `json:"days_remaining"`
	Status        string `json:"status"`
}

type ExpiredMemberItem struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Phone       string `json:"phone"`
	LastPlan    string `json:"last_plan"`
	ExpiredOn   string `json:"expired_on"`
	DaysExpired int    `json:"days_expired"`
}

type RefreshStatusesResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

type ReminderResponse struct {
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}
