package dto

import "time"

type Scenario struct {
	GrowthRate float64 `json:"growth_rate"`
	Quarterly  float64 `json:"quarterly"`
	Annual     float64 `json:"annual"`
}

type ProjectionResponse struct {
	NextMonthExpected float64             `json:"next_month_expected"`
	ExpiringCount     int                 `json:"expiring_count"`
	LastMonthActual   float64             `json:"last_month_actual"`
	MonthlyAverage    float64             `json:"monthly_average"`
	Scenarios         map[string]Scenario `json:"scenarios"`
}

type StatsResponse struct {
	TotalMembers      int64 `json:"total_members"`
	ActiveMemberships int64 `json:"active_memberships"`
	TotalPlans        int64 `json:"total_plans"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}
