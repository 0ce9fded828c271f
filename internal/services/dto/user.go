package dto

import "time"

// MembershipSummary is the membership block of /me, /profile and the admin
// user detail. Status is "No Membership" when the user never had one.
type MembershipSummary struct {
	Active        bool    `json:"active"`
	Plan          *string `json:"plan"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date"`
	DaysRemaining *int    `json:"days_remaining"`
	Status        string  `json:"status"`
}

type MeResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	DateOfBirth *string            `json:"date_of_birth"`
	Gender      *string            `json:"gender"`
	IsAdmin     bool               `json:"is_admin"`
	IsManager   bool               `json:"is_manager"`
	Role        string             `json:"role"`
	Roles       []string           `json:"roles"`
	Membership  *MembershipSummary `json:"membership"`
}

type ProfileResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	DateOfBirth *string            `json:"date_of_birth"`
	Gender      *string            `json:"gender"`
	Membership  *MembershipSummary `json:"membership"`
}

// UpdateProfileRequest holds the fields a member may change on themselves.
// Nil means "leave unchanged".
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,phone10"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// AdminUpdateUserRequest extends the profile update with staff-only fields.
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,date-ymd"`
	Gender      *string `json:"gender" validate:"omitempty,is-gender"`
	Active      *bool   `json:"active"`
}

type MembershipHistoryItem struct {
	ID        string `json:"id"`
	Plan      string `json:"plan"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

type UserDetailResponse struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Email              string                  `json:"email"`
	Phone              string                  `json:"phone"`
	DateOfBirth        *string                 `json:"date_of_birth"`
	Gender             *string                 `json:"gender"`
	Active             bool                    `json:"active"`
	CreatedAt          time.Time               `json:"created_at"`
	Roles              []string                `json:"roles"`
	CurrentMembership  *MembershipSummary      `json:"current_membership"`
	MembershipsHistory []MembershipHistoryItem `json:"memberships_history"`
	PaymentsHistory    []PaymentHistoryItem    `json:"payments_history"`
}

type MemberFilter struct {
	Search  string `form:"search"`
	Gender  string `form:"gender" validate:"omitempty,is-gender"`
	Plan    string `form:"plan"`
	DOBFrom string `form:"dob_from" validate:"omitempty,date-ymd"`
	DOBTo   string `form:"dob_to" validate:"omitempty,date-ymd"`
}

type MemberListItem struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	DisplayName      string    `json:"display_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	DateOfBirth      *string   `json:"date_of_birth"`
	Gender           *string   `json:"gender"`
	CurrentPlan      string    `json:"current_plan"`
	MembershipStatus string    `json:"membership_status"`
	EndDate          *string   `json:"end_date"`
	DaysRemaining    *int      `json:"days_remaining"`
	CreatedAt        time.Time `json:"created_at"`
}

type MemberListResponse struct {
	Members []MemberListItem `json:"members"`
	Count   int              `json:"count"`
}

type ManagerResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth *string   `json:"date_of_birth"`
	Gender      *string   `json:"gender"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
