package models

type RoleName string
type MembershipStatus string
type PaymentStatus string
type PaymentMethod string
type Gender string

const (
	RoleAdmin   RoleName = "admin"
	RoleManager RoleName = "manager"
	RoleMember  RoleName = "member"

	MembershipActive   MembershipStatus = "Active"
	MembershipExpiring MembershipStatus = "Expiring"
	MembershipExpired  MembershipStatus = "Expired"

	PaymentPending  PaymentStatus = "Pending"
	PaymentApproved PaymentStatus = "Approved"
	PaymentRejected PaymentStatus = "Rejected"

	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodCash PaymentMethod = "Cash"

	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// NoMembership is reported in place of a status when a user has never held a membership.
const NoMembership = "No Membership"

// CurrentStatuses are the statuses that still grant (or will soon stop granting) access.
var CurrentStatuses = []MembershipStatus{MembershipActive, MembershipExpiring}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentApproved || s == PaymentRejected
}

// RoleDescriptions seeds the roles table.
var RoleDescriptions = map[RoleName]string{
	RoleAdmin:   "Super Administrator",
	RoleManager: "Gym Manager",
	RoleMember:  "Gym Member",
}
