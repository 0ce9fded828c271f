package apperrors

import (
	"net/http"
)

// Factories for wrapping lower-level errors.

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth & accounts ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrAccountDeactivated = New(
	CodeAccountDeactivated,
	"auth",
	"Account is deactivated",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrAdminExists is returned by the bootstrap endpoint once an admin is present.
var ErrAdminExists = New(
	CodeConflict,
	"auth",
	"Admin already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password must be at least 6 characters",
	http.StatusBadRequest,
)

// --- Users ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrEmailTaken = New(
	CodeAlreadyExists,
	"user",
	"Email already registered",
	http.StatusConflict,
)

var ErrPhoneTaken = New(
	CodeAlreadyExists,
	"user",
	"Phone number already registered",
	http.StatusConflict,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"user",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Plans ---

var ErrPlanNotFound = New(
	CodeNotFound,
	"plan",
	"Plan not found",
	http.StatusNotFound,
)

var ErrPlanInactive = New(
	CodeInvalidOperation,
	"plan",
	"Plan is not available",
	http.StatusBadRequest,
)

// --- Payments ---

var ErrPaymentNotFound = New(
	CodeNotFound,
	"payment",
	"Payment not found",
	http.StatusNotFound,
)

// ErrPaymentAlreadyProcessed guards the Pending -> Approved/Rejected transition.
var ErrPaymentAlreadyProcessed = New(
	CodeConflict,
	"payment",
	"Payment already processed",
	http.StatusConflict,
)

var ErrUTRTaken = New(
	CodeAlreadyExists,
	"payment",
	"Transaction reference already submitted",
	http.StatusConflict,
)

var ErrUTRRequired = New(
	CodeValidationFailed,
	"payment",
	"UPI payments require a 12 digit transaction reference",
	http.StatusBadRequest,
)

// --- Memberships ---

var ErrMembershipNotFound = New(
	CodeNotFound,
	"membership",
	"Membership not found",
	http.StatusNotFound,
)

// ErrMembershipConflict is returned when the storage layer rejects a second
// current membership for the same user.
var ErrMembershipConflict = New(
	CodeConflict,
	"membership",
	"User already has a current membership being renewed",
	http.StatusConflict,
)

var ErrTooManyRequests = New(
	CodeTooManyRequests,
	"request",
	"Too many requests, slow down",
	http.StatusTooManyRequests,
)
