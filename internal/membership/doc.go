// Package membership holds the membership lifecycle rules: status
// classification relative to a reference date, selection of the current
// membership from a user's history, and the renewal arithmetic used when a
// payment is approved or an admin renews a member by hand.
//
// Every function is pure. Callers pass "today" explicitly and persist the
// records the functions hand back.
package membership
