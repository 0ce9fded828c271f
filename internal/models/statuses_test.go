package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.False(t, PaymentPending.IsTerminal())
	assert.True(t, PaymentApproved.IsTerminal())
	assert.True(t, PaymentRejected.IsTerminal())
}
