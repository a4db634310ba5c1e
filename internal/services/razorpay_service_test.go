package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFee(t *testing.T) {
	svc := NewRazorpayService("", "", "", nil, nil, nil, nil)

	assert.Equal(t, 25.0, svc.CalculateFee(1000, 2.5))
	assert.Equal(t, 2.37, svc.CalculateFee(94.6, 2.5))
	assert.Equal(t, 0.0, svc.CalculateFee(0, 2.5))
}

func TestRazorpayOrderIDRejectsMalformedResponse(t *testing.T) {
	id, err := razorpayOrderID(map[string]interface{}{"id": "order_ABC123"})
	require.NoError(t, err)
	assert.Equal(t, "order_ABC123", id)

	_, err = razorpayOrderID(map[string]interface{}{})
	assert.Error(t, err)

	_, err = razorpayOrderID(map[string]interface{}{"id": 42})
	assert.Error(t, err)

	_, err = razorpayOrderID(map[string]interface{}{"id": ""})
	assert.Error(t, err)
}
