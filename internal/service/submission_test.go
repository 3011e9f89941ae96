package service_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	svc "codboost/internal/service"
)

func TestOrderSubmission_AcceptsStringNumbers(t *testing.T) {
	raw := []byte(`{
		"product_id": "1",
		"quantity": "2",
		"product_price": "100.50",
		"delivery_fee": "30",
		"total": "231.50",
		"customer_name": "Ahmed Bennani"
	}`)

	var sub svc.OrderSubmission
	require.NoError(t, json.Unmarshal(raw, &sub))

	require.Equal(t, svc.FlexInt(2), sub.Quantity)
	require.Equal(t, svc.FlexFloat(100.50), sub.UnitPrice)
	require.NotNil(t, sub.DeliveryFee)
	require.Equal(t, svc.FlexFloat(30), *sub.DeliveryFee)
}

func TestOrderSubmission_AcceptsPlainNumbers(t *testing.T) {
	raw := []byte(`{"quantity": 3, "product_price": 99.9, "delivery_fee": null}`)

	var sub svc.OrderSubmission
	require.NoError(t, json.Unmarshal(raw, &sub))

	require.Equal(t, svc.FlexInt(3), sub.Quantity)
	require.Equal(t, svc.FlexFloat(99.9), sub.UnitPrice)
	require.Nil(t, sub.DeliveryFee, "an explicit null means no fee was supplied")
}

func TestOrderSubmission_DecimalQuantityString(t *testing.T) {
	var sub svc.OrderSubmission
	require.NoError(t, json.Unmarshal([]byte(`{"quantity": "2.0"}`), &sub))
	require.Equal(t, svc.FlexInt(2), sub.Quantity)
}

func TestOrderSubmission_RejectsGarbageNumbers(t *testing.T) {
	var sub svc.OrderSubmission
	require.Error(t, json.Unmarshal([]byte(`{"product_price": "lots"}`), &sub))
}
