package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		price string
		want  int64
		err   error
	}{
		{price: "10", want: 1000},
		{price: "1", want: 100},
		{price: "19.99", want: 1999},
		{price: "1250.5", want: 125050},
		{price: "0.01", want: 1},
		{price: "10.005", err: ErrFractionalAmount},
		{price: "0", err: ErrNonPositive},
		{price: "-5", err: ErrNonPositive},
		{price: "92233720368547758.07", want: 9223372036854775807},
		{price: "92233720368547758.08", err: ErrAmountTooLarge},
		{price: "100000000000000000000", err: ErrAmountTooLarge},
	}

	for _, tt := range tests {
		got, err := MinorUnits(decimal.RequireFromString(tt.price))
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, tt.price)
			continue
		}
		require.NoError(t, err, tt.price)
		assert.Equal(t, tt.want, got, tt.price)
	}
}

func TestIntentParams(t *testing.T) {
	ctx := context.Background()
	params := intentParams(ctx, IntentRequest{Amount: 1000, Currency: "usd"})

	require.NotNil(t, params.Amount)
	assert.Equal(t, int64(1000), *params.Amount)
	require.NotNil(t, params.Currency)
	assert.Equal(t, "usd", *params.Currency)
	require.Len(t, params.PaymentMethodTypes, 1)
	assert.Equal(t, "card", *params.PaymentMethodTypes[0])
	assert.Equal(t, ctx, params.Context)
}
