package order

import (
	"errors"

	"localoffice/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// LineItem is one priced position of an order submission.
type LineItem struct {
	Price    decimal.Decimal
	Quantity int
}

// Totals holds the monetary breakdown of an order. All amounts are
// fixed-point decimals; the total is derived, never stored independently:
//
//	total = subtotal + tip − loyaltyDiscount − referralCredit + paymentFee
type Totals struct {
	Subtotal        decimal.Decimal
	Tip             decimal.Decimal
	LoyaltyDiscount decimal.Decimal
	ReferralCredit  decimal.Decimal
	PaymentFee      decimal.Decimal
	Total           decimal.Decimal
}

// SumLineItems returns Σ price×quantity over the given items.
func SumLineItems(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// NewTotals computes the order totals from their components. Negative
// components are rejected.
func NewTotals(subtotal, tip, loyaltyDiscount, referralCredit, paymentFee decimal.Decimal) (Totals, error) {
	if err := errors.Join(
		validateNonNegative("subtotal", subtotal),
		validateNonNegative("tip", tip),
		validateNonNegative("loyaltyDiscount", loyaltyDiscount),
		validateNonNegative("referralCredit", referralCredit),
		validateNonNegative("paymentFee", paymentFee),
	); err != nil {
		return Totals{}, err
	}

	return Totals{
		Subtotal:        subtotal,
		Tip:             tip,
		LoyaltyDiscount: loyaltyDiscount,
		ReferralCredit:  referralCredit,
		PaymentFee:      paymentFee,
		Total:           subtotal.Add(tip).Sub(loyaltyDiscount).Sub(referralCredit).Add(paymentFee),
	}, nil
}

// WithTip returns a copy of the totals with the tip replaced and the total
// recomputed.
func (t Totals) WithTip(tip decimal.Decimal) (Totals, error) {
	return NewTotals(t.Subtotal, tip, t.LoyaltyDiscount, t.ReferralCredit, t.PaymentFee)
}

func validateNonNegative(name string, value decimal.Decimal) error {
	if value.IsNegative() {
		return errs.NewValueIsInvalidError(name)
	}
	return nil
}
