package api

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatINR renders amount as rupees, e.g. ₹75,000.00
func FormatINR(amount decimal.Decimal) string {
	return formatMoney(amount, money.INR)
}

func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).RoundBank(0).IntPart()
	return money.New(minor, currency).Display()
}
