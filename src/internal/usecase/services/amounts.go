package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

var accountNumberSpace = big.NewInt(10_000_000_000)

// maxMoney is the largest value a NUMERIC(12,2) balance or amount column holds.
var maxMoney = decimal.RequireFromString("9999999999.99")

func hasMoneyScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(moneyScale))
}

func withinMoneyLimit(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(maxMoney)
}

func generateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpace)
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}
	return fmt.Sprintf("%010d", n.Int64()), nil
}
