package common

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// StringToBigInt parses a base-10 integer string into a big.Int.
func StringToBigInt(str string) (*big.Int, error) {
	result, success := big.NewInt(0).SetString(str, 10)
	if !success {
		return nil, fmt.Errorf("couldn't parse \"%s\" as a base 10 integer", str)
	}
	return result, nil
}

// ScaleToBase converts a whole-unit token amount to base units by
// multiplying with 10^decimals. The amount must be a plain integer
// string, fractional inputs like "1.5" are rejected. All arithmetic is
// big.Int so there is no precision loss at any decimal count.
// Example:
// - ScaleToBase("5", 6) = 5000000
// - ScaleToBase("1000000", 18) = 1000000 * 10^18
func ScaleToBase(amount string, decimals uint64) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	result, err := StringToBigInt(amount)
	if err != nil {
		return nil, fmt.Errorf("token amounts must be whole-unit integer strings: %w", err)
	}
	exp := big.NewInt(0).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return result.Mul(result, exp), nil
}

// FormatBase renders a base-unit amount as a human decimal string.
// Display only, never feed the result back into tx arithmetic.
// Example:
// - FormatBase(1100, 3) = "1.1"
// - FormatBase(1100, 2) = "11"
func FormatBase(value *big.Int, decimals int64) string {
	return decimal.NewFromBigInt(value, 0).
		Div(decimal.NewFromInt(10).Pow(decimal.NewFromInt(decimals))).
		String()
}

// GweiToWei converts gwei as a float to wei as a big int
func GweiToWei(n float64) *big.Int {
	return decimal.NewFromFloat(n).Mul(decimal.NewFromInt(1000000000)).BigInt()
}

// BigToFloat converts a big int to a float given a number of decimals.
// Display and gas math only, real token amounts stay in big.Int.
func BigToFloat(b *big.Int, decimals int64) float64 {
	f := new(big.Float).SetInt(b)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(decimals), nil,
	))
	res := new(big.Float).Quo(f, power)
	result, _ := res.Float64()
	return result
}
