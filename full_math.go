package tickets404

import (
	"errors"
	"math/big"
)

var DIVISION_BY_ZERO = errors.New("DIVISION_BY_ZERO")

// MulDiv computes floor(a*b/denominator) without intermediate truncation.
func MulDiv(a, b, denominator *big.Int) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, DIVISION_BY_ZERO
	}
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, denominator), nil
}

func MulDivRoundingUp(a, b, denominator *big.Int) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, DIVISION_BY_ZERO
	}
	product := new(big.Int).Mul(a, b)
	result, rem := new(big.Int).QuoRem(product, denominator, new(big.Int))
	if rem.Sign() > 0 {
		result.Add(result, big.NewInt(1))
	}
	return result, nil
}
