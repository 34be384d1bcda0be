package types

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// MaxCollateralDecimals bounds the decimal precision of any supported
// collateral token. Precise values carry 18 decimals, so a token above that
// cannot be represented without loss.
const MaxCollateralDecimals = 18

// MaxFundingWithdrawal is the conventional sentinel for withdrawing the full
// settled-funding balance. Any requested amount at or above the available
// balance is clamped, so callers pass this to mean "all".
var MaxFundingWithdrawal = math.NewIntFromUint64(^uint64(0))

// decimalsScaleFactor returns 10^decimals as an Int.
func decimalsScaleFactor(decimals uint32) math.Int {
	return math.NewIntWithDecimal(1, int(decimals))
}

// CollateralAmountFloor converts a precise (18-decimal) value into collateral
// token base units, truncating any fraction below the token's precision. Used
// when converting a credit about to be paid out, so the payout never exceeds
// what the ledger recognizes.
func CollateralAmountFloor(precise math.LegacyDec, decimals uint32) math.Int {
	return precise.MulInt(decimalsScaleFactor(decimals)).TruncateInt()
}

// PreciseFromCollateralAmount converts collateral token base units into a
// precise (18-decimal) value. The conversion is exact for any supported
// collateral precision.
func PreciseFromCollateralAmount(amount math.Int, decimals uint32) math.LegacyDec {
	return math.LegacyNewDecFromIntWithPrec(amount, int64(decimals))
}

// CollateralUnitCeil computes a per-share quantity in collateral base units
// from a precise total, rounding up to a whole base unit per share. A zero or
// negative supply yields zero.
func CollateralUnitCeil(precise math.LegacyDec, totalSupply math.Int, decimals uint32) math.LegacyDec {
	if !totalSupply.IsPositive() {
		return math.LegacyZeroDec()
	}

	baseUnits := precise.MulInt(decimalsScaleFactor(decimals))
	return baseUnits.QuoInt(totalSupply).Ceil()
}

// SaturatingSub returns a - b floored at zero. The two documented uses are
// the settled-funding ledger (funding debts never drive the ledger negative)
// and the ledger decrement on withdrawal.
func SaturatingSub(a, b math.LegacyDec) math.LegacyDec {
	if b.GTE(a) {
		return math.LegacyZeroDec()
	}

	return a.Sub(b)
}

// ClampToZero returns d, or zero when d is negative.
func ClampToZero(d math.LegacyDec) math.LegacyDec {
	if d.IsNegative() {
		return math.LegacyZeroDec()
	}

	return d
}

// RequireNonNegative rejects negative or nil values where only an unsigned
// quantity is meaningful.
func RequireNonNegative(d math.LegacyDec) (math.LegacyDec, error) {
	if d.IsNil() {
		return math.LegacyDec{}, errors.Wrap(ErrNegativeValue, "value is nil")
	}

	if d.IsNegative() {
		return math.LegacyDec{}, errors.Wrapf(ErrNegativeValue, "got %s", d.String())
	}

	return d, nil
}
