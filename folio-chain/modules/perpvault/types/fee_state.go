package types

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// FeeState holds a vault's performance fee settings. One record exists per
// initialized vault and is owned exclusively by this module.
type FeeState struct {
	// FeeRecipient receives the manager share of accrued performance fees.
	FeeRecipient sdk.AccAddress
	// MaxPerformanceFeeRate is the ceiling on the fee rate, fixed at
	// initialization.
	MaxPerformanceFeeRate math.LegacyDec
	// PerformanceFeeRate is the current fee rate.
	PerformanceFeeRate math.LegacyDec
}

func NewFeeState(feeRecipient sdk.AccAddress, maxRate, rate math.LegacyDec) FeeState {
	return FeeState{
		FeeRecipient:          feeRecipient,
		MaxPerformanceFeeRate: maxRate,
		PerformanceFeeRate:    rate,
	}
}

// Validate checks the fee settings invariants: a non-empty recipient, a max
// rate of at most one full unit, and a current rate within the max.
func (fs FeeState) Validate() error {
	if fs.FeeRecipient.Empty() {
		return ErrInvalidFeeRecipient
	}

	if fs.MaxPerformanceFeeRate.IsNil() || fs.MaxPerformanceFeeRate.IsNegative() || fs.MaxPerformanceFeeRate.GT(math.LegacyOneDec()) {
		return errors.Wrapf(ErrInvalidMaxFeeRate, "got %s", fs.MaxPerformanceFeeRate)
	}

	if fs.PerformanceFeeRate.IsNil() || fs.PerformanceFeeRate.IsNegative() || fs.PerformanceFeeRate.GT(fs.MaxPerformanceFeeRate) {
		return errors.Wrapf(ErrFeeRateExceedsMax, "rate %s, max %s", fs.PerformanceFeeRate, fs.MaxPerformanceFeeRate)
	}

	return nil
}

// Marshal encodes the fee state as length-prefixed fields.
// Format: [len][recipient][len][maxRate][len][rate] where len is 2 bytes (big-endian uint16)
func (fs FeeState) Marshal() ([]byte, error) {
	maxRateBz, err := fs.MaxPerformanceFeeRate.Marshal()
	if err != nil {
		return nil, err
	}

	rateBz, err := fs.PerformanceFeeRate.Marshal()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 6+len(fs.FeeRecipient)+len(maxRateBz)+len(rateBz))
	buf = appendLengthPrefixed(buf, fs.FeeRecipient.Bytes())
	buf = appendLengthPrefixed(buf, maxRateBz)
	buf = appendLengthPrefixed(buf, rateBz)

	return buf, nil
}

// UnmarshalFeeState decodes a fee state encoded by Marshal.
func UnmarshalFeeState(bz []byte) (FeeState, error) {
	var fs FeeState

	data, bz, err := readLengthPrefixed(bz)
	if err != nil {
		return FeeState{}, err
	}
	fs.FeeRecipient = sdk.AccAddress(data)

	data, bz, err = readLengthPrefixed(bz)
	if err != nil {
		return FeeState{}, err
	}
	if err := fs.MaxPerformanceFeeRate.Unmarshal(data); err != nil {
		return FeeState{}, err
	}

	data, _, err = readLengthPrefixed(bz)
	if err != nil {
		return FeeState{}, err
	}
	if err := fs.PerformanceFeeRate.Unmarshal(data); err != nil {
		return FeeState{}, err
	}

	return fs, nil
}

// appendLengthPrefixed appends data with a 2-byte big-endian length prefix.
func appendLengthPrefixed(buf, data []byte) []byte {
	buf = append(buf, byte(len(data)>>8), byte(len(data)))
	return append(buf, data...)
}

// readLengthPrefixed reads a length-prefixed value and returns the remaining bytes.
func readLengthPrefixed(bz []byte) (data, remaining []byte, err error) {
	if len(bz) < 2 {
		return nil, nil, errors.Wrap(ErrCorruptedRecord, "truncated length prefix")
	}

	length := int(bz[0])<<8 | int(bz[1])
	if len(bz) < 2+length {
		return nil, nil, errors.Wrap(ErrCorruptedRecord, "truncated field")
	}

	return bz[2 : 2+length], bz[2+length:], nil
}
