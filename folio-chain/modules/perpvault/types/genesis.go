package types

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// VaultFeeState is the genesis representation of a vault's fee settings.
type VaultFeeState struct {
	VaultId               string         `json:"vault_id"`
	FeeRecipient          string         `json:"fee_recipient"`
	MaxPerformanceFeeRate math.LegacyDec `json:"max_performance_fee_rate"`
	PerformanceFeeRate    math.LegacyDec `json:"performance_fee_rate"`
}

// VaultSettledFunding is the genesis representation of a vault's
// settled-funding ledger entry.
type VaultSettledFunding struct {
	VaultId string         `json:"vault_id"`
	Amount  math.LegacyDec `json:"amount"`
}

// GenesisState defines the perpvault module's genesis state.
type GenesisState struct {
	Params         Params                `json:"params"`
	FeeStates      []VaultFeeState       `json:"fee_states"`
	SettledFunding []VaultSettledFunding `json:"settled_funding"`
}

// DefaultGenesis returns the default perpvault genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:         DefaultParams(),
		FeeStates:      []VaultFeeState{},
		SettledFunding: []VaultSettledFunding{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seenVaults := map[string]struct{}{}

	for _, fs := range gs.FeeStates {
		if !IsHexHash(fs.VaultId) {
			return errors.Wrapf(ErrInvalidGenesis, "invalid vault id %s", fs.VaultId)
		}

		if _, ok := seenVaults[fs.VaultId]; ok {
			return errors.Wrapf(ErrInvalidGenesis, "duplicate vault id %s", fs.VaultId)
		}
		seenVaults[fs.VaultId] = struct{}{}

		recipient, err := sdk.AccAddressFromBech32(fs.FeeRecipient)
		if err != nil {
			return errors.Wrapf(ErrInvalidGenesis, "invalid fee recipient for vault %s: %s", fs.VaultId, fs.FeeRecipient)
		}

		if err := NewFeeState(recipient, fs.MaxPerformanceFeeRate, fs.PerformanceFeeRate).Validate(); err != nil {
			return errors.Wrapf(err, "invalid fee state for vault %s", fs.VaultId)
		}
	}

	seenFunding := map[string]struct{}{}

	for _, sf := range gs.SettledFunding {
		if !IsHexHash(sf.VaultId) {
			return errors.Wrapf(ErrInvalidGenesis, "invalid vault id %s", sf.VaultId)
		}

		if _, ok := seenFunding[sf.VaultId]; ok {
			return errors.Wrapf(ErrInvalidGenesis, "duplicate settled funding entry for vault %s", sf.VaultId)
		}
		seenFunding[sf.VaultId] = struct{}{}

		// settled funding belongs to an initialized vault and is never negative
		if _, ok := seenVaults[sf.VaultId]; !ok {
			return errors.Wrapf(ErrInvalidGenesis, "settled funding for uninitialized vault %s", sf.VaultId)
		}

		if _, err := RequireNonNegative(sf.Amount); err != nil {
			return errors.Wrapf(ErrInvalidGenesis, "settled funding for vault %s: %s", sf.VaultId, err)
		}
	}

	return nil
}
