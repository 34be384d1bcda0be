package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName is the name of the perpvault module
	ModuleName = "perpvault"

	// StoreKey is the default store key for the perpvault module
	StoreKey = ModuleName

	// TStoreKey is the transient store key for the perpvault module
	TStoreKey = "transient_perpvault"

	// RouterKey is used to route messages
	RouterKey = ModuleName
)

var (
	// ParamsKey is the key for the module parameters
	ParamsKey = []byte{0x01}

	// FeeStatePrefix is the prefix for each vault's fee settings
	FeeStatePrefix = []byte{0x02}

	// SettledFundingPrefix is the prefix for each vault's settled-funding ledger entry
	SettledFundingPrefix = []byte{0x03}

	// TransientVaultLockPrefix is the transient store prefix for per-vault call locks
	TransientVaultLockPrefix = []byte{0x01}

	// TransientSettlementPrefix is the transient store prefix for per-vault settlement commit markers
	TransientSettlementPrefix = []byte{0x02}
)

// GetFeeStateKey returns the store key for a vault's fee state
func GetFeeStateKey(vaultID common.Hash) []byte {
	return append(FeeStatePrefix, vaultID.Bytes()...)
}

// GetSettledFundingKey returns the store key for a vault's settled-funding ledger entry
func GetSettledFundingKey(vaultID common.Hash) []byte {
	return append(SettledFundingPrefix, vaultID.Bytes()...)
}

// GetVaultLockKey returns the transient store key for a vault's call lock
func GetVaultLockKey(vaultID common.Hash) []byte {
	return append(TransientVaultLockPrefix, vaultID.Bytes()...)
}

// GetSettlementMarkerKey returns the transient store key marking a vault's settlement commit
func GetSettlementMarkerKey(vaultID common.Hash) []byte {
	return append(TransientSettlementPrefix, vaultID.Bytes()...)
}
