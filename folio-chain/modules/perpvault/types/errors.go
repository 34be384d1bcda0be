package types

// DONTCOVER

import (
	"cosmossdk.io/errors"
)

// x/perpvault module sentinel errors
var (
	ErrVaultNotInitialized     = errors.Register(ModuleName, 2, "vault is not initialized for this module")
	ErrVaultAlreadyInitialized = errors.Register(ModuleName, 3, "vault is already initialized for this module")
	ErrVaultNotPending         = errors.Register(ModuleName, 4, "vault has not added this module as pending")
	ErrInvalidFeeRecipient     = errors.Register(ModuleName, 5, "fee recipient must not be empty")
	ErrInvalidMaxFeeRate       = errors.Register(ModuleName, 6, "max performance fee rate exceeds one")
	ErrFeeRateExceedsMax       = errors.Register(ModuleName, 7, "performance fee rate exceeds maximum")
	ErrNonZeroSettledFunding   = errors.Register(ModuleName, 8, "settled funding must be withdrawn before changing the fee rate")
	ErrVaultLocked             = errors.Register(ModuleName, 9, "vault operation already in progress")
	ErrUnauthorizedHookCaller  = errors.Register(ModuleName, 10, "hook caller is not the registered orchestrator")
	ErrInvalidWithdrawalAmount = errors.Register(ModuleName, 11, "withdrawal amount must be positive")
	ErrUndercollateralized     = errors.Register(ModuleName, 12, "vault balance is below the balance implied by its position unit")
	ErrInvalidVaultID          = errors.Register(ModuleName, 13, "vault id must be a 32-byte hex hash")
	ErrInvalidCollateralToken  = errors.Register(ModuleName, 14, "invalid collateral token")
	ErrInvalidGenesis          = errors.Register(ModuleName, 15, "invalid genesis")
	ErrNegativeValue           = errors.Register(ModuleName, 16, "value must not be negative")
	ErrCorruptedRecord         = errors.Register(ModuleName, 17, "corrupted state record")
)
