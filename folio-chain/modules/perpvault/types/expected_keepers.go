package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

// CollateralToken describes the settlement asset of the external exchange.
type CollateralToken struct {
	Denom    string
	Decimals uint32
}

func (c CollateralToken) Validate() error {
	if c.Denom == "" {
		return ErrInvalidCollateralToken
	}

	if c.Decimals > MaxCollateralDecimals {
		return ErrInvalidCollateralToken
	}

	return nil
}

// VaultKeeper is the expected interface of the vault-token ledger. Position
// units are per-share quantities in collateral base units; external position
// units may only be written through the module identity that manages them.
type VaultKeeper interface {
	TotalSupply(ctx sdk.Context, vaultID common.Hash) math.Int
	GetBalance(ctx sdk.Context, vaultID common.Hash, denom string) math.Int

	HasExternalPosition(ctx sdk.Context, vaultID common.Hash, denom string) bool
	GetDefaultPositionUnit(ctx sdk.Context, vaultID common.Hash, denom string) math.LegacyDec
	SetDefaultPositionUnit(ctx sdk.Context, vaultID common.Hash, denom string, unit math.LegacyDec)
	GetExternalPositionUnit(ctx sdk.Context, vaultID common.Hash, denom string) math.LegacyDec
	SetExternalPositionUnit(ctx sdk.Context, vaultID common.Hash, denom, module string, unit math.LegacyDec)

	// TransferOut moves vault holdings to a recipient. The transfer is
	// strict: it fails when the amount received differs from the amount
	// requested.
	TransferOut(ctx sdk.Context, vaultID common.Hash, denom string, to sdk.AccAddress, amount math.Int) error

	IsPendingModule(ctx sdk.Context, vaultID common.Hash, module string) bool
	IsVaultManager(ctx sdk.Context, vaultID common.Hash, addr sdk.AccAddress) bool
}

// PerpExchangeKeeper is the expected interface of the external derivatives
// venue. Trade and withdrawal primitives settle the vault's pending funding
// payment as a side effect, which is why the settlement ledger must be
// committed before any of them runs.
type PerpExchangeKeeper interface {
	CollateralToken(ctx sdk.Context) CollateralToken

	// GetPendingFundingPayment returns the not-yet-settled funding delta in
	// precise units, exchange-convention signed: positive means the vault
	// owes funding.
	GetPendingFundingPayment(ctx sdk.Context, vaultID common.Hash) math.LegacyDec

	HasVault(ctx sdk.Context, vaultID common.Hash) bool
	RegisterVault(ctx sdk.Context, vaultID common.Hash) error
	DeregisterVault(ctx sdk.Context, vaultID common.Hash)

	// Trade executes a manager-initiated position change and returns the
	// resulting raw external position unit for the collateral asset.
	Trade(ctx sdk.Context, vaultID common.Hash, baseQuantity, quoteLimit math.LegacyDec) (math.LegacyDec, error)

	// TradeOnIssuance and TradeOnRedemption resize the external position for
	// a share-supply change and return the resulting raw external position
	// unit for the collateral asset.
	TradeOnIssuance(ctx sdk.Context, vaultID common.Hash, shares math.Int) (math.LegacyDec, error)
	TradeOnRedemption(ctx sdk.Context, vaultID common.Hash, shares math.Int) (math.LegacyDec, error)

	// ExternalPositionUnit previews the raw external position unit if
	// redeemShares were redeemed, without mutating state. Zero shares
	// previews the current position.
	ExternalPositionUnit(ctx sdk.Context, vaultID common.Hash, redeemShares math.Int) math.LegacyDec

	// WithdrawCollateral moves free collateral from the exchange back into
	// the vault's spot balance.
	WithdrawCollateral(ctx sdk.Context, vaultID common.Hash, amount math.Int) error
}

// ProtocolRegistryKeeper is the expected interface of the protocol-wide
// registry consulted for fee splits.
type ProtocolRegistryKeeper interface {
	ProtocolFeeSplit(ctx sdk.Context, module string, feeIndex uint64) math.LegacyDec
	ProtocolFeeRecipient(ctx sdk.Context) sdk.AccAddress
}
