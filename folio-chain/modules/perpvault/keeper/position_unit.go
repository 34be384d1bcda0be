package keeper

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/InjectiveLabs/metrics"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// netFeesFromPositionUnit nets accrued, unwithdrawn performance fees out of a
// raw external position unit. The fee unit is rounded up at the collateral
// token's precision so the netted unit never overstates value available to
// redeemers. A net below zero is clamped: the vault never reports a negative
// claimable asset.
func (k *Keeper) netFeesFromPositionUnit(
	ctx sdk.Context,
	vaultID common.Hash,
	rawUnit math.LegacyDec,
	updatedSettledFunding math.LegacyDec,
) (math.LegacyDec, error) {
	if updatedSettledFunding.IsZero() {
		return rawUnit, nil
	}

	fs, err := k.GetFeeState(ctx, vaultID)
	if err != nil {
		return math.LegacyDec{}, err
	}

	token := k.exchange.CollateralToken(ctx)
	totalSupply := k.vaults.TotalSupply(ctx, vaultID)

	feeNotional := updatedSettledFunding.Mul(fs.PerformanceFeeRate)
	performanceFeeUnit := types.CollateralUnitCeil(feeNotional, totalSupply, token.Decimals)

	netUnit := rawUnit.Sub(performanceFeeUnit)
	if netUnit.IsNegative() {
		// the clamped remainder is not reconciled anywhere; it surfaces only
		// in this log line
		k.Logger(ctx).Warn(
			"net position unit clamped to zero",
			"vault_id", vaultID.Hex(),
			"raw_unit", rawUnit.String(),
			"performance_fee_unit", performanceFeeUnit.String(),
		)
	}

	return types.ClampToZero(netUnit), nil
}

// updateExternalPositionUnit writes the netted per-share unit back into the
// vault ledger under this module's identity.
func (k *Keeper) updateExternalPositionUnit(ctx sdk.Context, vaultID common.Hash, denom string, unit math.LegacyDec) {
	k.vaults.SetExternalPositionUnit(ctx, vaultID, denom, types.ModuleName, unit)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpdatePositionUnit,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
		sdk.NewAttribute(types.AttributeKeyDenom, denom),
		sdk.NewAttribute(types.AttributeKeyPositionUnit, unit.String()),
	))
}

// updateDefaultPositionUnit recomputes the vault's default position unit for
// a denom from its actual balance, flooring the per-share quantity, and runs
// the collateralization check on the result.
func (k *Keeper) updateDefaultPositionUnit(ctx sdk.Context, vaultID common.Hash, denom string) error {
	totalSupply := k.vaults.TotalSupply(ctx, vaultID)
	if !totalSupply.IsPositive() {
		return nil
	}

	balance := k.vaults.GetBalance(ctx, vaultID, denom)
	unit := math.LegacyNewDecFromInt(balance).QuoInt(totalSupply)

	k.vaults.SetDefaultPositionUnit(ctx, vaultID, denom, unit)

	return k.ValidateCollateralization(ctx, vaultID, denom)
}

// ValidateCollateralization checks that the vault's actual balance of a denom
// covers the balance implied by its recorded default position unit. It runs
// immediately after every outbound transfer this module performs, so the
// vault can never report itself solvent when it is not.
func (k *Keeper) ValidateCollateralization(ctx sdk.Context, vaultID common.Hash, denom string) error {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	totalSupply := k.vaults.TotalSupply(ctx, vaultID)
	if !totalSupply.IsPositive() {
		return nil
	}

	unit := k.vaults.GetDefaultPositionUnit(ctx, vaultID, denom)
	if unit.IsNil() {
		return nil
	}

	implied := unit.MulInt(totalSupply).TruncateInt()
	balance := k.vaults.GetBalance(ctx, vaultID, denom)

	if balance.LT(implied) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrapf(
			types.ErrUndercollateralized,
			"vault %s holds %s%s, position unit implies %s%s",
			vaultID.Hex(), balance, denom, implied, denom,
		)
	}

	return nil
}

// GetRedemptionAdjustments previews the external-position-unit delta a
// redemption of redeemShares would produce, without mutating state.
func (k *Keeper) GetRedemptionAdjustments(ctx sdk.Context, vaultID common.Hash, redeemShares math.Int) (math.LegacyDec, error) {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	if !k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, errors.Wrap(types.ErrVaultNotInitialized, vaultID.Hex())
	}

	token := k.exchange.CollateralToken(ctx)
	totalSupply := k.vaults.TotalSupply(ctx, vaultID)

	if !totalSupply.IsPositive() || !k.vaults.HasExternalPosition(ctx, vaultID, token.Denom) {
		return math.LegacyZeroDec(), nil
	}

	updated, err := k.GetUpdatedSettledFunding(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, err
	}

	rawUnit := k.exchange.ExternalPositionUnit(ctx, vaultID, redeemShares)

	netUnit, err := k.netFeesFromPositionUnit(ctx, vaultID, rawUnit, updated)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, err
	}

	current := k.vaults.GetExternalPositionUnit(ctx, vaultID, token.Denom)

	return netUnit.Sub(current), nil
}
