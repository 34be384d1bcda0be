package keeper

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/InjectiveLabs/metrics"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// checkHookCaller gates the issuance/redemption hooks on the registered
// orchestrator. The hooks do not take the vault lock themselves: the
// orchestrator already holds its guard one level up, and two guards on the
// same call stack would deadlock the call.
func (k *Keeper) checkHookCaller(caller sdk.AccAddress) error {
	if caller.String() != k.orchestrator {
		return errors.Wrap(types.ErrUnauthorizedHookCaller, caller.String())
	}

	return nil
}

// ModuleIssueHook runs once per issuance: commit the settlement ledger,
// resize the external position for the minted shares, net accrued fees out of
// the returned raw unit, and record the result. Settlement happens strictly
// before the trade, since the trade settles the pending payment on the
// exchange and destroys the signal.
func (k *Keeper) ModuleIssueHook(ctx sdk.Context, caller sdk.AccAddress, vaultID common.Hash, shares math.Int) error {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	if err := k.checkHookCaller(caller); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	if !k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(types.ErrVaultNotInitialized, vaultID.Hex())
	}

	token := k.exchange.CollateralToken(ctx)

	if !k.vaults.HasExternalPosition(ctx, vaultID, token.Denom) {
		return nil
	}

	updated, err := k.SettlePendingFunding(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	rawUnit, err := k.exchange.TradeOnIssuance(ctx, vaultID, shares)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(err, "issuance trade failed")
	}

	netUnit, err := k.netFeesFromPositionUnit(ctx, vaultID, rawUnit, updated)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	k.updateExternalPositionUnit(ctx, vaultID, token.Denom, netUnit)

	return nil
}

// ModuleRedeemHook runs once per redemption with the same settle, trade, net,
// commit sequence as issuance. A vault with zero total supply or no external
// position short-circuits: no trade, no unit change, no error.
func (k *Keeper) ModuleRedeemHook(ctx sdk.Context, caller sdk.AccAddress, vaultID common.Hash, shares math.Int) error {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	if err := k.checkHookCaller(caller); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	if !k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(types.ErrVaultNotInitialized, vaultID.Hex())
	}

	token := k.exchange.CollateralToken(ctx)

	if !k.vaults.TotalSupply(ctx, vaultID).IsPositive() || !k.vaults.HasExternalPosition(ctx, vaultID, token.Denom) {
		return nil
	}

	updated, err := k.SettlePendingFunding(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	rawUnit, err := k.exchange.TradeOnRedemption(ctx, vaultID, shares)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(err, "redemption trade failed")
	}

	netUnit, err := k.netFeesFromPositionUnit(ctx, vaultID, rawUnit, updated)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	k.updateExternalPositionUnit(ctx, vaultID, token.Denom, netUnit)

	return nil
}
