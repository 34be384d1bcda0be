package keeper

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/InjectiveLabs/metrics"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// Withdraw moves free collateral from the external exchange back into the
// vault's spot balance and recomputes the vault's default position unit from
// the post-withdrawal balance. The settlement ledger is committed first, since
// an exchange withdrawal settles the pending funding payment as a side effect.
func (k *Keeper) Withdraw(ctx sdk.Context, sender sdk.AccAddress, vaultID common.Hash, amount math.Int) error {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	if !amount.IsPositive() {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrapf(types.ErrInvalidWithdrawalAmount, "got %s", amount)
	}

	if !k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(types.ErrVaultNotInitialized, vaultID.Hex())
	}

	if !k.vaults.IsVaultManager(ctx, vaultID, sender) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrapf(sdkerrors.ErrUnauthorized, "sender %s is not the manager of vault %s", sender, vaultID.Hex())
	}

	if err := k.lockVault(ctx, vaultID); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}
	defer k.unlockVault(ctx, vaultID)

	if _, err := k.SettlePendingFunding(ctx, vaultID); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	if err := k.exchange.WithdrawCollateral(ctx, vaultID, amount); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(err, "collateral withdrawal failed")
	}

	token := k.exchange.CollateralToken(ctx)

	if err := k.updateDefaultPositionUnit(ctx, vaultID, token.Denom); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeWithdrawCollateral,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
		sdk.NewAttribute(types.AttributeKeyDenom, token.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))

	return nil
}

// WithdrawFundingAndAccrueFees withdraws accumulated settled funding from the
// external exchange into the vault's spot balance, pays the performance fee on
// the withdrawn amount, and decrements the settlement ledger by exactly the
// withdrawn portion. Requests above the available balance clamp to it;
// MaxFundingWithdrawal requests the full balance. A zero result (nothing
// available, or zero requested) is a no-op.
func (k *Keeper) WithdrawFundingAndAccrueFees(
	ctx sdk.Context,
	sender sdk.AccAddress,
	vaultID common.Hash,
	amount math.Int,
) (withdrawn, managerFee, protocolFee math.Int, err error) {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	zero := math.ZeroInt()

	if amount.IsNegative() {
		metrics.ReportFuncError(k.svcTags)
		return zero, zero, zero, errors.Wrapf(types.ErrInvalidWithdrawalAmount, "got %s", amount)
	}

	if !k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return zero, zero, zero, errors.Wrap(types.ErrVaultNotInitialized, vaultID.Hex())
	}

	if !k.vaults.IsVaultManager(ctx, vaultID, sender) {
		metrics.ReportFuncError(k.svcTags)
		return zero, zero, zero, errors.Wrapf(sdkerrors.ErrUnauthorized, "sender %s is not the manager of vault %s", sender, vaultID.Hex())
	}

	if err := k.lockVault(ctx, vaultID); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return zero, zero, zero, err
	}
	defer k.unlockVault(ctx, vaultID)

	updated, err := k.SettlePendingFunding(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return zero, zero, zero, err
	}

	token := k.exchange.CollateralToken(ctx)

	available := types.CollateralAmountFloor(updated, token.Decimals)
	if amount.Equal(types.MaxFundingWithdrawal) || amount.GT(available) {
		amount = available
	}

	if !amount.IsPositive() {
		return zero, zero, zero, nil
	}

	if err := k.exchange.WithdrawCollateral(ctx, vaultID, amount); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return zero, zero, zero, errors.Wrap(err, "funding withdrawal failed")
	}

	managerFee, protocolFee, err = k.handleFees(ctx, vaultID, amount)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return zero, zero, zero, err
	}

	if err := k.updateDefaultPositionUnit(ctx, vaultID, token.Denom); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return zero, zero, zero, err
	}

	remaining := types.SaturatingSub(updated, types.PreciseFromCollateralAmount(amount, token.Decimals))
	k.setSettledFunding(ctx, vaultID, remaining)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeWithdrawFunding,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
		sdk.NewAttribute(types.AttributeKeyDenom, token.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeySettledFunding, remaining.String()),
	))

	return amount, managerFee, protocolFee, nil
}
