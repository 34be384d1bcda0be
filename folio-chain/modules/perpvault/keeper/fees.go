package keeper

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	"github.com/InjectiveLabs/metrics"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// GetFeeState returns the vault's fee settings.
func (k *Keeper) GetFeeState(ctx sdk.Context, vaultID common.Hash) (types.FeeState, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetFeeStateKey(vaultID))
	if bz == nil {
		return types.FeeState{}, errors.Wrap(types.ErrVaultNotInitialized, vaultID.Hex())
	}

	return types.UnmarshalFeeState(bz)
}

func (k *Keeper) hasFeeState(ctx sdk.Context, vaultID common.Hash) bool {
	return k.getStore(ctx).Has(types.GetFeeStateKey(vaultID))
}

func (k *Keeper) setFeeState(ctx sdk.Context, vaultID common.Hash, fs types.FeeState) {
	bz, err := fs.Marshal()
	if err != nil {
		panic(err)
	}

	k.getStore(ctx).Set(types.GetFeeStateKey(vaultID), bz)
}

func (k *Keeper) deleteFeeState(ctx sdk.Context, vaultID common.Hash) {
	k.getStore(ctx).Delete(types.GetFeeStateKey(vaultID))
}

// IterateFeeStates iterates over all vault fee states.
func (k *Keeper) IterateFeeStates(ctx sdk.Context, process func(vaultID common.Hash, fs types.FeeState) (stop bool)) {
	feeStore := prefix.NewStore(k.getStore(ctx), types.FeeStatePrefix)

	iterateSafe(feeStore.Iterator(nil, nil), func(key, value []byte) bool {
		fs, err := types.UnmarshalFeeState(value)
		if err != nil {
			panic(err)
		}
		return process(common.BytesToHash(key), fs)
	})
}

// InitializeVault activates this module for a vault. The vault must have
// added the module as pending, the sender must be the vault's manager, and
// the exchange-side registration must not already exist.
func (k *Keeper) InitializeVault(ctx sdk.Context, sender sdk.AccAddress, vaultID common.Hash, fs types.FeeState) error {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	if err := fs.Validate(); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	if k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(types.ErrVaultAlreadyInitialized, vaultID.Hex())
	}

	if !k.vaults.IsVaultManager(ctx, vaultID, sender) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrapf(sdkerrors.ErrUnauthorized, "sender %s is not the manager of vault %s", sender, vaultID.Hex())
	}

	if !k.vaults.IsPendingModule(ctx, vaultID, types.ModuleName) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(types.ErrVaultNotPending, vaultID.Hex())
	}

	if k.exchange.HasVault(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(types.ErrVaultAlreadyInitialized, vaultID.Hex())
	}

	if err := k.exchange.RegisterVault(ctx, vaultID); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(err, "exchange registration failed")
	}

	k.setFeeState(ctx, vaultID, fs)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeInitializeVault,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
		sdk.NewAttribute(types.AttributeKeyFeeRecipient, fs.FeeRecipient.String()),
		sdk.NewAttribute(types.AttributeKeyPerformanceFeeRate, fs.PerformanceFeeRate.String()),
	))

	return nil
}

// UpdatePerformanceFee changes the vault's fee rate. The settled-funding
// ledger must be exactly zero: changing the rate mid-accrual would
// retroactively reprice already-accrued funding. Callers withdraw first.
func (k *Keeper) UpdatePerformanceFee(ctx sdk.Context, sender sdk.AccAddress, vaultID common.Hash, newRate math.LegacyDec) error {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	fs, err := k.GetFeeState(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	if !k.vaults.IsVaultManager(ctx, vaultID, sender) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrapf(sdkerrors.ErrUnauthorized, "sender %s is not the manager of vault %s", sender, vaultID.Hex())
	}

	if newRate.IsNil() || newRate.IsNegative() || newRate.GT(fs.MaxPerformanceFeeRate) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrapf(types.ErrFeeRateExceedsMax, "rate %s, max %s", newRate, fs.MaxPerformanceFeeRate)
	}

	if !k.GetSettledFunding(ctx, vaultID).IsZero() {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(types.ErrNonZeroSettledFunding, vaultID.Hex())
	}

	fs.PerformanceFeeRate = newRate
	k.setFeeState(ctx, vaultID, fs)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpdatePerformanceFee,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
		sdk.NewAttribute(types.AttributeKeyPerformanceFeeRate, newRate.String()),
	))

	return nil
}

// UpdateFeeRecipient changes the vault's manager fee recipient.
func (k *Keeper) UpdateFeeRecipient(ctx sdk.Context, sender sdk.AccAddress, vaultID common.Hash, newRecipient sdk.AccAddress) error {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	fs, err := k.GetFeeState(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return err
	}

	if !k.vaults.IsVaultManager(ctx, vaultID, sender) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrapf(sdkerrors.ErrUnauthorized, "sender %s is not the manager of vault %s", sender, vaultID.Hex())
	}

	if newRecipient.Empty() {
		metrics.ReportFuncError(k.svcTags)
		return types.ErrInvalidFeeRecipient
	}

	fs.FeeRecipient = newRecipient
	k.setFeeState(ctx, vaultID, fs)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpdateFeeRecipient,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
		sdk.NewAttribute(types.AttributeKeyFeeRecipient, newRecipient.String()),
	))

	return nil
}

// RemoveVault removes this module from a vault, deleting its fee state and
// settled-funding ledger unconditionally. No final fee sweep happens here:
// removal may be a response to a fee dispute and must stay safe even while
// fees are owed.
func (k *Keeper) RemoveVault(ctx sdk.Context, sender sdk.AccAddress, vaultID common.Hash) error {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	if !k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrap(types.ErrVaultNotInitialized, vaultID.Hex())
	}

	if !k.vaults.IsVaultManager(ctx, vaultID, sender) {
		metrics.ReportFuncError(k.svcTags)
		return errors.Wrapf(sdkerrors.ErrUnauthorized, "sender %s is not the manager of vault %s", sender, vaultID.Hex())
	}

	k.deleteFeeState(ctx, vaultID)
	k.deleteSettledFunding(ctx, vaultID)
	k.exchange.DeregisterVault(ctx, vaultID)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRemoveVault,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
	))

	return nil
}

// handleFees splits a withdrawn notional amount into manager and protocol
// shares and transfers both out of the vault. The protocol share is floored,
// the manager share is the exact remainder, so the two always sum to the
// total fee. A zero fee rate accrues nothing and transfers nothing.
func (k *Keeper) handleFees(ctx sdk.Context, vaultID common.Hash, notional math.Int) (managerFee, protocolFee math.Int, err error) {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	fs, err := k.GetFeeState(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.Int{}, math.Int{}, err
	}

	if fs.PerformanceFeeRate.IsZero() || !notional.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), nil
	}

	totalFee := fs.PerformanceFeeRate.MulInt(notional).TruncateInt()
	split := k.registry.ProtocolFeeSplit(ctx, types.ModuleName, k.GetParams(ctx).ProtocolFeeIndex)
	protocolFee = split.MulInt(totalFee).TruncateInt()
	managerFee = totalFee.Sub(protocolFee)

	token := k.exchange.CollateralToken(ctx)

	if managerFee.IsPositive() {
		if err := k.vaults.TransferOut(ctx, vaultID, token.Denom, fs.FeeRecipient, managerFee); err != nil {
			metrics.ReportFuncError(k.svcTags)
			return math.Int{}, math.Int{}, errors.Wrap(err, "manager fee transfer failed")
		}
	}

	if protocolFee.IsPositive() {
		if err := k.vaults.TransferOut(ctx, vaultID, token.Denom, k.registry.ProtocolFeeRecipient(ctx), protocolFee); err != nil {
			metrics.ReportFuncError(k.svcTags)
			return math.Int{}, math.Int{}, errors.Wrap(err, "protocol fee transfer failed")
		}
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeAccrueFees,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
		sdk.NewAttribute(types.AttributeKeyManagerFee, managerFee.String()),
		sdk.NewAttribute(types.AttributeKeyProtocolFee, protocolFee.String()),
	))

	return managerFee, protocolFee, nil
}
