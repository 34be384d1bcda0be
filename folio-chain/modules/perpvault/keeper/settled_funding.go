package keeper

import (
	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	"github.com/InjectiveLabs/metrics"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// GetSettledFunding returns the vault's settled-funding ledger value in
// precise units. Vaults without an entry have a zero ledger.
func (k *Keeper) GetSettledFunding(ctx sdk.Context, vaultID common.Hash) math.LegacyDec {
	store := k.getStore(ctx)

	bz := store.Get(types.GetSettledFundingKey(vaultID))
	if bz == nil {
		return math.LegacyZeroDec()
	}

	var funding math.LegacyDec
	if err := funding.Unmarshal(bz); err != nil {
		panic(err)
	}

	return funding
}

func (k *Keeper) setSettledFunding(ctx sdk.Context, vaultID common.Hash, funding math.LegacyDec) {
	store := k.getStore(ctx)
	key := types.GetSettledFundingKey(vaultID)

	// prune from store when the ledger is empty
	if funding.IsZero() {
		store.Delete(key)
		return
	}

	bz, err := funding.Marshal()
	if err != nil {
		panic(err)
	}

	store.Set(key, bz)
}

func (k *Keeper) deleteSettledFunding(ctx sdk.Context, vaultID common.Hash) {
	k.getStore(ctx).Delete(types.GetSettledFundingKey(vaultID))
}

// IterateSettledFunding iterates over all settled-funding ledger entries.
func (k *Keeper) IterateSettledFunding(ctx sdk.Context, process func(vaultID common.Hash, funding math.LegacyDec) (stop bool)) {
	fundingStore := prefix.NewStore(k.getStore(ctx), types.SettledFundingPrefix)

	iterateSafe(fundingStore.Iterator(nil, nil), func(key, value []byte) bool {
		var funding math.LegacyDec
		if err := funding.Unmarshal(value); err != nil {
			panic(err)
		}
		return process(common.BytesToHash(key), funding)
	})
}

// hasSettledAtHeight reports whether the vault's pending funding payment was
// already folded into the ledger at the current block height. The exchange
// keeps reporting the payment until it settles venue-side, so a pending
// value folds into the ledger at most once per block.
func (k *Keeper) hasSettledAtHeight(ctx sdk.Context, vaultID common.Hash) bool {
	bz := k.getTransientStore(ctx).Get(types.GetSettlementMarkerKey(vaultID))
	return bz != nil && sdk.BigEndianToUint64(bz) == uint64(ctx.BlockHeight())
}

func (k *Keeper) markSettledAtHeight(ctx sdk.Context, vaultID common.Hash) {
	k.getTransientStore(ctx).Set(types.GetSettlementMarkerKey(vaultID), sdk.Uint64ToBigEndian(uint64(ctx.BlockHeight())))
}

// GetUpdatedSettledFunding previews the ledger value after folding in the
// exchange's pending funding payment, without mutating state. The exchange
// reports the pending amount with positive meaning the vault owes funding, so
// the value is negated before accumulation. Debts larger than the ledger
// floor the result at zero: the ledger tracks unwithdrawn credit, not vault
// insolvency. Once a commit has folded the pending payment in this block,
// the preview returns the stored ledger value unchanged.
func (k *Keeper) GetUpdatedSettledFunding(ctx sdk.Context, vaultID common.Hash) (math.LegacyDec, error) {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	if !k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, types.ErrVaultNotInitialized
	}

	if k.hasSettledAtHeight(ctx, vaultID) {
		return k.GetSettledFunding(ctx, vaultID), nil
	}

	settled := k.GetSettledFunding(ctx, vaultID)
	owed := k.exchange.GetPendingFundingPayment(ctx, vaultID).Neg()

	if owed.IsNegative() {
		return types.SaturatingSub(settled, owed.Abs()), nil
	}

	return settled.Add(owed), nil
}

// SettlePendingFunding commits the updated ledger value. This MUST run before
// any trade or collateral withdrawal: those settle the pending payment on the
// exchange as a side effect, after which the pending-payment signal is gone
// and the credit would be unrecoverable. The commit is idempotent within a
// block: a second call returns the stored ledger value without folding the
// still-reported pending payment a second time.
func (k *Keeper) SettlePendingFunding(ctx sdk.Context, vaultID common.Hash) (math.LegacyDec, error) {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	updated, err := k.GetUpdatedSettledFunding(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, err
	}

	k.setSettledFunding(ctx, vaultID, updated)
	k.markSettledAtHeight(ctx, vaultID)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSettleFunding,
		sdk.NewAttribute(types.AttributeKeyVaultID, vaultID.Hex()),
		sdk.NewAttribute(types.AttributeKeySettledFunding, updated.String()),
	))

	return updated, nil
}
