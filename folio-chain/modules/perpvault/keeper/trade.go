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

// TradeAndTrack executes a manager-initiated position change on the external
// exchange and records the resulting, fee-netted external position unit. The
// settlement ledger is committed before the trade runs, since trading settles
// the pending funding payment on the exchange side.
func (k *Keeper) TradeAndTrack(
	ctx sdk.Context,
	sender sdk.AccAddress,
	vaultID common.Hash,
	baseQuantity math.LegacyDec,
	quoteLimit math.LegacyDec,
) (math.LegacyDec, error) {
	ctx, doneFn := metrics.ReportFuncCallAndTimingSdkCtx(ctx, k.svcTags)
	defer doneFn()

	if _, err := types.RequireNonNegative(quoteLimit); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, errors.Wrap(err, "quote limit")
	}

	if !k.hasFeeState(ctx, vaultID) {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, errors.Wrap(types.ErrVaultNotInitialized, vaultID.Hex())
	}

	if !k.vaults.IsVaultManager(ctx, vaultID, sender) {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, errors.Wrapf(sdkerrors.ErrUnauthorized, "sender %s is not the manager of vault %s", sender, vaultID.Hex())
	}

	if err := k.lockVault(ctx, vaultID); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, err
	}
	defer k.unlockVault(ctx, vaultID)

	updated, err := k.SettlePendingFunding(ctx, vaultID)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, err
	}

	rawUnit, err := k.exchange.Trade(ctx, vaultID, baseQuantity, quoteLimit)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, errors.Wrap(err, "trade failed")
	}

	netUnit, err := k.netFeesFromPositionUnit(ctx, vaultID, rawUnit, updated)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return math.LegacyDec{}, err
	}

	token := k.exchange.CollateralToken(ctx)
	k.updateExternalPositionUnit(ctx, vaultID, token.Denom, netUnit)

	return netUnit, nil
}
