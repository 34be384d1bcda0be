package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

func TestTradeAndTrackRejectsNonManager(t *testing.T) {
	f := newTestFixture(t)
	f.initVault(t)

	_, err := f.k.TradeAndTrack(f.ctx, strangerAddr, testVaultID, dec(t, "1"), dec(t, "100"))
	require.ErrorIs(t, err, sdkerrors.ErrUnauthorized)
	require.Zero(t, f.exchange.tradeCalls)
}

func TestTradeAndTrackRejectsNegativeQuoteLimit(t *testing.T) {
	f := newTestFixture(t)
	f.initVault(t)

	_, err := f.k.TradeAndTrack(f.ctx, managerAddr, testVaultID, dec(t, "1"), dec(t, "-100"))
	require.ErrorIs(t, err, types.ErrNegativeValue)
	require.Zero(t, f.exchange.tradeCalls)
}

func TestTradeAndTrackRecordsNettedUnit(t *testing.T) {
	f := newTestFixture(t)
	f.setupExternalPosition(t, 100)

	f.exchange.pendingFunding[testVaultID] = dec(t, "-50")
	f.exchange.tradeUnit = dec(t, "2000000")

	unit, err := f.k.TradeAndTrack(f.ctx, managerAddr, testVaultID, dec(t, "1"), dec(t, "100"))
	require.NoError(t, err)

	require.Equal(t, dec(t, "1950000"), unit)
	require.Equal(t, dec(t, "1950000"), f.vaults.GetExternalPositionUnit(f.ctx, testVaultID, testDenom))
	require.Equal(t, dec(t, "50"), f.k.GetSettledFunding(f.ctx, testVaultID))
}

func TestTradeAndTrackZeroLedgerPassthrough(t *testing.T) {
	f := newTestFixture(t)
	f.setupExternalPosition(t, 100)

	f.exchange.tradeUnit = dec(t, "987654")

	unit, err := f.k.TradeAndTrack(f.ctx, managerAddr, testVaultID, dec(t, "1"), dec(t, "100"))
	require.NoError(t, err)
	require.Equal(t, dec(t, "987654"), unit)
}

func TestValidateCollateralization(t *testing.T) {
	f := newTestFixture(t)
	f.initVault(t)

	f.vaults.totalSupply[testVaultID] = math.NewInt(100)
	f.vaults.balances[balanceKey{testVaultID, testDenom}] = math.NewInt(1_000_000)

	// unit implies exactly the balance held
	f.vaults.SetDefaultPositionUnit(f.ctx, testVaultID, testDenom, dec(t, "10000"))
	require.NoError(t, f.k.ValidateCollateralization(f.ctx, testVaultID, testDenom))

	// unit implies more than the balance held
	f.vaults.SetDefaultPositionUnit(f.ctx, testVaultID, testDenom, dec(t, "10001"))
	err := f.k.ValidateCollateralization(f.ctx, testVaultID, testDenom)
	require.ErrorIs(t, err, types.ErrUndercollateralized)
}

func TestValidateCollateralizationSkipsZeroSupply(t *testing.T) {
	f := newTestFixture(t)
	f.initVault(t)

	f.vaults.SetDefaultPositionUnit(f.ctx, testVaultID, testDenom, dec(t, "10000"))
	require.NoError(t, f.k.ValidateCollateralization(f.ctx, testVaultID, testDenom))
}

func TestGetRedemptionAdjustments(t *testing.T) {
	f := newTestFixture(t)
	f.setupExternalPosition(t, 100)

	f.vaults.SetExternalPositionUnit(f.ctx, testVaultID, testDenom, "", dec(t, "1900000"))
	f.exchange.previewUnit = dec(t, "2000000")
	f.exchange.pendingFunding[testVaultID] = dec(t, "-50")

	// net preview is 2_000_000 - 50_000 fee unit; the delta is against the
	// currently recorded unit
	delta, err := f.k.GetRedemptionAdjustments(f.ctx, testVaultID, math.NewInt(10))
	require.NoError(t, err)
	require.Equal(t, dec(t, "50000"), delta)

	// previewing must not commit the ledger
	require.True(t, f.k.GetSettledFunding(f.ctx, testVaultID).IsZero())
}

func TestGetRedemptionAdjustmentsZeroSupply(t *testing.T) {
	f := newTestFixture(t)
	f.initVault(t)
	f.vaults.hasExternal[balanceKey{testVaultID, testDenom}] = true

	delta, err := f.k.GetRedemptionAdjustments(f.ctx, testVaultID, math.NewInt(10))
	require.NoError(t, err)
	require.True(t, delta.IsZero())
}

func TestGetRedemptionAdjustmentsRequiresInitializedVault(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.k.GetRedemptionAdjustments(f.ctx, testVaultID, math.NewInt(10))
	require.ErrorIs(t, err, types.ErrVaultNotInitialized)
}
