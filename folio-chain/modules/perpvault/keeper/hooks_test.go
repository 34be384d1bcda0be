package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

func (f *testFixture) setupExternalPosition(t *testing.T, supply int64) {
	t.Helper()
	f.initVault(t)
	f.vaults.totalSupply[testVaultID] = math.NewInt(supply)
	f.vaults.hasExternal[balanceKey{testVaultID, testDenom}] = true
}

func TestHooksRejectNonOrchestratorCaller(t *testing.T) {
	f := newTestFixture(t)
	f.setupExternalPosition(t, 100)

	err := f.k.ModuleIssueHook(f.ctx, managerAddr, testVaultID, math.NewInt(10))
	require.ErrorIs(t, err, types.ErrUnauthorizedHookCaller)

	err = f.k.ModuleRedeemHook(f.ctx, managerAddr, testVaultID, math.NewInt(10))
	require.ErrorIs(t, err, types.ErrUnauthorizedHookCaller)

	require.Zero(t, f.exchange.tradeCalls)
}

func TestHooksRequireInitializedVault(t *testing.T) {
	f := newTestFixture(t)

	err := f.k.ModuleIssueHook(f.ctx, orchestratorAddr, testVaultID, math.NewInt(10))
	require.ErrorIs(t, err, types.ErrVaultNotInitialized)

	err = f.k.ModuleRedeemHook(f.ctx, orchestratorAddr, testVaultID, math.NewInt(10))
	require.ErrorIs(t, err, types.ErrVaultNotInitialized)
}

func TestIssueHookShortCircuitsWithoutExternalPosition(t *testing.T) {
	f := newTestFixture(t)
	f.initVault(t)
	f.vaults.totalSupply[testVaultID] = math.NewInt(100)

	require.NoError(t, f.k.ModuleIssueHook(f.ctx, orchestratorAddr, testVaultID, math.NewInt(10)))
	require.Zero(t, f.exchange.tradeCalls)
}

func TestRedeemHookShortCircuitsOnZeroSupply(t *testing.T) {
	f := newTestFixture(t)
	f.initVault(t)
	f.vaults.hasExternal[balanceKey{testVaultID, testDenom}] = true

	require.NoError(t, f.k.ModuleRedeemHook(f.ctx, orchestratorAddr, testVaultID, math.NewInt(10)))
	require.Zero(t, f.exchange.tradeCalls)

	// the external unit was left untouched
	require.True(t, f.vaults.GetExternalPositionUnit(f.ctx, testVaultID, testDenom).IsZero())
}

func TestIssueHookSettlesBeforeTrading(t *testing.T) {
	f := newTestFixture(t)
	f.setupExternalPosition(t, 100)

	// the mock clears the pending payment when the trade executes; the
	// credit survives only if the hook committed the ledger first
	f.exchange.pendingFunding[testVaultID] = dec(t, "-50")
	f.exchange.tradeUnit = dec(t, "2000000")

	require.NoError(t, f.k.ModuleIssueHook(f.ctx, orchestratorAddr, testVaultID, math.NewInt(10)))

	require.Equal(t, 1, f.exchange.tradeCalls)
	require.Equal(t, dec(t, "50"), f.k.GetSettledFunding(f.ctx, testVaultID))
}

func TestIssueHookNetsFeesFromPositionUnit(t *testing.T) {
	f := newTestFixture(t)
	f.setupExternalPosition(t, 100)

	// settled funding 50 at rate 0.1 is a 5 fee notional; at 6 decimals and
	// 100 shares that is 50_000 base units per share, rounded up
	f.exchange.pendingFunding[testVaultID] = dec(t, "-50")
	f.exchange.tradeUnit = dec(t, "2000000")

	require.NoError(t, f.k.ModuleIssueHook(f.ctx, orchestratorAddr, testVaultID, math.NewInt(10)))

	require.Equal(t, dec(t, "1950000"), f.vaults.GetExternalPositionUnit(f.ctx, testVaultID, testDenom))
}

func TestRedeemHookPassesRawUnitThroughWithZeroLedger(t *testing.T) {
	f := newTestFixture(t)
	f.setupExternalPosition(t, 100)

	f.exchange.tradeUnit = dec(t, "1234567")

	require.NoError(t, f.k.ModuleRedeemHook(f.ctx, orchestratorAddr, testVaultID, math.NewInt(10)))

	require.Equal(t, 1, f.exchange.tradeCalls)
	require.Equal(t, dec(t, "1234567"), f.vaults.GetExternalPositionUnit(f.ctx, testVaultID, testDenom))
}

func TestRedeemHookClampsNegativeNetUnit(t *testing.T) {
	f := newTestFixture(t)
	f.setupExternalPosition(t, 100)

	// fee unit 50_000 exceeds the raw unit, so the net clamps to zero
	f.exchange.pendingFunding[testVaultID] = dec(t, "-50")
	f.exchange.tradeUnit = dec(t, "10000")

	require.NoError(t, f.k.ModuleRedeemHook(f.ctx, orchestratorAddr, testVaultID, math.NewInt(10)))

	require.True(t, f.vaults.GetExternalPositionUnit(f.ctx, testVaultID, testDenom).IsZero())
}
