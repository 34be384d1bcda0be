package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/keeper"
	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

var (
	testVaultID = common.HexToHash("0x4fc37f9b2e26785eef0a26f5aa1fc1c2c21ab08d464a36b21a16bf0d54d3f4e1")
	otherVault  = common.HexToHash("0x91d63a56b53b45b0af1ef753b0dcbd0a54b8d7b84cb09265c1cfd808c4f4f26a")

	managerAddr      = sdk.AccAddress("perpvault_manager___")
	feeRecipientAddr = sdk.AccAddress("perpvault_fee_rcpt__")
	protocolAddr     = sdk.AccAddress("perpvault_protocol__")
	orchestratorAddr = sdk.AccAddress("perpvault_orchstr___")
	strangerAddr     = sdk.AccAddress("perpvault_stranger__")
)

const testDenom = "peggy0xdac17f958d2ee523a2206206994597c13d831ec7"

type balanceKey struct {
	vaultID common.Hash
	denom   string
}

type transferRecord struct {
	vaultID common.Hash
	denom   string
	to      string
	amount  math.Int
}

// mockVaultKeeper is an in-memory vault-token ledger shared by the keeper and
// the mock exchange.
type mockVaultKeeper struct {
	totalSupply   map[common.Hash]math.Int
	balances      map[balanceKey]math.Int
	defaultUnits  map[balanceKey]math.LegacyDec
	externalUnits map[balanceKey]math.LegacyDec
	hasExternal   map[balanceKey]bool
	pendingModule map[common.Hash]string
	managers      map[common.Hash]string

	transfers   []transferRecord
	transferErr error
}

func newMockVaultKeeper() *mockVaultKeeper {
	return &mockVaultKeeper{
		totalSupply:   map[common.Hash]math.Int{},
		balances:      map[balanceKey]math.Int{},
		defaultUnits:  map[balanceKey]math.LegacyDec{},
		externalUnits: map[balanceKey]math.LegacyDec{},
		hasExternal:   map[balanceKey]bool{},
		pendingModule: map[common.Hash]string{},
		managers:      map[common.Hash]string{},
	}
}

func (m *mockVaultKeeper) TotalSupply(_ sdk.Context, vaultID common.Hash) math.Int {
	if supply, ok := m.totalSupply[vaultID]; ok {
		return supply
	}
	return math.ZeroInt()
}

func (m *mockVaultKeeper) GetBalance(_ sdk.Context, vaultID common.Hash, denom string) math.Int {
	if bal, ok := m.balances[balanceKey{vaultID, denom}]; ok {
		return bal
	}
	return math.ZeroInt()
}

func (m *mockVaultKeeper) HasExternalPosition(_ sdk.Context, vaultID common.Hash, denom string) bool {
	return m.hasExternal[balanceKey{vaultID, denom}]
}

func (m *mockVaultKeeper) GetDefaultPositionUnit(_ sdk.Context, vaultID common.Hash, denom string) math.LegacyDec {
	return m.defaultUnits[balanceKey{vaultID, denom}]
}

func (m *mockVaultKeeper) SetDefaultPositionUnit(_ sdk.Context, vaultID common.Hash, denom string, unit math.LegacyDec) {
	m.defaultUnits[balanceKey{vaultID, denom}] = unit
}

func (m *mockVaultKeeper) GetExternalPositionUnit(_ sdk.Context, vaultID common.Hash, denom string) math.LegacyDec {
	if unit, ok := m.externalUnits[balanceKey{vaultID, denom}]; ok {
		return unit
	}
	return math.LegacyZeroDec()
}

func (m *mockVaultKeeper) SetExternalPositionUnit(_ sdk.Context, vaultID common.Hash, denom, _ string, unit math.LegacyDec) {
	m.externalUnits[balanceKey{vaultID, denom}] = unit
}

func (m *mockVaultKeeper) TransferOut(ctx sdk.Context, vaultID common.Hash, denom string, to sdk.AccAddress, amount math.Int) error {
	if m.transferErr != nil {
		return m.transferErr
	}

	key := balanceKey{vaultID, denom}
	m.balances[key] = m.GetBalance(ctx, vaultID, denom).Sub(amount)
	m.transfers = append(m.transfers, transferRecord{vaultID, denom, to.String(), amount})

	return nil
}

func (m *mockVaultKeeper) IsPendingModule(_ sdk.Context, vaultID common.Hash, module string) bool {
	return m.pendingModule[vaultID] == module
}

func (m *mockVaultKeeper) IsVaultManager(_ sdk.Context, vaultID common.Hash, addr sdk.AccAddress) bool {
	return m.managers[vaultID] == addr.String()
}

// mockExchangeKeeper simulates the derivatives venue. Trades and collateral
// withdrawals clear the pending funding payment, mirroring the real exchange
// where those operations settle funding as a side effect.
type mockExchangeKeeper struct {
	vaults *mockVaultKeeper

	token          types.CollateralToken
	pendingFunding map[common.Hash]math.LegacyDec
	registered     map[common.Hash]bool

	tradeUnit   math.LegacyDec
	previewUnit math.LegacyDec
	tradeCalls  int

	registerErr error
	tradeErr    error
	withdrawErr error
}

func newMockExchangeKeeper(vaults *mockVaultKeeper) *mockExchangeKeeper {
	return &mockExchangeKeeper{
		vaults:         vaults,
		token:          types.CollateralToken{Denom: testDenom, Decimals: 6},
		pendingFunding: map[common.Hash]math.LegacyDec{},
		registered:     map[common.Hash]bool{},
		tradeUnit:      math.LegacyZeroDec(),
		previewUnit:    math.LegacyZeroDec(),
	}
}

func (m *mockExchangeKeeper) CollateralToken(_ sdk.Context) types.CollateralToken {
	return m.token
}

func (m *mockExchangeKeeper) GetPendingFundingPayment(_ sdk.Context, vaultID common.Hash) math.LegacyDec {
	if pending, ok := m.pendingFunding[vaultID]; ok {
		return pending
	}
	return math.LegacyZeroDec()
}

func (m *mockExchangeKeeper) HasVault(_ sdk.Context, vaultID common.Hash) bool {
	return m.registered[vaultID]
}

func (m *mockExchangeKeeper) RegisterVault(_ sdk.Context, vaultID common.Hash) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.registered[vaultID] = true
	return nil
}

func (m *mockExchangeKeeper) DeregisterVault(_ sdk.Context, vaultID common.Hash) {
	delete(m.registered, vaultID)
}

func (m *mockExchangeKeeper) Trade(_ sdk.Context, vaultID common.Hash, _, _ math.LegacyDec) (math.LegacyDec, error) {
	return m.executeTrade(vaultID)
}

func (m *mockExchangeKeeper) TradeOnIssuance(_ sdk.Context, vaultID common.Hash, _ math.Int) (math.LegacyDec, error) {
	return m.executeTrade(vaultID)
}

func (m *mockExchangeKeeper) TradeOnRedemption(_ sdk.Context, vaultID common.Hash, _ math.Int) (math.LegacyDec, error) {
	return m.executeTrade(vaultID)
}

func (m *mockExchangeKeeper) executeTrade(vaultID common.Hash) (math.LegacyDec, error) {
	if m.tradeErr != nil {
		return math.LegacyDec{}, m.tradeErr
	}

	m.tradeCalls++
	// trading settles the pending funding payment
	delete(m.pendingFunding, vaultID)

	return m.tradeUnit, nil
}

func (m *mockExchangeKeeper) ExternalPositionUnit(_ sdk.Context, _ common.Hash, _ math.Int) math.LegacyDec {
	return m.previewUnit
}

func (m *mockExchangeKeeper) WithdrawCollateral(ctx sdk.Context, vaultID common.Hash, amount math.Int) error {
	if m.withdrawErr != nil {
		return m.withdrawErr
	}

	// withdrawing settles the pending funding payment and credits the
	// vault's spot balance
	delete(m.pendingFunding, vaultID)

	key := balanceKey{vaultID, m.token.Denom}
	m.vaults.balances[key] = m.vaults.GetBalance(ctx, vaultID, m.token.Denom).Add(amount)

	return nil
}

type mockRegistryKeeper struct {
	split     math.LegacyDec
	recipient sdk.AccAddress
}

func (m *mockRegistryKeeper) ProtocolFeeSplit(_ sdk.Context, _ string, _ uint64) math.LegacyDec {
	return m.split
}

func (m *mockRegistryKeeper) ProtocolFeeRecipient(_ sdk.Context) sdk.AccAddress {
	return m.recipient
}

type testFixture struct {
	ctx      sdk.Context
	k        *keeper.Keeper
	vaults   *mockVaultKeeper
	exchange *mockExchangeKeeper
	registry *mockRegistryKeeper
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	tStoreKey := storetypes.NewTransientStoreKey(types.TStoreKey)
	ctx := testutil.DefaultContext(storeKey, tStoreKey)

	vaults := newMockVaultKeeper()
	exchange := newMockExchangeKeeper(vaults)
	registry := &mockRegistryKeeper{
		split:     math.LegacyMustNewDecFromStr("0.2"),
		recipient: protocolAddr,
	}

	k := keeper.NewKeeper(storeKey, tStoreKey, vaults, exchange, registry, orchestratorAddr.String())
	k.SetParams(ctx, types.DefaultParams())

	vaults.managers[testVaultID] = managerAddr.String()
	vaults.pendingModule[testVaultID] = types.ModuleName

	return &testFixture{
		ctx:      ctx,
		k:        k,
		vaults:   vaults,
		exchange: exchange,
		registry: registry,
	}
}

func defaultFeeState() types.FeeState {
	return types.NewFeeState(
		feeRecipientAddr,
		math.LegacyMustNewDecFromStr("0.2"),
		math.LegacyMustNewDecFromStr("0.1"),
	)
}

// nextBlock advances the fixture context to the next block height.
func (f *testFixture) nextBlock() {
	f.ctx = f.ctx.WithBlockHeight(f.ctx.BlockHeight() + 1)
}

// initVault runs the full initialization flow for the standard test vault.
func (f *testFixture) initVault(t *testing.T) {
	t.Helper()
	require.NoError(t, f.k.InitializeVault(f.ctx, managerAddr, testVaultID, defaultFeeState()))
}

func dec(t *testing.T, s string) math.LegacyDec {
	t.Helper()
	return math.LegacyMustNewDecFromStr(s)
}
