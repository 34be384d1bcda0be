package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

func TestGenesisRoundTrip(t *testing.T) {
	f := newTestFixture(t)

	genesis := types.GenesisState{
		Params: types.NewParams(3),
		FeeStates: []types.VaultFeeState{
			{
				VaultId:               testVaultID.Hex(),
				FeeRecipient:          feeRecipientAddr.String(),
				MaxPerformanceFeeRate: dec(t, "0.2"),
				PerformanceFeeRate:    dec(t, "0.1"),
			},
			{
				VaultId:               otherVault.Hex(),
				FeeRecipient:          strangerAddr.String(),
				MaxPerformanceFeeRate: dec(t, "0.5"),
				PerformanceFeeRate:    dec(t, "0.25"),
			},
		},
		SettledFunding: []types.VaultSettledFunding{
			{VaultId: testVaultID.Hex(), Amount: dec(t, "123.456")},
		},
	}
	require.NoError(t, genesis.Validate())

	f.k.InitGenesis(f.ctx, genesis)

	require.Equal(t, dec(t, "123.456"), f.k.GetSettledFunding(f.ctx, testVaultID))

	fs, err := f.k.GetFeeState(f.ctx, otherVault)
	require.NoError(t, err)
	require.Equal(t, dec(t, "0.25"), fs.PerformanceFeeRate)

	exported := f.k.ExportGenesis(f.ctx)
	require.Equal(t, genesis.Params, exported.Params)
	require.ElementsMatch(t, genesis.FeeStates, exported.FeeStates)
	require.ElementsMatch(t, genesis.SettledFunding, exported.SettledFunding)
}

func TestExportDefaultGenesis(t *testing.T) {
	f := newTestFixture(t)

	exported := f.k.ExportGenesis(f.ctx)
	require.Equal(t, types.DefaultGenesis(), exported)
}
