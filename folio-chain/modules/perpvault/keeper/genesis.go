package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// InitGenesis initializes the perpvault module state from a genesis state.
func (k *Keeper) InitGenesis(ctx sdk.Context, data types.GenesisState) {
	k.SetParams(ctx, data.Params)

	for _, fs := range data.FeeStates {
		recipient := sdk.MustAccAddressFromBech32(fs.FeeRecipient)
		k.setFeeState(ctx, common.HexToHash(fs.VaultId), types.NewFeeState(recipient, fs.MaxPerformanceFeeRate, fs.PerformanceFeeRate))
	}

	for _, sf := range data.SettledFunding {
		k.setSettledFunding(ctx, common.HexToHash(sf.VaultId), sf.Amount)
	}
}

// ExportGenesis returns the perpvault module's exported genesis.
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	gs := &types.GenesisState{
		Params:         k.GetParams(ctx),
		FeeStates:      []types.VaultFeeState{},
		SettledFunding: []types.VaultSettledFunding{},
	}

	k.IterateFeeStates(ctx, func(vaultID common.Hash, fs types.FeeState) (stop bool) {
		gs.FeeStates = append(gs.FeeStates, types.VaultFeeState{
			VaultId:               vaultID.Hex(),
			FeeRecipient:          fs.FeeRecipient.String(),
			MaxPerformanceFeeRate: fs.MaxPerformanceFeeRate,
			PerformanceFeeRate:    fs.PerformanceFeeRate,
		})
		return false
	})

	k.IterateSettledFunding(ctx, func(vaultID common.Hash, funding math.LegacyDec) (stop bool) {
		gs.SettledFunding = append(gs.SettledFunding, types.VaultSettledFunding{
			VaultId: vaultID.Hex(),
			Amount:  funding,
		})
		return false
	})

	return gs
}
