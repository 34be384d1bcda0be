package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// GetParams returns the perpvault module parameters.
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	store := k.getStore(ctx)

	bz := store.Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}

	return types.NewParams(sdk.BigEndianToUint64(bz))
}

// SetParams sets the perpvault module parameters.
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	store := k.getStore(ctx)
	store.Set(types.ParamsKey, sdk.Uint64ToBigEndian(params.ProtocolFeeIndex))
}
