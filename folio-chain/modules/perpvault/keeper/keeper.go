package keeper

import (
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/InjectiveLabs/metrics"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// Keeper owns the per-vault fee state and settled-funding ledger, and exposes
// the trading, settlement, withdrawal and issuance/redemption hook surface of
// the perpvault module. The vault token ledger, the external derivatives
// venue and the protocol registry are consumed as capabilities.
type Keeper struct {
	storeKey  storetypes.StoreKey
	tStoreKey storetypes.StoreKey

	vaults   types.VaultKeeper
	exchange types.PerpExchangeKeeper
	registry types.ProtocolRegistryKeeper

	// orchestrator is the only account allowed to invoke the issuance and
	// redemption hooks. The hooks rely on the orchestrator's own call guard
	// instead of taking the vault lock themselves.
	orchestrator string

	svcTags metrics.Tags
}

func NewKeeper(
	storeKey storetypes.StoreKey,
	tStoreKey storetypes.StoreKey,
	vaults types.VaultKeeper,
	exchange types.PerpExchangeKeeper,
	registry types.ProtocolRegistryKeeper,
	orchestrator string,
) *Keeper {
	return &Keeper{
		storeKey:     storeKey,
		tStoreKey:    tStoreKey,
		vaults:       vaults,
		exchange:     exchange,
		registry:     registry,
		orchestrator: orchestrator,
		svcTags: metrics.Tags{
			"svc": "perpvault_k",
		},
	}
}

func (k *Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", types.ModuleName)
}

func (k *Keeper) getStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func (k *Keeper) getTransientStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.TransientStore(k.tStoreKey)
}

type iterCb func(k, v []byte) (stop bool)

// iterateSafe ensures the Iterator is closed even if the work done inside the callback panics.
func iterateSafe(iter storetypes.Iterator, callback iterCb) {
	defer iter.Close()
	for ; iter.Valid(); iter.Next() {
		if callback(iter.Key(), iter.Value()) {
			return
		}
	}
}
