package keeper

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// lockVault sets the per-vault call guard. Every value-moving entry point
// takes the lock for the duration of the call; the issuance and redemption
// hooks are exempt because the orchestrator holds its own guard one level up,
// and nesting two guards on the same call stack must fail.
func (k *Keeper) lockVault(ctx sdk.Context, vaultID common.Hash) error {
	store := k.getTransientStore(ctx)
	key := types.GetVaultLockKey(vaultID)

	if store.Has(key) {
		return errors.Wrap(types.ErrVaultLocked, vaultID.Hex())
	}

	store.Set(key, []byte{1})

	return nil
}

// unlockVault releases the per-vault call guard. Callers defer this
// immediately after a successful lockVault so the guard is released on every
// exit path.
func (k *Keeper) unlockVault(ctx sdk.Context, vaultID common.Hash) {
	k.getTransientStore(ctx).Delete(types.GetVaultLockKey(vaultID))
}
