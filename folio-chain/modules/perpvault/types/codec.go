package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ModuleCdc references the module's legacy amino codec, used for sign bytes.
var ModuleCdc = codec.NewLegacyAmino()

func init() {
	RegisterLegacyAminoCodec(ModuleCdc)
}

// RegisterLegacyAminoCodec registers the perpvault message types on the
// provided amino codec.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgInitializeVault{}, "perpvault/MsgInitializeVault", nil)
	cdc.RegisterConcrete(&MsgTradeAndTrack{}, "perpvault/MsgTradeAndTrack", nil)
	cdc.RegisterConcrete(&MsgWithdrawCollateral{}, "perpvault/MsgWithdrawCollateral", nil)
	cdc.RegisterConcrete(&MsgWithdrawFunding{}, "perpvault/MsgWithdrawFunding", nil)
	cdc.RegisterConcrete(&MsgUpdatePerformanceFee{}, "perpvault/MsgUpdatePerformanceFee", nil)
	cdc.RegisterConcrete(&MsgUpdateFeeRecipient{}, "perpvault/MsgUpdateFeeRecipient", nil)
	cdc.RegisterConcrete(&MsgRemoveVault{}, "perpvault/MsgRemoveVault", nil)
}

// RegisterInterfaces registers the perpvault message implementations on the
// interface registry.
func RegisterInterfaces(registry codectypes.InterfaceRegistry) {
	registry.RegisterImplementations(
		(*sdk.Msg)(nil),
		&MsgInitializeVault{},
		&MsgTradeAndTrack{},
		&MsgWithdrawCollateral{},
		&MsgWithdrawFunding{},
		&MsgUpdatePerformanceFee{},
		&MsgUpdateFeeRecipient{},
		&MsgRemoveVault{},
	)
}
