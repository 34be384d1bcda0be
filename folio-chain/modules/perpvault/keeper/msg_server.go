package keeper

import (
	"context"

	"github.com/InjectiveLabs/metrics"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

var _ types.MsgServer = msgServer{}

type msgServer struct {
	*Keeper
	svcTags metrics.Tags
}

// NewMsgServerImpl returns an implementation of the perpvault MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return msgServer{
		Keeper: keeper,
		svcTags: metrics.Tags{
			"svc": "perpvault_h",
		},
	}
}

func (k msgServer) InitializeVault(c context.Context, msg *types.MsgInitializeVault) (*types.MsgInitializeVaultResponse, error) {
	c, doneFn := metrics.ReportFuncCallAndTimingCtx(c, k.svcTags)
	defer doneFn()

	ctx := sdk.UnwrapSDKContext(c)

	// Sender and FeeRecipient validity is checked in ValidateBasic.
	sender := sdk.MustAccAddressFromBech32(msg.Sender)
	recipient := sdk.MustAccAddressFromBech32(msg.FeeRecipient)

	fs := types.NewFeeState(recipient, msg.MaxPerformanceFeeRate, msg.PerformanceFeeRate)

	if err := k.Keeper.InitializeVault(ctx, sender, common.HexToHash(msg.VaultId), fs); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return nil, err
	}

	return &types.MsgInitializeVaultResponse{}, nil
}

func (k msgServer) TradeAndTrack(c context.Context, msg *types.MsgTradeAndTrack) (*types.MsgTradeAndTrackResponse, error) {
	c, doneFn := metrics.ReportFuncCallAndTimingCtx(c, k.svcTags)
	defer doneFn()

	ctx := sdk.UnwrapSDKContext(c)
	sender := sdk.MustAccAddressFromBech32(msg.Sender)

	unit, err := k.Keeper.TradeAndTrack(ctx, sender, common.HexToHash(msg.VaultId), msg.BaseQuantity, msg.QuoteLimit)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return nil, err
	}

	return &types.MsgTradeAndTrackResponse{PositionUnit: unit}, nil
}

func (k msgServer) WithdrawCollateral(c context.Context, msg *types.MsgWithdrawCollateral) (*types.MsgWithdrawCollateralResponse, error) {
	c, doneFn := metrics.ReportFuncCallAndTimingCtx(c, k.svcTags)
	defer doneFn()

	ctx := sdk.UnwrapSDKContext(c)
	sender := sdk.MustAccAddressFromBech32(msg.Sender)

	if err := k.Keeper.Withdraw(ctx, sender, common.HexToHash(msg.VaultId), msg.Amount); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return nil, err
	}

	return &types.MsgWithdrawCollateralResponse{}, nil
}

func (k msgServer) WithdrawFunding(c context.Context, msg *types.MsgWithdrawFunding) (*types.MsgWithdrawFundingResponse, error) {
	c, doneFn := metrics.ReportFuncCallAndTimingCtx(c, k.svcTags)
	defer doneFn()

	ctx := sdk.UnwrapSDKContext(c)
	sender := sdk.MustAccAddressFromBech32(msg.Sender)

	withdrawn, managerFee, protocolFee, err := k.Keeper.WithdrawFundingAndAccrueFees(ctx, sender, common.HexToHash(msg.VaultId), msg.Amount)
	if err != nil {
		metrics.ReportFuncError(k.svcTags)
		return nil, err
	}

	return &types.MsgWithdrawFundingResponse{
		Amount:      withdrawn,
		ManagerFee:  managerFee,
		ProtocolFee: protocolFee,
	}, nil
}

func (k msgServer) UpdatePerformanceFee(c context.Context, msg *types.MsgUpdatePerformanceFee) (*types.MsgUpdatePerformanceFeeResponse, error) {
	c, doneFn := metrics.ReportFuncCallAndTimingCtx(c, k.svcTags)
	defer doneFn()

	ctx := sdk.UnwrapSDKContext(c)
	sender := sdk.MustAccAddressFromBech32(msg.Sender)

	if err := k.Keeper.UpdatePerformanceFee(ctx, sender, common.HexToHash(msg.VaultId), msg.PerformanceFeeRate); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return nil, err
	}

	return &types.MsgUpdatePerformanceFeeResponse{}, nil
}

func (k msgServer) UpdateFeeRecipient(c context.Context, msg *types.MsgUpdateFeeRecipient) (*types.MsgUpdateFeeRecipientResponse, error) {
	c, doneFn := metrics.ReportFuncCallAndTimingCtx(c, k.svcTags)
	defer doneFn()

	ctx := sdk.UnwrapSDKContext(c)
	sender := sdk.MustAccAddressFromBech32(msg.Sender)
	recipient := sdk.MustAccAddressFromBech32(msg.FeeRecipient)

	if err := k.Keeper.UpdateFeeRecipient(ctx, sender, common.HexToHash(msg.VaultId), recipient); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return nil, err
	}

	return &types.MsgUpdateFeeRecipientResponse{}, nil
}

func (k msgServer) RemoveVault(c context.Context, msg *types.MsgRemoveVault) (*types.MsgRemoveVaultResponse, error) {
	c, doneFn := metrics.ReportFuncCallAndTimingCtx(c, k.svcTags)
	defer doneFn()

	ctx := sdk.UnwrapSDKContext(c)
	sender := sdk.MustAccAddressFromBech32(msg.Sender)

	if err := k.Keeper.RemoveVault(ctx, sender, common.HexToHash(msg.VaultId)); err != nil {
		metrics.ReportFuncError(k.svcTags)
		return nil, err
	}

	return &types.MsgRemoveVaultResponse{}, nil
}
