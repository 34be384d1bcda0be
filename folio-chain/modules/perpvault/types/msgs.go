package types

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
)

// perpvault message types
const (
	TypeMsgInitializeVault      = "initializeVault"
	TypeMsgTradeAndTrack        = "tradeAndTrack"
	TypeMsgWithdrawCollateral   = "withdrawCollateral"
	TypeMsgWithdrawFunding      = "withdrawFunding"
	TypeMsgUpdatePerformanceFee = "updatePerformanceFee"
	TypeMsgUpdateFeeRecipient   = "updateFeeRecipient"
	TypeMsgRemoveVault          = "removeVault"
)

var (
	_ sdk.Msg = &MsgInitializeVault{}
	_ sdk.Msg = &MsgTradeAndTrack{}
	_ sdk.Msg = &MsgWithdrawCollateral{}
	_ sdk.Msg = &MsgWithdrawFunding{}
	_ sdk.Msg = &MsgUpdatePerformanceFee{}
	_ sdk.Msg = &MsgUpdateFeeRecipient{}
	_ sdk.Msg = &MsgRemoveVault{}
)

// MsgServer is the server API for the perpvault Msg service.
type MsgServer interface {
	InitializeVault(context.Context, *MsgInitializeVault) (*MsgInitializeVaultResponse, error)
	TradeAndTrack(context.Context, *MsgTradeAndTrack) (*MsgTradeAndTrackResponse, error)
	WithdrawCollateral(context.Context, *MsgWithdrawCollateral) (*MsgWithdrawCollateralResponse, error)
	WithdrawFunding(context.Context, *MsgWithdrawFunding) (*MsgWithdrawFundingResponse, error)
	UpdatePerformanceFee(context.Context, *MsgUpdatePerformanceFee) (*MsgUpdatePerformanceFeeResponse, error)
	UpdateFeeRecipient(context.Context, *MsgUpdateFeeRecipient) (*MsgUpdateFeeRecipientResponse, error)
	RemoveVault(context.Context, *MsgRemoveVault) (*MsgRemoveVaultResponse, error)
}

// IsHexHash verifies whether a string can represent a valid hex-encoded
// 32-byte hash.
func IsHexHash(s string) bool {
	if !strings.HasPrefix(s, "0x") {
		return false
	}

	if len(s) != 2+2*common.HashLength {
		return false
	}

	_, err := common.ParseHexOrString(s)
	return err == nil
}

func validateVaultID(vaultID string) error {
	if !IsHexHash(vaultID) {
		return errors.Wrap(ErrInvalidVaultID, vaultID)
	}

	return nil
}

func validateSender(sender string) error {
	if sender == "" {
		return errors.Wrap(sdkerrors.ErrInvalidAddress, "empty sender")
	}

	if _, err := sdk.AccAddressFromBech32(sender); err != nil {
		return errors.Wrap(sdkerrors.ErrInvalidAddress, sender)
	}

	return nil
}

// MsgInitializeVault activates this module for a vault with the given fee
// settings.
type MsgInitializeVault struct {
	Sender                string         `json:"sender"`
	VaultId               string         `json:"vault_id"`
	FeeRecipient          string         `json:"fee_recipient"`
	MaxPerformanceFeeRate math.LegacyDec `json:"max_performance_fee_rate"`
	PerformanceFeeRate    math.LegacyDec `json:"performance_fee_rate"`
}

type MsgInitializeVaultResponse struct{}

func (m *MsgInitializeVault) Reset()         { *m = MsgInitializeVault{} }
func (m *MsgInitializeVault) String() string { return fmt.Sprintf("%v", *m) }
func (*MsgInitializeVault) ProtoMessage()    {}

// Route implements the sdk.Msg interface. It should return the name of the module
func (m MsgInitializeVault) Route() string { return RouterKey }

// Type implements the sdk.Msg interface. It should return the action.
func (m MsgInitializeVault) Type() string { return TypeMsgInitializeVault }

// ValidateBasic implements the sdk.Msg interface. It runs stateless checks on the message
func (m MsgInitializeVault) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}

	if err := validateVaultID(m.VaultId); err != nil {
		return err
	}

	recipient, err := sdk.AccAddressFromBech32(m.FeeRecipient)
	if err != nil {
		return errors.Wrap(ErrInvalidFeeRecipient, m.FeeRecipient)
	}

	return NewFeeState(recipient, m.MaxPerformanceFeeRate, m.PerformanceFeeRate).Validate()
}

// GetSignBytes implements the sdk.Msg interface. It encodes the message for signing
func (m *MsgInitializeVault) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(m))
}

// GetSigners implements the sdk.Msg interface. It defines whose signature is required
func (m MsgInitializeVault) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(m.Sender)}
}

// MsgTradeAndTrack executes a manager trade on the external exchange after
// committing the settled-funding ledger.
type MsgTradeAndTrack struct {
	Sender       string         `json:"sender"`
	VaultId      string         `json:"vault_id"`
	BaseQuantity math.LegacyDec `json:"base_quantity"`
	QuoteLimit   math.LegacyDec `json:"quote_limit"`
}

type MsgTradeAndTrackResponse struct {
	PositionUnit math.LegacyDec `json:"position_unit"`
}

func (m *MsgTradeAndTrack) Reset()         { *m = MsgTradeAndTrack{} }
func (m *MsgTradeAndTrack) String() string { return fmt.Sprintf("%v", *m) }
func (*MsgTradeAndTrack) ProtoMessage()    {}

func (m MsgTradeAndTrack) Route() string { return RouterKey }

func (m MsgTradeAndTrack) Type() string { return TypeMsgTradeAndTrack }

func (m MsgTradeAndTrack) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}

	if err := validateVaultID(m.VaultId); err != nil {
		return err
	}

	if m.BaseQuantity.IsNil() || m.BaseQuantity.IsZero() {
		return errors.Wrap(sdkerrors.ErrInvalidRequest, "base quantity must not be zero")
	}

	if m.QuoteLimit.IsNil() || m.QuoteLimit.IsNegative() {
		return errors.Wrap(sdkerrors.ErrInvalidRequest, "quote limit must not be negative")
	}

	return nil
}

func (m *MsgTradeAndTrack) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(m))
}

func (m MsgTradeAndTrack) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(m.Sender)}
}

// MsgWithdrawCollateral moves free collateral from the exchange back into the
// vault's spot balance.
type MsgWithdrawCollateral struct {
	Sender  string   `json:"sender"`
	VaultId string   `json:"vault_id"`
	Amount  math.Int `json:"amount"`
}

type MsgWithdrawCollateralResponse struct{}

func (m *MsgWithdrawCollateral) Reset()         { *m = MsgWithdrawCollateral{} }
func (m *MsgWithdrawCollateral) String() string { return fmt.Sprintf("%v", *m) }
func (*MsgWithdrawCollateral) ProtoMessage()    {}

func (m MsgWithdrawCollateral) Route() string { return RouterKey }

func (m MsgWithdrawCollateral) Type() string { return TypeMsgWithdrawCollateral }

func (m MsgWithdrawCollateral) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}

	if err := validateVaultID(m.VaultId); err != nil {
		return err
	}

	if m.Amount.IsNil() || !m.Amount.IsPositive() {
		return ErrInvalidWithdrawalAmount
	}

	return nil
}

func (m *MsgWithdrawCollateral) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(m))
}

func (m MsgWithdrawCollateral) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(m.Sender)}
}

// MsgWithdrawFunding withdraws settled funding and accrues performance fees
// on the withdrawn amount. Amounts above the available balance are clamped,
// so MaxFundingWithdrawal withdraws everything.
type MsgWithdrawFunding struct {
	Sender  string   `json:"sender"`
	VaultId string   `json:"vault_id"`
	Amount  math.Int `json:"amount"`
}

type MsgWithdrawFundingResponse struct {
	Amount      math.Int `json:"amount"`
	ManagerFee  math.Int `json:"manager_fee"`
	ProtocolFee math.Int `json:"protocol_fee"`
}

func (m *MsgWithdrawFunding) Reset()         { *m = MsgWithdrawFunding{} }
func (m *MsgWithdrawFunding) String() string { return fmt.Sprintf("%v", *m) }
func (*MsgWithdrawFunding) ProtoMessage()    {}

func (m MsgWithdrawFunding) Route() string { return RouterKey }

func (m MsgWithdrawFunding) Type() string { return TypeMsgWithdrawFunding }

func (m MsgWithdrawFunding) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}

	if err := validateVaultID(m.VaultId); err != nil {
		return err
	}

	if m.Amount.IsNil() || m.Amount.IsNegative() {
		return errors.Wrap(sdkerrors.ErrInvalidRequest, "amount must not be negative")
	}

	return nil
}

func (m *MsgWithdrawFunding) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(m))
}

func (m MsgWithdrawFunding) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(m.Sender)}
}

// MsgUpdatePerformanceFee changes the vault's performance fee rate. The
// vault's settled funding must be fully withdrawn first.
type MsgUpdatePerformanceFee struct {
	Sender             string         `json:"sender"`
	VaultId            string         `json:"vault_id"`
	PerformanceFeeRate math.LegacyDec `json:"performance_fee_rate"`
}

type MsgUpdatePerformanceFeeResponse struct{}

func (m *MsgUpdatePerformanceFee) Reset()         { *m = MsgUpdatePerformanceFee{} }
func (m *MsgUpdatePerformanceFee) String() string { return fmt.Sprintf("%v", *m) }
func (*MsgUpdatePerformanceFee) ProtoMessage()    {}

func (m MsgUpdatePerformanceFee) Route() string { return RouterKey }

func (m MsgUpdatePerformanceFee) Type() string { return TypeMsgUpdatePerformanceFee }

func (m MsgUpdatePerformanceFee) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}

	if err := validateVaultID(m.VaultId); err != nil {
		return err
	}

	if m.PerformanceFeeRate.IsNil() || m.PerformanceFeeRate.IsNegative() || m.PerformanceFeeRate.GT(math.LegacyOneDec()) {
		return errors.Wrapf(ErrFeeRateExceedsMax, "got %s", m.PerformanceFeeRate)
	}

	return nil
}

func (m *MsgUpdatePerformanceFee) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(m))
}

func (m MsgUpdatePerformanceFee) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(m.Sender)}
}

// MsgUpdateFeeRecipient changes the vault's manager fee recipient.
type MsgUpdateFeeRecipient struct {
	Sender       string `json:"sender"`
	VaultId      string `json:"vault_id"`
	FeeRecipient string `json:"fee_recipient"`
}

type MsgUpdateFeeRecipientResponse struct{}

func (m *MsgUpdateFeeRecipient) Reset()         { *m = MsgUpdateFeeRecipient{} }
func (m *MsgUpdateFeeRecipient) String() string { return fmt.Sprintf("%v", *m) }
func (*MsgUpdateFeeRecipient) ProtoMessage()    {}

func (m MsgUpdateFeeRecipient) Route() string { return RouterKey }

func (m MsgUpdateFeeRecipient) Type() string { return TypeMsgUpdateFeeRecipient }

func (m MsgUpdateFeeRecipient) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}

	if err := validateVaultID(m.VaultId); err != nil {
		return err
	}

	if _, err := sdk.AccAddressFromBech32(m.FeeRecipient); err != nil {
		return errors.Wrap(ErrInvalidFeeRecipient, m.FeeRecipient)
	}

	return nil
}

func (m *MsgUpdateFeeRecipient) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(m))
}

func (m MsgUpdateFeeRecipient) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(m.Sender)}
}

// MsgRemoveVault removes this module from a vault. Fee state and any settled
// funding are deleted unconditionally; no final fee sweep occurs, so removal
// stays safe while fees are disputed.
type MsgRemoveVault struct {
	Sender  string `json:"sender"`
	VaultId string `json:"vault_id"`
}

type MsgRemoveVaultResponse struct{}

func (m *MsgRemoveVault) Reset()         { *m = MsgRemoveVault{} }
func (m *MsgRemoveVault) String() string { return fmt.Sprintf("%v", *m) }
func (*MsgRemoveVault) ProtoMessage()    {}

func (m MsgRemoveVault) Route() string { return RouterKey }

func (m MsgRemoveVault) Type() string { return TypeMsgRemoveVault }

func (m MsgRemoveVault) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}

	return validateVaultID(m.VaultId)
}

func (m *MsgRemoveVault) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(m))
}

func (m MsgRemoveVault) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(m.Sender)}
}
