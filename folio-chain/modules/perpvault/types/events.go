package types

// perpvault module event types and attribute keys
const (
	EventTypeInitializeVault      = "initialize_vault"
	EventTypeSettleFunding        = "settle_funding"
	EventTypeAccrueFees           = "accrue_fees"
	EventTypeWithdrawFunding      = "withdraw_funding"
	EventTypeWithdrawCollateral   = "withdraw_collateral"
	EventTypeUpdatePositionUnit   = "update_position_unit"
	EventTypeUpdatePerformanceFee = "update_performance_fee"
	EventTypeUpdateFeeRecipient   = "update_fee_recipient"
	EventTypeRemoveVault          = "remove_vault"

	AttributeKeyVaultID            = "vault_id"
	AttributeKeyDenom              = "denom"
	AttributeKeySettledFunding     = "settled_funding"
	AttributeKeyManagerFee         = "manager_fee"
	AttributeKeyProtocolFee        = "protocol_fee"
	AttributeKeyAmount             = "amount"
	AttributeKeyPositionUnit       = "position_unit"
	AttributeKeyFeeRecipient       = "fee_recipient"
	AttributeKeyPerformanceFeeRate = "performance_fee_rate"
)
