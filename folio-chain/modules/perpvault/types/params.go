package types

// DefaultProtocolFeeIndex is the fee index this module passes to the central
// registry when resolving the protocol fee split.
const DefaultProtocolFeeIndex = 0

// Params defines the perpvault module parameters.
type Params struct {
	// ProtocolFeeIndex selects which protocol fee split applies to this
	// module in the central registry.
	ProtocolFeeIndex uint64 `json:"protocol_fee_index"`
}

func NewParams(protocolFeeIndex uint64) Params {
	return Params{
		ProtocolFeeIndex: protocolFeeIndex,
	}
}

// DefaultParams returns the default perpvault module parameters.
func DefaultParams() Params {
	return Params{
		ProtocolFeeIndex: DefaultProtocolFeeIndex,
	}
}

// Validate checks the module parameters.
func (p Params) Validate() error {
	return nil
}
