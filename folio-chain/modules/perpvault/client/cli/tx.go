package cli

import (
	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/FolioLabs/folio-core/folio-chain/modules/perpvault/types"
)

// NewTxCmd returns a root CLI command handler for perpvault transaction commands.
func NewTxCmd() *cobra.Command {
	txCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Perpvault transactions subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	txCmd.AddCommand(
		NewInitializeVaultTxCmd(),
		NewTradeAndTrackTxCmd(),
		NewWithdrawCollateralTxCmd(),
		NewWithdrawFundingTxCmd(),
		NewUpdatePerformanceFeeTxCmd(),
		NewUpdateFeeRecipientTxCmd(),
		NewRemoveVaultTxCmd(),
	)
	return txCmd
}

func NewInitializeVaultTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize-vault [vault-id] [fee-recipient] [max-fee-rate] [fee-rate] [flags]",
		Args:  cobra.ExactArgs(4),
		Short: "Initialize the perpvault module for a vault.",
		Long: `Initialize the perpvault module for a vault.

		Example:
		$ %s tx perpvault initialize-vault 0x4fc3...f4e1 folio1... 0.2 0.1 --from=manager --keyring-backend=file --yes
		`,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			maxRate, err := math.LegacyNewDecFromStr(args[2])
			if err != nil {
				return errors.Wrap(err, "invalid max fee rate")
			}

			rate, err := math.LegacyNewDecFromStr(args[3])
			if err != nil {
				return errors.Wrap(err, "invalid fee rate")
			}

			msg := &types.MsgInitializeVault{
				Sender:                clientCtx.GetFromAddress().String(),
				VaultId:               args[0],
				FeeRecipient:          args[1],
				MaxPerformanceFeeRate: maxRate,
				PerformanceFeeRate:    rate,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func NewTradeAndTrackTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade-and-track [vault-id] [base-quantity] [quote-limit] [flags]",
		Args:  cobra.ExactArgs(3),
		Short: "Trade on the external exchange and record the resulting position unit.",
		Long: `Trade on the external exchange and record the resulting position unit.
A negative base quantity sells.

		Example:
		$ %s tx perpvault trade-and-track 0x4fc3...f4e1 -- -1.5 3000 --from=manager --keyring-backend=file --yes
		`,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			baseQuantity, err := math.LegacyNewDecFromStr(args[1])
			if err != nil {
				return errors.Wrap(err, "invalid base quantity")
			}

			quoteLimit, err := math.LegacyNewDecFromStr(args[2])
			if err != nil {
				return errors.Wrap(err, "invalid quote limit")
			}

			msg := &types.MsgTradeAndTrack{
				Sender:       clientCtx.GetFromAddress().String(),
				VaultId:      args[0],
				BaseQuantity: baseQuantity,
				QuoteLimit:   quoteLimit,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func NewWithdrawCollateralTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-collateral [vault-id] [amount] [flags]",
		Args:  cobra.ExactArgs(2),
		Short: "Withdraw free collateral from the exchange into the vault.",
		Long: `Withdraw free collateral from the exchange into the vault.
The amount is in collateral token base units.

		Example:
		$ %s tx perpvault withdraw-collateral 0x4fc3...f4e1 50000000 --from=manager --keyring-backend=file --yes
		`,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, ok := math.NewIntFromString(args[1])
			if !ok {
				return errors.Errorf("invalid amount: %s", args[1])
			}

			msg := &types.MsgWithdrawCollateral{
				Sender:  clientCtx.GetFromAddress().String(),
				VaultId: args[0],
				Amount:  amount,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func NewWithdrawFundingTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-funding [vault-id] [amount] [flags]",
		Args:  cobra.ExactArgs(2),
		Short: "Withdraw settled funding and accrue performance fees.",
		Long: `Withdraw settled funding and accrue performance fees on the withdrawn
amount. The amount is in collateral token base units; pass "max" to withdraw
the full settled balance.

		Example:
		$ %s tx perpvault withdraw-funding 0x4fc3...f4e1 max --from=manager --keyring-backend=file --yes
		`,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount := types.MaxFundingWithdrawal
			if args[1] != "max" {
				var ok bool
				amount, ok = math.NewIntFromString(args[1])
				if !ok {
					return errors.Errorf("invalid amount: %s", args[1])
				}
			}

			msg := &types.MsgWithdrawFunding{
				Sender:  clientCtx.GetFromAddress().String(),
				VaultId: args[0],
				Amount:  amount,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func NewUpdatePerformanceFeeTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-performance-fee [vault-id] [fee-rate] [flags]",
		Args:  cobra.ExactArgs(2),
		Short: "Change the vault's performance fee rate.",
		Long: `Change the vault's performance fee rate. The settled funding balance
must be withdrawn first.

		Example:
		$ %s tx perpvault update-performance-fee 0x4fc3...f4e1 0.15 --from=manager --keyring-backend=file --yes
		`,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			rate, err := math.LegacyNewDecFromStr(args[1])
			if err != nil {
				return errors.Wrap(err, "invalid fee rate")
			}

			msg := &types.MsgUpdatePerformanceFee{
				Sender:             clientCtx.GetFromAddress().String(),
				VaultId:            args[0],
				PerformanceFeeRate: rate,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func NewUpdateFeeRecipientTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-fee-recipient [vault-id] [fee-recipient] [flags]",
		Args:  cobra.ExactArgs(2),
		Short: "Change the vault's manager fee recipient.",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgUpdateFeeRecipient{
				Sender:       clientCtx.GetFromAddress().String(),
				VaultId:      args[0],
				FeeRecipient: args[1],
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func NewRemoveVaultTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-vault [vault-id] [flags]",
		Args:  cobra.ExactArgs(1),
		Short: "Remove the perpvault module from a vault.",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRemoveVault{
				Sender:  clientCtx.GetFromAddress().String(),
				VaultId: args[0],
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
