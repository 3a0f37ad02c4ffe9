package cmd

import (
	"fmt"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

// addressCmd represents the address command
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print address for the specific wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wallet.Load(getPrivateKeyPath())
		if err != nil {
			return err
		}

		addr, err := w.Address()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), addr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
