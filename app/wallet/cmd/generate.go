package cmd

import (
	"fmt"
	"os"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(walletPath, 0755); err != nil {
			return err
		}

		w := wallet.New()
		if err := w.GenerateKeyPair(); err != nil {
			return err
		}

		path := getPrivateKeyPath()
		if err := w.Save(path); err != nil {
			return err
		}

		addr, err := w.Address()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "key saved to %s\naddress: %s\n", path, addr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
