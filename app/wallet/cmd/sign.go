package cmd

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	message   string
	publicKey string
	sig       string
)

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message with the wallet key",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wallet.Load(getPrivateKeyPath())
		if err != nil {
			return err
		}

		s, err := w.Sign([]byte(message))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(s))
		return nil
	},
}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signature over a message",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			return fmt.Errorf("decoding signature: %w", err)
		}

		ok, err := wallet.Verify(publicKey, []byte(message), s)
		if err != nil {
			return err
		}

		if !ok {
			return errors.New("signature is not valid")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "signature is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringVarP(&message, "message", "m", "", "Message to sign.")

	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&message, "message", "m", "", "Message that was signed.")
	verifyCmd.Flags().StringVarP(&publicKey, "public-key", "k", "", "Public key of the signer.")
	verifyCmd.Flags().StringVarP(&sig, "signature", "s", "", "Signature to verify.")
	verifyCmd.MarkFlagRequired("public-key")
	verifyCmd.MarkFlagRequired("signature")
}
