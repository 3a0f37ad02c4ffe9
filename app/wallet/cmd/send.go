package cmd

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	url    string
	to     string
	amount uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wallet.Load(getPrivateKeyPath())
		if err != nil {
			return err
		}

		resp, err := send(w, url, to, amount)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), resp)
		return nil
	},
}

// send signs a transaction from the wallet's address and submits it to the
// node at url.
func send(w *wallet.Wallet, url string, to string, amount uint64) (string, error) {
	from, err := w.Address()
	if err != nil {
		return "", err
	}

	tx, err := database.NewTx(from, to, amount)
	if err != nil {
		return "", err
	}

	if err := tx.Sign(w); err != nil {
		return "", err
	}

	payload := struct {
		Sender    string `json:"sender"`
		Recipient string `json:"recipient"`
		Amount    uint64 `json:"amount"`
		Signature string `json:"signature"`
	}{
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
		Signature: base64.StdEncoding.EncodeToString(tx.Signature),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("node returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return string(bytes.TrimSpace(body)), nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to send in minor units.")
}
