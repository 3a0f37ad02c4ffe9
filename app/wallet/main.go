// This program provides a wallet for generating keys and sending
// transactions to a node.
package main

import "github.com/Jeston10/JestoGP9Te/app/wallet/cmd"

func main() {
	cmd.Execute()
}
