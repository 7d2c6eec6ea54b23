package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldernet/warden/account"
	"github.com/aldernet/warden/common"
)

var importKeyHex string

var importKeyCmd = &cobra.Command{
	Use:   "import-key",
	Short: "Encrypt a raw private key into the local keystore",
	Long: `Encrypt a raw hex private key into an encrypted keystore file under
~/.warden/keystores. The passphrase is prompted twice on the terminal
and never touches the command line or shell history. Prefer this over
keeping PRIVATE_KEY in the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := account.PromptNewPassphrase()
		if err != nil {
			return err
		}
		path, err := account.ImportPrivateKey(importKeyHex, passphrase)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", common.InfoColor(fmt.Sprintf("Key imported to %s", path)))
		fmt.Printf("Set keystore_path: %s in your config to use it.\n", path)
		return nil
	},
}

var listKeysCmd = &cobra.Command{
	Use:   "list-keys",
	Short: "List the keystore files under ~/.warden/keystores",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := account.ListKeystores()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Printf("No keystores found under %s\n", account.KeystoreDir())
			return nil
		}
		for i, p := range paths {
			fmt.Printf("  %d. %s\n", i+1, p)
		}
		return nil
	},
}

func init() {
	importKeyCmd.Flags().StringVar(&importKeyHex, "private-key", "", "raw private key in hex, without 0x prefix")
	importKeyCmd.MarkFlagRequired("private-key")

	rootCmd.AddCommand(importKeyCmd)
	rootCmd.AddCommand(listKeysCmd)
}
