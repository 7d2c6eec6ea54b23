package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aldernet/warden/common"
	"github.com/aldernet/warden/util"
)

var (
	contractAddress string
	contractName    string
)

var fetchABICmd = &cobra.Command{
	Use:   "fetch-abi",
	Short: "Download a verified contract's ABI from the block explorer",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		be := util.BlockExplorer(e.Network())
		if be == nil {
			return fmt.Errorf(
				"no block explorer API key configured, set %s",
				e.Network().GetBlockExplorerAPIKeyVariableName(),
			)
		}
		addr, err := e.Resolve(contractAddress)
		if err != nil {
			return err
		}
		abiStr, err := be.GetABIString(addr.Hex())
		if err != nil {
			return err
		}
		if contractName == "" {
			fmt.Println(abiStr)
			return nil
		}
		path := fmt.Sprintf("%s_abi.json", contractName)
		if err = os.WriteFile(path, []byte(abiStr), 0644); err != nil {
			return err
		}
		fmt.Printf("%s\n", common.InfoColor(fmt.Sprintf("ABI saved to %s", path)))
		return nil
	},
}

var fetchSourceCmd = &cobra.Command{
	Use:   "fetch-source",
	Short: "Download a verified contract's source code from the block explorer",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		be := util.BlockExplorer(e.Network())
		if be == nil {
			return fmt.Errorf(
				"no block explorer API key configured, set %s",
				e.Network().GetBlockExplorerAPIKeyVariableName(),
			)
		}
		addr, err := e.Resolve(contractAddress)
		if err != nil {
			return err
		}
		sources, err := be.GetSourceCode(addr.Hex())
		if err != nil {
			return err
		}
		for _, source := range sources {
			name := contractName
			if name == "" {
				name = source.ContractName
			}
			solPath := filepath.Clean(fmt.Sprintf("%s.sol", name))
			if err = os.WriteFile(solPath, []byte(source.SourceCode), 0644); err != nil {
				return err
			}
			abiPath := filepath.Clean(fmt.Sprintf("%s_abi.json", name))
			if err = os.WriteFile(abiPath, []byte(source.ABI), 0644); err != nil {
				return err
			}
			fmt.Printf("%s\n", common.InfoColor(
				fmt.Sprintf("Contract %s saved to %s and %s", source.ContractName, solPath, abiPath),
			))
		}
		return nil
	},
}

func init() {
	fetchABICmd.Flags().StringVar(&contractAddress, "address", "", "contract address or name")
	fetchABICmd.Flags().StringVar(&contractName, "name", "", "file name prefix, print to stdout when empty")
	fetchABICmd.MarkFlagRequired("address")

	fetchSourceCmd.Flags().StringVar(&contractAddress, "address", "", "contract address or name")
	fetchSourceCmd.Flags().StringVar(&contractName, "name", "", "file name prefix, contract's own name when empty")
	fetchSourceCmd.MarkFlagRequired("address")

	rootCmd.AddCommand(fetchABICmd)
	rootCmd.AddCommand(fetchSourceCmd)
}
