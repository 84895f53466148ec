package root

import (
	"github.com/arcana-network/frostsigner/cmd/identifier"
	"github.com/arcana-network/frostsigner/cmd/start"
	"github.com/arcana-network/frostsigner/cmd/version"
	"github.com/spf13/cobra"
)

func GetRootCmd() *cobra.Command {

	var rootCmd = &cobra.Command{
		Use:   "frostsigner",
		Short: "FROST threshold Schnorr signing node",
	}
	rootCmd.AddCommand(start.GetCommand())
	rootCmd.AddCommand(identifier.GetCommand())
	rootCmd.AddCommand(version.GetCommand())
	return rootCmd
}
