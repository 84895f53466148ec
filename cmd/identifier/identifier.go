package identifier

import (
	"fmt"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identifier <n|user>...",
		Short: "Command to print the hex encoding of participant identifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCommand,
	}

	return cmd
}

func runCommand(c *cobra.Command, args []string) error {
	rows := make([]string, 0, len(args))
	for _, arg := range args {
		id, err := Parse(arg)
		if err != nil {
			return err
		}
		rows = append(rows, fmt.Sprintf("%s|%s", arg, id))
	}
	fmt.Fprintln(c.OutOrStdout(), FormatKV(rows))
	return nil
}

// Parse accepts a participant index, a 64 character hex identifier or "user".
func Parse(arg string) (frost.Identifier, error) {
	if arg == "user" {
		return frost.UserIdentifier, nil
	}
	return frost.ParseIdentifier(arg)
}

func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = ""
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}
