package slots

import (
	"github.com/spf13/cobra"
)

// Cmd is the slots command group
var Cmd = &cobra.Command{
	Use:   "slots",
	Short: "Find meeting slots",
	Long:  `Search upcoming days for ranked meeting slot candidates.`,
}

func init() {
	Cmd.AddCommand(suggestCmd)
}
