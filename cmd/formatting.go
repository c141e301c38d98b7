package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// formattingCmd manages the per-user formatting instructions that act as the
// LLM system prompt.
var formattingCmd = &cobra.Command{
	Use:   "formatting",
	Short: "Manage the report formatting instructions",
	Long: `Manage the formatting instructions used as the LLM system prompt.

When no custom instructions are stored, reports use the built-in default
prompt. Instructions are a single free-text value per user; setting them
replaces the previous value, and resetting reverts to the default.`,
}

var formattingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active formatting instructions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := newStoreContext()
		if err != nil {
			return err
		}
		defer st.Close()

		custom, err := st.HasCustomFormatting(cfg.User)
		if err != nil {
			return err
		}

		instructions, err := st.GetFormatting(cfg.User)
		if err != nil {
			return err
		}

		if custom {
			fmt.Println("# custom formatting instructions")
		} else {
			fmt.Println("# default formatting instructions")
		}
		fmt.Println(instructions)
		return nil
	},
}

var formattingSetCmd = &cobra.Command{
	Use:   "set [instructions]",
	Short: "Replace the formatting instructions",
	Long: `Replace the formatting instructions.

Pass the instructions as an argument, or use --file to read them from a
file. The new value takes effect on the next report generation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := cmd.Flags().GetString("file")
		if err != nil {
			return err
		}

		var instructions string
		switch {
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read instructions file: %v", err)
			}
			instructions = string(data)
		case len(args) > 0:
			instructions = strings.Join(args, " ")
		default:
			return fmt.Errorf("instructions are required (argument or --file)")
		}

		cfg, st, err := newStoreContext()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveFormatting(cfg.User, instructions); err != nil {
			return err
		}

		fmt.Println("Formatting instructions saved.")
		return nil
	},
}

var formattingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Revert to the default formatting instructions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := newStoreContext()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteFormatting(cfg.User); err != nil {
			return err
		}

		fmt.Println("Formatting instructions reset to default.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formattingCmd)
	formattingCmd.AddCommand(formattingShowCmd)
	formattingCmd.AddCommand(formattingSetCmd)
	formattingCmd.AddCommand(formattingResetCmd)
	formattingSetCmd.Flags().String("file", "", "Read instructions from a file")
}
