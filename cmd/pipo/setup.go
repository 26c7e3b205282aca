package main

import (
	"fmt"
	"github.com/MagicOwO/pipo-agent/internal/setup"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create .env and prepare the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		perplexity, _ := cmd.Flags().GetBool("perplexity")

		status, err := setup.Run(dir, setup.Options{Perplexity: perplexity})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch status {
		case setup.StatusCreated:
			fmt.Fprintln(out, "Created .env file. Please edit it to add your OpenAI API key.")
			fmt.Fprintln(out, "Then run setup again.")
		case setup.StatusPlaceholder:
			fmt.Fprintln(out, "Please update .env with your actual OpenAI API key.")
		case setup.StatusReady:
			fmt.Fprintln(out, "Setup completed successfully!")
			fmt.Fprintln(out, "Run examples with: pipo run code|research")
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().Bool("perplexity", false, "Also add a PERPLEXITY_API_KEY placeholder")
	rootCmd.AddCommand(setupCmd)
}
