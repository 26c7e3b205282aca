package main

import (
	"fmt"
	"github.com/MagicOwO/pipo-agent/internal/app"
	"github.com/MagicOwO/pipo-agent/internal/docparse"
	"github.com/spf13/cobra"
	"path/filepath"
)

var parseDocCmd = &cobra.Command{
	Use:   "parse-doc <instruction.docx> <input.docx>",
	Short: "Structure a Word document into message tasks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := app.NewClient(cfg)
		if err != nil {
			return err
		}
		outDir, _ := cmd.Flags().GetString("out")
		if !filepath.IsAbs(outDir) {
			dir, _ := cmd.Flags().GetString("dir")
			outDir = filepath.Join(dir, outDir)
		}

		path, err := docparse.Parse(cmd.Context(), client, args[0], args[1], outDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Structured content written to %s\n", path)
		return nil
	},
}

func init() {
	parseDocCmd.Flags().String("out", "output", "Output directory")
	rootCmd.AddCommand(parseDocCmd)
}
