package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/studious/internal/gfx"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List shader programs",
	Long: `Lists the shader programs loaded at startup and their source files.
The profile follows graphics.embedded unless --embedded is given.`,
	Args: cobra.NoArgs,
	RunE: runPrograms,
}

func init() {
	programsCmd.Flags().Bool("embedded", false, "Show the ES profile")
}

func runPrograms(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	embedded := cfg.Graphics.Embedded
	if cmd.Flags().Changed("embedded") {
		embedded, _ = cmd.Flags().GetBool("embedded")
	}

	programs := gfx.Programs(embedded)
	fmt.Printf("Shader programs (%s profile):\n\n", gfx.Profile(embedded))

	maxNameLen := 4 // "Name" header
	for _, p := range programs {
		maxNameLen = max(maxNameLen, len(p.Name))
	}
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Sources")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-------")
	for _, p := range programs {
		fmt.Printf("  %-*s  %s, %s\n", maxNameLen, p.Name, p.VertexPath, p.FragmentPath)
	}
	return nil
}
