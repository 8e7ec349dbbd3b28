package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/studious/internal/registry"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List all available scenes",
	Long:  `Shows a list of all scenes registered with the runtime.`,
	Args:  cobra.NoArgs,
	Run:   runScenes,
}

func runScenes(_ *cobra.Command, _ []string) {
	scenes := registry.List()

	if len(scenes) == 0 {
		fmt.Println("No scenes available.")
		return
	}

	fmt.Println("Available scenes:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, s := range scenes {
		maxNameLen = max(maxNameLen, len(s.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")
	for _, s := range scenes {
		fmt.Printf("  %-*s  %s\n", maxNameLen, s.Name, s.Description)
	}

	fmt.Println()
	fmt.Println("Run 'studious run --scene <name>' to run a scene.")
}
