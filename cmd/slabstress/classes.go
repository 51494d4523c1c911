package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/slab"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Show the size-class table",
		Long: `The classes command prints every size class with its slot size,
the number of slots in a 4096-byte page and the bytes left over.

Example:
  slabstress classes
  slabstress classes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
}

func runClasses() error {
	classes := slab.Classes()
	if jsonOut {
		return printJSON(classes)
	}

	printInfo("%-6s %-6s %-6s %s\n", "CLASS", "SLOT", "SLOTS", "SLACK")
	for _, c := range classes {
		printInfo("%-6d %-6d %-6d %d\n", c.Class, c.SlotSize, c.Slots, c.Slack)
	}
	printVerbose("\nRequests above %d bytes go to the fallback allocator.\n", slab.MaxSmallSize)
	return nil
}
