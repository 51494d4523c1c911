package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/slab"
)

// Set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

// buildInfo is what the version command reports.
type buildInfo struct {
	Version      string `json:"version"`
	Commit       string `json:"commit"`
	GoVersion    string `json:"go_version"`
	Classes      int    `json:"classes"`
	MaxSmallSize int    `json:"max_small_size"`
	PageSize     int    `json:"page_size"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:      version,
		Commit:       commit,
		GoVersion:    runtime.Version(),
		Classes:      len(slab.Classes()),
		MaxSmallSize: slab.MaxSmallSize,
		PageSize:     slab.PageSize,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and allocator geometry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		if jsonOut {
			return printJSON(info)
		}
		printInfo("slabstress %s (%s, %s)\n", info.Version, info.Commit, info.GoVersion)
		printInfo("  %d size classes up to %d bytes, %d-byte pages\n",
			info.Classes, info.MaxSmallSize, info.PageSize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
