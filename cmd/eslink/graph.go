package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"eslink/internal/fs"
	"eslink/pkg/api"
)

var graphCmd = &cobra.Command{
	Use:   "graph <manifest.json>...",
	Short: "Print the resolved provide/require edges between modules",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	modules, err := readModules(args)
	if err != nil {
		return err
	}

	result := api.Link(api.Options{
		Modules:          modules,
		FS:               fs.RealFS(),
		AllowGoogRequire: opts.AllowGoogRequire,
		WarningsAsErrors: opts.WarningsAsErrors,
	})

	printMessages(result.Warnings, "warning")
	printMessages(result.Errors, "error")
	if len(result.Errors) > 0 {
		return fmt.Errorf("graph failed with %d error(s)", len(result.Errors))
	}

	edges := api.GraphEdges(result.Provides)
	encoded, err := json.MarshalIndent(edges, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
