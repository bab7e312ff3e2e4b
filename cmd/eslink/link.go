package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eslink/internal/fs"
	"eslink/pkg/api"
)

var outPath string

var linkCmd = &cobra.Command{
	Use:   "link <manifest.json>...",
	Short: "Resolve and rewrite a module graph, writing the rewritten trees as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLink,
}

func init() {
	linkCmd.Flags().StringVarP(&outPath, "out", "o", "", "write rewritten output to this file instead of stdout")
}

func runLink(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	modules, err := readModules(args)
	if err != nil {
		return err
	}

	cliLog.Debug("linking modules", "count", len(modules), "files", args)

	result := api.Link(api.Options{
		Modules:          modules,
		FS:               fs.RealFS(),
		AllowGoogRequire: opts.AllowGoogRequire,
		WarningsAsErrors: opts.WarningsAsErrors,
	})

	printMessages(result.Warnings, "warning")
	printMessages(result.Errors, "error")

	if len(result.Errors) > 0 {
		// api.Link already promotes warnings into Errors when
		// WarningsAsErrors is set, so this one check covers both.
		return fmt.Errorf("link failed with %d error(s)", len(result.Errors))
	}

	out := struct {
		SessionID string                  `json:"sessionId"`
		Provides  map[string][]string     `json:"provides"`
		Rewritten map[string]interface{}  `json:"rewritten"`
	}{
		SessionID: result.SessionID,
		Provides:  result.Provides,
	}
	out.Rewritten = make(map[string]interface{}, len(result.Rewritten))
	for name, tree := range result.Rewritten {
		out.Rewritten[name] = tree
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if outPath == "" {
		fmt.Println(string(encoded))
		return nil
	}
	return os.WriteFile(outPath, encoded, 0o644)
}

// readModules decodes each manifest path into an api.Module, tagging
// its Address with the manifest's own declared address.
func readModules(paths []string) ([]api.Module, error) {
	modules := make([]api.Module, 0, len(paths))
	for _, p := range paths {
		m, err := loadManifest(p)
		if err != nil {
			return nil, err
		}
		modules = append(modules, api.Module{Address: m.Address, AST: buildAST(m)})
	}
	return modules, nil
}

func printMessages(msgs []api.Message, kind string) {
	for _, m := range msgs {
		fields := []interface{}{}
		if m.File != "" {
			fields = append(fields, "file", m.File, "line", m.Line, "column", m.Column)
		}
		if kind == "error" {
			cliLog.Error(m.Text, fields...)
		} else {
			cliLog.Warn(m.Text, fields...)
		}
	}
}
