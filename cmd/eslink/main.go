// Command eslink is the CLI front end for the module graph resolver
// and rewriter: it drives pkg/api.Link from the command line. Grounded
// on invowk-invowk's cmd/invowk (cobra command tree, viper-backed
// config) and esbuild's cmd/esbuild (one binary, one small set of
// verbs over a single library entry point).
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
