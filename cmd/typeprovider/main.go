// Command typeprovider validates JSON and YAML documents against JSON Schema
// files using the same pipeline HTTP routes use.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
