// Package main provides the entry point for memoctl, the cache maintenance
// tool.
package main

import (
	"github.com/jonwraymond/filememo/internal/cli"
)

func main() {
	cli.Execute()
}
