// Package cli implements memoctl, which inspects and maintains a memo cache
// directory out-of-band.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/filememo/cache"
)

// Version is reported by --version.
var Version = "dev"

// Global flags
var (
	cacheDir    string
	compression int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memoctl",
	Short: "Inspect and maintain a memo cache directory",
	Long: `memoctl lists, purges and health-checks the files written by memoized
functions. Entries are never evicted automatically; use purge to reclaim space.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cacheDir, "dir", "d", "",
		fmt.Sprintf("Cache directory (default: $%s or %s)", cache.EnvDir, cache.DefaultDir))
	rootCmd.PersistentFlags().IntVar(&compression, "compression", 0,
		"zstd level the entries were written with (0 = uncompressed)")
}

// openCache opens the directory selected by the global flags.
func openCache() (*cache.FileCache, error) {
	return cache.NewFileCache(cache.FileCacheConfig{
		Dir:              cacheDir,
		CompressionLevel: compression,
	})
}
