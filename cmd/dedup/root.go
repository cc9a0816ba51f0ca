// Package main is the dedup command-line entry point: a single cobra
// command translating the flags of spec.md §6 into a dedup.Options and
// driving the pipeline once per positional root argument, in the style of
// the teacher's backend/torrent/cmd/backend.go (cobra.Command{Use, Short,
// Long, Run}, flags registered in init()).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsiebens/dedup/internal/cache"
	"github.com/jsiebens/dedup/internal/dedup"
	"github.com/jsiebens/dedup/internal/dlog"
	"github.com/jsiebens/dedup/internal/humanterm"
)

var rootCmd = &cobra.Command{
	Use:   "dedup [flags] directory...",
	Short: "Deduplicate identical files with reflinks or hard links",
	Long: `dedup scans one or more directory trees, groups byte-identical
regular files, and collapses every duplicate into shared on-disk storage:
either a copy-on-write reflink, or a hard link.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDedup,
}

func init() {
	// -h is claimed by --hardlinks below, so register --help without a
	// shorthand before cobra has a chance to default it to -h.
	rootCmd.Flags().Bool("help", false, "help for dedup")

	flags := rootCmd.Flags()
	flags.BoolP("dryrun", "d", false, "Suppress filesystem mutations; still scan, hash, and update cache.")
	flags.BoolP("hardlinks", "h", false, "Use hard links instead of reflinks.")
	flags.StringP("indexfile", "i", "", "Enable the persistent hash cache at PATH.")
	flags.BoolP("paranoid", "p", false, "Compute a second independent hash and ignore cached hashes.")
	flags.BoolP("quiet", "q", false, "Suppress per-link and progress output.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDedup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	dryrun, _ := flags.GetBool("dryrun")
	hardlinks, _ := flags.GetBool("hardlinks")
	indexfile, _ := flags.GetString("indexfile")
	paranoid, _ := flags.GetBool("paranoid")
	quiet, _ := flags.GetBool("quiet")

	dlog.SetQuiet(quiet)

	opts := dedup.Options{
		DryRun:    dryrun,
		HardLinks: hardlinks,
		Paranoid:  paranoid,
		Quiet:     quiet,
	}

	var store *cache.Store
	if indexfile != "" {
		store = cache.Open(indexfile, dryrun)
	}

	driver := &dedup.Driver{
		Cache: store,
		Out:   humanterm.Writer(),
		Opts:  opts,
	}

	saved, err := driver.Run(args)
	if !quiet || err == nil {
		fmt.Fprintf(humanterm.Writer(), "%s saved\n", humanterm.Bold(humanterm.Bytes(saved)))
	}
	if err != nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		os.Exit(1)
	}
	return nil
}
