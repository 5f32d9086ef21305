package cli

import (
	"context"
	"fmt"
	"io"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
// It is called by main with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the pagepack CLI with ctx and returns the first command error.
func Execute(ctx context.Context) error {
	return RootCommand().ExecuteContext(ctx)
}

// RootCommand builds the command tree. Logs go to the command's error
// stream: info level by default, debug level with --verbose.
func RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "pagepack",
		Short:        "PagePack lays out images onto PDF pages",
		Long:         `PagePack trims, sorts and packs a folder of images row by row onto fixed-size pages and writes them out as a PDF.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("pagepack %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newConfigCmd())

	return root
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
