// Package commands implements the CLI commands for ontoenv.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/ontoenv/internal/app"
	"go.trai.ch/ontoenv/internal/build"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/engine/tree"
)

// CLI represents the command line interface for ontoenv.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	flags   globalFlags
}

// Application represents the application logic interface.
type Application interface {
	ConfigureLogging(verbose, json bool)
	Init(ctx context.Context, opts app.OpenOptions) (*app.RefreshReport, error)
	Refresh(ctx context.Context, opts app.OpenOptions, refresh app.RefreshOptions) (*app.RefreshReport, error)
	Dump(ctx context.Context, opts app.OpenOptions) ([]domain.OntologyRecord, error)
	Deps(ctx context.Context, opts app.OpenOptions, target string) ([]*tree.Node, error)
	Locate(ctx context.Context, opts app.OpenOptions, uri string) (domain.Location, error)
	Merge(ctx context.Context, opts app.OpenOptions, path string, merge app.MergeOptions) (*app.MergeOutcome, error)
	Watch(ctx context.Context, opts app.OpenOptions, onRefresh func(*app.RefreshReport, error)) error
}

type globalFlags struct {
	root        string
	index       string
	verbose     bool
	logJSON     bool
	strict      bool
	offline     bool
	concurrency int
	deadline    time.Duration
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "ontoenv",
		Short:         "Resolve and cache ontology imports for a directory tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.flags.root, "root", "", "Managed directory (default: nearest directory with an .ontoenv environment)")
	pf.StringVar(&c.flags.index, "index", "", "Index file location (default: <root>/.ontoenv/index.json)")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&c.flags.logJSON, "log-json", false, "Write logs as JSON")
	pf.BoolVar(&c.flags.strict, "strict", false, "Fail when an import cannot be resolved")
	pf.BoolVar(&c.flags.offline, "offline", false, "Never fetch remote ontologies")
	pf.IntVar(&c.flags.concurrency, "concurrency", 0, "Maximum documents parsed or fetched at once (default: number of CPUs)")
	pf.DurationVar(&c.flags.deadline, "deadline", 0, "Bound on a whole resolution, e.g. 30s (default: none)")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		c.app.ConfigureLogging(c.flags.verbose, c.flags.logJSON)
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newRefreshCmd())
	rootCmd.AddCommand(c.newDumpCmd())
	rootCmd.AddCommand(c.newDepsCmd())
	rootCmd.AddCommand(c.newLocateCmd())
	rootCmd.AddCommand(c.newMergeCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// openOptions turns the global flags into environment options. Only flags given on
// the command line override the config file.
func (c *CLI) openOptions(cmd *cobra.Command) app.OpenOptions {
	opts := app.OpenOptions{
		Root:      c.flags.root,
		IndexPath: c.flags.index,
	}
	flags := cmd.Flags()
	if flags.Changed("strict") {
		opts.Overrides.Strict = &c.flags.strict
	}
	if flags.Changed("offline") {
		opts.Overrides.Offline = &c.flags.offline
	}
	if flags.Changed("concurrency") {
		opts.Overrides.Concurrency = c.flags.concurrency
	}
	if flags.Changed("deadline") {
		opts.Overrides.Deadline = &c.flags.deadline
	}
	return opts
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
