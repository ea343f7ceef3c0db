package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/portal-erp/erptable/internal/ui/styles"
	"github.com/portal-erp/erptable/internal/util"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "erptable",
	Short: "Search, sort and page through ERP records in the terminal",
	Long: `erptable shows ERP records (purchase approvals, stock movements,
products) in a searchable, sortable, paginated table.

Records come from JSON, YAML, CSV or TSV exports, from a read-only
PostgreSQL query, or from the built-in demo datasets. Column layouts are
named views: a few ship built-in and more can be defined in the config
file.

On a terminal the table is interactive. When piped, the current page is
printed as plain text; --json and --raw print every matching record.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

func Execute() error {
	// Interrupts cancel running queries; the TUI handles ctrl+c itself
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Check if it's a structured TableError
		var tableErr *util.TableError
		if errors.As(err, &tableErr) {
			fmt.Fprintln(os.Stderr, tableErr.Format())
		} else {
			// Simple error - still format nicely
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Version flag template to show more info
	rootCmd.SetVersionTemplate(fmt.Sprintf("erptable version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	// Set up pre-run to handle global flags
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor {
			styles.SetNoColor(true)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
	}

	// Add all subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newViewCmd(),
		newSQLCmd(),
		newDemoCmd(),
		newConfigCmd(),
		newCompletionCmd(),
	)
}

// setupLogging sends log records to stderr: warnings only, or everything
// from debug up with --verbose
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for erptable.

To load completions:

Bash:
  $ source <(erptable completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ erptable completion bash > /etc/bash_completion.d/erptable
  # macOS:
  $ erptable completion bash > $(brew --prefix)/etc/bash_completion.d/erptable

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ erptable completion zsh > "${fpath[1]}/_erptable"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ erptable completion fish | source

  # To load completions for each session, execute once:
  $ erptable completion fish > ~/.config/fish/completions/erptable.fish

PowerShell:
  PS> erptable completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> erptable completion powershell > erptable.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("erptable version %s\n", Version)
			fmt.Printf("  commit: %s\n", CommitSHA)
			fmt.Printf("  built:  %s\n", BuildDate)
		},
	}
}
