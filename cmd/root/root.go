// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"
	"io"

	"fjacquet/betterment-ynab/cmd/common"
	"fjacquet/betterment-ynab/internal/config"
	"fjacquet/betterment-ynab/internal/container"
	"fjacquet/betterment-ynab/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by the commands
type CommonFlags struct {
	Convert    bool
	Download   bool
	Verbose    bool
	Filenames  []string
	Days       int
	DateAfter  string
	ConfigFile string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "betterment-ynab",
		Short: "Download Betterment transactions and convert them for YNAB import.",
		Long: `betterment-ynab converts Betterment transaction exports into CSV files
YNAB can import, and can download those exports from the Betterment portal.

To download and convert, showing the converted rows, use -dcv.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
	}

	// SharedFlags holds the parsed flag values
	SharedFlags = CommonFlags{}

	// AppContainer is built by the persistent pre-run hook
	AppContainer *container.Container

	// ContainerOptions are applied when AppContainer is built
	ContainerOptions []container.Option
)

// setup is wired here rather than in the Cmd literal because it refers to
// Cmd, which would otherwise form an initialization cycle.
func init() {
	Cmd.PersistentPreRunE = setup
}

// Init initializes the root command and all flags
func Init() {
	pf := Cmd.PersistentFlags()
	pf.BoolVarP(&SharedFlags.Verbose, "verbose", "v", false, "show the converted rows and more output")
	pf.IntVar(&SharedFlags.Days, "days", 0, "number of days of history to download (default: download.days)")
	pf.StringVar(&SharedFlags.DateAfter, "dateafter", "", "keep transactions completed after this date (YYYY-MM-DD or 'earliest')")
	pf.StringVar(&SharedFlags.ConfigFile, "config", "", "config file (default: $HOME/.betterment-ynab/config.yaml)")

	f := Cmd.Flags()
	f.BoolVarP(&SharedFlags.Convert, "convert", "c", false, "convert transaction files")
	f.BoolVarP(&SharedFlags.Download, "download", "d", false, "download transactions from the portal")
	f.StringSliceVarP(&SharedFlags.Filenames, "filenames", "f", nil, "files to convert (default: transactions.csv)")
}

// GetLogger returns the container logger, or a default one before setup ran.
func GetLogger() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.NewLogrusAdapter("info", "text")
}

func setup(cmd *cobra.Command, args []string) error {
	if cmd == Cmd && !actionRequested(args) {
		AppContainer = nil
		return nil
	}

	config.LoadEnv(logging.NewLogrusAdapter("info", "text"))

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	AppContainer, err = container.NewContainer(cfg, ContainerOptions...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	files := append(append([]string{}, SharedFlags.Filenames...), args...)

	switch {
	case SharedFlags.Download && SharedFlags.Convert:
		return common.Sync(cmd.Context(), AppContainer, SharedFlags.Days, SharedFlags.DateAfter, SharedFlags.Verbose,
			cmd.InOrStdin(), cmd.ErrOrStderr(), ProgressWriter(cmd))
	case SharedFlags.Download:
		_, err := common.Download(cmd.Context(), AppContainer, SharedFlags.Days,
			cmd.InOrStdin(), cmd.ErrOrStderr(), ProgressWriter(cmd))
		return err
	case SharedFlags.Convert:
		return common.ConvertFiles(AppContainer, files, SharedFlags.DateAfter, SharedFlags.Verbose)
	case len(files) > 0:
		return errors.New("use -c to convert the given files")
	default:
		return cmd.Help()
	}
}

// actionRequested reports whether the root command was asked to do anything
// beyond printing usage.
func actionRequested(args []string) bool {
	return SharedFlags.Convert || SharedFlags.Download || len(SharedFlags.Filenames) > 0 || len(args) > 0
}

// ProgressWriter returns where download progress is drawn: stderr, unless
// verbose logging already reports each account.
func ProgressWriter(cmd *cobra.Command) io.Writer {
	if SharedFlags.Verbose {
		return nil
	}
	return cmd.ErrOrStderr()
}
