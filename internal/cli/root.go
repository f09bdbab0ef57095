package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/yigit/unireg/internal/bootstrap"
)

var (
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// Opener builds the service graph for one command and returns a closer for it
type Opener func(ctx context.Context, configPath string) (*bootstrap.Dependencies, func(), error)

// app is the state shared by every command of one invocation
type app struct {
	open       Opener
	configPath string
	jsonOutput bool

	deps  *bootstrap.Dependencies
	close func()
	out   *printer
}

// NewRootCommand builds the registrar command tree
func NewRootCommand(open Opener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:   "registrar",
		Short: "Course selection and registration from the terminal",
		Long: `registrar selects courses into a cart, shows the weekly schedule
and walks through validation, payment and finalization.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = newPrinter(cmd.OutOrStdout())
			if cmd.Name() == "help" {
				return nil
			}
			deps, closer, err := a.open(cmd.Context(), a.configPath)
			if err != nil {
				return err
			}
			a.deps, a.close = deps, closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.close != nil {
				a.close()
				a.close = nil
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", bootstrap.DefaultConfigPath, "Path to the config file")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	root.SetHelpFunc(customHelpFunc)

	root.AddGroup(
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "selection", Title: "Course Selection:"},
		&cobra.Group{ID: "registration", Title: "Registration:"},
	)

	root.AddCommand(
		a.loginCmd(), a.logoutCmd(), a.whoamiCmd(), a.prefsCmd(), a.transcriptCmd(),
		a.catalogCmd(), a.cartCmd(), a.scheduleCmd(),
		a.checkoutCmd(),
	)
	return root
}

// Execute runs the registrar CLI against the configured storage
func Execute(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	root := NewRootCommand(DefaultOpener)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		p := newPrinter(stderr)
		p.Error(describeError(err))
		if hint := errorHint(err); hint != "" {
			p.Info(hint)
		}
	}
	return err
}

// DefaultOpener loads the config and opens the store and catalog database.
// No hub is started, schedule pushes are only for the HTTP server.
func DefaultOpener(ctx context.Context, configPath string) (*bootstrap.Dependencies, func(), error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, nil, err
	}

	store, err := bootstrap.OpenStore(cfg, lgr)
	if err != nil {
		return nil, nil, err
	}

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	closer := func() {
		if database != nil {
			database.Close()
		}
		_ = store.Close()
	}

	var pool *pgxpool.Pool
	if database != nil {
		pool = database.Pool
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, store, pool, nil, lgr)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}
	return deps, closer, nil
}

// customHelpFunc colors group titles
func customHelpFunc(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()

	if cmd.Long != "" {
		fmt.Fprintf(w, "%s\n\n", cmd.Long)
	}

	fmt.Fprintln(w, sectionTitleColor.Sprint("Usage:"))
	fmt.Fprintf(w, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		fmt.Fprintln(w, groupTitleColor.Sprint(group.Title))
		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(w, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)
	}

	if cmd.HasAvailableSubCommands() && len(cmd.Groups()) == 0 {
		fmt.Fprintln(w, sectionTitleColor.Sprint("Commands:"))
		for _, c := range cmd.Commands() {
			if !c.Hidden {
				fmt.Fprintf(w, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		fmt.Fprintln(w, sectionTitleColor.Sprint("Flags:"))
		fmt.Fprint(w, cmd.LocalFlags().FlagUsages())
		fmt.Fprint(w, cmd.InheritedFlags().FlagUsages())
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
}
