package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scrn/internal/config"
	"scrn/internal/deps"
	"scrn/internal/history"
	"scrn/internal/logging"
	"scrn/internal/registry"
	"scrn/internal/screen"
	"scrn/internal/shell"
	"scrn/internal/tui"
	"scrn/pkg/version"
)

var (
	workspaceFlag  string
	actionFileFlag string
	debugFlag      bool
	versionFlag    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scrn",
	Short: "A workspace tree over GNU screen session pairs",
	RunE:  runRoot,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.Flags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace root (overrides config)")
	rootCmd.Flags().StringVar(&actionFileFlag, "action-file", "", "internal: file the shell wrapper evals on exit")
	rootCmd.Flags().MarkHidden("action-file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write debug logs")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
}

func ensureDeps() error {
	missing := deps.Check()
	if len(missing) == 0 {
		return nil
	}
	for _, dep := range missing {
		fmt.Fprintf(os.Stderr, "Missing dependency: %s, %s (%s)\n", dep.Name, dep.Reason, deps.InstallHint(dep))
	}
	return fmt.Errorf("missing required dependencies")
}

func loadDeps() (tui.Deps, error) {
	if err := ensureDeps(); err != nil {
		return tui.Deps{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return tui.Deps{}, err
	}
	if workspaceFlag != "" {
		cfg.Workspace = config.ExpandTilde(workspaceFlag)
	}
	hist, err := history.Load()
	if err != nil {
		return tui.Deps{}, err
	}
	client := screen.NewClient()
	return tui.Deps{
		Cfg:        cfg,
		Screen:     client,
		Registry:   registry.New(client),
		History:    hist,
		ActionFile: actionFileFlag,
	}, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Println(version.Version)
		return nil
	}
	if err := logging.Initialize(debugFlag); err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
	}
	d, err := loadDeps()
	if err != nil {
		return err
	}
	return tui.Run(d)
}

var initCmd = &cobra.Command{
	Use:   "init <shell>",
	Short: "Print shell integration for zsh or bash",
	Long:  `Print the wrapper function that lets scrn change your shell's directory on exit. Add to your rc file: eval "$(scrn init zsh)"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := shell.InitScript(args[0])
		if err != nil {
			return err
		}
		fmt.Print(script)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions without starting the UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureDeps(); err != nil {
			return err
		}
		client := screen.NewClient()
		sessions, err := client.ListSessions()
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions.")
			return nil
		}
		for _, s := range sessions {
			mark := " "
			if s.Attached() {
				mark = "●"
			}
			fmt.Printf(" %s %-40s %s\n", mark, s.Name, s.State)
		}
		return nil
	},
}
