package xmvnconf

import (
	"fmt"
	"io"

	"github.com/arthur-debert/xmvnconf/internal/version"
	"github.com/arthur-debert/xmvnconf/pkg/artifact"
	"github.com/arthur-debert/xmvnconf/pkg/config"
	"github.com/arthur-debert/xmvnconf/pkg/document"
	"github.com/arthur-debert/xmvnconf/pkg/emitter"
	"github.com/arthur-debert/xmvnconf/pkg/filesystem"
	"github.com/arthur-debert/xmvnconf/pkg/logging"
	"github.com/arthur-debert/xmvnconf/pkg/manifest"
	"github.com/arthur-debert/xmvnconf/pkg/paths"
	"github.com/arthur-debert/xmvnconf/pkg/types"
	"github.com/arthur-debert/xmvnconf/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries the global flags and the loaded configuration
type app struct {
	verbosity  int
	workDir    string
	configFile string
	format     string
	indent     int

	cfg *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "xmvnconf",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.workDir, "workdir", "C", "", MsgFlagWorkDir)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "", MsgFlagFormat)
	rootCmd.PersistentFlags().IntVar(&a.indent, "indent", -1, MsgFlagIndent)

	rootCmd.AddGroup(&cobra.Group{ID: "rules", Title: "RULES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newAliasCmd(a))
	rootCmd.AddCommand(newFileCmd(a))
	rootCmd.AddCommand(newPackageCmd(a))
	rootCmd.AddCommand(newOptionCmd(a))
	rootCmd.AddCommand(newApplyCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// setup loads the configuration and then the logger it describes
func (a *app) setup(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	if a.format != "" {
		overrides["output.format"] = a.format
	}
	if a.indent >= 0 {
		overrides["output.indent"] = a.indent
	}

	cfg, err := config.Load(config.LoadOptions{
		WorkDir:   a.workDir,
		File:      a.configFile,
		Overrides: overrides,
	})
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}
	a.cfg = cfg

	logging.SetupLoggerWithOptions(logging.Options{
		Verbosity: a.verbosity,
		LogFile:   cfg.Logging.File,
		Console:   cmd.ErrOrStderr(),
	})
	log.Debug().
		Str("command", cmd.Name()).
		Str("workdir", cfg.WorkDir).
		Msg("Command started")
	return nil
}

// buildTree is the work dir seen through a filesystem rooted at it
type buildTree struct {
	fs    types.FS
	paths paths.Paths
}

func (a *app) tree() buildTree {
	return buildTree{
		fs:    filesystem.NewBasePath(a.cfg.WorkDir),
		paths: paths.New(""),
	}
}

func (a *app) emitter() (*emitter.Emitter, error) {
	l := a.tree()
	return emitter.New(emitter.Options{FS: l.fs, Paths: l.paths, Indent: a.cfg.Output.Indent})
}

func (a *app) printer(cmd *cobra.Command) *ui.Printer {
	out := cmd.OutOrStdout()
	format, err := ui.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		format = ui.FormatAuto
	}
	return ui.NewPrinter(out, ui.Resolve(format, out))
}

// emitOne runs a single rule and reports the written file
func (a *app) emitOne(cmd *cobra.Command, rule document.Rule) error {
	e, err := a.emitter()
	if err != nil {
		return err
	}
	res, err := e.Emit(rule)
	if err != nil {
		return err
	}
	return a.printer(cmd).Results([]emitter.Result{res})
}

func newAliasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "alias <artifact> [alias...]",
		Short:   MsgAliasShort,
		Long:    MsgAliasLong,
		Example: MsgAliasExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			main, err := artifact.Parse(args[0])
			if err != nil {
				return err
			}
			aliases := make([]document.ArtifactDescriptor, 0, len(args)-1)
			for _, coords := range args[1:] {
				alias, err := artifact.Parse(coords)
				if err != nil {
					return err
				}
				aliases = append(aliases, alias)
			}
			return a.emitOne(cmd, document.AliasRule{Artifact: main, Aliases: aliases})
		},
	}
}

func newFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "file <artifact> [path...]",
		Short:   MsgFileShort,
		Long:    MsgFileLong,
		Example: MsgFileExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			main, err := artifact.Parse(args[0])
			if err != nil {
				return err
			}
			files := append([]string{}, args[1:]...)
			return a.emitOne(cmd, document.FileRule{Artifact: main, Paths: files})
		},
	}
}

func newPackageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "package <artifact> <package>",
		Short:   MsgPackageShort,
		Example: MsgPackageExample,
		Args:    cobra.ExactArgs(2),
		GroupID: "rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			main, err := artifact.Parse(args[0])
			if err != nil {
				return err
			}
			return a.emitOne(cmd, document.PackageRule{Artifact: main, Package: args[1]})
		},
	}
}

func newOptionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "option <path> <value>",
		Short:   MsgOptionShort,
		Long:    MsgOptionLong,
		Example: MsgOptionExample,
		Args:    cobra.ExactArgs(2),
		GroupID: "rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emitOne(cmd, document.CustomOption{Path: args[0], Value: args[1]})
		},
	}
}

func newApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "apply <manifest>",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Example: MsgApplyExample,
		Args:    cobra.ExactArgs(1),
		GroupID: "rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Manifest paths are relative to the current directory, not the work dir
			m, err := manifest.Load(filesystem.NewOS(), args[0])
			if err != nil {
				return err
			}
			rules, err := m.Rules()
			if err != nil {
				return err
			}

			e, err := a.emitter()
			if err != nil {
				return err
			}
			results, applyErr := manifest.Apply(e, rules)
			if err := a.printer(cmd).Results(results); err != nil {
				return err
			}
			return applyErr
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := a.tree()
			st, err := emitter.Inspect(l.fs, l.paths)
			if err != nil {
				return err
			}
			return a.printer(cmd).Status(st)
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), config.DefaultContent())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "xmvnconf %s\n", version.Info())
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
