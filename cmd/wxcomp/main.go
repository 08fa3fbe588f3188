package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lineCode/import-weapp-component/internal/app"
	"github.com/lineCode/import-weapp-component/internal/cache"
	"github.com/lineCode/import-weapp-component/internal/config"
	"github.com/lineCode/import-weapp-component/internal/git"
	"github.com/lineCode/import-weapp-component/internal/output"
	"github.com/lineCode/import-weapp-component/internal/tui"
	"github.com/lineCode/import-weapp-component/internal/utils"
	"github.com/lineCode/import-weapp-component/pkg/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	cfgFile string
	verbose bool
	v       *viper.Viper
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "wxcomp",
		Short: "Collect the custom components a mini-program uses",
		Long: `wxcomp reads the usingComponents declarations of a WeChat mini-program,
follows them transitively through every component manifest, and copies the
component files next to the build output.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is ~/.wxcomp/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("context", "", "Project root absolute component paths resolve against")
	rootCmd.PersistentFlags().StringSlice("ext", nil, "File extensions of a single-file component")
	rootCmd.PersistentFlags().Int("max-refs", config.DefaultMaxReferences, "Max component references per entry (-1 = unlimited)")

	_ = g.v.BindPFlag("project.context", rootCmd.PersistentFlags().Lookup("context"))
	_ = g.v.BindPFlag("components.extensions", rootCmd.PersistentFlags().Lookup("ext"))
	_ = g.v.BindPFlag("components.max_references", rootCmd.PersistentFlags().Lookup("max-refs"))

	rootCmd.AddCommand(newResolveCmd(g))
	rootCmd.AddCommand(newCopyCmd(g))
	rootCmd.AddCommand(newDoctorCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newCacheCmd(g))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (g *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(g.v, g.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newResolveCmd(g *globalOptions) *cobra.Command {
	var (
		entries []string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [src-dir]",
		Short: "Print the copy patterns of every component in use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
				Config:    cfg,
				Verbose:   g.verbose,
				NoCache:   true,
				LogOutput: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to create orchestrator: %w", err)
			}
			defer orchestrator.Close()

			ctx, cancel := signalContext()
			defer cancel()

			result, err := orchestrator.Resolve(ctx, sourceArg(args), entries)
			if err != nil {
				return err
			}

			if err := output.Render(cmd.OutOrStdout(), cfg.Output.Format, result.Resolutions); err != nil {
				return err
			}
			return strictError(strict, result)
		},
	}

	cmd.Flags().StringArrayVarP(&entries, "entry", "e", nil, "Page to resolve instead of the app manifest pages (repeatable)")
	cmd.Flags().StringP("format", "f", config.DefaultOutputFormat, "Output format: json, yaml or tree")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when resolution reported problems")
	_ = g.v.BindPFlag("output.format", cmd.Flags().Lookup("format"))

	return cmd
}

func newCopyCmd(g *globalOptions) *cobra.Command {
	var (
		entries []string
		archive string
		dryRun  bool
		noCache bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "copy [src-dir]",
		Short: "Copy every component in use into the output directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			var progress io.Writer
			if !g.verbose {
				progress = cmd.ErrOrStderr()
			}

			orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
				Config:    cfg,
				Verbose:   g.verbose,
				DryRun:    dryRun,
				NoCache:   noCache,
				LogOutput: cmd.ErrOrStderr(),
				Progress:  progress,
			})
			if err != nil {
				return fmt.Errorf("failed to create orchestrator: %w", err)
			}
			defer orchestrator.Close()

			ctx, cancel := signalContext()
			defer cancel()

			result, err := orchestrator.Resolve(ctx, sourceArg(args), entries)
			if err != nil {
				return err
			}

			stats, err := orchestrator.Copy(ctx, result)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d components, %d files planned, %d copied, %d unchanged\n",
				len(result.Resolutions), stats.Planned, stats.Copied, stats.Skipped)

			if archive != "" {
				if _, err := orchestrator.Archive(archive); err != nil {
					return err
				}
			}
			return strictError(strict, result)
		},
	}

	cmd.Flags().StringArrayVarP(&entries, "entry", "e", nil, "Page to resolve instead of the app manifest pages (repeatable)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir, "Output directory")
	cmd.Flags().IntP("concurrency", "j", config.DefaultWorkers, "Number of concurrent copy workers")
	cmd.Flags().Bool("force", false, "Copy files even when unchanged")
	cmd.Flags().Bool("index", false, "Write "+output.DefaultIndexFilename+" listing the copied files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan without writing files")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not use the fingerprint cache")
	cmd.Flags().StringVar(&archive, "archive", "", "Also pack the output directory into this .tar.zst file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when resolution reported problems")

	_ = g.v.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	_ = g.v.BindPFlag("concurrency.workers", cmd.Flags().Lookup("concurrency"))
	_ = g.v.BindPFlag("output.overwrite", cmd.Flags().Lookup("force"))
	_ = g.v.BindPFlag("output.index", cmd.Flags().Lookup("index"))

	return cmd
}

func newDoctorCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [src-dir]",
		Short: "Check the project layout and environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fs := afero.NewOsFs()
			fmt.Fprintln(out, "Checking environment...")
			allPassed := true

			fmt.Fprint(out, "  Config file: ")
			cfg, err := g.loadConfig()
			if err != nil {
				fmt.Fprintf(out, "FAILED (%v)\n", err)
				return nil
			}
			fmt.Fprintln(out, "OK")

			src := sourceArg(args)
			if src == "" {
				src = cfg.Project.SourceDir
			}
			if src == "" {
				src = "."
			}

			fmt.Fprint(out, "  App manifest: ")
			dir, layout := app.DetectSourceDir(fs, src, cfg.Project.AppManifest)
			if layout == app.LayoutUnknown {
				fmt.Fprintf(out, "NOT FOUND (no %s in %s)\n", cfg.Project.AppManifest, src)
				allPassed = false
			} else {
				fmt.Fprintf(out, "OK (%s, %s)\n", filepath.Join(dir, cfg.Project.AppManifest), layout)
			}

			fmt.Fprint(out, "  Git work tree: ")
			if root, err := git.WorktreeRoot(nil, dir); err == nil {
				fmt.Fprintf(out, "OK (%s)\n", root)
			} else {
				fmt.Fprintln(out, "NONE (absolute component paths resolve against the source directory)")
			}

			fmt.Fprint(out, "  Write permissions: ")
			if checkWritePermissions(fs, cfg.Output.Directory) {
				fmt.Fprintln(out, "OK")
			} else {
				fmt.Fprintln(out, "FAILED")
				allPassed = false
			}

			fmt.Fprint(out, "  Cache directory: ")
			cacheDir := utils.ExpandPath(cfg.Cache.Directory)
			if utils.IsDir(fs, cacheDir) {
				fmt.Fprintf(out, "OK (%s)\n", cacheDir)
			} else {
				fmt.Fprintln(out, "WARN (will be created on first use)")
			}

			fmt.Fprintln(out)
			if allPassed {
				fmt.Fprintln(out, "All critical checks passed!")
			} else {
				fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
			}
			return nil
		},
	}
}

// checkWritePermissions checks that the output directory can be written
func checkWritePermissions(fs afero.Fs, dir string) bool {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return false
	}
	f, err := afero.TempFile(fs, dir, ".wxcomp_test_write")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	_ = fs.Remove(name)
	return true
}

func newConfigCmd(g *globalOptions) *cobra.Command {
	var accessible bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit the configuration file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			path := g.cfgFile
			if path == "" {
				path = config.ConfigFilePath()
			}
			return tui.Run(tui.Options{
				Config:     cfg,
				SaveFunc:   func(c *config.Config) error { return config.Save(c, path) },
				Accessible: accessible,
				Path:       path,
			})
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", false, "Use plain prompts suited to screen readers")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.cfgFile
			if path == "" {
				path = config.ConfigFilePath()
			}
			if g.cfgFile == "" {
				if err := config.EnsureConfigDir(); err != nil {
					return err
				}
			}
			if utils.IsFile(afero.NewOsFs(), path) {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})

	return cmd
}

func newCacheCmd(g *globalOptions) *cobra.Command {
	open := func() (*cache.BadgerCache, error) {
		cfg, err := g.loadConfig()
		if err != nil {
			return nil, err
		}
		dir := utils.ExpandPath(cfg.Cache.Directory)
		if dir == config.CacheDir() {
			if err := config.EnsureCacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewBadgerCache(cache.Options{Directory: dir})
	}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the fingerprint cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer c.Close()

			stats := c.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:   %v\n", stats["entries"])
			fmt.Fprintf(out, "LSM size:  %v bytes\n", stats["lsm_size"])
			fmt.Fprintf(out, "Vlog size: %v bytes\n", stats["vlog_size"])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer c.Close()

			n := c.Size()
			if err := c.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
			return nil
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}

func sourceArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// strictError fails a run whose resolution reported problems
func strictError(strict bool, result *app.Result) error {
	if !strict || len(result.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%d component resolution problem(s)", len(result.Errors))
}
