// Command sebi is the CLI collaborator named in spec.md §6: it accepts a
// WASM artifact path (or, as a supplementary convenience, a directory of
// them), renders the resulting Report as JSON (default) or text, and exits
// with the code the core classifier assigned. Argument parsing, output
// destination, and text rendering all live here, outside the core package.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/0xphen/sebi"
	"github.com/0xphen/sebi/cmd/sebi/render"
	"github.com/0xphen/sebi/internal/policyconfig"
	"github.com/0xphen/sebi/internal/report"
)

var (
	version = "dev"

	verbose      bool
	outputFormat string
	outputPath   string
	commit       string
	policyPath   string
	dirMode      bool
	concurrency  int

	logger *zap.Logger
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if logger != nil {
			logger.Error("sebi failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitCodeFor(err)
	}
	return exitCode
}

// exitCode is set by the inspect command's RunE from the core classifier's
// exit_code (single-file mode) or the worst exit code across a batch.
var exitCode int

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sebi",
		Short: "Stylus Execution Boundary Inspector — static WASM risk analysis",
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg = zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	}
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	}

	cmd.AddCommand(newInspectCmd(), newVersionCmd())
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Inspect a WASM artifact (or, with --dir, every *.wasm file in a directory)",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().StringVar(&outputFormat, "format", "json", `output format: "json" or "text"`)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&commit, "commit", "", "commit identifier to embed in the report's tool block")
	cmd.Flags().StringVar(&policyPath, "policy", "", "optional policy YAML file overriding R-SIZE-01 and the policy name")
	cmd.Flags().BoolVar(&dirMode, "dir", false, "treat <path> as a directory of *.wasm artifacts")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "max concurrent inspections in --dir mode")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sebi tool version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	if outputFormat != "json" && outputFormat != "text" {
		return fmt.Errorf("invalid --format %q (want json or text)", outputFormat)
	}

	var cfg policyconfig.Config
	var err error
	if policyPath != "" {
		cfg, err = policyconfig.Load(policyPath)
	} else {
		cfg, err = policyconfig.Default(), nil
	}
	if err != nil {
		return err
	}

	tool := sebi.ToolInfo{Name: "sebi", Version: version, Commit: commit}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("open output %s: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}

	if !dirMode {
		rep, err := sebi.Inspect(args[0], tool, sebi.WithPolicyConfig(cfg))
		if err != nil {
			return err
		}
		if err := writeReport(out, rep); err != nil {
			return err
		}
		exitCode = rep.Classification.ExitCode
		return nil
	}

	return runInspectDir(cmd, args[0], tool, cfg, out)
}

// runInspectDir fans out an independent sebi.Inspect call per *.wasm file
// under dir, bounded by a worker-count semaphore, per SPEC_FULL.md §3.1: each
// artifact gets its own unshared, immutable Report; there is no cross-file
// aggregation inside the core.
func runInspectDir(cmd *cobra.Command, dir string, tool sebi.ToolInfo, cfg policyconfig.Config, out *os.File) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".wasm" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	reports := make([]report.Report, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			rep, err := sebi.Inspect(p, tool, sebi.WithPolicyConfig(cfg))
			if err != nil {
				if logger != nil {
					logger.Warn("inspect failed", zap.String("path", p), zap.Error(err))
				}
				return nil
			}
			reports[i] = rep
			return nil
		})
	}
	_ = g.Wait()

	worst := 0
	for _, rep := range reports {
		if rep.SchemaVersion == "" {
			continue // this path's Inspect call failed; already logged
		}
		if err := writeReport(out, rep); err != nil {
			return err
		}
		if rep.Classification.ExitCode > worst {
			worst = rep.Classification.ExitCode
		}
	}
	exitCode = worst
	return nil
}

func writeReport(out *os.File, rep report.Report) error {
	switch outputFormat {
	case "text":
		render.Text(out, rep)
		return nil
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
