package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/QCHackers/tqec-sub002/internal/adapter"
	"github.com/QCHackers/tqec-sub002/internal/controller"
	"github.com/QCHackers/tqec-sub002/internal/domain"
	m "github.com/QCHackers/tqec-sub002/internal/model"
)

var annotateOutputFlag string
var annotateForceFlag bool
var annotateParallelFlag int
var annotateObservables []string

// annotateCmd represents the annotate command.
var annotateCmd = newAnnotateCmd()

func newAnnotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate [files...]",
		Short: "Infer detectors and annotate circuit files",
		Long:  annotateLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			coords, err := loadCoords()
			if err != nil {
				return err
			}

			observables, err := parseObservableFlags(annotateObservables)
			if err != nil {
				return err
			}

			job := annotateJob{
				coords:      coords,
				force:       viper.GetBool(forceConfigKey),
				observables: observables,
			}

			ui := selectUI(cmd)

			if len(paths) == 1 {
				return annotateSingle(cmd.Context(), ui, job, paths[0], annotateOutputFlag)
			}

			if annotateOutputFlag != "" {
				return fmt.Errorf("--%s requires a single input file, got %d", outputFlagName, len(paths))
			}

			return annotateBatch(cmd.Context(), ui, job, paths)
		},
	}

	configureAnnotateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(annotateCmd)
}

func configureAnnotateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&annotateOutputFlag, outputFlagName, "o", "", "write the annotated circuit to this path instead of in place")
	cmd.Flags().BoolVarP(&annotateForceFlag, forceFlagName, "f", viper.GetBool(forceConfigKey), "strip previously inferred annotations instead of failing")
	bindFlagToConfig(cmd.Flags().Lookup(forceFlagName), forceConfigKey)
	cmd.Flags().IntVarP(&annotateParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of files annotated concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
	cmd.Flags().StringArrayVar(&annotateObservables, "observable", nil, "logical observable as INDEX:q1,q2,... referencing each qubit's last measurement (can be repeated)")
}

// annotateJob carries the per-invocation settings shared by every file.
type annotateJob struct {
	coords      m.CoordsMap
	force       bool
	observables []observableSpec
}

type observableSpec struct {
	index  int
	qubits []int
}

// annotateFile reads, annotates, and rewrites one circuit file. The written
// text is returned for display.
func annotateFile(job annotateJob, path, outPath string) (*domain.Result, string, error) {
	data, err := fsAdapter.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	circuit, err := adapter.ParseCircuit(string(data))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	result, err := domain.InferDetectors(circuit, domain.Options{
		Coords: job.coords,
		Force:  job.force,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	for _, obs := range job.observables {
		if err := domain.AttachObservable(result.Circuit, obs.index, obs.qubits); err != nil {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
	}

	text := adapter.WriteCircuit(result.Circuit)

	if outPath == "" {
		outPath = path
	}

	if err := fsAdapter.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return nil, "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	return result, text, nil
}

func annotateSingle(ctx context.Context, ui controller.UI, job annotateJob, path, outPath string) error {
	result, text, err := annotateFile(job, path, outPath)
	if err != nil {
		return err
	}

	if err := ui.DisplayDetectors(ctx, result.Detectors); err != nil {
		return err
	}

	return ui.DisplayCircuit(ctx, path, text)
}

func annotateBatch(ctx context.Context, ui controller.UI, job annotateJob, paths []string) error {
	results := make([]controller.BatchResult, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(viper.GetInt(parallelConfigKey))

	var mu sync.Mutex

	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, _, err := annotateFile(job, path, "")

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				results[i] = controller.BatchResult{Path: path, Err: err}
				return nil
			}

			results[i] = controller.BatchResult{Path: path, Detectors: len(result.Detectors)}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	return ui.DisplayBatchSummary(ctx, results)
}

// expandPaths globs each argument, passing non-pattern arguments through so
// missing files surface as read errors rather than silent skips.
func expandPaths(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		matches, err := fsAdapter.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}

		if len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}

		paths = append(paths, matches...)
	}

	sort.Strings(paths)

	return paths, nil
}

func parseObservableFlags(specs []string) ([]observableSpec, error) {
	parsed := make([]observableSpec, 0, len(specs))

	for _, spec := range specs {
		head, tail, found := strings.Cut(spec, ":")
		if !found {
			return nil, fmt.Errorf("observable %q must have the form INDEX:q1,q2,...", spec)
		}

		index, err := strconv.Atoi(head)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("observable %q has an invalid index", spec)
		}

		var qubits []int

		for _, field := range strings.Split(tail, ",") {
			qubit, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || qubit < 0 {
				return nil, fmt.Errorf("observable %q has an invalid qubit %q", spec, field)
			}

			qubits = append(qubits, qubit)
		}

		parsed = append(parsed, observableSpec{index: index, qubits: qubits})
	}

	return parsed, nil
}
