// Package batch handles batch processing of files
package batch

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"fjacquet/stmt-categorizer/cmd/root"
	"fjacquet/stmt-categorizer/internal/batch"
	"fjacquet/stmt-categorizer/internal/fileutils"
	"fjacquet/stmt-categorizer/internal/loader"
	"fjacquet/stmt-categorizer/internal/logging"
)

// Workers overrides batch.workers when positive.
var Workers int

// NoProgress disables the progress bar.
var NoProgress bool

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statement files from a directory",
	Long: `Import every supported statement in the input directory concurrently and
write one categorized CSV per file to the output directory. A file that fails
does not stop the others.

Example:
  stmt-categorizer batch -i statements/ -o categorized/ --workers 8`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().IntVarP(&Workers, "workers", "w", 0, "Number of concurrent imports (default from batch.workers)")
	Cmd.Flags().BoolVar(&NoProgress, "no-progress", false, "Do not display a progress bar")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	logger := c.GetLogger()

	paths, err := fileutils.ListFiles(inputDir, loader.SupportedExtension)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Warn("No supported statement files found", logging.Field{Key: logging.FieldFile, Value: inputDir})
		return nil
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return err
	}

	runner := c.GetBatchRunner()
	if Workers > 0 {
		runner = batch.NewRunner(c.GetImporter(), Workers, logger)
	}

	var onDone func(batch.FileResult)
	if !NoProgress {
		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Importing statements"),
		)
		onDone = func(batch.FileResult) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	results := runner.Run(cmd.Context(), paths, onDone)
	targets := fileutils.OutputPaths(paths, outputDir, ".csv")

	writer := c.GetCSVWriter()
	out := cmd.OutOrStdout()
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			_, _ = fmt.Fprintf(out, "FAILED  %s: %v\n", res.Path, res.Err)
			continue
		}
		target := targets[i]
		if err := writer.WriteFile(target, res.Result.Transactions); err != nil {
			res.Err = err
			_, _ = fmt.Fprintf(out, "FAILED  %s: %v\n", res.Path, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "OK      %s -> %s (%d transactions)\n", res.Path, target, len(res.Result.Transactions))
	}

	summary := batch.Summarize(results)
	_, _ = fmt.Fprintf(out, "%d files, %d imported, %d failed, %d transactions %s\n",
		summary.Files, summary.Succeeded, summary.Failed, summary.Transactions, summary.DateRange)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Files)
	}
	return nil
}
