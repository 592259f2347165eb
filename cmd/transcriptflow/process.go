package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
)

var (
	processTranslate bool
	processFormats   []string
)

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Process transcripts once and exit",
	Long: `Process the given .txt transcripts, or every transcript in the input
folder when no files are named. Artifacts are written to the output folder.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close(ctx)
		cfg := rt.cfg

		if cmd.Flags().Changed("translate") {
			cfg.Export.Translate = processTranslate
		}
		if cmd.Flags().Changed("format") {
			cfg.Export.Formats = processFormats
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		proc, err := newBatchProcessor(rt)
		if err != nil {
			return err
		}
		if err := ensureDirectories(cfg.Paths.Output); err != nil {
			return err
		}

		var summary processor.Summary
		if len(args) == 0 {
			summary, err = proc.ProcessAll(ctx, cfg.Paths.Input)
			if err != nil {
				return err
			}
		} else {
			for _, path := range args {
				report, err := proc.Process(ctx, path)
				if err != nil {
					summary.Failed = append(summary.Failed, processor.Failure{Source: path, Err: err})
					continue
				}
				summary.Succeeded = append(summary.Succeeded, report)
			}
		}

		printSummary(summary)
		if len(summary.Failed) > 0 {
			return fmt.Errorf("%d of %d transcripts failed", len(summary.Failed), len(summary.Failed)+len(summary.Succeeded))
		}
		return nil
	},
}

func printSummary(s processor.Summary) {
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	for _, r := range s.Succeeded {
		ok.Fprint(os.Stdout, "[DONE] ")
		fmt.Printf("%s (%s)\n", filepath.Base(r.Source), r.Duration.Round(time.Millisecond))
		for _, out := range r.Outputs {
			fmt.Printf("       %s\n", out)
		}
	}
	for _, f := range s.Failed {
		fail.Fprint(os.Stdout, "[FAIL] ")
		fmt.Printf("%s: %v\n", filepath.Base(f.Source), f.Err)
	}

	color.Cyan("\n%d succeeded, %d failed\n", len(s.Succeeded), len(s.Failed))
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&processTranslate, "translate", false, "Also translate the results into the target language")
	processCmd.Flags().StringSliceVar(&processFormats, "format", nil, "Export formats (txt, docx)")
}
