package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/birktj/cad-kernel-experiments/pkg/watcher"
)

var watchDebounce = watcher.DefaultDebounce

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-run a sketch's queries whenever the file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "delay before re-running after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	rerun := func(string) {
		s, err := loadSketch(cmd, path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		report, err := s.Run()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "--- %s\n", path)
		printReport(out, report)
	}

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Watch([]string{path}, rerun); err != nil {
		return err
	}
	rerun(path)
	fw.Start()

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s, press Ctrl-C to stop\n", path)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	return nil
}
