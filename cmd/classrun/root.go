package main

import "github.com/spf13/cobra"

var traceFlag bool

var rootCmd = &cobra.Command{
	Use:   "classrun",
	Short: "Run .class files through a minimal bytecode interpreter",
	Long: `classrun decodes a single Java .class file, installs a small
built-in runtime (java.lang.Object, java.lang.System, java.io.PrintStream),
and interprets one of its static methods.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "enable per-instruction tracing (only takes effect in trace-tagged builds)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(jimageCmd)
}
