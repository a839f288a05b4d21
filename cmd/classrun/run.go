package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gojclass/classrun/internal/trace"
	"github.com/gojclass/classrun/pkg/runtime"
)

var runCmd = &cobra.Command{
	Use:   "run <path-to-class-file> [methodName]",
	Short: "Load a class file and run one of its static methods",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		methodName := "main"
		if len(args) == 2 {
			methodName = args[1]
		}

		classPath := filepath.Dir(path)
		className := strings.TrimSuffix(filepath.Base(path), ".class")

		log := logrus.StandardLogger()
		var sink trace.Sink = trace.Noop{}
		if traceFlag {
			sink = trace.Default
		}
		env := runtime.NewEnvironment(classPath, os.Stdout, log, sink)

		if _, err := runtime.RunMain(env, className, methodName); err != nil {
			log.WithFields(logrus.Fields{
				"class":  className,
				"method": methodName,
				"err":    err,
			}).Error("execution failed")
			return err
		}
		return nil
	},
}
