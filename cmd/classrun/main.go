// Command classrun loads a single .class file and runs one of its
// static methods through the interpreter in pkg/runtime, or dumps the
// header and resource index of a jimage file.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("classrun failed")
		os.Exit(1)
	}
}
