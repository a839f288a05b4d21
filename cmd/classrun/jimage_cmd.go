package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gojclass/classrun/pkg/jimage"
)

var jimageCmd = &cobra.Command{
	Use:   "jimage <path> [path...]",
	Short: "Dump the header and resource index of one or more jimage files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logrus.StandardLogger()
		for _, path := range args {
			if err := dumpJimage(path); err != nil {
				log.WithFields(logrus.Fields{"path": path, "err": err}).Error("failed to dump jimage file")
				fmt.Fprintf(os.Stderr, "error processing %s: %v\n", path, err)
				continue
			}
		}
		return nil
	},
}

func dumpJimage(path string) error {
	f, header, err := jimage.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("%s:\n", path)
	fmt.Printf("  magic:           0x%08X\n", header.Magic)
	fmt.Printf("  version:         %d.%d\n", header.MajorVersion(), header.MinorVersion())
	fmt.Printf("  flags:           0x%08X\n", header.Flags)
	fmt.Printf("  resource_count:  %d\n", header.ResourceCount)
	fmt.Printf("  table_length:    %d\n", header.TableLength)
	fmt.Printf("  location_size:   %d\n", header.LocationSize)
	fmt.Printf("  strings_size:    %d\n", header.StringsSize)

	index, err := jimage.ReadIndex(f, header)
	if err != nil {
		return err
	}
	entries, err := index.Entries()
	if err != nil {
		return err
	}
	fmt.Printf("  entries: %d\n", len(entries))
	for _, e := range entries {
		fmt.Printf("    module=%s parent=%s base=%s\n", e.Module, e.Parent, e.Base)
	}
	return nil
}
