// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"log/slog"
	"os"

	"github.com/awcullen/uatypes/typedef"
	"github.com/awcullen/uatypes/ua"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	typeFiles []string

	logger      = slog.New(slog.NewTextHandler(os.Stderr, nil))
	customTypes *ua.DataTypeArray
)

var rootCmd = &cobra.Command{
	Use:   "uacodec",
	Short: "OPC UA value codec",
	Long: `Convert OPC UA values between the binary, JSON and XML encodings.

Examples:
  uacodec convert --from json --to xml < value.json
  uacodec convert -t Point --types types.yaml --from binary --to json5 -d out *.bin
  uacodec parse "nsu=urn:example;s=Demo" --namespaces http://opcfoundation.org/UA/,urn:example`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringSliceVar(&typeFiles, "types", nil, "YAML file(s) defining custom data types")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(parseCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	customTypes = nil
	for _, name := range typeFiles {
		block, err := typedef.LoadFile(name, customTypes)
		if err != nil {
			return err
		}
		logger.Debug("loaded types", "file", name, "count", len(block.Types))
		customTypes = block
	}
	return nil
}
