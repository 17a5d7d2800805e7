// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/awcullen/uatypes/ua"
	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file...]",
	Short: "Convert values between encodings",
	Long: `Convert values between the binary, json, json5 and xml encodings.

Without files the value is read from stdin and written to stdout. Files are
converted concurrently and written to the output directory, with the
extension of the target encoding.`,
	RunE: runConvert,
}

var (
	convertType    string
	convertFrom    string
	convertTo      string
	convertOutDir  string
	convertWorkers int
)

func init() {
	convertCmd.Flags().StringVarP(&convertType, "type", "t", "Variant", "Name of the data type of the values")
	convertCmd.Flags().StringVarP(&convertFrom, "from", "f", "json", "Encoding of the input: "+formatNames())
	convertCmd.Flags().StringVarP(&convertTo, "to", "o", "xml", "Encoding of the output: "+formatNames())
	convertCmd.Flags().StringVarP(&convertOutDir, "out-dir", "d", ".", "Directory of the converted files")
	convertCmd.Flags().IntVarP(&convertWorkers, "workers", "w", runtime.NumCPU(), "Number of files converted concurrently")
}

func runConvert(cmd *cobra.Command, args []string) error {
	typ, err := lookupType(convertType, customTypes)
	if err != nil {
		return err
	}
	from, err := lookupFormat(convertFrom)
	if err != nil {
		return err
	}
	to, err := lookupFormat(convertTo)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		in, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, "error reading stdin")
		}
		out, err := convert(in, typ, from, to, customTypes)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	if err := os.MkdirAll(convertOutDir, 0o755); err != nil {
		return errors.Wrap(err, "error creating output directory")
	}
	workers := convertWorkers
	if workers < 1 {
		workers = 1
	}
	wp := workerpool.New(workers)
	var (
		mu     sync.Mutex
		failed int
	)
	for _, name := range args {
		name := name
		wp.Submit(func() {
			target, err := convertFile(name, typ, from, to)
			if err != nil {
				logger.Error("conversion failed", "file", name, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			logger.Debug("converted", "file", name, "target", target)
		})
	}
	wp.StopWait()
	if failed > 0 {
		return errors.Errorf("%d of %d files failed", failed, len(args))
	}
	logger.Info("converted files", "count", len(args), "type", typ.Name, "from", convertFrom, "to", convertTo)
	return nil
}

func convertFile(name string, typ *ua.DataType, from, to format) (string, error) {
	in, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	out, err := convert(in, typ, from, to, customTypes)
	if err != nil {
		return "", err
	}
	base := filepath.Base(name)
	target := filepath.Join(convertOutDir, strings.TrimSuffix(base, filepath.Ext(base))+to.ext)
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return "", err
	}
	return target, nil
}
