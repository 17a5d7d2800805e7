// Copyright 2021 Converter Systems LLC. All rights reserved.

// Command uacodec converts OPC UA values between the binary, JSON and XML
// encodings and parses the text forms of NodeIds and related types.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
