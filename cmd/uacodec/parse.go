// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/awcullen/uatypes/ua"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse text...",
	Short: "Parse and print NodeIds, ExpandedNodeIds, QualifiedNames and NumericRanges",
	Long: `Parse the text form of a value and print it in canonical form.

Examples:
  uacodec parse "ns=2;s=Demo.Static.Scalar.Float"
  uacodec parse --as expandednodeid "svr=1;nsu=urn:example;i=5"
  uacodec parse --as qualifiedname --uris "2:Name" --namespaces http://opcfoundation.org/UA/,urn:a,urn:b`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseAs         string
	parseNamespaces []string
	parseServers    []string
	parseURIs       bool
)

func init() {
	parseCmd.Flags().StringVar(&parseAs, "as", "nodeid", "Kind of text: nodeid, expandednodeid, qualifiedname, range")
	parseCmd.Flags().StringSliceVar(&parseNamespaces, "namespaces", nil, "Namespace table resolving nsu= and ns=")
	parseCmd.Flags().StringSliceVar(&parseServers, "servers", nil, "Server table resolving svu= and svr=")
	parseCmd.Flags().BoolVar(&parseURIs, "uris", false, "Print namespace and server uris instead of indices")
}

func runParse(cmd *cobra.Command, args []string) error {
	var nm *ua.NamespaceMapping
	if len(parseNamespaces) > 0 {
		nm = ua.NewNamespaceMapping(parseNamespaces, nil)
	}
	for _, s := range args {
		out, err := parseText(s, nm)
		if err != nil {
			return errors.Wrapf(err, "error parsing %q", s)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}

func parseText(s string, nm *ua.NamespaceMapping) (string, error) {
	printNM, printServers := (*ua.NamespaceMapping)(nil), []string(nil)
	if parseURIs {
		printNM, printServers = nm, parseServers
	}
	switch strings.ToLower(parseAs) {
	case "nodeid":
		id, err := ua.ParseNodeIDEx(s, nm)
		if err != nil {
			return "", err
		}
		return id.PrintEx(printNM), nil
	case "expandednodeid":
		id, err := ua.ParseExpandedNodeIDEx(s, nm, parseServers)
		if err != nil {
			return "", err
		}
		return id.PrintEx(printNM, printServers), nil
	case "qualifiedname":
		qn, err := ua.ParseQualifiedNameEx(s, nm)
		if err != nil {
			return "", err
		}
		return qn.PrintEx(printNM), nil
	case "range":
		r, err := ua.ParseNumericRange(s)
		if err != nil {
			return "", err
		}
		return r.String(), nil
	}
	return "", errors.Errorf("unknown kind %q", parseAs)
}
