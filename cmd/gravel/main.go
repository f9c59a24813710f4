// Copyright 2026 The Gravel Authors. All rights reserved. Use of this source
// code is governed by a BSD-style license that can be found in the LICENSE
// file.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gravel [command] (flags)",
	Short: "gravel write-throttle tooling",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(simCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
