// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"os"

	"github.com/lockboxhq/lockbox/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
