// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package main

import "github.com/joamaki/reactivelab/internal/cli"

func main() {
	cli.Execute()
}
