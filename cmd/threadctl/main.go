// threadctl inspects a digital thread dataset from the command line.
//
// Usage:
//
//	threadctl summary   [--data <file|glob>...]
//	threadctl list      [--kind <Kind>]
//	threadctl show      <id>
//	threadctl linked    <id>
//	threadctl incoming  <id>
//	threadctl connected <id>
//	threadctl flow      [--order Requirement,Test]
//	threadctl network
//	threadctl timeline  [--window 1W|1M|3M|6M|1Y|All] [--changes] [--by-month]
//	threadctl export    [--format json|yaml] [-o <file>]
//	threadctl check     [--strict]
//
// Without --data the dataset paths come from the config file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
