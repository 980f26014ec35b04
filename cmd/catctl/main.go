// Command catctl works on category CSV files offline: it validates them,
// prints the outline or render graph, and re-exports them normalized.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
