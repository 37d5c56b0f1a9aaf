// Command mmrctl is a thin host binding around the mmr package: push leaves
// into a database-backed range, read its root, and produce or check proofs
// from the shell. It exists to exercise the library the way a real
// integrator would reach for it, not as a substitute for the library itself.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
