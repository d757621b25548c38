// Command lodbench walks synthetic viewers over procedural terrain, one LOD
// cache per viewer, and reports load/evict behavior. Prometheus metrics can
// be served while it runs.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
