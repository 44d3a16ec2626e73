// Command regwindow reorders a DAG's linear node order so every
// use-to-definition distance stays within a configured window, inserting
// synthetic copy nodes when reordering alone cannot satisfy the bound.
package main

import (
	"github.com/regwindow/scheduler/cmd/regwindow/cmd"
)

func main() {
	cmd.Execute()
}
