// Command tinyj is a personal goal and habit tracker driven by short
// terminal interviews.
package main

import (
	"os"

	"github.com/mesh-intelligence/tinyj/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
