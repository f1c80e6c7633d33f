// Where: cmd/deployctl/main.go
// What: CLI entrypoint.
// Why: Execute deployctl commands with configured dependencies.
package main

import (
	"os"

	"github.com/llmops-rt/deployctl/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], buildDependencies()))
}
