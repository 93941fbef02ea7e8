// Command migrate is the CLI entrypoint wrapping internal/cli.
package main

import "github.com/aqasim81/database-migration-engine/internal/cli"

func main() {
	cli.Execute()
}
