package main

import "github.com/eventport/organizer-console/cmd/console/cmd"

func main() {
	cmd.Execute()
}
