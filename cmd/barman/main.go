package main

import (
	"barman/cmd/barman/commands"
	"barman/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	commands.ExecuteContext(ctx)
}
