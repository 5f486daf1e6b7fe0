package main

import (
	"os"

	"github.com/jeeftor/qmp-macro/cmd"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/utils"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.UserErrorf("%v", err)
		os.Exit(int(utils.ExitCodeOf(err)))
	}
}
