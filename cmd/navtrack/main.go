package main

import (
	"os"

	_ "go.uber.org/automaxprocs"
	"k8s.io/apiserver/pkg/server"

	"github.com/sfiharvest/navtrack/cmd/navtrack/app"
)

func main() {
	ctx := server.SetupSignalContext()
	if err := app.NewNavtrackCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
