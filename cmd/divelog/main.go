package main

import (
	"context"
	"log"
	"os"

	"github.com/orcadive/divelog/internal/buildinfo"
	"github.com/orcadive/divelog/internal/client/cli"
	"github.com/orcadive/divelog/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
