package main

import (
	"context"
	"log"
	"os"

	"github.com/franciskouaho/love-dice-sub000/internal/buildinfo"
	"github.com/franciskouaho/love-dice-sub000/internal/cli"
	"github.com/franciskouaho/love-dice-sub000/internal/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
