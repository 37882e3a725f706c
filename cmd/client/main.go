package main

import (
	"context"
	"flag"
	"log"

	"github.com/pkalnins/gallery/internal/client/cli"
)

func main() {

	serverAddr := flag.String("s", "http://localhost:8080", "gallery server address")
	flag.Parse()

	app, err := cli.NewApp(*serverAddr)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
