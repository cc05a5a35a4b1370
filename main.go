package main

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

const version = "2026.09.01"

var (
	log = logging.Logger("tipbot")
)

func main() {
	if err := logging.SetLogLevel("*", "info"); err != nil {
		log.Fatal(err)
	}
	app := &cli.App{
		Name:    "tipbot",
		Usage:   "comment-triggered token tip bot for Hive",
		Version: version,
		Flags:   []cli.Flag{},
		Commands: []*cli.Command{
			cmdInitDb,
			cmdRun,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
