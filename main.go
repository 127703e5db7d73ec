package main

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

var (
	log = logging.Logger("roomsig")
)

var Version = "0.1.0"

func main() {
	if err := logging.SetLogLevel("*", "info"); err != nil {
		log.Fatal(err)
	}
	app := &cli.App{
		Name:    "roomsig",
		Usage:   "multisig room coordination daemon",
		Version: Version,
		Flags:   []cli.Flag{},
		Commands: []*cli.Command{
			cmdInitDb,
			cmdDaemon,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
