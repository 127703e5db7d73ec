package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/signet-labs/roomsig/initdb"
)

var cmdInitDb = &cli.Command{
	Name:  "initdb",
	Usage: "Create the roomsig database schema",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "db",
			Usage: "root:123456@tcp(127.0.0.1:3306)/roomsig",
		},
	},
	Action: func(cctx *cli.Context) error {
		db, err := gorm.Open(mysql.Open(cctx.String("db")), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}

		if err := initdb.InitDatabase(db); err != nil {
			return err
		}

		log.Info("database initialized")
		return nil
	},
}
