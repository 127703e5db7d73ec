package main

import (
	"fmt"
	syslog "log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/signet-labs/roomsig/engine"
	"github.com/signet-labs/roomsig/transport"
	"github.com/signet-labs/roomsig/util"

	_ "net/http/pprof"
)

var cmdDaemon = &cli.Command{
	Name:  "daemon",
	Usage: "Start the multisig reconciliation daemon",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "gateway",
			Usage: "room gateway listen multiaddr, e.g. /ip4/127.0.0.1/tcp/8448",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "room gateway access token",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "root:123456@tcp(127.0.0.1:3306)/roomsig",
		},
		&cli.StringFlag{
			Name:  "redis",
			Usage: "127.0.0.1:6379",
		},
		&cli.StringFlag{
			Name:        "log-level",
			DefaultText: "info",
		},
	},
	Action: func(cctx *cli.Context) error {
		go func() {
			http.ListenAndServe(":6060", nil) //nolint:errcheck
		}()

		ctx := util.ReqContext(cctx)

		ll := cctx.String("log-level")
		if err := logging.SetLogLevel("*", ll); err != nil {
			return err
		}
		if err := logging.SetLogLevel("rpc", "error"); err != nil {
			return err
		}

		gatewayAddr := cctx.String("gateway")
		if gatewayAddr == "" {
			return fmt.Errorf("no gateway address")
		}

		gw, err := transport.NewRoomGatewayRPC(ctx, gatewayAddr, cctx.String("token"))
		if err != nil {
			return err
		}
		defer gw.Close()

		newLogger := logger.New(
			syslog.New(os.Stdout, "\r\n", syslog.LstdFlags),
			logger.Config{
				SlowThreshold:             1000 * time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		)

		db, err := gorm.Open(mysql.Open(cctx.String("db")), &gorm.Config{
			Logger: newLogger,
		})
		if err != nil {
			fmt.Println("failed to connect database ", err)
			os.Exit(0)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		log.Info("sql ping success")

		redisAddr := cctx.String("redis")
		rds := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: "",
			DB:       0,
		})
		defer rds.Close()
		pong, err := rds.Ping(ctx).Result()
		if err != nil {
			return err
		}
		log.Info("redis response ", pong)

		e := engine.New(ctx, db, rds, gw)
		if err := e.Start(); err != nil {
			return err
		}

		<-ctx.Done()

		e.Stop()

		os.Exit(0)
		return nil
	},
}
