package main

import (
	"fmt"
	syslog "log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slothbuzz/tipbot/initdb"
	"github.com/slothbuzz/tipbot/util"
)

var cmdInitDb = &cli.Command{
	Name:  "initdb",
	Usage: "Create the bot schema, sample tier table and configuration defaults",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "db",
			Usage: "root:123456@tcp(127.0.0.1:3306)/tipbot",
		},
		&cli.StringFlag{
			Name:  "redis",
			Usage: "127.0.0.1:6379",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := util.ReqContext(cctx)

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
			return fmt.Errorf("failed to connect database: %w", err)
		}

		var rds *redis.Client
		if addr := cctx.String("redis"); addr != "" {
			rds = redis.NewClient(&redis.Options{
				Addr: addr,
			})
			if _, err := rds.Ping(ctx).Result(); err != nil {
				return err
			}
		}

		if err := initdb.InitDatabase(ctx, db, rds); err != nil {
			return err
		}

		log.Info("database initialized")
		return nil
	},
}
