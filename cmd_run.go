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

	"github.com/slothbuzz/tipbot/bot"
	"github.com/slothbuzz/tipbot/config"
	"github.com/slothbuzz/tipbot/dao"
	"github.com/slothbuzz/tipbot/hive"
	"github.com/slothbuzz/tipbot/initdb"
	"github.com/slothbuzz/tipbot/notify"
	"github.com/slothbuzz/tipbot/util"

	_ "net/http/pprof"
)

var cmdRun = &cli.Command{
	Name:  "run",
	Usage: "Start the tip bot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "db",
			Usage: "root:123456@tcp(127.0.0.1:3306)/tipbot",
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
		if ll == "" {
			ll = "info"
		}
		if err := logging.SetLogLevel("*", ll); err != nil {
			return err
		}

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

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		log.Info("sql ping success")

		var rds *redis.Client
		if addr := cctx.String("redis"); addr != "" {
			rds = redis.NewClient(&redis.Options{
				Addr: addr,
			})
			pong, err := rds.Ping(ctx).Result()
			if err != nil {
				return err
			}
			log.Info("redis response ", pong)
		}

		if err := dao.GetDatabaseLock(db); err != nil {
			return fmt.Errorf("another bot instance owns this database")
		}
		defer dao.ReleaseDatabaseLock(db) //nolint:errcheck

		if err := initdb.EnsureSchema(db); err != nil {
			return err
		}

		d := dao.NewDao(ctx, db, rds)

		if err := d.SeedDefaultLevels(); err != nil {
			return err
		}
		defaulted, err := config.EnsureDefaults(d)
		if err != nil {
			return err
		}
		if defaulted > 0 {
			log.Warnf("%v configuration values were defaulted, review them before trusting the bot", defaulted)
		}
		if err := d.WarmProcessedCache(); err != nil {
			log.Warnf("cache warm failed, running without fast path: %v", err)
		}

		cfg, err := config.Load(d)
		if err != nil {
			return err
		}
		if len(cfg.HiveAPINodes) == 0 {
			return fmt.Errorf("no hive api node configured")
		}

		signer := hive.NewRemoteSigner(cfg.SignerAPINode)
		chain := hive.NewClient(cfg.HiveAPINodes[0], signer)
		engine := hive.NewEngineClient(cfg.EngineAPINode, chain, cfg.AccountName)

		var notifier bot.Notifier
		if cfg.EnableDiscord {
			notifier = notify.NewDiscord(cfg.DiscordWebhook, cfg.DiscordBotName)
		}

		b := bot.NewBot(ctx, cfg, d, bot.Collaborators{
			Stream:   chain,
			Balances: engine,
			Wallet:   engine,
			Poster:   chain,
			Voter:    chain,
			Mana:     chain,
			Notifier: notifier,
		})

		return b.Run()
	},
}
