package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"nnact/api"
	"nnact/config"
	"nnact/database"
	"nnact/logger"
	"nnact/middleware"
	"nnact/repository"
	"nnact/router"
	"nnact/service"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "external config file (optional)")
	flag.StringVar(&configFile, "c", "", "external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 3000 or :3000")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("nnact %s\n", version)
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logrus.Fatalf("load config: %s", errors.ErrorStack(err))
	}
	logger.Setup(cfg.Log)

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}
	config.PrintConfig()

	repos, closeStore, err := openRepositories(cfg)
	if err != nil {
		logrus.Fatalf("init database: %s", errors.ErrorStack(err))
	}
	defer closeStore()

	middleware.InitJWT(cfg)
	issuer := func(userID, phone string) (string, error) {
		return middleware.GenerateToken(userID, phone, cfg.JWT.ExpireTime)
	}

	clk := clock.WallClock
	services := service.NewServices(repos, cfg, clk, issuer)
	r := router.SetupRouter(cfg, api.NewHandlers(services), clk)

	logrus.WithFields(logrus.Fields{
		"addr":    cfg.Server.Port,
		"prefix":  cfg.Server.APIPrefix,
		"version": version,
	}).Info("nnact api started")

	if err := r.Run(cfg.Server.Port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

// openRepositories 按 database.driver 选择存储实现
func openRepositories(cfg *config.Config) (*repository.Repositories, func(), error) {
	switch cfg.Database.Driver {
	case "mongo":
		client, db, err := database.InitMongo(context.Background(), cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return repository.NewMongoRepositories(db), closeFn, nil
	case "mysql":
		db, err := database.Init(cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormRepositories(db), closeFn, nil
	default:
		return nil, nil, errors.NotSupportedf("database driver %q", cfg.Database.Driver)
	}
}
