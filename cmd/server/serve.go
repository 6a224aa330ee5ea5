package main

import (
	"fmt"
	"time"

	"github.com/carbonlog/internal/config"
	"github.com/carbonlog/internal/db"
	"github.com/carbonlog/internal/footprint"
	"github.com/carbonlog/internal/handler"
	"github.com/carbonlog/internal/logger"
	"github.com/carbonlog/internal/router"
	"github.com/carbonlog/internal/service"
	"github.com/carbonlog/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

// app 汇总一次进程内共享的依赖
type app struct {
	cfg        config.AppConfig
	log        *logger.Logger
	records    *store.RecordStore
	engagement *store.EngagementStore
	footprints *service.FootprintService
	auth       *service.AuthService
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseTarget()); err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	return newApp(cfg, log, db.DB), nil
}

func newApp(cfg config.AppConfig, log *logger.Logger, gdb *gorm.DB) *app {
	records := store.NewRecordStore(gdb)
	engagement := store.NewEngagementStore(gdb).WithMaxRetries(cfg.StreakMaxRetries)

	tipWindow := footprint.RecentCount(cfg.TipsRecentCount)
	if cfg.TipsWindowDays > 0 {
		tipWindow = footprint.RecentSpan(time.Duration(cfg.TipsWindowDays) * 24 * time.Hour)
	}

	footprints := service.NewFootprintService(records, engagement).
		WithLocation(cfg.Location).
		WithTipWindow(tipWindow).
		WithLogger(log)

	return &app{
		cfg:        cfg,
		log:        log,
		records:    records,
		engagement: engagement,
		footprints: footprints,
		auth:       service.NewAuthService(gdb, cfg.JWTSecret, cfg.JWTExpiresIn),
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	created, err := db.EnsureUser(db.DB, a.cfg.SuperRootUserName, a.cfg.SuperRootEmail, a.cfg.SuperRootPassword)
	if err != nil {
		a.log.Error("ensure super root user failed", "error", err)
	} else if created {
		a.log.Info("super root user created", "name", a.cfg.SuperRootUserName)
	}

	gin.SetMode(a.cfg.GinMode)

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(a.footprints, a.auth, a.log)
	r := router.SetupRouter(api, router.Config{
		SessionSecret: a.cfg.SessionSecret,
		CORSOrigins:   a.cfg.CORSOrigins,
	})

	a.log.Info("server listening", "addr", a.cfg.ListenAddr, "driver", a.cfg.DatabaseDriver)
	if err := r.Run(a.cfg.ListenAddr); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}
