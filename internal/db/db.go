package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// driver 为 postgres 时 target 为 DSN，否则视为 sqlite 文件路径，空值回退到 carbonlog.db。
func Init(driver, target string) error {
	gdb, err := Open(driver, target, logger.Warn)
	if err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open 打开连接并迁移核心模型，不修改全局 DB。
func Open(driver, target string, level logger.LogLevel) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(level)}

	var (
		gdb *gorm.DB
		err error
	)
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres":
		if strings.TrimSpace(target) == "" {
			return nil, errors.New("postgres dsn is required")
		}
		gdb, err = gorm.Open(postgres.Open(target), cfg)
	default:
		path := strings.TrimSpace(target)
		if path == "" {
			path = "carbonlog.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		gdb, err = gorm.Open(sqlite.Open(path), cfg)
		if err == nil {
			err = limitSQLiteWriters(gdb)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate 为核心模型建表
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&User{}, &Footprint{})
}

// sqlite 同一时刻只允许一个写连接，串行化连接池避免 database is locked。
func limitSQLiteWriters(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	return nil
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
