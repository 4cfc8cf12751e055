package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/config"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/repository"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/seed"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var days int
	var rosterPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机机组成员, 2: 插入随机行程分析, 3: 导入排班表)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&days, "days", 4, "随机行程的天数")
	flag.StringVar(&rosterPath, "roster", "./internal/seed/data/roster.csv", "排班表 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 创建引擎
	engine, err := fatigue.New(cfg.FatigueParameters())
	if err != nil {
		logger.Error("疲劳模型参数不合法", "error", err)
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入机组成员成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 || days <= 0 {
			slog.Error("请输入合法的行程数量和天数")
			return
		}

		if err := seed.SeedRandomAnalyses(repo, engine, n, days, cfg.Fatigue.BatchWorkers); err != nil {
			slog.Error("无法插入随机行程分析", slog.String("error", err.Error()))
			return
		}

		slog.Info("插入随机行程分析成功", slog.Int("count", n))
	case 3:
		seed.SeedRoster(repo, engine, rosterPath, cfg.Seed.User.Password)
	default:
		slog.Error("指定的操作非法")
	}
}
