package seed

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"slices"
	"strconv"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/repository"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// 排班表的列，每一行是一个航段
var RosterHeaders = []string{"工号", "姓名", "邮箱", "行程", "天", "开始", "结束", "航班号", "出发", "到达", "起飞", "落地"}

type RosterTrip struct {
	Username string
	FullName string
	Email    string
	Name     string
	Duties   []fatigue.ClockDuty
}

// ParseRoster 同一工号的同一行程组成一个行程，同一天同一时段的连续多行是同一段值勤的多个航段
func ParseRoster(r io.Reader) ([]*RosterTrip, error) {
	reader := csv.NewReader(r)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for _, h := range RosterHeaders {
		if !slices.Contains(headers, h) {
			return nil, fmt.Errorf("没有找到列 %s", h)
		}
	}

	trips := make([]*RosterTrip, 0)
	index := make(map[string]*RosterTrip)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}

		record := make(map[string]string, len(headers))
		for i, value := range row {
			record[headers[i]] = value
		}

		day, err := strconv.Atoi(record["天"])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行的天数不合法: %s", line, record["天"])
		}
		start, err := utils.ParseClockHour(record["开始"])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}
		end, err := utils.ParseClockHour(record["结束"])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}

		key := record["工号"] + "\x00" + record["行程"]
		trip, exists := index[key]
		if !exists {
			trip = &RosterTrip{
				Username: record["工号"],
				FullName: record["姓名"],
				Email:    record["邮箱"],
				Name:     record["行程"],
				Duties:   make([]fatigue.ClockDuty, 0),
			}
			index[key] = trip
			trips = append(trips, trip)
		}

		leg := domain.FlightLeg{
			FlightNumber:   record["航班号"],
			Departure:      record["出发"],
			Arrival:        record["到达"],
			DepartureLocal: record["起飞"],
			ArrivalLocal:   record["落地"],
		}

		n := len(trip.Duties)
		if n > 0 && trip.Duties[n-1].DayOffset == day && trip.Duties[n-1].StartHour == start && trip.Duties[n-1].EndHour == end {
			trip.Duties[n-1].Legs = append(trip.Duties[n-1].Legs, leg)
			continue
		}

		trip.Duties = append(trip.Duties, fatigue.ClockDuty{
			DayOffset: day,
			StartHour: start,
			EndHour:   end,
			Legs:      []domain.FlightLeg{leg},
		})
	}

	return trips, nil
}

// SeedRoster 导入排班表并逐个行程分析保存，不存在的机组成员会用 password 新建
func SeedRoster(r *repository.Repository, engine *fatigue.Engine, path string, password string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	trips, err := ParseRoster(file)
	if err != nil {
		slog.Error("解析排班表失败", "error", err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("无法生成密码哈希", "error", err)
		return
	}

	cnt := 0
	for _, trip := range trips {
		user, err := r.GetUserByUsername(trip.Username)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// 表示该机组成员不在数据库中，需要新建并插入
				user = &domain.User{
					Username:     trip.Username,
					PasswordHash: string(passwordHash),
					FullName:     trip.FullName,
					Email:        trip.Email,
					Role:         domain.RoleCrew,
				}
				if err := r.CreateUser(user); err != nil {
					slog.Error("插入机组成员失败", "username", trip.Username, "error", err)
					continue
				}
			default:
				slog.Error("获取机组成员失败", "username", trip.Username, "error", err)
				continue
			}
		}

		tl, err := fatigue.NormalizeClockDuties(trip.Duties)
		if err != nil {
			slog.Error("行程不合法", "username", trip.Username, "trip", trip.Name, "error", err)
			continue
		}

		res, err := engine.Analyze(tl)
		if err != nil {
			slog.Error("分析行程失败", "username", trip.Username, "trip", trip.Name, "error", err)
			continue
		}

		a, err := fatigue.NewAnalysis(user.ID, trip.Name, engine.Parameters(), res)
		if err != nil {
			slog.Error("无法生成分析记录", "error", err)
			continue
		}

		if err := r.CreateAnalyses(a); err != nil {
			slog.Error("插入分析记录失败", "error", err)
			continue
		}

		slog.Info("已导入行程", "username", trip.Username, "trip", trip.Name, "risk", a.OverallRiskLevel)
		cnt++
	}

	slog.Info("导入排班表完成", "count", cnt)
}

// SeedRandomAnalyses 为随机的在职机组成员生成 n 个持续 days 天的随机行程
func SeedRandomAnalyses(r *repository.Repository, engine *fatigue.Engine, n int, days int, workers int) error {
	crew, err := r.GetActiveUsersByRole(domain.RoleCrew)
	if err != nil {
		return err
	}
	if len(crew) == 0 {
		return errors.New("没有在职的机组成员，请先插入用户")
	}

	timelines := make([]*domain.Timeline, 0, n)
	for i := 0; i < n; i++ {
		tl, err := fatigue.NormalizeClockDuties(utils.GenerateRandomTrip(days))
		if err != nil {
			return err
		}
		timelines = append(timelines, tl)
	}

	results, err := fatigue.AnalyzeBatch(context.Background(), engine, timelines, workers)
	if err != nil {
		return err
	}

	analyses := make([]*domain.FatigueAnalysis, 0, n)
	for _, res := range results {
		user := crew[rand.Intn(len(crew))]
		a, err := fatigue.NewAnalysis(user.ID, utils.GenerateRandomTripName(), engine.Parameters(), res)
		if err != nil {
			return err
		}
		analyses = append(analyses, a)
	}

	return r.CreateAnalyses(analyses...)
}
