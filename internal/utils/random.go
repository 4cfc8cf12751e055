package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateUsernameFromChineseName 取每个字拼音的前若干个字母，再加上 1~3 位数字
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomUser 随机生成的用户都是机组成员
func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleCrew,
	}

	return user, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

var airports = []string{"PEK", "PVG", "CAN", "SZX", "CTU", "XIY", "KMG", "HGH", "WUH", "URC"}
var airlines = []string{"CZ", "CA", "MU", "HU", "ZH"}

// 值勤开始的钟点，覆盖早班、午班、晚班和红眼航班
var dutyStartHours = []float64{5, 5.5, 6, 7, 8, 9.5, 11, 13, 14.5, 16, 18, 20, 21.5, 23}

// 两段值勤之间至少休息 10 小时
const minRestMinutes = 600

func GenerateRandomTripName() string {
	return fmt.Sprintf("%s%04d 航班行程", airlines[rand.Intn(len(airlines))], rand.Intn(10000))
}

// GenerateRandomTrip 生成一个持续 days 天的随机行程，某些天可能休息
func GenerateRandomTrip(days int) []fatigue.ClockDuty {
	duties := make([]fatigue.ClockDuty, 0, days)
	prevEnd := -float64(minRestMinutes)
	station := airports[rand.Intn(len(airports))]

	for day := 0; day < days; day++ {
		if day > 0 && rand.Intn(4) == 0 {
			continue
		}

		start := dutyStartHours[rand.Intn(len(dutyStartHours))]
		startMinutes := float64(day)*fatigue.MinutesPerDay + start*fatigue.MinutesPerHour
		if startMinutes-prevEnd < minRestMinutes {
			continue
		}

		// 值勤 4 ~ 12 小时，以半小时为单位
		duration := float64(8+rand.Intn(17)) / 2
		end := start + duration
		if end >= 24 {
			end -= 24
		}

		legs, arrival := generateRandomLegs(station, start, duration)
		station = arrival

		duties = append(duties, fatigue.ClockDuty{
			DayOffset: day,
			StartHour: start,
			EndHour:   end,
			Legs:      legs,
		})
		prevEnd = startMinutes + duration*fatigue.MinutesPerHour
	}

	if len(duties) == 0 {
		// 保证至少有一段值勤
		legs, _ := generateRandomLegs(station, 8, 8)
		duties = append(duties, fatigue.ClockDuty{DayOffset: 0, StartHour: 8, EndHour: 16, Legs: legs})
	}

	return duties
}

// generateRandomLegs 在值勤时间内平均安排 1~3 个航段，首尾各留出半小时准备时间
func generateRandomLegs(from string, start, duration float64) ([]domain.FlightLeg, string) {
	n := rand.Intn(3) + 1
	legs := make([]domain.FlightLeg, 0, n)
	block := (duration - 1) / float64(n)

	for i := 0; i < n; i++ {
		to := airports[rand.Intn(len(airports))]
		for to == from {
			to = airports[rand.Intn(len(airports))]
		}

		departure := start + 0.5 + float64(i)*block
		legs = append(legs, domain.FlightLeg{
			FlightNumber:   fmt.Sprintf("%s%04d", airlines[rand.Intn(len(airlines))], rand.Intn(10000)),
			Departure:      from,
			Arrival:        to,
			DepartureLocal: FormatClockHour(departure),
			ArrivalLocal:   FormatClockHour(departure + block*0.8),
		})
		from = to
	}

	return legs, from
}
