package utils

import (
	"fmt"
	"math"
	"time"
)

// ParseClockHour 将 "15:04" 格式的钟点转换为小时数，额外允许 "24:00" 表示当天结束
func ParseClockHour(s string) (float64, error) {
	if s == "24:00" {
		return 24, nil
	}

	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("钟点 %q 格式错误，应为 HH:MM", s)
	}

	return float64(t.Hour()) + float64(t.Minute())/60, nil
}

// FormatClockHour 将小时数格式化为 "15:04"，超过 24 小时的部分按次日处理
func FormatClockHour(h float64) string {
	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	total := int(math.Round(h * 60))
	return fmt.Sprintf("%02d:%02d", total/60%24, total%60)
}
