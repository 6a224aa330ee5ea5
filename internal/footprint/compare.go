package footprint

import "math"

// PercentChange 计算 current 相对 previous 的变化百分比，保留一位小数。
// previous <= 0 时返回 0，与"无变化"不作区分。
func PercentChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return Round1((current - previous) / previous * 100)
}

// Round1 四舍五入到一位小数
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
