package footprint

import "time"

// WindowBasis 决定提示计算取"最近 N 条"还是"最近一段时间"的记录
type WindowBasis int

const (
	ByCount WindowBasis = iota
	ByDuration
)

// DefaultTipCount 默认取最近提交的 10 条记录
const DefaultTipCount = 10

// TipWindow 描述提示所依据的记录范围
type TipWindow struct {
	Basis WindowBasis
	Count int
	Span  time.Duration
}

// RecentCount 以提交顺序取最近 n 条
func RecentCount(n int) TipWindow {
	if n <= 0 {
		n = DefaultTipCount
	}
	return TipWindow{Basis: ByCount, Count: n}
}

// RecentSpan 取 now 之前 span 时长内的记录
func RecentSpan(span time.Duration) TipWindow {
	return TipWindow{Basis: ByDuration, Span: span}
}

type tipRule struct {
	category  Category
	threshold float64
	message   string
}

// 规则按顺序独立判断，可同时命中多条。
var tipRules = []tipRule{
	{Transportation, 10, "🚗 Try reducing daily travel by 2–3 km to lower weekly emissions."},
	{Electricity, 15, "⚡ Reduce AC usage by 30 minutes/day — saves ~10 kg CO₂/month."},
	{Food, 20, "🍽️ Add 1 vegetarian day/week — cuts food emissions by 12%."},
	{Lifestyle, 5, "🌿 Increase recycling by 1–2 kg to offset plastic waste."},
}

// Tips 汇总记录的分类排放并返回命中阈值的建议；没有命中时返回空切片。
func Tips(records []Record) []string {
	breakdown := CategoryBreakdown(records)

	tips := make([]string, 0, len(tipRules))
	for _, rule := range tipRules {
		if breakdown.Of(rule.category) > rule.threshold {
			tips = append(tips, rule.message)
		}
	}
	return tips
}
