package footprint

import "time"

// weekdayLabels 图表固定按周一到周日输出
var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Breakdown 按类别汇总的排放
type Breakdown struct {
	Transport   float64 `json:"transport"`
	Electricity float64 `json:"electricity"`
	Food        float64 `json:"food"`
	Lifestyle   float64 `json:"lifestyle"`
}

// Of 返回指定类别的汇总值
func (b Breakdown) Of(c Category) float64 {
	switch c {
	case Transportation:
		return b.Transport
	case Electricity:
		return b.Electricity
	case Food:
		return b.Food
	case Lifestyle:
		return b.Lifestyle
	}
	return 0
}

// DayTotal 是周图表中的单日数据
type DayTotal struct {
	Day    string  `json:"day"`
	Carbon float64 `json:"carbon"`
}

// WindowTotal 汇总落在窗口内记录的 totalCarbon。
func WindowTotal(records []Record, w Window) float64 {
	var total float64
	for _, r := range records {
		if w.Contains(r.Timestamp) {
			total += r.TotalCarbon()
		}
	}
	return total
}

// CategoryTotal 汇总窗口内某一类别的排放。
func CategoryTotal(records []Record, c Category, w Window) float64 {
	var total float64
	for _, r := range records {
		if w.Contains(r.Timestamp) {
			total += r.CategoryEmissions(c)
		}
	}
	return total
}

// CategoryBreakdown 对每个类别分别累加各自的排放槽位。
func CategoryBreakdown(records []Record) Breakdown {
	var b Breakdown
	for _, r := range records {
		b.Transport += r.CategoryEmissions(Transportation)
		b.Electricity += r.CategoryEmissions(Electricity)
		b.Food += r.CategoryEmissions(Food)
		b.Lifestyle += r.CategoryEmissions(Lifestyle)
	}
	return b
}

// RecyclingTotal 汇总窗口内生活方式记录填写的回收量（kg）。
func RecyclingTotal(records []Record, w Window) float64 {
	var total float64
	for _, r := range records {
		if r.Category != Lifestyle || !w.Contains(r.Timestamp) {
			continue
		}
		switch d := r.Details.(type) {
		case LifestyleDetails:
			total += d.RecyclingKg
		case *LifestyleDetails:
			if d != nil {
				total += d.RecyclingKg
			}
		}
	}
	return total
}

// WeeklyChart 将记录按 loc 时区下的星期几分桶，始终返回 Mon..Sun 七项。
func WeeklyChart(records []Record, loc *time.Location) []DayTotal {
	if loc == nil {
		loc = time.Local
	}

	var sums [7]float64
	for _, r := range records {
		sums[weekdayIndex(r.Timestamp.In(loc).Weekday())] += r.TotalCarbon()
	}

	chart := make([]DayTotal, len(weekdayLabels))
	for i, label := range weekdayLabels {
		chart[i] = DayTotal{Day: label, Carbon: sums[i]}
	}
	return chart
}

func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
