package footprint

import "time"

// Window 是用于筛选记录的时间区间，Start 含、End 不含；End 为零值表示不设上界。
type Window struct {
	Start time.Time
	End   time.Time
}

// Bounded 报告窗口是否有上界。
func (w Window) Bounded() bool {
	return !w.End.IsZero()
}

// Contains 判断时间点是否落在窗口内。
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if w.Bounded() && !t.Before(w.End) {
		return false
	}
	return true
}

// Windows 汇总一次计算中所有读接口使用的边界，全部基于同一个 now。
type Windows struct {
	Now        time.Time
	TodayStart time.Time
	WeekStart  time.Time
	MonthStart time.Time
	PrevMonth  Window
}

// SelectWindows 根据 now 所在时区计算各个窗口边界：
// 今天零点、now 往前 6 天（保留时分秒）、本月一号零点以及上个月的半开区间。
func SelectWindows(now time.Time) Windows {
	loc := now.Location()
	year, month, day := now.Date()

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	return Windows{
		Now:        now,
		TodayStart: time.Date(year, month, day, 0, 0, 0, 0, loc),
		WeekStart:  now.AddDate(0, 0, -6),
		MonthStart: monthStart,
		PrevMonth: Window{
			Start: time.Date(year, month-1, 1, 0, 0, 0, 0, loc),
			End:   monthStart,
		},
	}
}

func (w Windows) Today() Window {
	return Window{Start: w.TodayStart}
}

func (w Windows) Week() Window {
	return Window{Start: w.WeekStart}
}

func (w Windows) Month() Window {
	return Window{Start: w.MonthStart}
}

// Earliest 返回 today/week/month 三个开放窗口中最早的起点。
func (w Windows) Earliest() time.Time {
	earliest := w.TodayStart
	if w.WeekStart.Before(earliest) {
		earliest = w.WeekStart
	}
	if w.MonthStart.Before(earliest) {
		earliest = w.MonthStart
	}
	return earliest
}
