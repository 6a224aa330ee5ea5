package footprint

import "time"

// Engagement 是用户的连续打卡状态
type Engagement struct {
	StreakCount    int
	LastActiveDate *time.Time
}

// StreakState 连续记录状态机的状态
type StreakState int

const (
	// Fresh 从未提交过记录
	Fresh StreakState = iota
	// Active 至少有过一次推进
	Active
)

func (e Engagement) State() StreakState {
	if e.LastActiveDate == nil {
		return Fresh
	}
	return Active
}

// DayDiff 返回 last 到 now 相隔的自然日数，按 now 所在时区的日历日期计算。
func DayDiff(last, now time.Time) int {
	loc := now.Location()
	ly, lm, ld := last.In(loc).Date()
	ny, nm, nd := now.Date()

	from := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	to := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// AdvanceStreak 在一次成功提交后推进状态：
// 首次提交置 1；隔一天加 1；间隔超过一天重置为 1；同一天（或时钟回拨）保持不变。
// LastActiveDate 只会前移：now 早于已记录的时间时保留原值。
func AdvanceStreak(e Engagement, now time.Time) Engagement {
	next := Engagement{StreakCount: e.StreakCount}

	switch e.State() {
	case Fresh:
		next.StreakCount = 1
	case Active:
		switch diff := DayDiff(*e.LastActiveDate, now); {
		case diff == 1:
			next.StreakCount++
		case diff > 1:
			next.StreakCount = 1
		}
		if next.StreakCount < 1 {
			next.StreakCount = 1
		}
	}

	last := now
	if e.LastActiveDate != nil && now.Before(*e.LastActiveDate) {
		last = *e.LastActiveDate
	}
	next.LastActiveDate = &last
	return next
}
