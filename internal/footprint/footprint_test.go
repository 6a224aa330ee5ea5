package footprint

import (
	"errors"
	"math"
	"testing"
	"time"
)

func rec(c Category, emissions float64, ts time.Time) Record {
	return Record{OwnerID: 1, Category: c, Emissions: emissions, Timestamp: ts}
}

func TestSelectWindows(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w := SelectWindows(now)

	if !w.TodayStart.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected today start: %v", w.TodayStart)
	}
	if !w.WeekStart.Equal(time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)) {
		t.Fatalf("week start should keep time of day, got %v", w.WeekStart)
	}
	if !w.MonthStart.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected month start: %v", w.MonthStart)
	}
	if !w.PrevMonth.Start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) || !w.PrevMonth.End.Equal(w.MonthStart) {
		t.Fatalf("unexpected previous month range: %+v", w.PrevMonth)
	}
}

func TestSelectWindowsJanuaryRollsBackYear(t *testing.T) {
	w := SelectWindows(time.Date(2025, 1, 3, 8, 0, 0, 0, time.UTC))

	if !w.PrevMonth.Start.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected previous month to be December 2024, got %v", w.PrevMonth.Start)
	}
	if !w.WeekStart.Equal(time.Date(2024, 12, 28, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week start: %v", w.WeekStart)
	}
}

func TestWindowContainsIsHalfOpen(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	w := Window{Start: start, End: end}

	if !w.Contains(start) {
		t.Fatal("start should be included")
	}
	if w.Contains(end) {
		t.Fatal("end should be excluded")
	}
	if (Window{Start: start}).Contains(start.Add(-time.Nanosecond)) {
		t.Fatal("time before start should be excluded")
	}
}

func TestWindowTotal(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w := SelectWindows(now)
	records := []Record{
		rec(Transportation, 12, now.Add(-time.Hour)),
		rec(Electricity, 16, now.Add(-2*time.Hour)),
		rec(Food, 5, now.AddDate(0, 0, -3)),
		rec(Lifestyle, 7, now.AddDate(0, 0, -10)),
		rec(Food, 100, now.AddDate(0, -1, 0)),
	}

	if got := WindowTotal(records, w.Today()); got != 28 {
		t.Fatalf("expected today=28, got %v", got)
	}
	if got := WindowTotal(records, w.Week()); got != 33 {
		t.Fatalf("expected week=33, got %v", got)
	}
	if got := WindowTotal(records, w.Month()); got != 40 {
		t.Fatalf("expected month=40, got %v", got)
	}
	if got := WindowTotal(records, w.PrevMonth); got != 100 {
		t.Fatalf("expected previous month=100, got %v", got)
	}
	if got := WindowTotal(nil, w.Month()); got != 0 {
		t.Fatalf("expected empty input to yield 0, got %v", got)
	}
}

func TestCategoryBreakdownMatchesPerCategoryTotals(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	records := []Record{
		rec(Transportation, 3, now),
		rec(Transportation, 4.5, now),
		rec(Electricity, 10, now),
		rec(Food, 2, now),
		rec(Lifestyle, 1.25, now),
	}

	b := CategoryBreakdown(records)
	for _, c := range Categories {
		var want float64
		for _, r := range records {
			if r.Category == c {
				want += r.TotalCarbon()
			}
		}
		if b.Of(c) != want {
			t.Fatalf("category %s: expected %v, got %v", c, want, b.Of(c))
		}
	}

	if empty := CategoryBreakdown(nil); empty != (Breakdown{}) {
		t.Fatalf("expected zero breakdown, got %+v", empty)
	}
}

func TestWeeklyChartFixedOrder(t *testing.T) {
	// 2024-03-14 是周四
	thursday := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	records := []Record{
		rec(Transportation, 2, thursday),
		rec(Food, 3, thursday.Add(3*time.Hour)),
		rec(Electricity, 4, thursday.AddDate(0, 0, -3)), // 周一
		rec(Lifestyle, 1, thursday.AddDate(0, 0, 3)),    // 周日
	}

	chart := WeeklyChart(records, time.UTC)
	if len(chart) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(chart))
	}

	want := []DayTotal{
		{"Mon", 4}, {"Tue", 0}, {"Wed", 0}, {"Thu", 5}, {"Fri", 0}, {"Sat", 0}, {"Sun", 1},
	}
	for i, entry := range want {
		if chart[i] != entry {
			t.Fatalf("entry %d: expected %+v, got %+v", i, entry, chart[i])
		}
	}

	empty := WeeklyChart(nil, time.UTC)
	if len(empty) != 7 || empty[0].Day != "Mon" || empty[6].Day != "Sun" {
		t.Fatalf("unexpected empty chart: %+v", empty)
	}
	for _, entry := range empty {
		if entry.Carbon != 0 {
			t.Fatalf("expected zero bucket, got %+v", entry)
		}
	}
}

func TestWeeklyChartUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// UTC 周日 20:00 在 UTC+8 已是周一
	ts := time.Date(2024, 3, 17, 20, 0, 0, 0, time.UTC)

	chart := WeeklyChart([]Record{rec(Food, 6, ts)}, loc)
	if chart[0].Carbon != 6 || chart[6].Carbon != 0 {
		t.Fatalf("expected record in Monday bucket, got %+v", chart)
	}
}

func TestRecyclingTotal(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	records := []Record{
		{Category: Lifestyle, Emissions: 2, Details: LifestyleDetails{RecyclingKg: 1.5}, Timestamp: now},
		{Category: Lifestyle, Emissions: 2, Details: LifestyleDetails{RecyclingKg: 2}, Timestamp: now.AddDate(0, 0, -1)},
		{Category: Lifestyle, Emissions: 2, Details: LifestyleDetails{RecyclingKg: 9}, Timestamp: now.AddDate(0, 0, -20)},
		{Category: Food, Emissions: 2, Details: FoodDetails{WasteKg: 4}, Timestamp: now},
	}

	if got := RecyclingTotal(records, SelectWindows(now).Week()); got != 3.5 {
		t.Fatalf("expected recycling 3.5, got %v", got)
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected float64
	}{
		{name: "increase", current: 110, previous: 100, expected: 10.0},
		{name: "decrease", current: 50, previous: 200, expected: -75.0},
		{name: "rounded", current: 1, previous: 3, expected: -66.7},
		{name: "zero previous", current: 42, previous: 0, expected: 0},
		{name: "negative previous", current: 42, previous: -5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentChange(tt.current, tt.previous); got != tt.expected {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTipsThresholds(t *testing.T) {
	now := time.Now()

	if tips := Tips(nil); tips == nil || len(tips) != 0 {
		t.Fatalf("expected empty non-nil tips, got %#v", tips)
	}

	atThreshold := []Record{
		rec(Transportation, 10, now),
		rec(Electricity, 15, now),
		rec(Food, 20, now),
		rec(Lifestyle, 5, now),
	}
	if tips := Tips(atThreshold); len(tips) != 0 {
		t.Fatalf("thresholds are strict, got %v", tips)
	}

	over := []Record{
		rec(Lifestyle, 5.1, now),
		rec(Transportation, 6, now),
		rec(Transportation, 6, now),
		rec(Food, 21, now),
	}
	tips := Tips(over)
	if len(tips) != 3 {
		t.Fatalf("expected 3 tips, got %v", tips)
	}
	if tips[0] != tipRules[0].message || tips[1] != tipRules[2].message || tips[2] != tipRules[3].message {
		t.Fatalf("tips should follow rule order, got %v", tips)
	}
}

func TestAdvanceStreakSequence(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 5, d, 9, 0, 0, 0, time.UTC)
	}

	var e Engagement
	if e.State() != Fresh {
		t.Fatal("zero engagement should be fresh")
	}

	steps := []struct {
		at     time.Time
		streak int
	}{
		{day(1), 1},
		{day(2), 2},
		{day(4), 1},
		{day(5), 2},
		{day(5).Add(3 * time.Hour), 2},
	}

	for i, step := range steps {
		e = AdvanceStreak(e, step.at)
		if e.StreakCount != step.streak {
			t.Fatalf("step %d: expected streak %d, got %d", i, step.streak, e.StreakCount)
		}
		if e.LastActiveDate == nil || !e.LastActiveDate.Equal(step.at) {
			t.Fatalf("step %d: last active not updated: %v", i, e.LastActiveDate)
		}
	}
}

func TestAdvanceStreakUsesCalendarDays(t *testing.T) {
	last := time.Date(2024, 5, 1, 23, 50, 0, 0, time.UTC)
	e := Engagement{StreakCount: 3, LastActiveDate: &last}

	// 不足 24 小时但已跨过午夜，视为连续
	next := AdvanceStreak(e, time.Date(2024, 5, 2, 0, 10, 0, 0, time.UTC))
	if next.StreakCount != 4 {
		t.Fatalf("expected streak 4 after midnight, got %d", next.StreakCount)
	}

	// 超过 24 小时但仍相隔一个自然日
	early := time.Date(2024, 5, 1, 0, 5, 0, 0, time.UTC)
	e = Engagement{StreakCount: 3, LastActiveDate: &early}
	next = AdvanceStreak(e, time.Date(2024, 5, 2, 23, 55, 0, 0, time.UTC))
	if next.StreakCount != 4 {
		t.Fatalf("expected streak 4 on next calendar day, got %d", next.StreakCount)
	}

	// 时钟回拨不改变计数
	next = AdvanceStreak(e, early.Add(-48*time.Hour))
	if next.StreakCount != 3 {
		t.Fatalf("expected streak unchanged on clock skew, got %d", next.StreakCount)
	}
}

func TestAdvanceStreakNeverMovesLastActiveBackwards(t *testing.T) {
	last := time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC)
	e := Engagement{StreakCount: 1, LastActiveDate: &last}

	// 前一天的提交晚到
	next := AdvanceStreak(e, time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC))
	if next.StreakCount != 1 {
		t.Fatalf("expected streak unchanged for earlier day, got %d", next.StreakCount)
	}
	if next.LastActiveDate == nil || !next.LastActiveDate.Equal(last) {
		t.Fatalf("expected last active to stay %v, got %v", last, next.LastActiveDate)
	}

	// 同一天内更早的时间也不回退
	next = AdvanceStreak(e, last.Add(-time.Second/2))
	if !next.LastActiveDate.Equal(last) {
		t.Fatalf("expected last active to stay %v, got %v", last, next.LastActiveDate)
	}

	// 后续的次日提交照常推进
	next = AdvanceStreak(next, time.Date(2024, 3, 17, 8, 0, 0, 0, time.UTC))
	if next.StreakCount != 2 {
		t.Fatalf("expected streak 2 on the following day, got %d", next.StreakCount)
	}
}

func TestDayDiffAcrossZones(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	last := time.Date(2024, 5, 2, 2, 0, 0, 0, time.UTC) // 当地 5 月 1 日 21:00
	now := time.Date(2024, 5, 2, 8, 0, 0, 0, loc)

	if diff := DayDiff(last, now); diff != 1 {
		t.Fatalf("expected diff 1 in local calendar, got %d", diff)
	}
}

func TestResolveBadgeBoundaries(t *testing.T) {
	tests := []struct {
		streak int
		tier   Tier
	}{
		{0, TierNone},
		{6, TierNone},
		{7, TierBronze},
		{13, TierBronze},
		{14, TierSilver},
		{29, TierSilver},
		{30, TierGold},
		{365, TierGold},
	}

	for _, tt := range tests {
		if got := ResolveBadge(tt.streak); got.Tier != tt.tier {
			t.Fatalf("streak %d: expected %s, got %s", tt.streak, tt.tier, got.Tier)
		}
	}

	if ResolveBadge(1).Label != "None" {
		t.Fatalf("unexpected label for no badge: %q", ResolveBadge(1).Label)
	}
}

func TestEntryValidate(t *testing.T) {
	valid := Entry{Category: Food, Details: FoodDetails{DietType: "vegan", DairyCups: 1}, Emissions: 3.2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid entry, got %v", err)
	}

	invalid := []Entry{
		{Category: "travel", Emissions: 1},
		{Category: Food, Emissions: math.NaN()},
		{Category: Food, Emissions: math.Inf(1)},
		{Category: Food, Emissions: -1},
		{Category: Food, Details: ElectricityDetails{}, Emissions: 1},
		{Category: Lifestyle, Details: LifestyleDetails{PlasticWaste: -2}, Emissions: 1},
	}
	for i, entry := range invalid {
		if err := entry.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("entry %d: expected validation error, got %v", i, err)
		}
	}
}

func TestDetailsRoundTripByTag(t *testing.T) {
	raw, err := EncodeDetails(TransportationDetails{Vehicle: "car", Fuel: "petrol", DistanceKm: 12})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeDetails(Transportation, raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	d, ok := decoded.(TransportationDetails)
	if !ok || d.Vehicle != "car" || d.DistanceKm != 12 {
		t.Fatalf("unexpected details: %#v", decoded)
	}

	if _, err := DecodeDetails("unknown", raw); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown tag, got %v", err)
	}
}
