package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carbonlog/internal/footprint"
	"github.com/carbonlog/internal/logger"
	"github.com/carbonlog/internal/metrics"
	"github.com/carbonlog/internal/store"
	"golang.org/x/sync/errgroup"
)

// ErrPartialSubmission 表示记录已保存但连续天数未能推进，记录不会回滚。
var ErrPartialSubmission = errors.New("record saved but streak not advanced")

// RecordStore 是排放记录存储需要满足的契约
type RecordStore interface {
	Append(ctx context.Context, record *footprint.Record) (string, error)
	Query(ctx context.Context, q store.RecordQuery) ([]footprint.Record, error)
}

// EngagementStore 是连续记录状态存储需要满足的契约，Update 必须对同一用户原子执行
type EngagementStore interface {
	Get(ctx context.Context, ownerID uint) (footprint.Engagement, error)
	Update(ctx context.Context, ownerID uint, mutate func(footprint.Engagement) footprint.Engagement) (footprint.Engagement, error)
}

// FootprintService 负责排放记录的提交以及各类汇总读取
type FootprintService struct {
	records    RecordStore
	engagement EngagementStore
	clock      func() time.Time
	location   *time.Location
	tipWindow  footprint.TipWindow
	owners     *store.OwnerLocks
	log        *logger.Logger
}

// SubmitResult 是一次提交的结果
type SubmitResult struct {
	RecordID string
	Total    float64
	Streak   int
}

// Summary 今日/近 7 天/本月排放总量
type Summary struct {
	Today float64
	Week  float64
	Month float64
}

// Insights 近期的分项洞察
type Insights struct {
	WeeklyTransport      float64
	ElectricityChangePct float64
	FoodEmissions        float64
	LifestyleRecycling   float64
}

// Rewards 连续天数与徽章
type Rewards struct {
	Streak int
	Badge  footprint.Badge
}

// NewFootprintService 构造 FootprintService，默认使用本地时区与最近 10 条记录的提示窗口。
func NewFootprintService(records RecordStore, engagement EngagementStore) *FootprintService {
	return &FootprintService{
		records:    records,
		engagement: engagement,
		clock:      time.Now,
		location:   time.Local,
		tipWindow:  footprint.RecentCount(footprint.DefaultTipCount),
		owners:     store.NewOwnerLocks(),
		log:        logger.Nop(),
	}
}

// WithClock 替换时间来源，便于测试。
func (s *FootprintService) WithClock(clock func() time.Time) *FootprintService {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// WithLocation 指定计算自然日与窗口边界的时区。
func (s *FootprintService) WithLocation(loc *time.Location) *FootprintService {
	if loc != nil {
		s.location = loc
	}
	return s
}

// WithTipWindow 指定提示所依据的记录范围。
func (s *FootprintService) WithTipWindow(w footprint.TipWindow) *FootprintService {
	s.tipWindow = w
	return s
}

// WithLogger 注入日志实例。
func (s *FootprintService) WithLogger(log *logger.Logger) *FootprintService {
	if log != nil {
		s.log = log.With("component", "footprint")
	}
	return s
}

// Now 返回服务时区下的当前时间
func (s *FootprintService) Now() time.Time {
	return s.clock().In(s.location)
}

// Submit 追加一条记录并推进连续天数。
// 同一用户的提交串行执行，提交时间在持锁后读取，保证按时间先后推进。
// 两步并非原子：记录写入成功而状态更新失败时，返回带 RecordID 的结果以及 ErrPartialSubmission。
func (s *FootprintService) Submit(ctx context.Context, ownerID uint, entry footprint.Entry) (SubmitResult, error) {
	if err := entry.Validate(); err != nil {
		return SubmitResult{}, err
	}

	unlock, err := s.owners.Lock(ctx, ownerID)
	if err != nil {
		return SubmitResult{}, err
	}
	defer unlock()

	if _, err := s.engagement.Get(ctx, ownerID); err != nil {
		return SubmitResult{}, err
	}

	now := s.Now()
	record := footprint.Record{
		OwnerID:   ownerID,
		Category:  entry.Category,
		Details:   entry.Details,
		Emissions: entry.Emissions,
		Timestamp: now,
	}

	recordID, err := s.records.Append(ctx, &record)
	if err != nil {
		return SubmitResult{}, wrapStoreError(err)
	}
	metrics.Submissions.WithLabelValues(entry.Category.String()).Inc()

	result := SubmitResult{RecordID: recordID, Total: record.TotalCarbon()}

	state, err := s.engagement.Update(ctx, ownerID, func(current footprint.Engagement) footprint.Engagement {
		return footprint.AdvanceStreak(current, now)
	})
	if err != nil {
		metrics.PartialSubmissions.Inc()
		s.log.Warn("streak update failed after record append", "owner", ownerID, "record", recordID, "error", err)
		return result, fmt.Errorf("%w: %w", ErrPartialSubmission, err)
	}

	metrics.StreakLength.Observe(float64(state.StreakCount))
	result.Streak = state.StreakCount
	return result, nil
}

// Summary 统计今天、近 7 天与本月的排放总量。
func (s *FootprintService) Summary(ctx context.Context, ownerID uint, now time.Time) (Summary, error) {
	windows := footprint.SelectWindows(now)

	records, err := s.query(ctx, store.RecordQuery{OwnerID: ownerID, Window: footprint.Window{Start: windows.Earliest()}})
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Today: footprint.WindowTotal(records, windows.Today()),
		Week:  footprint.WindowTotal(records, windows.Week()),
		Month: footprint.WindowTotal(records, windows.Month()),
	}, nil
}

// WeeklyChart 返回近 7 天按周一至周日排列的日排放。
func (s *FootprintService) WeeklyChart(ctx context.Context, ownerID uint, now time.Time) ([]footprint.DayTotal, error) {
	windows := footprint.SelectWindows(now)

	records, err := s.query(ctx, store.RecordQuery{OwnerID: ownerID, Window: windows.Week()})
	if err != nil {
		return nil, err
	}
	return footprint.WeeklyChart(records, now.Location()), nil
}

// CategoryBreakdown 返回本月各类别排放。
func (s *FootprintService) CategoryBreakdown(ctx context.Context, ownerID uint, now time.Time) (footprint.Breakdown, error) {
	windows := footprint.SelectWindows(now)

	records, err := s.query(ctx, store.RecordQuery{OwnerID: ownerID, Window: windows.Month()})
	if err != nil {
		return footprint.Breakdown{}, err
	}
	return footprint.CategoryBreakdown(records), nil
}

// Insights 并发读取近 7 天、本月、上月三个窗口并计算洞察。
func (s *FootprintService) Insights(ctx context.Context, ownerID uint, now time.Time) (Insights, error) {
	windows := footprint.SelectWindows(now)

	var week, month, prevMonth []footprint.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		week, err = s.query(gctx, store.RecordQuery{OwnerID: ownerID, Window: windows.Week()})
		return err
	})
	g.Go(func() (err error) {
		month, err = s.query(gctx, store.RecordQuery{OwnerID: ownerID, Window: windows.Month()})
		return err
	})
	g.Go(func() (err error) {
		prevMonth, err = s.query(gctx, store.RecordQuery{OwnerID: ownerID, Window: windows.PrevMonth})
		return err
	})
	if err := g.Wait(); err != nil {
		return Insights{}, err
	}

	all := footprint.Window{}
	return Insights{
		WeeklyTransport: footprint.CategoryTotal(week, footprint.Transportation, all),
		ElectricityChangePct: footprint.PercentChange(
			footprint.CategoryTotal(month, footprint.Electricity, all),
			footprint.CategoryTotal(prevMonth, footprint.Electricity, all),
		),
		FoodEmissions:      footprint.CategoryTotal(week, footprint.Food, all),
		LifestyleRecycling: footprint.RecyclingTotal(week, all),
	}, nil
}

// Tips 按提示窗口取最近记录并返回命中的建议。
func (s *FootprintService) Tips(ctx context.Context, ownerID uint) ([]string, error) {
	q := store.RecordQuery{OwnerID: ownerID}
	switch s.tipWindow.Basis {
	case footprint.ByDuration:
		q.Window = footprint.Window{Start: s.Now().Add(-s.tipWindow.Span)}
	default:
		q.Latest = s.tipWindow.Count
		if q.Latest <= 0 {
			q.Latest = footprint.DefaultTipCount
		}
	}

	records, err := s.query(ctx, q)
	if err != nil {
		return nil, err
	}
	return footprint.Tips(records), nil
}

// Rewards 返回当前连续天数与对应徽章。
func (s *FootprintService) Rewards(ctx context.Context, ownerID uint) (Rewards, error) {
	state, err := s.engagement.Get(ctx, ownerID)
	if err != nil {
		return Rewards{}, err
	}
	return Rewards{Streak: state.StreakCount, Badge: footprint.ResolveBadge(state.StreakCount)}, nil
}

func (s *FootprintService) query(ctx context.Context, q store.RecordQuery) ([]footprint.Record, error) {
	records, err := s.records.Query(ctx, q)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return records, nil
}

func wrapStoreError(err error) error {
	if errors.Is(err, footprint.ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %w", footprint.ErrStore, err)
}
