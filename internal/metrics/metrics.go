package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submissions 按类别统计成功写入的排放记录
var Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "carbonlog",
	Subsystem: "footprint",
	Name:      "submissions_total",
	Help:      "Emission records appended, by category.",
}, []string{"category"})

// PartialSubmissions 记录已保存但连续天数未能推进的提交
var PartialSubmissions = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "carbonlog",
	Subsystem: "footprint",
	Name:      "partial_submissions_total",
	Help:      "Submissions whose record was saved but whose streak update failed.",
})

// StreakConflicts 统计互动状态乐观锁冲突次数
var StreakConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "carbonlog",
	Subsystem: "engagement",
	Name:      "update_conflicts_total",
	Help:      "Optimistic version conflicts while updating engagement state.",
})

// StreakLength 观察推进后的连续天数分布
var StreakLength = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "carbonlog",
	Subsystem: "engagement",
	Name:      "streak_days",
	Help:      "Streak length after each accepted submission.",
	Buckets:   []float64{1, 3, 7, 14, 30, 60, 120},
})
