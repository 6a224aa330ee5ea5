package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/carbonlog/internal/db"
	"github.com/carbonlog/internal/footprint"
	"github.com/carbonlog/internal/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMaxRetries = 3

var errVersionConflict = errors.New("engagement version conflict")

// EngagementStore 保存每个用户的连续记录状态。
// 进程内按用户加锁串行化读改写，跨进程依靠 engagement_version 乐观锁兜底。
type EngagementStore struct {
	db         *gorm.DB
	maxRetries int
	locks      *OwnerLocks
	// afterLoad 在读取状态之后、写回之前调用，测试中用于模拟并发写入
	afterLoad func(tx *gorm.DB, ownerID uint)
}

// NewEngagementStore 构造 EngagementStore，默认冲突重试 3 次。
func NewEngagementStore(gdb *gorm.DB) *EngagementStore {
	return &EngagementStore{db: gdb, maxRetries: defaultMaxRetries, locks: NewOwnerLocks()}
}

// WithMaxRetries 调整版本冲突时的重试次数。
func (s *EngagementStore) WithMaxRetries(n int) *EngagementStore {
	if n < 0 {
		return s
	}
	s.maxRetries = n
	return s
}

// Get 读取用户当前状态
func (s *EngagementStore) Get(ctx context.Context, ownerID uint) (footprint.Engagement, error) {
	user, err := loadEngagement(s.db.WithContext(ctx), ownerID, false)
	if err != nil {
		return footprint.Engagement{}, err
	}
	return toEngagement(user), nil
}

// Update 以原子方式对用户状态执行 mutate 并返回写入后的状态。
func (s *EngagementStore) Update(ctx context.Context, ownerID uint, mutate func(footprint.Engagement) footprint.Engagement) (footprint.Engagement, error) {
	unlock, err := s.locks.Lock(ctx, ownerID)
	if err != nil {
		return footprint.Engagement{}, err
	}
	defer unlock()

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return footprint.Engagement{}, err
		}

		var next footprint.Engagement
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			user, err := loadEngagement(tx, ownerID, true)
			if err != nil {
				return err
			}

			if s.afterLoad != nil {
				s.afterLoad(tx, ownerID)
			}

			next = mutate(toEngagement(user))
			if next.StreakCount < 0 {
				next.StreakCount = 0
			}

			var lastActive interface{}
			if next.LastActiveDate != nil {
				lastActive = next.LastActiveDate.UTC()
			}

			result := tx.Model(&db.User{}).
				Where("id = ? AND engagement_version = ?", ownerID, user.EngagementVersion).
				Updates(map[string]interface{}{
					"streak":             next.StreakCount,
					"last_active":        lastActive,
					"engagement_version": gorm.Expr("engagement_version + 1"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errVersionConflict
			}
			return nil
		})

		switch {
		case err == nil:
			return next, nil
		case errors.Is(err, errVersionConflict):
			metrics.StreakConflicts.Inc()
			continue
		case errors.Is(err, footprint.ErrNotFound), errors.Is(err, footprint.ErrStore):
			return footprint.Engagement{}, err
		default:
			return footprint.Engagement{}, fmt.Errorf("%w: update engagement: %w", footprint.ErrStore, err)
		}
	}

	return footprint.Engagement{}, fmt.Errorf("%w: owner %d after %d attempts", footprint.ErrConcurrency, ownerID, s.maxRetries+1)
}

func loadEngagement(tx *gorm.DB, ownerID uint, forUpdate bool) (db.User, error) {
	var user db.User
	query := tx.Select("id", "streak", "last_active", "engagement_version")
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&user, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, fmt.Errorf("%w: id %d", footprint.ErrNotFound, ownerID)
		}
		return user, fmt.Errorf("%w: load engagement: %w", footprint.ErrStore, err)
	}
	return user, nil
}

func toEngagement(user db.User) footprint.Engagement {
	return footprint.Engagement{StreakCount: user.Streak, LastActiveDate: user.LastActive}
}
