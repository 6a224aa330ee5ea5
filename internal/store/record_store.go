package store

import (
	"context"
	"fmt"

	"github.com/carbonlog/internal/db"
	"github.com/carbonlog/internal/footprint"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecordQuery 描述一次记录查询：Window 为零值时不限时间，Latest>0 时按提交时间倒序取前 N 条。
type RecordQuery struct {
	OwnerID uint
	Window  footprint.Window
	Latest  int
}

// RecordStore 基于 gorm 的排放记录存储，只追加不修改。
type RecordStore struct {
	db *gorm.DB
}

// NewRecordStore 构造 RecordStore
func NewRecordStore(gdb *gorm.DB) *RecordStore {
	return &RecordStore{db: gdb}
}

// Append 写入一条记录并返回其 ID；ID 为空时由存储分配 UUID。
func (s *RecordStore) Append(ctx context.Context, record *footprint.Record) (string, error) {
	details, err := footprint.EncodeDetails(record.Details)
	if err != nil {
		return "", fmt.Errorf("%w: encode details: %w", footprint.ErrStore, err)
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	row := db.Footprint{
		ID:         record.ID,
		UserID:     record.OwnerID,
		Category:   record.Category.String(),
		Details:    datatypes.JSON(details),
		Emissions:  record.Emissions,
		RecordedAt: record.Timestamp.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("%w: append footprint: %w", footprint.ErrStore, err)
	}

	return row.ID, nil
}

// Query 返回符合条件的记录；没有数据时返回空切片而不是错误。
func (s *RecordStore) Query(ctx context.Context, q RecordQuery) ([]footprint.Record, error) {
	query := s.db.WithContext(ctx).Model(&db.Footprint{}).Where("user_id = ?", q.OwnerID)

	if !q.Window.Start.IsZero() {
		query = query.Where("recorded_at >= ?", q.Window.Start.UTC())
	}
	if q.Window.Bounded() {
		query = query.Where("recorded_at < ?", q.Window.End.UTC())
	}
	if q.Latest > 0 {
		query = query.Order("recorded_at DESC").Order("created_at DESC").Limit(q.Latest)
	} else {
		query = query.Order("recorded_at ASC")
	}

	var rows []db.Footprint
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: query footprints: %w", footprint.ErrStore, err)
	}

	records := make([]footprint.Record, 0, len(rows))
	for _, row := range rows {
		record, err := toRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", footprint.ErrStore, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func toRecord(row db.Footprint) (footprint.Record, error) {
	category, err := footprint.ParseCategory(row.Category)
	if err != nil {
		return footprint.Record{}, fmt.Errorf("footprint %s: %w", row.ID, err)
	}

	details, err := footprint.DecodeDetails(category, row.Details)
	if err != nil {
		return footprint.Record{}, fmt.Errorf("footprint %s: %w", row.ID, err)
	}

	return footprint.Record{
		ID:        row.ID,
		OwnerID:   row.UserID,
		Category:  category,
		Details:   details,
		Emissions: row.Emissions,
		Timestamp: row.RecordedAt,
	}, nil
}
