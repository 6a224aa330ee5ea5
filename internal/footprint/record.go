package footprint

import (
	"fmt"
	"time"
)

// Record 是一次提交产生的排放记录，创建后不再修改。
type Record struct {
	ID        string
	OwnerID   uint
	Category  Category
	Details   Details
	Emissions float64
	Timestamp time.Time
}

// TotalCarbon 等于该记录所属类别的排放量。
func (r Record) TotalCarbon() float64 {
	return r.Emissions
}

// CategoryEmissions 返回记录在指定类别上的排放，非本类别恒为 0。
func (r Record) CategoryEmissions(c Category) float64 {
	if r.Category == c {
		return r.Emissions
	}
	return 0
}

// Entry 描述一次待提交的排放数据
type Entry struct {
	Category  Category
	Details   Details
	Emissions float64
}

// Validate 检查类别、载荷与排放数值。
func (e Entry) Validate() error {
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, e.Category)
	}
	if e.Details != nil {
		if e.Details.Category() != e.Category {
			return fmt.Errorf("%w: %s details submitted as %s", ErrValidation, e.Details.Category(), e.Category)
		}
		if err := e.Details.validate(); err != nil {
			return err
		}
	}
	return checkQuantity("emissions", e.Emissions)
}
