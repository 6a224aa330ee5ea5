package footprint

import (
	"fmt"
	"strings"
)

// Category 标识一条碳排放记录所属的活动类别，创建后不可更改。
type Category string

const (
	Transportation Category = "transportation"
	Electricity    Category = "electricity"
	Food           Category = "food"
	Lifestyle      Category = "lifestyle"
)

// Categories 按固定顺序列出全部类别，聚合与提示规则都按该顺序遍历。
var Categories = []Category{Transportation, Electricity, Food, Lifestyle}

// ParseCategory 将外部输入规范化为 Category。
func ParseCategory(raw string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(raw))); c {
	case Transportation, Electricity, Food, Lifestyle:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, raw)
	}
}

// Valid 判断类别是否为已知取值。
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

func (c Category) String() string {
	return string(c)
}
