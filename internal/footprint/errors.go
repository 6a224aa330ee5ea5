package footprint

import "errors"

var (
	// ErrValidation 表示数值或类别输入缺失、格式错误
	ErrValidation = errors.New("validation failed")
	// ErrStore 表示记录写入或查询失败，不做重试
	ErrStore = errors.New("store failure")
	// ErrConcurrency 表示互动状态更新在有限次重试后仍然冲突
	ErrConcurrency = errors.New("concurrent engagement update")
	// ErrNotFound 表示用户不存在
	ErrNotFound = errors.New("owner not found")
)
