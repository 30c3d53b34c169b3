package queue

import "errors"

var (
	// ErrKillSwitch 表示运维开关已开启，拒绝新建计划与新的预留。
	// 已预留条目的回执不受影响。
	ErrKillSwitch = errors.New("kill switch 已开启")

	// ErrValidation 表示计划或回执入参校验失败，计划创建遇到它时整体回绝。
	ErrValidation = errors.New("请求校验失败")

	// ErrNotFound 表示计划或条目不存在，与校验错误区分返回。
	ErrNotFound = errors.New("记录不存在")
)
