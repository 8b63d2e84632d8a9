package game

import "errors"

var (
	// ErrRoomNotFound 表示指令指向一個不存在的房間
	ErrRoomNotFound = errors.New("找不到該房間")

	// ErrDuplicateRoom 表示呼叫端指定的房間 ID 已經存在
	ErrDuplicateRoom = errors.New("房間ID已存在")

	// ErrUnknownStatus 表示比賽狀態已毀損，該場比賽會被隔離
	ErrUnknownStatus = errors.New("未知的比賽狀態")
)
