package core

import "time"

// EventType 是用户交互事件类型。
type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
	EventDwell      EventType = "dwell"
	EventBookmark   EventType = "bookmark"
	EventShare      EventType = "share"
)

// InteractionEvent 是一条用户-文章交互记录。
// Append-only：核心从不修改或删除事件，保留策略由外部负责。
type InteractionEvent struct {
	UserID     string
	ArticleID  string
	Type       EventType
	Timestamp  time.Time
	Properties map[string]any
}

// EventWeight 返回事件类型的行为权重，用于质心构建与协同召回。
// Impression 权重为 0：曝光不代表正反馈。
func EventWeight(t EventType) float64 {
	switch t {
	case EventClick:
		return 1.0
	case EventDwell:
		return 1.5
	case EventBookmark:
		return 3.0
	case EventShare:
		return 4.0
	default:
		return 0
	}
}

// IsPositive 判断事件是否为正反馈（参与质心/协同计算）。
func (e *InteractionEvent) IsPositive() bool {
	if e == nil {
		return false
	}
	return EventWeight(e.Type) > 0
}
