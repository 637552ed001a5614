package core

import "time"

// SummaryLength 是摘要长度偏好。
type SummaryLength string

const (
	SummaryShort  SummaryLength = "short"
	SummaryMedium SummaryLength = "medium"
	SummaryLong   SummaryLength = "long"
)

// NotificationFrequency 是通知频率偏好。
type NotificationFrequency string

const (
	NotifyNever  NotificationFrequency = "never"
	NotifyDaily  NotificationFrequency = "daily"
	NotifyHourly NotificationFrequency = "hourly"
)

// ReadingPrefs 是阅读偏好，仅透传，不参与排序。
type ReadingPrefs struct {
	AudioEnabled bool
	Summary      SummaryLength
	Language     string
	Notification NotificationFrequency
}

// UserProfile 是用户画像：推荐链路的"全局上下文 + 特征源 + 决策信号"。
//
// 它不是某一个 Node，而是：
//   - 被所有 Node 共享
//   - 驱动 Recall / Rank / ReRank
//
// 不变式：每个用户至多一份画像，由存储边界保证（upsert by user id）。
type UserProfile struct {
	UserID string

	// PreferredTopics 是用户声明的偏好话题，无质心时的相关性兜底。
	PreferredTopics []string

	// Prefs 是阅读偏好（音频、摘要长度、语言、通知频率）。
	Prefs ReadingPrefs

	// Centroid 是近期正反馈文章 Embedding 的加权均值，
	// 由 Engine 在请求路径上构建；为空表示冷启动。
	Centroid []float64

	// RecentArticles 是近期正反馈过的文章 ID（新→旧），协同召回的种子。
	RecentArticles []string

	// Anonymous 标记画像是否为 NOT_FOUND 降级产物。
	Anonymous bool

	// UpdateTime 最后更新时间
	UpdateTime time.Time
}

// NewUserProfile 创建一个新的用户画像。
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:          userID,
		PreferredTopics: make([]string, 0),
		RecentArticles:  make([]string, 0),
		UpdateTime:      time.Now(),
	}
}

// AnonymousProfile 返回匿名/默认画像：零话题偏好、无质心、无历史。
// 用户画像 NOT_FOUND 时由特征服务本地降级使用，错误不向上传播。
func AnonymousProfile(userID string) *UserProfile {
	p := NewUserProfile(userID)
	p.Anonymous = true
	return p
}

// HasCentroid 判断画像是否具备 Embedding 质心（非冷启动）。
func (p *UserProfile) HasCentroid() bool {
	return p != nil && len(p.Centroid) > 0
}

// HasHistory 判断画像是否有正反馈历史。
func (p *UserProfile) HasHistory() bool {
	return p != nil && len(p.RecentArticles) > 0
}

// AddRecentArticle 记录一条正反馈文章（去重，超出 maxSize 淘汰最旧）。
func (p *UserProfile) AddRecentArticle(articleID string, maxSize int) {
	if p.RecentArticles == nil {
		p.RecentArticles = make([]string, 0)
	}
	for _, id := range p.RecentArticles {
		if id == articleID {
			return
		}
	}
	p.RecentArticles = append([]string{articleID}, p.RecentArticles...)
	if maxSize > 0 && len(p.RecentArticles) > maxSize {
		p.RecentArticles = p.RecentArticles[:maxSize]
	}
	p.UpdateTime = time.Now()
}
