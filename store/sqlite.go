package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动

	"github.com/rushteam/newsrec/core"
)

// SQLiteStore 是语料/交互数据的 SQLite 实现，对应外部存储层的 schema 约定
// （articles / user_profiles / user_events 三张表）。
//
// 实现接口：
//   - core.CorpusStore（recency 召回、trending 快照重建）
//   - core.InteractionStore（质心构建、协同召回）
//   - feature.Provider（用户画像 + 文章特征读取，结构化匹配）
//
// 写路径不在此：语料由 ingestion 写入，事件由 API 层落盘。
// Schema 方法仅为测试/原型建表。
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite 打开（或创建）SQLite 数据库。
// WAL + busy_timeout + 外键约束；SQLite 单写者模型，连接数限制为 1。
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %q: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore 以现有连接构建（测试注入用）。
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	body_text     TEXT,
	source_domain TEXT NOT NULL,
	published_at  TIMESTAMP NOT NULL,
	topics        TEXT,             -- JSON array
	credibility   REAL,             -- [0,100]，NLP 回填
	embedding     TEXT              -- JSON array，NLP 回填
);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at DESC);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id                TEXT PRIMARY KEY,  -- 每用户至多一份画像
	preferred_topics       TEXT,              -- JSON array
	audio_enabled          INTEGER DEFAULT 0,
	summary_length         TEXT DEFAULT 'medium',
	language               TEXT DEFAULT 'en',
	notification_frequency TEXT DEFAULT 'daily',
	updated_at             TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_events (
	user_id    TEXT NOT NULL,
	article_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	ts         TIMESTAMP NOT NULL,
	properties TEXT                -- JSON object
);
CREATE INDEX IF NOT EXISTS idx_events_user ON user_events(user_id, ts DESC);
CREATE INDEX IF NOT EXISTS idx_events_article ON user_events(article_id, ts DESC);
`

// InitSchema 建表（幂等）。生产环境由外部迁移工具负责。
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// DB 返回底层连接（测试灌数据用）。
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// ========== core.CorpusStore ==========

var _ core.CorpusStore = (*SQLiteStore)(nil)

// ListRecent 返回 since 之后发布且特征完整的文章，按发布时间降序。
// 缺 embedding 的文章在 SQL 层直接排除：不让无特征文章进入候选生成。
func (s *SQLiteStore) ListRecent(ctx context.Context, since time.Time, limit int) ([]*core.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body_text, source_domain, published_at, topics, credibility, embedding
		 FROM articles
		 WHERE published_at > ? AND embedding IS NOT NULL AND credibility IS NOT NULL
		 ORDER BY published_at DESC, id ASC
		 LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetArticles 批量读取文章，缺失的 id 跳过。
func (s *SQLiteStore) GetArticles(ctx context.Context, ids []string) ([]*core.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, title, body_text, source_domain, published_at, topics, credibility, embedding
		 FROM articles WHERE id IN (%s)`, placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return nil, fmt.Errorf("getting articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// ListRecentEvents 返回 since 之后的交互事件（trending 快照重建用）。
func (s *SQLiteStore) ListRecentEvents(ctx context.Context, since time.Time) ([]*core.InteractionEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, article_id, event_type, ts, properties
		 FROM user_events WHERE ts > ? ORDER BY ts DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("listing recent events: %w", err)
	}
	defer rows.Close()

	var events []*core.InteractionEvent
	for rows.Next() {
		ev := &core.InteractionEvent{}
		var props sql.NullString
		var typ string
		if err := rows.Scan(&ev.UserID, &ev.ArticleID, &typ, &ev.Timestamp, &props); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev.Type = core.EventType(typ)
		if props.Valid && props.String != "" {
			_ = json.Unmarshal([]byte(props.String), &ev.Properties)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ========== core.InteractionStore ==========

var _ core.InteractionStore = (*SQLiteStore)(nil)

// GetUserArticles 返回用户 since 之后正反馈过的文章及行为权重。
func (s *SQLiteStore) GetUserArticles(ctx context.Context, userID string, since time.Time) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT article_id, event_type FROM user_events
		 WHERE user_id = ? AND ts > ? AND event_type != 'impression'
		 ORDER BY ts DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("getting user articles: %w", err)
	}
	defer rows.Close()

	result := make(map[string]float64)
	for rows.Next() {
		var articleID, typ string
		if err := rows.Scan(&articleID, &typ); err != nil {
			return nil, fmt.Errorf("scanning user article: %w", err)
		}
		result[articleID] += core.EventWeight(core.EventType(typ))
	}
	return result, rows.Err()
}

// GetCoInteracted 返回与指定文章共现交互的其他文章及共现权重：
// 交互过 articleID 的用户还交互了哪些文章（SQL 自连接做 item-item 共现）。
func (s *SQLiteStore) GetCoInteracted(ctx context.Context, articleID string, since time.Time, limit int) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT other.article_id, COUNT(*) AS cnt
		 FROM user_events seed
		 JOIN user_events other
		   ON other.user_id = seed.user_id
		  AND other.article_id != seed.article_id
		 WHERE seed.article_id = ?
		   AND seed.ts > ? AND other.ts > ?
		   AND seed.event_type != 'impression'
		   AND other.event_type != 'impression'
		 GROUP BY other.article_id
		 ORDER BY cnt DESC
		 LIMIT ?`, articleID, since, since, limit)
	if err != nil {
		return nil, fmt.Errorf("getting co-interacted articles: %w", err)
	}
	defer rows.Close()

	result := make(map[string]float64)
	for rows.Next() {
		var id string
		var cnt float64
		if err := rows.Scan(&id, &cnt); err != nil {
			return nil, fmt.Errorf("scanning co-interaction: %w", err)
		}
		result[id] = cnt
	}
	return result, rows.Err()
}

// ========== feature.Provider（结构化匹配）==========

// GetUserProfile 读取用户画像，不存在时返回 core.ErrProfileNotFound。
func (s *SQLiteStore) GetUserProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, preferred_topics, audio_enabled, summary_length, language, notification_frequency, updated_at
		 FROM user_profiles WHERE user_id = ?`, userID)

	p := core.NewUserProfile(userID)
	var topics sql.NullString
	var audio int
	var summary, lang, notify string
	var updated sql.NullTime
	err := row.Scan(&p.UserID, &topics, &audio, &summary, &lang, &notify, &updated)
	if err == sql.ErrNoRows {
		return nil, core.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user profile: %w", err)
	}
	if topics.Valid && topics.String != "" {
		_ = json.Unmarshal([]byte(topics.String), &p.PreferredTopics)
	}
	p.Prefs = core.ReadingPrefs{
		AudioEnabled: audio != 0,
		Summary:      core.SummaryLength(summary),
		Language:     lang,
		Notification: core.NotificationFrequency(notify),
	}
	if updated.Valid {
		p.UpdateTime = updated.Time
	}
	return p, nil
}

// BatchGetArticleFeatures 批量读取文章特征；缺 embedding 的行在 SQL 层排除，
// 调用方（feature.Service）对照请求 id 列表计算 Missing。
func (s *SQLiteStore) BatchGetArticleFeatures(ctx context.Context, articleIDs []string) (map[string]*core.ArticleFeatures, error) {
	if len(articleIDs) == 0 {
		return map[string]*core.ArticleFeatures{}, nil
	}
	query := fmt.Sprintf(
		`SELECT id, source_domain, published_at, topics, credibility, embedding
		 FROM articles WHERE id IN (%s) AND embedding IS NOT NULL`, placeholders(len(articleIDs)))
	rows, err := s.db.QueryContext(ctx, query, toAnySlice(articleIDs)...)
	if err != nil {
		return nil, fmt.Errorf("getting article features: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*core.ArticleFeatures, len(articleIDs))
	for rows.Next() {
		f := &core.ArticleFeatures{}
		var topics, embedding sql.NullString
		var cred sql.NullFloat64
		if err := rows.Scan(&f.ArticleID, &f.SourceDomain, &f.PublishedAt, &topics, &cred, &embedding); err != nil {
			return nil, fmt.Errorf("scanning article features: %w", err)
		}
		if topics.Valid && topics.String != "" {
			_ = json.Unmarshal([]byte(topics.String), &f.Topics)
		}
		if cred.Valid {
			f.Credibility = cred.Float64
		}
		if embedding.Valid && embedding.String != "" {
			_ = json.Unmarshal([]byte(embedding.String), &f.Embedding)
		}
		if f.Complete() {
			result[f.ArticleID] = f
		}
	}
	return result, rows.Err()
}

// ========== helpers ==========

func scanArticles(rows *sql.Rows) ([]*core.Article, error) {
	var articles []*core.Article
	for rows.Next() {
		a := &core.Article{}
		var body, topics, embedding sql.NullString
		var cred sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.Title, &body, &a.SourceDomain, &a.PublishedAt, &topics, &cred, &embedding); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		if body.Valid {
			a.Body = body.String
		}
		if topics.Valid && topics.String != "" {
			_ = json.Unmarshal([]byte(topics.String), &a.Topics)
		}
		if cred.Valid {
			a.Credibility = cred.Float64
		}
		if embedding.Valid && embedding.String != "" {
			_ = json.Unmarshal([]byte(embedding.String), &a.Embedding)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAnySlice(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
