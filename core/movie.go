package core

import "time"

// Movie 是电影元数据，由离线流水线写入，在线侧只读。
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Genres      []string `json:"genres"`
	Year        int      `json:"year"`
	PosterColor string   `json:"poster"`
	Popularity  float64  `json:"popularity"`
}

// RatingEvent 是一次用户评分，评分范围 [0.5, 5.0]。
// (user, movie) 维度唯一：upsert 覆盖旧评分与时间戳（last-write-wins）。
type RatingEvent struct {
	UserID  string
	MovieID int64
	Rating  float64
	RatedAt time.Time
}

// 评分合法范围。
const (
	RatingMin = 0.5
	RatingMax = 5.0
)

// ValidRating 检查评分是否在 [0.5, 5.0] 内。
func ValidRating(r float64) bool {
	return r >= RatingMin && r <= RatingMax
}

// RatedMovie 是评分历史与向量表的连接结果：用户给某部电影的评分 + 该电影的三路向量。
// 历史聚合模式下目标向量由它们的加权质心构成。
type RatedMovie struct {
	Vectors *MovieVectors
	Rating  float64
}
