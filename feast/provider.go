package feast

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/conv"
)

// 电影元数据在 Feature Store 中的特征视图与实体键。
const (
	EntityMovieID = "movie_id"

	FeatureTitle       = "movie_meta:title"
	FeatureGenres      = "movie_meta:genres"
	FeatureYear        = "movie_meta:year"
	FeaturePosterColor = "movie_meta:poster_color"
	FeaturePopularity  = "movie_meta:popularity"
)

var metaFeatures = []string{
	FeatureTitle, FeatureGenres, FeatureYear, FeaturePosterColor, FeaturePopularity,
}

// Provider 把 Feature Store 里的电影元数据暴露为候选补全来源，
// 替代目录直查（engine.WithMetadataSource 注入）。
//
// 特征缺失的电影不出现在返回 map 中，候选在召回侧丢弃并告警，
// 与目录元数据缺失的语义一致。
type Provider struct {
	Client Client
}

func NewProvider(client Client) *Provider {
	return &Provider{Client: client}
}

func (p *Provider) HydrateMeta(ctx context.Context, ids []int64) (map[int64]*core.Movie, error) {
	if len(ids) == 0 {
		return map[int64]*core.Movie{}, nil
	}

	entityRows := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		entityRows[i] = map[string]interface{}{EntityMovieID: id}
	}

	rows, err := p.Client.GetOnlineFeatures(ctx, metaFeatures, entityRows)
	if err != nil {
		return nil, core.AsUnavailable(core.ModuleStore, err)
	}

	out := make(map[int64]*core.Movie, len(ids))
	for i, row := range rows {
		title, ok := row[FeatureTitle].(string)
		if !ok || title == "" {
			continue
		}
		m := &core.Movie{
			ID:    ids[i],
			Title: title,
		}
		if genres, ok := row[FeatureGenres].([]string); ok {
			m.Genres = genres
		}
		if year, ok := conv.ToFloat64(row[FeatureYear]); ok {
			m.Year = int(year)
		}
		if color, ok := row[FeaturePosterColor].(string); ok {
			m.PosterColor = color
		}
		if pop, ok := conv.ToFloat64(row[FeaturePopularity]); ok {
			m.Popularity = pop
		}
		out[ids[i]] = m
	}
	return out, nil
}

var _ core.MetadataSource = (*Provider)(nil)
