package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// FocusMovieFilter 在 item-similarity 模式下把焦点电影从自己的候选集中剔除。
// 焦点电影必然是自己的最近邻，不剔除会永远占据榜首。
type FocusMovieFilter struct{}

func (f *FocusMovieFilter) Name() string { return "filter.focus_movie" }

func (f *FocusMovieFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if rctx == nil || rctx.Request == nil || !rctx.Request.ItemSimilarity() {
		return false, nil
	}
	return item.ID == rctx.Request.FocusMovieID, nil
}

var _ Filter = (*FocusMovieFilter)(nil)
