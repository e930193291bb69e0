package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// ExprFilter 是配置驱动的表达式过滤器：表达式是保留条件，
// 求值为 false 的候选被过滤。表达式语法见 pkg/dsl。
//
// 示例：
//   - `meta.year >= 1990` 只推 1990 年以后的电影
//   - `"Horror" in meta.genres == false` 排除恐怖片
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译保留条件表达式；表达式非法时返回 INVALID_INPUT。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "filter: "+err.Error())
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.prg.EvalItem(item, rctx)
	if err != nil {
		return false, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "filter: "+err.Error())
	}
	return !keep, nil
}

var _ Filter = (*ExprFilter)(nil)
