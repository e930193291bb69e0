// Package dsl 基于 CEL (Common Expression Language) 提供候选级布尔表达式求值，
// 用于配置驱动的业务过滤规则。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/movierec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("meta", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的候选表达式，可对多个候选复用求值。
//
// 表达式语法（CEL 标准语法）：
//   - 元数据：meta.year >= 1990 / meta.title != ""
//   - 得分：item.score > 0.5 / item.scores.als > 0.2
//   - 标签：label.recall_source.contains("hot")
//   - 逻辑：meta.year >= 1990 && "Comedy" in meta.genres
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式并缓存；同一个 Program 可安全地并发求值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本。
func (p *Program) Expr() string { return p.expr }

// EvalItem 对单个候选求值，返回布尔结果。
// 表达式必须返回布尔值；访问不存在的 key 时 CEL 会报错，
// 应使用 label.key != null 之类的写法检查存在性。
func (p *Program) EvalItem(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	scores := make(map[string]any, len(item.Scores))
	for sig, v := range item.Scores {
		scores[string(sig)] = v
	}

	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	meta := map[string]any{}
	if item.Meta != nil {
		meta = map[string]any{
			"id":           item.Meta.ID,
			"title":        item.Meta.Title,
			"genres":       item.Meta.Genres,
			"year":         item.Meta.Year,
			"poster_color": item.Meta.PosterColor,
			"popularity":   item.Meta.Popularity,
		}
	}

	ctxMap := map[string]any{}
	if rctx != nil && rctx.Request != nil {
		ctxMap = map[string]any{
			"user_id":        rctx.Request.UserID,
			"limit":          rctx.Request.Limit,
			"focus_movie_id": rctx.Request.FocusMovieID,
			"params":         rctx.Params,
		}
	}

	return map[string]any{
		"item": map[string]any{
			"id":     item.ID,
			"score":  item.Score,
			"scores": scores,
		},
		"meta":  meta,
		"label": labels,
		"rctx":  ctxMap,
	}
}
