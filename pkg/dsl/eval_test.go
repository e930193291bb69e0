package dsl

import (
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

func evalItem() *core.Item {
	it := core.NewItem(42)
	it.Score = 0.8
	it.Scores[core.SignalALS] = 0.9
	it.Meta = &core.Movie{
		ID:     42,
		Title:  "Blade Runner",
		Genres: []string{"Sci-Fi", "Thriller"},
		Year:   1982,
	}
	it.PutLabel("recall_source", utils.Label{Value: "signal:als", Source: "recall"})
	return it
}

func evalContext() *core.RecommendContext {
	return core.NewRecommendContext(&core.RecommendRequest{
		UserID: "alice",
		Weights: map[core.Signal]float64{
			core.SignalALS: 1, core.SignalSemantic: 0, core.SignalLDA: 0,
		},
		Limit: 10,
	})
}

func TestProgramEvalItem(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"meta year comparison", `meta.year >= 1980`, true},
		{"meta year rejects", `meta.year >= 1990`, false},
		{"genre membership", `"Sci-Fi" in meta.genres`, true},
		{"title equality", `meta.title == "Blade Runner"`, true},
		{"item score", `item.score > 0.5`, true},
		{"signal score access", `item.scores.als > 0.8`, true},
		{"label contains", `label.recall_source.contains("als")`, true},
		{"request context access", `rctx.user_id == "alice"`, true},
		{"logical composition", `meta.year < 1990 && "Thriller" in meta.genres`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.expr, err)
			}
			got, err := prg.EvalItem(evalItem(), evalContext())
			if err != nil {
				t.Fatalf("EvalItem(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("EvalItem(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompileInvalidExpression(t *testing.T) {
	if _, err := Compile(`meta.year >=`); err == nil {
		t.Error("Compile(invalid) = nil error")
	}
}

func TestEvalNonBooleanExpression(t *testing.T) {
	prg, err := Compile(`meta.year`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := prg.EvalItem(evalItem(), evalContext()); err == nil {
		t.Error("EvalItem(non-boolean) = nil error")
	}
}
