package recall

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/store"
)

// testVectors 构造三路向量，各信号只在指定下标放一个分量。
func testVectors(id int64, idx int, val float64) *core.MovieVectors {
	als := make([]float64, core.DimALS)
	sem := make([]float64, core.DimSemantic)
	lda := make([]float64, core.DimLDA)
	als[idx] = val
	sem[idx] = val
	lda[idx%core.DimLDA] = val
	return &core.MovieVectors{MovieID: id, ALS: als, Semantic: sem, LDA: lda}
}

func TestRatingWeight(t *testing.T) {
	tests := []struct {
		rating float64
		want   float64
	}{
		{5.0, 3.0},
		{4.0, 2.0},
		{3.0, 1.0},
		{2.1, 0.1},
		{2.0, 0.1},
		{1.0, 0.1},
		{0.5, 0.1},
	}

	for _, tt := range tests {
		if got := ratingWeight(tt.rating); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ratingWeight(%v) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}

func TestTargetBuilderFocusMode(t *testing.T) {
	catalog := store.NewMemoryCatalog()
	catalog.AddMovie(&core.Movie{ID: 1, Title: "Focus"}, testVectors(1, 0, 1.0))

	b := &TargetBuilder{Store: catalog}

	rctx := core.NewRecommendContext(&core.RecommendRequest{
		Weights: weights(), Limit: 10, FocusMovieID: 1,
	})
	targets, coldStart, err := b.Build(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if coldStart {
		t.Fatal("Build() coldStart = true in focus mode")
	}
	if targets.ALS[0] != 1.0 || targets.Semantic[0] != 1.0 || targets.LDA[0] != 1.0 {
		t.Errorf("targets do not match focus movie vectors: %v %v %v",
			targets.ALS[0], targets.Semantic[0], targets.LDA[0])
	}
}

func TestTargetBuilderFocusNotFound(t *testing.T) {
	b := &TargetBuilder{Store: store.NewMemoryCatalog()}

	rctx := core.NewRecommendContext(&core.RecommendRequest{
		Weights: weights(), Limit: 10, FocusMovieID: 404,
	})
	_, _, err := b.Build(context.Background(), rctx)
	if !core.IsNotFound(err) {
		t.Errorf("Build() error = %v, want NOT_FOUND", err)
	}
}

func TestTargetBuilderHistoryCentroid(t *testing.T) {
	catalog := store.NewMemoryCatalog()
	catalog.AddMovie(&core.Movie{ID: 1}, testVectors(1, 0, 1.0))
	catalog.AddMovie(&core.Movie{ID: 2}, testVectors(2, 1, 1.0))

	ctx := context.Background()
	// 评分 5.0 权重 3.0，评分 2.0 托底权重 0.1
	if err := catalog.UpsertRating(ctx, "alice", 1, 5.0); err != nil {
		t.Fatal(err)
	}
	if err := catalog.UpsertRating(ctx, "alice", 2, 2.0); err != nil {
		t.Fatal(err)
	}

	b := &TargetBuilder{Store: catalog}
	rctx := core.NewRecommendContext(&core.RecommendRequest{
		UserID: "alice", Weights: weights(), Limit: 10,
	})
	targets, coldStart, err := b.Build(ctx, rctx)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if coldStart {
		t.Fatal("Build() coldStart = true with history present")
	}

	total := 3.0 + 0.1
	if got, want := targets.ALS[0], 3.0/total; math.Abs(got-want) > 1e-12 {
		t.Errorf("ALS[0] = %v, want %v", got, want)
	}
	if got, want := targets.ALS[1], 0.1/total; math.Abs(got-want) > 1e-12 {
		t.Errorf("ALS[1] = %v, want %v", got, want)
	}
}

// 权重 3 的全 1 向量 + 权重 1 的全 0 向量 → 质心为 0.75 的全 1 向量。
func TestTargetBuilderCentroidExample(t *testing.T) {
	ones := func(dim int) []float64 {
		v := make([]float64, dim)
		for i := range v {
			v[i] = 1
		}
		return v
	}
	catalog := store.NewMemoryCatalog()
	catalog.AddMovie(&core.Movie{ID: 1}, &core.MovieVectors{
		MovieID: 1, ALS: ones(core.DimALS), Semantic: ones(core.DimSemantic), LDA: ones(core.DimLDA),
	})
	catalog.AddMovie(&core.Movie{ID: 2}, &core.MovieVectors{
		MovieID:  2,
		ALS:      make([]float64, core.DimALS),
		Semantic: make([]float64, core.DimSemantic),
		LDA:      make([]float64, core.DimLDA),
	})

	ctx := context.Background()
	// 评分 5.0 → 权重 3.0；评分 3.0 → 权重 1.0
	if err := catalog.UpsertRating(ctx, "bob", 1, 5.0); err != nil {
		t.Fatal(err)
	}
	if err := catalog.UpsertRating(ctx, "bob", 2, 3.0); err != nil {
		t.Fatal(err)
	}

	b := &TargetBuilder{Store: catalog}
	rctx := core.NewRecommendContext(&core.RecommendRequest{
		UserID: "bob", Weights: weights(), Limit: 10,
	})
	targets, _, err := b.Build(ctx, rctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, sig := range core.Signals {
		for i, got := range targets.BySignal(sig) {
			if math.Abs(got-0.75) > 1e-12 {
				t.Fatalf("%s[%d] = %v, want 0.75", sig, i, got)
			}
		}
	}
}

func TestTargetBuilderColdStart(t *testing.T) {
	b := &TargetBuilder{Store: store.NewMemoryCatalog()}

	rctx := core.NewRecommendContext(&core.RecommendRequest{
		UserID: "nobody", Weights: weights(), Limit: 10,
	})
	targets, coldStart, err := b.Build(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !coldStart {
		t.Error("Build() coldStart = false, want true for empty history")
	}
	if targets != nil {
		t.Errorf("Build() targets = %v, want nil on cold start", targets)
	}
}

func weights() map[core.Signal]float64 {
	return map[core.Signal]float64{
		core.SignalALS:      0.5,
		core.SignalSemantic: 0.3,
		core.SignalLDA:      0.2,
	}
}
