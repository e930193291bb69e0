package recall

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/store"
)

func TestHotRecall(t *testing.T) {
	catalog := store.NewMemoryCatalog()
	catalog.AddMovie(&core.Movie{ID: 1, Popularity: 50}, testVectors(1, 0, 1.0))
	catalog.AddMovie(&core.Movie{ID: 2, Popularity: 90}, testVectors(2, 1, 1.0))
	catalog.AddMovie(&core.Movie{ID: 3, Popularity: 90}, testVectors(3, 2, 1.0))
	catalog.AddMovie(&core.Movie{ID: 4, Popularity: 10}, testVectors(4, 3, 1.0))

	hot := &Hot{Store: catalog}
	rctx := core.NewRecommendContext(&core.RecommendRequest{
		UserID: "newcomer", Weights: weights(), Limit: 3,
	})

	items, err := hot.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	// 流行度降序，同流行度按 ID 升序
	wantIDs := []int64{2, 3, 1}
	for i, want := range wantIDs {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, want)
		}
	}

	// 冷启动兜底：三路相似度与最终得分全部报 0
	for _, it := range items {
		if it.Score != 0 {
			t.Errorf("item %d score = %v, want 0", it.ID, it.Score)
		}
		for _, sig := range core.Signals {
			if it.Scores[sig] != 0 {
				t.Errorf("item %d %s score = %v, want 0", it.ID, sig, it.Scores[sig])
			}
		}
		if got := it.Labels["recall_source"].Value; got != "hot" {
			t.Errorf("item %d recall_source = %q, want hot", it.ID, got)
		}
	}
}
