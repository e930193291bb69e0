package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
)

func item(id int64, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func topnContext(limit int) *core.RecommendContext {
	return core.NewRecommendContext(&core.RecommendRequest{
		UserID: "alice",
		Weights: map[core.Signal]float64{
			core.SignalALS: 1, core.SignalSemantic: 0, core.SignalLDA: 0,
		},
		Limit: limit,
	})
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name    string
		items   []*core.Item
		n       int
		limit   int
		wantIDs []int64
	}{
		{
			name:    "score descending",
			items:   []*core.Item{item(1, 0.2), item(2, 0.9), item(3, 0.5)},
			limit:   10,
			wantIDs: []int64{2, 3, 1},
		},
		{
			name:    "ties break by id ascending",
			items:   []*core.Item{item(9, 0.5), item(3, 0.5), item(7, 0.5), item(1, 0.9)},
			limit:   10,
			wantIDs: []int64{1, 3, 7, 9},
		},
		{
			name:    "truncates to request limit",
			items:   []*core.Item{item(1, 0.1), item(2, 0.4), item(3, 0.3), item(4, 0.2)},
			limit:   2,
			wantIDs: []int64{2, 3},
		},
		{
			name:    "node n overrides request limit",
			items:   []*core.Item{item(1, 0.1), item(2, 0.4), item(3, 0.3)},
			n:       1,
			limit:   10,
			wantIDs: []int64{2},
		},
		{
			name:    "fewer candidates than limit",
			items:   []*core.Item{item(1, 0.1)},
			limit:   5,
			wantIDs: []int64{1},
		},
		{
			name:    "empty input",
			items:   nil,
			limit:   5,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &TopNNode{N: tt.n}
			got, err := n.Process(context.Background(), topnContext(tt.limit), tt.items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, want)
				}
			}
		})
	}
}

// 同一输入多次重排必须产出完全一致的序列。
func TestTopNNodeDeterministic(t *testing.T) {
	build := func() []*core.Item {
		return []*core.Item{
			item(5, 0.5), item(2, 0.5), item(8, 0.5), item(1, 0.7), item(3, 0.5),
		}
	}

	n := &TopNNode{}
	first, err := n.Process(context.Background(), topnContext(10), build())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := n.Process(context.Background(), topnContext(10), build())
		if err != nil {
			t.Fatal(err)
		}
		for j := range first {
			if got[j].ID != first[j].ID {
				t.Fatalf("run %d diverged at position %d: %d vs %d", i, j, got[j].ID, first[j].ID)
			}
		}
	}
}
