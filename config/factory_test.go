package config

import (
	"testing"

	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/store"
)

func TestNewNodeFactory(t *testing.T) {
	f := NewNodeFactory(store.NewMemoryCatalog())

	tests := []struct {
		nodeType string
		config   map[string]any
		wantKind pipeline.Kind
		wantErr  bool
	}{
		{nodeType: "recall.signal_fanout", config: map[string]any{"top_k": 100}, wantKind: pipeline.KindRecall},
		{nodeType: "recall.hot", config: map[string]any{"limit": 10}, wantKind: pipeline.KindRecall},
		{nodeType: "filter.focus_movie", wantKind: pipeline.KindFilter},
		{nodeType: "filter.expr", config: map[string]any{"expr": `meta.year >= 1990`}, wantKind: pipeline.KindFilter},
		{nodeType: "filter.expr", config: map[string]any{}, wantErr: true},
		{nodeType: "filter.expr", config: map[string]any{"expr": `meta.year >=`}, wantErr: true},
		{nodeType: "rank.blend", wantKind: pipeline.KindRank},
		{nodeType: "rerank.topn", config: map[string]any{"n": 5}, wantKind: pipeline.KindReRank},
		{nodeType: "does.not.exist", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			node, err := f.Build(tt.nodeType, tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("Build() = nil error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if node.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", node.Kind(), tt.wantKind)
			}
		})
	}
}
