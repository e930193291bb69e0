package recall

import (
	"context"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// DefaultTopK 是每个信号索引的召回条数（来自离线评估的经验值）。
const DefaultTopK = 600

// SignalFanout 是候选召回 Node：对三个信号空间并发执行近邻查询，
// 按 ID 去重取并集，再批量水合向量与元数据。
//
// 候选成员关系是信号间的 OR：只在某一个信号空间邻近的电影同样进入候选集，
// 后续打分仍对全部三个信号求值（可能接近零）。这是刻意的多信号混合，必须保持。
//
// 与各召回源互相容错的 fan-out 不同，这里任一信号查询失败都令整个请求失败：
// 部分信号集上的重排会无提示地偏置最终得分。
type SignalFanout struct {
	Store core.VectorStore

	// Meta 可替换元数据来源（如 feast.Provider）；为空时使用 Store。
	Meta core.MetadataSource

	// TopK 每个信号索引的召回条数，<= 0 时取 DefaultTopK。
	TopK int

	// Logger 记录索引/元数据漂移等记录级告警；为空时使用进程默认 logger。
	Logger *log.Logger
}

func (n *SignalFanout) Name() string        { return "recall.signal_fanout" }
func (n *SignalFanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *SignalFanout) logger() *log.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return log.Default()
}

func (n *SignalFanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	targets := rctx.Targets
	if targets == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInternalError, "recall: target vectors missing")
	}

	topK := n.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	// 1. 三路近邻查询并发 fan-out
	var (
		mu     sync.Mutex
		seen   = make(map[int64]core.Signal, topK*len(core.Signals))
		eg, qc = errgroup.WithContext(ctx)
	)
	for _, sig := range core.Signals {
		sig := sig
		eg.Go(func() error {
			ids, err := n.Store.NearestBySignal(qc, sig, targets.BySignal(sig), topK)
			if err != nil {
				return core.AsUnavailable(core.ModuleRecall, err)
			}
			mu.Lock()
			for _, id := range ids {
				if _, ok := seen[id]; !ok {
					seen[id] = sig
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if len(seen) == 0 {
		return nil, nil
	}

	// 并集按 ID 升序水合，保证候选构建顺序与调用次序无关
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// 2. 批量水合向量与元数据
	vectors, err := n.Store.BatchGetVectors(ctx, ids)
	if err != nil {
		return nil, core.AsUnavailable(core.ModuleRecall, err)
	}
	metaSource := n.Meta
	if metaSource == nil {
		metaSource = n.Store
	}
	metas, err := metaSource.HydrateMeta(ctx, ids)
	if err != nil {
		return nil, core.AsUnavailable(core.ModuleRecall, err)
	}

	// 3. 封装候选；索引返回但水合缺失的 ID 属于索引/元数据漂移，
	// 记录告警并丢弃该候选，请求本身继续成功。
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		vec, okVec := vectors[id]
		meta, okMeta := metas[id]
		if !okVec || !okMeta {
			n.logger().Printf("[WARN] recall: candidate %d dropped, vectors=%v meta=%v (index drift)", id, okVec, okMeta)
			continue
		}
		it := core.NewItem(id)
		it.Vectors = vec
		it.Meta = meta
		it.PutLabel("recall_source", utils.Label{Value: "signal:" + string(seen[id]), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*SignalFanout)(nil)
