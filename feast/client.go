// Package feast 对接 Feast Feature Store，把电影元数据特征作为
// 可替换的元数据来源接入推荐链路。
package feast

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// Client 是在线特征获取的客户端接口。
// 领域层只依赖此接口，gRPC 实现可替换。
type Client interface {
	// GetOnlineFeatures 按实体行批量获取在线特征。
	// features 形如 ["movie_meta:title"]，返回与 entityRows 等长的特征行。
	GetOnlineFeatures(ctx context.Context, features []string, entityRows []map[string]interface{}) ([]map[string]interface{}, error)

	Close() error
}

// GrpcClient 是基于官方 Feast Go SDK 的 gRPC 客户端实现。
type GrpcClient struct {
	client  *feastsdk.GrpcClient
	project string
}

// NewGrpcClient 连接 Feast Feature Server。port 为 0 时取默认 6565。
func NewGrpcClient(host string, port int, project string) (*GrpcClient, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast: dial %s:%d: %w", host, port, err)
	}
	return &GrpcClient{client: client, project: project}, nil
}

func (c *GrpcClient) GetOnlineFeatures(ctx context.Context, features []string, entityRows []map[string]interface{}) ([]map[string]interface{}, error) {
	if len(features) == 0 || len(entityRows) == 0 {
		return nil, fmt.Errorf("feast: features and entity rows are required")
	}

	rows := make([]feastsdk.Row, len(entityRows))
	for i, row := range entityRows {
		sdkRow := make(feastsdk.Row, len(row))
		for k, v := range row {
			sdkRow[k] = toSDKValue(v)
		}
		rows[i] = sdkRow
	}

	resp, err := c.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: features,
		Entities: rows,
		Project:  c.project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast: get online features: %w", err)
	}

	respRows := resp.Rows()
	if len(respRows) != len(entityRows) {
		return nil, fmt.Errorf("feast: row count mismatch: want %d, got %d", len(entityRows), len(respRows))
	}

	out := make([]map[string]interface{}, len(respRows))
	for i, row := range respRows {
		values := make(map[string]interface{}, len(features))
		for _, name := range features {
			if val, ok := row[name]; ok {
				values[name] = fromSDKValue(val)
			}
		}
		out[i] = values
	}
	return out, nil
}

func (c *GrpcClient) Close() error {
	c.client = nil
	return nil
}

func toSDKValue(v interface{}) *feasttypes.Value {
	switch val := v.(type) {
	case string:
		return feastsdk.StrVal(val)
	case int:
		return feastsdk.Int64Val(int64(val))
	case int64:
		return feastsdk.Int64Val(val)
	case float64:
		return feastsdk.DoubleVal(val)
	case bool:
		return feastsdk.BoolVal(val)
	default:
		return feastsdk.StrVal(fmt.Sprintf("%v", val))
	}
}

func fromSDKValue(v *feasttypes.Value) interface{} {
	if v == nil {
		return nil
	}
	switch val := v.Val.(type) {
	case *feasttypes.Value_StringVal:
		return val.StringVal
	case *feasttypes.Value_Int32Val:
		return int64(val.Int32Val)
	case *feasttypes.Value_Int64Val:
		return val.Int64Val
	case *feasttypes.Value_FloatVal:
		return float64(val.FloatVal)
	case *feasttypes.Value_DoubleVal:
		return val.DoubleVal
	case *feasttypes.Value_BoolVal:
		return val.BoolVal
	case *feasttypes.Value_StringListVal:
		return val.StringListVal.GetVal()
	default:
		return nil
	}
}

var _ Client = (*GrpcClient)(nil)
