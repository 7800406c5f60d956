package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 初始化 snowflake 节点，nodeID 取值 [0, 1023]，多实例部署时必须互不相同
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	node = n
	return nil
}

// NextID 生成全局唯一、按时间递增的 int64 id。
// 未调用 Init 时使用节点 0。
func NextID() int64 {
	nodeOnce.Do(func() {
		if node == nil {
			node, _ = snowflake.NewNode(0)
		}
	})
	return node.Generate().Int64()
}
