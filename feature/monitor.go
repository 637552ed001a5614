package feature

import "sync/atomic"

// Monitor 统计特征读取质量：缺失次数、批量调用次数。
// 部分缺失（PARTIAL_RESULT）是指标而不是异常，这里就是那个指标的落点。
// 计数器无锁，导出给外部监控系统拉取。
type Monitor struct {
	missing atomic.Int64
	batches atomic.Int64
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// RecordMissing 记录一次特征缺失。
func (m *Monitor) RecordMissing(articleID string) {
	m.missing.Add(1)
}

// RecordBatch 记录一次批量调用。
func (m *Monitor) RecordBatch() {
	m.batches.Add(1)
}

// MissingCount 返回累计缺失次数。
func (m *Monitor) MissingCount() int64 {
	return m.missing.Load()
}

// BatchCount 返回累计批量调用次数。
func (m *Monitor) BatchCount() int64 {
	return m.batches.Load()
}
