package store

import (
	"context"
	"sync"
)

// Memory keeps objects and records in process. It backs local mode when no
// AWS account is at hand.
type Memory struct {
	mutex   sync.RWMutex
	objects map[string]map[string][]byte
	records map[string]map[string]Record
}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]map[string][]byte),
		records: make(map[string]map[string]Record),
	}
}

func (m *Memory) PutObject(_ context.Context, bucket, key string, body []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.objects[bucket] == nil {
		m.objects[bucket] = make(map[string][]byte)
	}
	m.objects[bucket][key] = append([]byte(nil), body...)
	return nil
}

func (m *Memory) DeleteObject(_ context.Context, bucket, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.objects[bucket], key)
	return nil
}

func (m *Memory) PutRecord(_ context.Context, table string, rec Record) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.records[table] == nil {
		m.records[table] = make(map[string]Record)
	}
	m.records[table][rec.ID] = rec
	return nil
}

func (m *Memory) Object(bucket, key string) ([]byte, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	body, ok := m.objects[bucket][key]
	return body, ok
}

func (m *Memory) Record(table, id string) (Record, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	rec, ok := m.records[table][id]
	return rec, ok
}

func (m *Memory) ObjectCount(bucket string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.objects[bucket])
}

func (m *Memory) RecordCount(table string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.records[table])
}
