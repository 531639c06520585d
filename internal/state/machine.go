package state

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// 导入任务状态
const (
	StatePending   = "pending"
	StateReading   = "reading"
	StateParsing   = "parsing"
	StateSaving    = "saving"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// 事件
const (
	EventRead     = "read"
	EventParse    = "parse"
	EventSave     = "save"
	EventComplete = "complete"
	EventFail     = "fail"
)

// ImportJob 导入任务快照
type ImportJob struct {
	ID        string    `json:"id"`
	Format    string    `json:"format"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	State     string    `json:"state"`
	Parsed    int       `json:"parsed"`
	Skipped   int       `json:"skipped"`
	Discarded int       `json:"discarded"`
	Saved     int       `json:"saved"`
	Summary   string    `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Done 是否已结束
func (j *ImportJob) Done() bool {
	return j.State == StateCompleted || j.State == StateFailed
}

// Machine 单个导入任务的状态机
type Machine struct {
	mu            sync.RWMutex
	fsm           *fsm.FSM
	job           *ImportJob
	onStateChange func(job ImportJob)
}

// NewMachine 创建状态机，初始状态为 pending
func NewMachine(format, fileName string, fileSize int64, onStateChange func(job ImportJob)) *Machine {
	now := time.Now().UTC()
	m := &Machine{
		onStateChange: onStateChange,
		job: &ImportJob{
			ID:        uuid.NewString(),
			Format:    format,
			FileName:  fileName,
			FileSize:  fileSize,
			State:     StatePending,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	active := []string{StatePending, StateReading, StateParsing, StateSaving}

	m.fsm = fsm.NewFSM(
		StatePending,
		fsm.Events{
			{Name: EventRead, Src: []string{StatePending}, Dst: StateReading},
			{Name: EventParse, Src: []string{StateReading}, Dst: StateParsing},
			{Name: EventSave, Src: []string{StateParsing}, Dst: StateSaving},
			{Name: EventComplete, Src: []string{StateSaving}, Dst: StateCompleted},
			{Name: EventFail, Src: active, Dst: StateFailed},
		},
		fsm.Callbacks{},
	)

	return m
}

// ID 任务 ID
func (m *Machine) ID() string {
	return m.job.ID
}

// CurrentState 当前状态
func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// Job 返回任务副本
func (m *Machine) Job() ImportJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job := *m.job
	job.State = m.fsm.Current()
	return job
}

// Update 更新计数等数据，不改变状态
func (m *Machine) Update(update func(j *ImportJob)) {
	m.mu.Lock()
	update(m.job)
	m.job.UpdatedAt = time.Now().UTC()
	m.mu.Unlock()
}

// Trigger 触发事件，状态变化后回调
func (m *Machine) Trigger(event string) error {
	m.mu.Lock()
	if err := m.fsm.Event(context.Background(), event); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	m.job.State = m.fsm.Current()
	m.job.UpdatedAt = time.Now().UTC()
	job := *m.job
	m.mu.Unlock()

	if m.onStateChange != nil {
		m.onStateChange(job)
	}
	return nil
}

// Fail 标记失败并记录原因
func (m *Machine) Fail(cause error) error {
	m.Update(func(j *ImportJob) {
		if cause != nil {
			j.Error = cause.Error()
		}
	})
	return m.Trigger(EventFail)
}

// CanTransition 检查是否可以转换
func (m *Machine) CanTransition(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

// Manager 导入任务管理器，只保留最近的任务
type Manager struct {
	mu       sync.RWMutex
	machines map[string]*Machine
	limit    int
	onChange func(job ImportJob)
}

// DefaultJobLimit 默认保留任务数
const DefaultJobLimit = 100

// NewManager 创建管理器，limit <= 0 时使用默认值
func NewManager(limit int, onChange func(job ImportJob)) *Manager {
	if limit <= 0 {
		limit = DefaultJobLimit
	}
	return &Manager{
		machines: make(map[string]*Machine),
		limit:    limit,
		onChange: onChange,
	}
}

// Create 创建任务
func (m *Manager) Create(format, fileName string, fileSize int64) *Machine {
	machine := NewMachine(format, fileName, fileSize, m.onChange)

	m.mu.Lock()
	m.machines[machine.ID()] = machine
	m.evictLocked()
	m.mu.Unlock()

	return machine
}

// Get 获取任务
func (m *Manager) Get(id string) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[id]
	return machine, ok
}

// Jobs 全部任务，按创建时间倒序
func (m *Manager) Jobs() []ImportJob {
	m.mu.RLock()
	jobs := make([]ImportJob, 0, len(m.machines))
	for _, machine := range m.machines {
		jobs = append(jobs, machine.Job())
	}
	m.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs
}

// evictLocked 超出上限时移除最早结束的任务，进行中的任务不移除
func (m *Manager) evictLocked() {
	for len(m.machines) > m.limit {
		var oldestID string
		var oldest time.Time
		for id, machine := range m.machines {
			job := machine.Job()
			if !job.Done() {
				continue
			}
			if oldestID == "" || job.CreatedAt.Before(oldest) {
				oldestID, oldest = id, job.CreatedAt
			}
		}
		if oldestID == "" {
			return
		}
		delete(m.machines, oldestID)
	}
}
