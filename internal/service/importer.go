package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/importer"
	"github.com/langchou/divegazer/internal/importer/subsurface"
	"github.com/langchou/divegazer/internal/importer/uddf"
	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/internal/state"
	"github.com/langchou/divegazer/pkg/metrics"
	"github.com/langchou/divegazer/pkg/ws"
)

// ImportOptions 导入限制
type ImportOptions struct {
	MaxUploadBytes int64
	Timeout        time.Duration // 读取文件的超时
	JobLimit       int
}

// SkippedRecord 解析失败被跳过的记录
type SkippedRecord struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// ImportResult 导入结果
type ImportResult struct {
	Job       state.ImportJob `json:"job"`
	Dives     []models.Dive   `json:"dives"`
	Skipped   []SkippedRecord `json:"skipped"`
	Discarded int             `json:"discarded"`
	Summary   string          `json:"summary"`
}

type reportParser interface {
	ParseReport(data []byte) (*importer.Report, error)
}

// ImportService 文件导入服务
type ImportService struct {
	logger  *zap.Logger
	store   DiveStore
	events  Broadcaster
	metrics *metrics.Collector
	jobs    *state.Manager
	parsers map[importer.Format]reportParser
	opts    ImportOptions
}

// NewImportService 创建导入服务，events 与 collector 可为 nil
func NewImportService(logger *zap.Logger, store DiveStore, events Broadcaster, collector *metrics.Collector, opts ImportOptions) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = nopBroadcaster{}
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = uddf.MaxFileSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	s := &ImportService{
		logger:  logger,
		store:   store,
		events:  events,
		metrics: collector,
		opts:    opts,
		parsers: map[importer.Format]reportParser{
			importer.FormatUDDF:       uddf.NewParser(logger),
			importer.FormatSubsurface: subsurface.NewParser(logger),
		},
	}
	s.jobs = state.NewManager(opts.JobLimit, func(job state.ImportJob) {
		events.BroadcastMessage(ws.MsgTypeImportUpdate, job)
	})
	return s
}

// Job 获取导入任务
func (s *ImportService) Job(id string) (state.ImportJob, bool) {
	machine, ok := s.jobs.Get(id)
	if !ok {
		return state.ImportJob{}, false
	}
	return machine.Job(), true
}

// Jobs 最近的导入任务
func (s *ImportService) Jobs() []state.ImportJob {
	return s.jobs.Jobs()
}

// Import 读取、解析并批量保存上传的文件
func (s *ImportService) Import(ctx context.Context, format importer.Format, fileName string, size int64, r io.Reader) (*ImportResult, error) {
	parser, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err := s.validate(format, fileName, size); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ImportFileSizeBytes.Observe(float64(size))
		timer := s.metrics.NewTimer(s.metrics.ImportDuration.WithLabelValues(string(format)))
		defer timer.ObserveDuration()
	}

	machine := s.jobs.Create(string(format), fileName, size)
	log := s.logger.With(
		zap.String("job_id", machine.ID()),
		zap.String("format", string(format)),
		zap.String("file", fileName),
	)

	if err := s.advance(log, machine, format, state.EventRead); err != nil {
		return nil, err
	}
	data, err := s.read(ctx, r)
	if err != nil {
		return nil, s.fail(log, machine, format, err)
	}

	if err := s.advance(log, machine, format, state.EventParse); err != nil {
		return nil, err
	}
	report, err := parser.ParseReport(data)
	if err != nil {
		return nil, s.fail(log, machine, format, err)
	}

	skipped := make([]SkippedRecord, 0, len(report.Skipped))
	for _, rec := range report.Skipped {
		skipped = append(skipped, SkippedRecord{Index: rec.Index, Error: rec.Err.Error()})
	}
	machine.Update(func(j *state.ImportJob) {
		j.Parsed = len(report.Dives)
		j.Skipped = len(skipped)
		j.Discarded = report.Discarded
	})

	if len(report.Dives) == 0 {
		machine.Update(func(j *state.ImportJob) {
			j.Summary = importer.Summary(format, nil)
		})
		return nil, s.fail(log, machine, format, ErrEmptyImport)
	}

	if err := s.advance(log, machine, format, state.EventSave); err != nil {
		return nil, err
	}
	saved, err := s.store.BulkCreate(ctx, report.Dives)
	if err != nil {
		return nil, s.fail(log, machine, format, fmt.Errorf("save dives: %w", err))
	}

	summary := importer.Summary(format, saved)
	machine.Update(func(j *state.ImportJob) {
		j.Saved = len(saved)
		j.Summary = summary
	})
	if err := s.advance(log, machine, format, state.EventComplete); err != nil {
		return nil, err
	}

	log.Info("Import completed",
		zap.Int("saved", len(saved)),
		zap.Int("skipped", len(skipped)),
		zap.Int("discarded", report.Discarded),
	)
	if s.metrics != nil {
		s.metrics.RecordImport(string(format), "success", len(saved), len(skipped), report.Discarded)
	}
	s.events.BroadcastMessage(ws.MsgTypeDivesCreated, saved)

	return &ImportResult{
		Job:       machine.Job(),
		Dives:     saved,
		Skipped:   skipped,
		Discarded: report.Discarded,
		Summary:   summary,
	}, nil
}

func (s *ImportService) validate(format importer.Format, fileName string, size int64) error {
	if size > s.opts.MaxUploadBytes {
		return ErrFileTooLarge
	}
	if format == importer.FormatUDDF {
		if err := uddf.ValidateFile(fileName, size); err != nil {
			if errors.Is(err, uddf.ErrFileTooLarge) {
				return ErrFileTooLarge
			}
			return err
		}
	}
	return nil
}

// read 读取上传内容，超时或超出大小上限时返回错误
func (s *ImportService) read(ctx context.Context, r io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r, s.opts.MaxUploadBytes+1))
		done <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrImportTimeout
		}
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("read file: %w", res.err)
		}
		if int64(len(res.data)) > s.opts.MaxUploadBytes {
			return nil, ErrFileTooLarge
		}
		return res.data, nil
	}
}

// advance 推进任务状态，转换失败时任务按失败处理
func (s *ImportService) advance(log *zap.Logger, machine *state.Machine, format importer.Format, event string) error {
	if err := machine.Trigger(event); err != nil {
		return s.fail(log, machine, format, err)
	}
	return nil
}

// fail 记录失败原因；任务已结束时保留原有状态与错误
func (s *ImportService) fail(log *zap.Logger, machine *state.Machine, format importer.Format, cause error) error {
	log.Warn("Import failed", zap.String("state", machine.CurrentState()), zap.Error(cause))
	if machine.CanTransition(state.EventFail) {
		if err := machine.Fail(cause); err != nil {
			log.Error("Failed to mark import job as failed", zap.Error(err))
		}
	}
	if s.metrics != nil {
		job := machine.Job()
		s.metrics.RecordImport(string(format), "failed", 0, job.Skipped, job.Discarded)
	}
	return cause
}

// IsParseError 是否为文件结构错误
func IsParseError(err error) bool {
	var uddfErr *uddf.ParseError
	var csvErr *subsurface.ParseError
	return errors.As(err, &uddfErr) || errors.As(err, &csvErr)
}
