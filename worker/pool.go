package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ByLCY/manosaba/logging"
)

// Pool 限制同时进行的渲染任务数量，渲染在独立的 goroutine 中执行，不阻塞调用方的事件循环。
type Pool struct {
	sem     *semaphore.Weighted
	size    int
	timeout time.Duration
}

// NewPool 创建最多 size 个并发任务的池；timeout > 0 时每个任务额外受该时限约束。
func NewPool(size int, timeout time.Duration) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size, timeout: timeout}
}

// Size 返回并发上限。
func (p *Pool) Size() int { return p.size }

type result struct {
	data []byte
	err  error
}

// Do 在池中执行 fn。ctx 结束时立即返回 ctx 的错误，仍在运行的 fn 结果被丢弃。
func (p *Pool) Do(ctx context.Context, name string, fn func() ([]byte, error)) ([]byte, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	log := logging.WithCtx(ctx).With(zap.String("job", name), zap.String("job_id", uuid.NewString()))

	if err := p.sem.Acquire(ctx, 1); err != nil {
		log.Warn("等待渲染槽位超时", zap.Error(err))
		return nil, fmt.Errorf("等待渲染槽位失败: %w", err)
	}

	start := time.Now()
	done := make(chan result, 1)
	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("渲染任务 %s 异常: %v", name, r)}
			}
		}()
		data, err := fn()
		done <- result{data: data, err: err}
	}()

	select {
	case r := <-done:
		elapsed := time.Since(start)
		if r.err != nil {
			log.Debug("渲染任务失败", zap.Duration("elapsed", elapsed), zap.Error(r.err))
			return nil, r.err
		}
		log.Debug("渲染任务完成", zap.Duration("elapsed", elapsed), zap.Int("bytes", len(r.data)))
		return r.data, nil
	case <-ctx.Done():
		log.Warn("渲染任务超时，结果将被丢弃", zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("渲染任务 %s 超时: %w", name, ctx.Err())
	}
}
