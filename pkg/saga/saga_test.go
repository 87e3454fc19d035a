package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	s := NewSaga(5 * time.Second)

	s.AddStep("删除付款记录",
		func(ctx context.Context) error {
			executed = append(executed, "删除付款记录")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复付款记录")
			return nil
		},
	)

	s.AddStep("删除借阅明细",
		func(ctx context.Context) error {
			executed = append(executed, "删除借阅明细")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复借阅明细")
			return nil
		},
	)

	err := s.Execute(context.Background())
	require.NoError(t, err)

	// 只执行正向操作，且按添加顺序
	assert.Equal(t, []string{"删除付款记录", "删除借阅明细"}, executed)
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发逆序补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	s := NewSaga(5 * time.Second)

	s.AddStep("删除付款记录",
		func(ctx context.Context) error {
			executed = append(executed, "删除付款记录")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复付款记录")
			return nil
		},
	)

	s.AddStep("删除借阅明细",
		func(ctx context.Context) error {
			executed = append(executed, "删除借阅明细")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "恢复借阅明细")
			return nil
		},
	)

	s.AddStep("删除客户",
		func(ctx context.Context) error {
			return errors.New("deadlock detected")
		},
		nil,
	)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "删除客户")

	// 失败步骤不补偿自己；已完成的两步按逆序补偿
	assert.Equal(t, []string{
		"删除付款记录",
		"删除借阅明细",
		"恢复借阅明细",
		"恢复付款记录",
	}, executed)
}

// TestSaga_Execute_CompensateFailureContinues 补偿失败不中断后续补偿
func TestSaga_Execute_CompensateFailureContinues(t *testing.T) {
	restoredFirst := false

	s := NewSaga(5 * time.Second)

	s.AddStep("step-1",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			restoredFirst = true
			return nil
		},
	)
	s.AddStep("step-2",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return errors.New("restore failed") },
	)
	s.AddStep("step-3",
		func(ctx context.Context) error { return errors.New("boom") },
		nil,
	)

	err := s.Execute(context.Background())
	require.Error(t, err)

	// step-2的补偿失败后，step-1的补偿仍然执行
	assert.True(t, restoredFirst)
}

// TestSaga_Execute_Timeout 整体超时触发补偿
func TestSaga_Execute_Timeout(t *testing.T) {
	compensated := false

	s := NewSaga(20 * time.Millisecond)

	s.AddStep("slow",
		func(ctx context.Context) error {
			time.Sleep(50 * time.Millisecond)
			return nil
		},
		func(ctx context.Context) error {
			compensated = true
			return nil
		},
	)
	s.AddStep("never",
		func(ctx context.Context) error {
			t.Fatal("超时后不应继续执行后续步骤")
			return nil
		},
		nil,
	)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, compensated)
}
