package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/config"
	orderModel "storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/shared/utils"
)

type fakeRegistrar struct {
	spec string
	task *asynq.Task
	err  error
}

func (f *fakeRegistrar) Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error) {
	f.spec, f.task = cronspec, task
	return "entry-1", f.err
}

func TestRegisterCleanupUnfinishedJob(t *testing.T) {
	cfg := config.WorkerConfig{
		UnfinishedOrderTTL: 90 * time.Minute,
		CleanupCronSpec:    "*/15 * * * *",
		CleanupQueue:       QueueLow,
	}

	r := &fakeRegistrar{}
	require.NoError(t, RegisterCleanupUnfinishedJob(r, cfg))

	assert.Equal(t, "*/15 * * * *", r.spec)
	assert.Equal(t, orderModel.TypeCleanupUnfinished, r.task.Type())

	var payload orderModel.CleanupPayload
	require.NoError(t, utils.UnmarshalTask(r.task, &payload))
	assert.Equal(t, 90, payload.OlderThanMinutes)

	r.err = errors.New("bad cron")
	assert.Error(t, RegisterCleanupUnfinishedJob(r, cfg))
}
