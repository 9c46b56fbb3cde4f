package tasks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"inv_checker/internal/domain/entity"
	"inv_checker/internal/tasks"
)

type refresherStub struct {
	calls int
	err   error
}

func (r *refresherStub) RunOnce(context.Context) (entity.Report, error) {
	r.calls++
	return entity.Report{TotalValue: 42}, r.err
}

func TestRefreshHandler(t *testing.T) {
	rq := require.New(t)

	task, err := tasks.NewRefreshTask("76561198000000001")
	rq.NoError(err)
	rq.Equal(tasks.TypeRefreshValuation, task.Type())
	rq.JSONEq(`{"steam_id":"76561198000000001"}`, string(task.Payload()))

	refresher := &refresherStub{}
	handler := tasks.NewRefreshHandler(refresher)

	rq.NoError(handler.Handle(context.Background(), task))
	rq.Equal(1, refresher.calls)
}

func TestRefreshHandlerPropagatesFailure(t *testing.T) {
	rq := require.New(t)

	task, err := tasks.NewRefreshTask("76561198000000001")
	rq.NoError(err)

	handler := tasks.NewRefreshHandler(&refresherStub{err: context.DeadlineExceeded})

	rq.ErrorIs(handler.Handle(context.Background(), task), context.DeadlineExceeded)
}
