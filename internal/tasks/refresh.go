// Package tasks defines the asynq task types and their handlers.
package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"inv_checker/internal/domain/entity"
	"inv_checker/pkg/contextx"
	"inv_checker/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const TypeRefreshValuation = "valuation:refresh"

type refreshPayload struct {
	SteamID string `json:"steam_id"`
}

func NewRefreshTask(steamID string) (*asynq.Task, error) {
	payload, err := json.Marshal(refreshPayload{SteamID: steamID})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypeRefreshValuation, payload), nil
}

// Enqueuer puts refresh tasks on the queue and deduplicates concurrent ones.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueRefresh schedules one revaluation and returns the task id. A refresh
// already sitting in the queue makes this a no-op conflict.
func (e *Enqueuer) EnqueueRefresh(ctx context.Context, steamID string) (string, error) {
	task, err := NewRefreshTask(steamID)
	if err != nil {
		return "", err
	}

	info, err := e.client.EnqueueContext(ctx, task, asynq.TaskID("refresh-"+steamID))
	if err != nil {
		return "", fmt.Errorf("asynq.Enqueue: %w", err)
	}

	return info.ID, nil
}

type ValuationRefresher interface {
	RunOnce(ctx context.Context) (entity.Report, error)
}

// RefreshHandler executes queued revaluations.
type RefreshHandler struct {
	refresher ValuationRefresher
}

func NewRefreshHandler(refresher ValuationRefresher) *RefreshHandler {
	return &RefreshHandler{refresher: refresher}
}

func (h *RefreshHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload refreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	logger(ctx).Info("refresh task started", slog.String(logx.FieldSteamID, payload.SteamID))

	report, err := h.refresher.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("refresher.RunOnce: %w", err)
	}

	logger(ctx).Info(
		"refresh task finished",
		slog.String(logx.FieldSteamID, payload.SteamID),
		slog.Float64(logx.FieldTotalValue, report.TotalValue),
	)

	return nil
}
