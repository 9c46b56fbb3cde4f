package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"inv_checker/internal/domain"
	"inv_checker/internal/domain/entity"
	"inv_checker/internal/domain/value"
	"inv_checker/pkg/errcodes"
	"inv_checker/pkg/httpx/reply"
	"inv_checker/pkg/httpx/req"
	"inv_checker/pkg/rest"
)

type reportHolder interface {
	Latest() (entity.Report, bool)
}

type priceResolver interface {
	Resolve(ctx context.Context, name string) (entity.PricedItem, error)
}

type refreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, steamID string) (string, error)
}

type valuationRefresher interface {
	RunOnce(ctx context.Context) (entity.Report, error)
}

type ValuationServer struct {
	holder    reportHolder
	resolver  priceResolver
	refresher valuationRefresher
	enqueuer  refreshEnqueuer

	steamID value.SteamID
}

// NewValuationServer serves the latest report and single price lookups.
// Refreshes go through the enqueuer when one is wired, otherwise they run
// inline.
func NewValuationServer(
	holder reportHolder,
	resolver priceResolver,
	refresher valuationRefresher,
	steamID value.SteamID,
) ValuationServer {
	return ValuationServer{
		holder:    holder,
		resolver:  resolver,
		refresher: refresher,
		steamID:   steamID,
	}
}

func (s ValuationServer) WithEnqueuer(enqueuer refreshEnqueuer) ValuationServer {
	s.enqueuer = enqueuer
	return s
}

func (s ValuationServer) getV1Valuation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	report, ok := s.holder.Latest()
	if !ok {
		return failure.NewNotFoundError(
			"no completed valuation run yet",
			failure.WithCode(errcodes.ValuationNotReady),
			failure.WithDescription("Valuation is not ready yet, try again later"),
		)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTReport(report))

	return nil
}

func (s ValuationServer) getV1ItemPrice(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	name, err := value.ParseItemName(chi.URLParam(r, "name"))
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseItemName: %w", err),
			failure.WithCode(errcodes.InvalidItemName),
		)
	}

	item, err := s.resolver.Resolve(ctx, name.String())
	if err != nil {
		return toFailure(err, "resolver.Resolve")
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTItemPrice(item))

	return nil
}

func (s ValuationServer) postV1Refresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if r.ContentLength > 0 {
		var request rest.RefreshRequest

		if err := req.Read(r, &request); err != nil {
			return fmt.Errorf("req.Read: %w", err)
		}

		if request.SteamID != "" && request.SteamID != s.steamID.String() {
			return failure.NewInvalidArgumentError(
				"refresh requested for an unknown account",
				failure.WithCode(errcodes.InvalidSteamID),
				failure.WithDescription("Only the configured account can be refreshed"),
			)
		}
	}

	if s.enqueuer != nil {
		taskID, err := s.enqueuer.EnqueueRefresh(ctx, s.steamID.String())
		if err != nil {
			return fmt.Errorf("enqueuer.EnqueueRefresh: %w", err)
		}

		reply.JSON(ctx, w, http.StatusAccepted, rest.RefreshAccepted{TaskID: taskID})

		return nil
	}

	report, err := s.refresher.RunOnce(ctx)
	if err != nil {
		return toFailure(err, "refresher.RunOnce")
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTReport(report))

	return nil
}

// toFailure maps domain error codes onto transport-level failures so the
// reply package can pick the right HTTP status.
func toFailure(err error, op string) error {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch appErr.Code {
	case errcodes.PriceNotFound, errcodes.ValuationNotReady:
		return failure.NewNotFoundError(
			appErr.Error(),
			failure.WithCode(appErr.Code),
			failure.WithDescription(appErr.Message),
		)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
