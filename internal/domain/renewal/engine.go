package renewal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/contract"
)

type outcome int

const (
	outcomeRenewed outcome = iota
	outcomeSkipped
)

// Engine extends recurring contracts past their end date.
type Engine struct {
	repo       Repository
	activities activity.Repository
	logger     *slog.Logger
	newID      func() string
	now        func() time.Time
}

// NewEngine creates a renewal engine. activities may be nil.
func NewEngine(repo Repository, activities activity.Repository, logger *slog.Logger) *Engine {
	return &Engine{
		repo:       repo,
		activities: activities,
		logger:     logger,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Run renews every recurring contract that ended before asOf. A failure on
// one contract is recorded in the summary and does not stop the others; an
// error listing candidates, or ctx being cancelled, aborts the run and is
// returned. Running twice for the same date creates nothing the second time.
func (e *Engine) Run(ctx context.Context, asOf time.Time) (Summary, error) {
	asOf = billing.Day(asOf)
	date := billing.FormatDate(asOf)
	e.log().Info("running contract renewal", "date", date)

	expired, err := e.repo.ListExpiredRecurring(ctx, asOf)
	if err != nil {
		err = fmt.Errorf("listing expired recurring contracts: %w", err)
		e.log().Error("contract renewal aborted", "date", date, "error", err)
		return Failed(date, err), err
	}
	e.log().Info("found expired recurring contracts", "date", date, "count", len(expired))

	summary := Summary{
		Success:      true,
		Date:         date,
		TotalExpired: len(expired),
		RenewedIDs:   []string{},
	}

	for i := range expired {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("renewal interrupted: %w", err)
			e.log().Error("contract renewal aborted", "date", date, "error", err)
			failed := Failed(date, err)
			failed.TotalExpired = summary.TotalExpired
			failed.Renewed = summary.Renewed
			failed.RenewedIDs = summary.RenewedIDs
			failed.Skipped = summary.Skipped
			failed.Errors = summary.Errors
			return failed, err
		}

		c := &expired[i]
		result, err := e.renewOne(ctx, c)
		if err != nil {
			e.log().Error("contract renewal failed", "contract_id", c.ID, "client_id", c.ClientID, "error", err)
			summary.Errors = append(summary.Errors, ItemError{ContractID: c.ID, Error: err.Error()})
			activity.Append(ctx, e.activities, e.logger, &activity.ActivityEntry{
				ClientID:     &c.ClientID,
				ContractID:   &c.ID,
				ActorID:      "system",
				ActivityType: activity.TypeRenewalFailed,
				Summary:      fmt.Sprintf("renewal of contract %s failed", c.ID),
				Details:      activity.Details(map[string]string{"error": err.Error(), "date": date}),
			})
			continue
		}

		switch result {
		case outcomeSkipped:
			summary.Skipped++
		case outcomeRenewed:
			summary.Renewed++
			summary.RenewedIDs = append(summary.RenewedIDs, c.ID)
		}
	}

	e.log().Info("contract renewal completed",
		"date", date,
		"total_expired", summary.TotalExpired,
		"renewed", summary.Renewed,
		"skipped", summary.Skipped,
		"failed", len(summary.Errors),
	)
	return summary, nil
}

func (e *Engine) renewOne(ctx context.Context, c *contract.Contract) (outcome, error) {
	exists, err := e.repo.HasSuccessor(ctx, c.ClientID, c.EndDate)
	if err != nil {
		return 0, fmt.Errorf("checking for successor: %w", err)
	}
	if exists {
		e.log().Info("contract already has a successor, skipping", "contract_id", c.ID, "client_id", c.ClientID)
		return outcomeSkipped, nil
	}

	successor := c.Successor(e.newID(), e.now().UTC())
	created, err := e.repo.Renew(ctx, c.ID, successor)
	if err != nil {
		return 0, fmt.Errorf("creating successor contract: %w", err)
	}
	if !created {
		e.log().Info("successor created concurrently, skipping", "contract_id", c.ID, "client_id", c.ClientID)
		return outcomeSkipped, nil
	}

	e.log().Info("contract renewed",
		"contract_id", c.ID,
		"successor_id", successor.ID,
		"client_id", c.ClientID,
		"start_date", billing.FormatDate(successor.StartDate),
		"end_date", billing.FormatDate(successor.EndDate),
	)
	activity.Append(ctx, e.activities, e.logger, &activity.ActivityEntry{
		ClientID:     &c.ClientID,
		ContractID:   &successor.ID,
		ActorID:      "system",
		ActivityType: activity.TypeContractRenewed,
		Summary:      fmt.Sprintf("renewed contract %s as %s", c.ID, successor.ID),
		Details: activity.Details(map[string]string{
			"previous_contract_id": c.ID,
			"start_date":           billing.FormatDate(successor.StartDate),
			"end_date":             billing.FormatDate(successor.EndDate),
		}),
	})
	return outcomeRenewed, nil
}

func (e *Engine) log() *slog.Logger {
	if e.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.logger
}
