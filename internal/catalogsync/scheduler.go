// Package catalogsync periodically refreshes each tenant's cached menu
// text from their point-of-sale catalog, supplemented per SPEC_FULL.md §4
// item 6 (spec.md treats the menu as already-resident and is silent on
// how it gets there). Scheduling is grounded on haasonsaas-nexus's use of
// github.com/robfig/cron/v3, scaled down from that repo's generic
// multi-job scheduler to the one job this gateway runs.
package catalogsync

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"voicegateway/internal/domain/repositories"
)

// CatalogSource fetches a tenant's current menu text from their
// point-of-sale or catalog system. Left as an interface since the concrete
// integration is tenant/provider specific and out of scope here, per
// spec.md's Non-goals around POS integration.
type CatalogSource interface {
	FetchMenu(ctx context.Context, tenantID string) (string, error)
}

// Scheduler runs one sync pass across the tenant IDs given to
// WithTenantIDs on a cron schedule, writing the refreshed menu back through
// TenantsRepository. It does not check whether a tenant is active.
type Scheduler struct {
	tenants   repositories.TenantsRepository
	source    CatalogSource
	logger    *slog.Logger
	cron      *cron.Cron
	tenantIDs []string
}

// New builds a Scheduler. spec is a standard five-field cron expression
// (e.g. "0 */4 * * *").
func New(spec string, tenants repositories.TenantsRepository, source CatalogSource, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{tenants: tenants, source: source, logger: logger, cron: cron.New()}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running the schedule in the background. Non-blocking.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for any in-flight run to finish and halts the schedule.
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

// RunNow triggers an out-of-band sync pass, for an admin-facing manual
// refresh trigger.
func (s *Scheduler) RunNow() {
	s.runOnce()
}

// runOnce iterates the configured tenant set. Set at construction time via
// WithTenantIDs since TenantsRepository has no "list all" operation — the
// session engine never needs one, so adding it just for this job would
// widen the interface beyond what spec.md's persistence contract (spec.md
// §6) actually requires.
func (s *Scheduler) runOnce() {
	ctx := context.Background()
	for _, tenantID := range s.tenantIDs {
		profile, err := s.tenants.GetStoreProfile(ctx, tenantID)
		if err != nil {
			s.logger.Error("catalog sync: lookup failed", "tenant_id", tenantID, "error", err)
			continue
		}
		menu, err := s.source.FetchMenu(ctx, tenantID)
		if err != nil {
			s.logger.Error("catalog sync: fetch failed", "tenant_id", tenantID, "error", err)
			continue
		}
		if menu == "" {
			continue
		}
		profile.MenuCache = menu
		if err := s.tenants.UpsertStoreProfile(ctx, profile); err != nil {
			s.logger.Error("catalog sync: write failed", "tenant_id", tenantID, "error", err)
			continue
		}
		s.logger.Info("catalog sync: menu refreshed", "tenant_id", tenantID)
	}
}

// WithTenantIDs sets the tenants a sync pass iterates over.
func (s *Scheduler) WithTenantIDs(ids []string) *Scheduler {
	s.tenantIDs = ids
	return s
}
