package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// OverdueMarker flips pending invoices past their due date to overdue.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

// LeaseExpirer ends active leases past their end date and frees the units.
type LeaseExpirer interface {
	ExpireEnded(ctx context.Context, today time.Time) (int64, error)
}

// Sweeper runs the periodic status transitions that no request triggers.
type Sweeper struct {
	invoices OverdueMarker
	leases   LeaseExpirer
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewSweeper(invoices OverdueMarker, leases LeaseExpirer, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{invoices: invoices, leases: leases, log: log, now: time.Now}
}

// today is the current UTC calendar date at midnight.
func (s *Sweeper) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Sweeper) MarkOverdueInvoices(ctx context.Context) error {
	n, err := s.invoices.MarkOverdue(ctx, s.today())
	if err != nil {
		s.log.WithError(err).Error("Overdue invoice sweep failed")
		return err
	}
	if n > 0 {
		s.log.WithField("invoices", n).Info("Marked invoices overdue")
	}
	return nil
}

func (s *Sweeper) ExpireLeases(ctx context.Context) error {
	n, err := s.leases.ExpireEnded(ctx, s.today())
	if err != nil {
		s.log.WithError(err).Error("Lease expiry sweep failed")
		return err
	}
	if n > 0 {
		s.log.WithField("units_freed", n).Info("Expired ended leases")
	}
	return nil
}

// RunAll runs every sweep once, continuing past failures.
func (s *Sweeper) RunAll(ctx context.Context) error {
	return errors.Join(s.MarkOverdueInvoices(ctx), s.ExpireLeases(ctx))
}
