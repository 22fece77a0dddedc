package rides

import (
	"context"
	"fmt"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"
)

// Reconciler holds no ride state. Every mutation reads the whole collection,
// transforms it and bulk-replaces the store, so concurrent writers race and
// the last BulkWrite wins.
type Reconciler struct {
	store  Store
	loc    *time.Location
	policy Policy
}

type Option func(*Reconciler)

func WithLocation(loc *time.Location) Option {
	return func(r *Reconciler) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithPolicy(p Policy) Option {
	return func(r *Reconciler) { r.policy = p }
}

func NewReconciler(store Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:  store,
		loc:    time.Local,
		policy: PolicyFail,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) Location() *time.Location { return r.loc }

func (r *Reconciler) ScheduledAt(ride Ride) (time.Time, error) {
	return ParseScheduledAt(ride.Date, ride.Time, r.loc)
}

// Load returns every stored ride in insertion order.
func (r *Reconciler) Load(ctx context.Context) ([]Ride, error) {
	return r.store.ReadAll(ctx)
}

// Book appends a new ride. Submitted rides must always parse, whatever the policy.
func (r *Reconciler) Book(ctx context.Context, ride Ride) error {
	if _, err := r.ScheduledAt(ride); err != nil {
		return err
	}
	if err := r.store.Append(ctx, ride); err != nil {
		return err
	}
	log.WithFields(log.Fields{"ride": ride.Label()}).Info("Ride booked")
	return nil
}

type scheduled struct {
	ride Ride
	at   time.Time
	ok   bool
}

func (r *Reconciler) schedule(rides []Ride) ([]scheduled, error) {
	out := make([]scheduled, len(rides))
	for i, ride := range rides {
		at, err := r.ScheduledAt(ride)
		if err != nil {
			if r.policy == PolicyFail {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			log.WithFields(log.Fields{"row": i, "ride": ride.Label()}).Warn("Ride has malformed date/time")
			out[i] = scheduled{ride: ride}
			continue
		}
		out[i] = scheduled{ride: ride, at: at, ok: true}
	}
	return out, nil
}

// SortByScheduledAt returns a stable ascending ordering by scheduled instant.
// Under PolicySkip malformed rides follow all others in their original order.
func (r *Reconciler) SortByScheduledAt(rides []Ride) ([]Ride, error) {
	s, err := r.schedule(rides)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(s, func(a, b scheduled) int {
		switch {
		case a.ok && b.ok:
			return a.at.Compare(b.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		}
		return 0
	})
	out := make([]Ride, len(s))
	for i, v := range s {
		out[i] = v.ride
	}
	return out, nil
}

// PartitionExpired splits rides into those strictly after now and the rest.
// A ride scheduled exactly at now is expired.
func (r *Reconciler) PartitionExpired(rides []Ride, now time.Time) (active, expired []Ride, err error) {
	s, err := r.schedule(rides)
	if err != nil {
		return nil, nil, err
	}
	active = make([]Ride, 0, len(s))
	expired = make([]Ride, 0)
	for _, v := range s {
		if !v.ok || now.Before(v.at) {
			active = append(active, v.ride)
			continue
		}
		expired = append(expired, v.ride)
	}
	return active, expired, nil
}

// PruneAndPersist drops expired rides and writes the remainder back only when
// something was dropped. The active rides keep their input order.
func (r *Reconciler) PruneAndPersist(ctx context.Context, rides []Ride, now time.Time) ([]Ride, error) {
	active, expired, err := r.PartitionExpired(rides, now)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return active, nil
	}
	if err := r.store.BulkWrite(ctx, active); err != nil {
		return nil, err
	}
	log.Infof("Pruned %d expired rides, %d remain", len(expired), len(active))
	return active, nil
}

// DeleteRide removes the ride at index and persists the rest.
func (r *Reconciler) DeleteRide(ctx context.Context, rides []Ride, index int) ([]Ride, error) {
	if index < 0 || index >= len(rides) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(rides))
	}
	removed := rides[index]
	remaining := slices.Delete(slices.Clone(rides), index, index+1)
	if err := r.store.BulkWrite(ctx, remaining); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"index": index, "ride": removed.Label()}).Info("Ride deleted")
	return remaining, nil
}

// CheckSelection guards against a selection made on a view that has since
// changed. An empty label skips the check.
func CheckSelection(rides []Ride, index int, label string) error {
	if index < 0 || index >= len(rides) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(rides))
	}
	if label != "" && rides[index].Label() != label {
		return fmt.Errorf("%w: row %d is now %q, not %q", ErrIndexOutOfRange, index, rides[index].Label(), label)
	}
	return nil
}

// Replace persists after in place of before, writing only if they differ.
func (r *Reconciler) Replace(ctx context.Context, before, after []Ride) (bool, error) {
	if slices.Equal(before, after) {
		return false, nil
	}
	if err := r.store.BulkWrite(ctx, after); err != nil {
		return false, err
	}
	return true, nil
}

type Result struct {
	Rides     []Ride
	Pruned    int
	Reordered bool
}

// Reconcile is the admin pass: load, prune expired rides, then persist the
// sorted order. It always may write to the store.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time) (Result, error) {
	all, err := r.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	active, err := r.PruneAndPersist(ctx, all, now)
	if err != nil {
		return Result{}, err
	}
	sorted, err := r.SortByScheduledAt(active)
	if err != nil {
		return Result{}, err
	}
	reordered, err := r.Replace(ctx, active, sorted)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Rides:     sorted,
		Pruned:    len(all) - len(active),
		Reordered: reordered,
	}, nil
}
