package rides

import (
	"context"

	"ridebooking/pkg/sheets"
)

// Store is the ride-level view of the backing sheet. Failures are wrapped in
// ErrStoreUnavailable and never retried.
type Store interface {
	ReadAll(ctx context.Context) ([]Ride, error)
	Append(ctx context.Context, ride Ride) error
	Clear(ctx context.Context) error
	// BulkWrite clears the store and appends rides in order. It is not atomic:
	// an interruption after the clear leaves the store truncated.
	BulkWrite(ctx context.Context, rides []Ride) error
}

type SheetStore struct {
	table sheets.Table
}

func NewSheetStore(table sheets.Table) *SheetStore {
	return &SheetStore{table: table}
}

func (s *SheetStore) ReadAll(ctx context.Context) ([]Ride, error) {
	rows, err := s.table.GetRows(ctx)
	if err != nil {
		return nil, err
	}
	rides := make([]Ride, 0, len(rows))
	for _, row := range rows {
		rides = append(rides, rowToRide(row))
	}
	return rides, nil
}

func (s *SheetStore) Append(ctx context.Context, ride Ride) error {
	return s.table.AppendRows(ctx, [][]string{ride.ToRow()})
}

func (s *SheetStore) Clear(ctx context.Context) error {
	return s.table.ClearRows(ctx)
}

func (s *SheetStore) BulkWrite(ctx context.Context, rides []Ride) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}
	return s.table.AppendRows(ctx, toRows(rides))
}
