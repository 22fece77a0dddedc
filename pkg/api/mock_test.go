package api

import (
	"context"
	"slices"

	"ridebooking/pkg/rides"
)

type mockStore struct {
	Rides          []rides.Ride
	AppendCalls    []rides.Ride
	BulkWriteCalls [][]rides.Ride
	Err            error
}

func (m *mockStore) ReadAll(ctx context.Context) ([]rides.Ride, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return slices.Clone(m.Rides), nil
}

func (m *mockStore) Append(ctx context.Context, ride rides.Ride) error {
	if m.Err != nil {
		return m.Err
	}
	m.AppendCalls = append(m.AppendCalls, ride)
	m.Rides = append(m.Rides, ride)
	return nil
}

func (m *mockStore) Clear(ctx context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.Rides = nil
	return nil
}

func (m *mockStore) BulkWrite(ctx context.Context, list []rides.Ride) error {
	if m.Err != nil {
		return m.Err
	}
	m.BulkWriteCalls = append(m.BulkWriteCalls, slices.Clone(list))
	m.Rides = slices.Clone(list)
	return nil
}
