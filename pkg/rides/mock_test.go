package rides

import (
	"context"
	"slices"
)

type mockStore struct {
	Rides          []Ride
	AppendCalls    []Ride
	BulkWriteCalls [][]Ride
	ClearCalls     int
	Err            error
}

func (m *mockStore) ReadAll(ctx context.Context) ([]Ride, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return slices.Clone(m.Rides), nil
}

func (m *mockStore) Append(ctx context.Context, ride Ride) error {
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
	m.ClearCalls++
	m.Rides = nil
	return nil
}

func (m *mockStore) BulkWrite(ctx context.Context, rides []Ride) error {
	if m.Err != nil {
		return m.Err
	}
	m.BulkWriteCalls = append(m.BulkWriteCalls, slices.Clone(rides))
	m.Rides = slices.Clone(rides)
	return nil
}
