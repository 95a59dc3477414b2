package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlots struct {
	byDate map[string][]string
	dates  []string
}

func (f *fakeSlots) Get(_ context.Context, date string) ([]string, error) {
	return f.byDate[date], nil
}

func (f *fakeSlots) Dates(_ context.Context) ([]string, error) {
	return f.dates, nil
}

type fakeBookings struct {
	active map[string][]string
}

func (f *fakeBookings) ActiveTimes(_ context.Context, date string) ([]string, error) {
	return f.active[date], nil
}

func TestFreeSlotsExcludesActiveBookings(t *testing.T) {
	rv := &Resolver{
		Slots:    &fakeSlots{byDate: map[string][]string{"2026-09-10": {"09:00", "09:30", "10:00"}}},
		Bookings: &fakeBookings{active: map[string][]string{"2026-09-10": {"09:30"}}},
	}

	free, err := rv.FreeSlots(context.Background(), "2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, free)
}

func TestFreeSlotsIgnoresInactiveBookings(t *testing.T) {
	// Only pending/confirmed times reach ActiveTimes; a cancelled or completed
	// booking frees its slot, so the fake simply omits it.
	rv := &Resolver{
		Slots:    &fakeSlots{byDate: map[string][]string{"2026-09-10": {"09:00", "09:30"}}},
		Bookings: &fakeBookings{active: map[string][]string{}},
	}

	free, err := rv.FreeSlots(context.Background(), "2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, free)
}

func TestFreeSlotsNothingOffered(t *testing.T) {
	rv := &Resolver{
		Slots:    &fakeSlots{byDate: map[string][]string{}},
		Bookings: &fakeBookings{active: map[string][]string{"2026-09-10": {"09:00"}}},
	}

	free, err := rv.FreeSlots(context.Background(), "2026-09-10")
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestFreeSlotsFullyBooked(t *testing.T) {
	rv := &Resolver{
		Slots:    &fakeSlots{byDate: map[string][]string{"2026-09-10": {"09:00", "09:30"}}},
		Bookings: &fakeBookings{active: map[string][]string{"2026-09-10": {"09:00", "09:30"}}},
	}

	free, err := rv.FreeSlots(context.Background(), "2026-09-10")
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestBookableDatesWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rv := &Resolver{
		Slots: &fakeSlots{dates: []string{
			"2026-08-31", // yesterday, out
			"2026-09-01", // today, in
			"2026-09-15", // in
			"2026-10-01", // horizon day 30, in
			"2026-10-02", // past horizon, out
		}},
		Bookings: &fakeBookings{},
	}

	dates, err := rv.BookableDates(context.Background(), now, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-01", "2026-09-15", "2026-10-01"}, dates)
}

func TestBookableDatesKeepsFullyBookedDates(t *testing.T) {
	// A date whose every slot is taken still shows on the calendar; it
	// resolves to zero free times when opened.
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rv := &Resolver{
		Slots: &fakeSlots{
			dates:  []string{"2026-09-10"},
			byDate: map[string][]string{"2026-09-10": {"09:00"}},
		},
		Bookings: &fakeBookings{active: map[string][]string{"2026-09-10": {"09:00"}}},
	}

	dates, err := rv.BookableDates(context.Background(), now, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-10"}, dates)

	free, err := rv.FreeSlots(context.Background(), "2026-09-10")
	require.NoError(t, err)
	assert.Empty(t, free)
}
