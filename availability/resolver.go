// Package availability derives what is actually bookable: the registry's
// offered slots minus the times already consumed by live bookings. It is the
// only place the registry and the ledger are combined.
package availability

import (
	"context"
	"sort"
	"time"

	"kopichat/bookings"
	"kopichat/slots"
)

type SlotSource interface {
	Get(ctx context.Context, date string) ([]string, error)
	Dates(ctx context.Context) ([]string, error)
}

type BookingSource interface {
	ActiveTimes(ctx context.Context, date string) ([]string, error)
}

type Resolver struct {
	Slots    SlotSource
	Bookings BookingSource
}

var Default = &Resolver{Slots: slots.Store, Bookings: bookings.Store}

// FreeSlots returns the date's offered labels not occupied by a pending or
// confirmed booking, ascending (lexicographic order equals chronological
// order for zero-padded HH:MM).
//
// The two fetches are issued concurrently and awaited independently; nothing
// makes them, or a concurrent submit, mutually consistent. A slot taken
// between this read and the caller's write goes undetected; best-effort
// exclusivity is the contract here.
func (rv *Resolver) FreeSlots(ctx context.Context, date string) ([]string, error) {
	type fetched struct {
		times []string
		err   error
	}
	ch := make(chan fetched, 1)
	go func() {
		times, err := rv.Bookings.ActiveTimes(ctx, date)
		ch <- fetched{times, err}
	}()

	offered, err := rv.Slots.Get(ctx, date)
	taken := <-ch
	if err != nil {
		return nil, err
	}
	if taken.err != nil {
		return nil, taken.err
	}

	occupied := make(map[string]bool, len(taken.times))
	for _, t := range taken.times {
		occupied[t] = true
	}

	free := make([]string, 0, len(offered))
	for _, s := range offered {
		if !occupied[s] {
			free = append(free, s)
		}
	}
	sort.Strings(free)
	return free, nil
}

// BookableDates returns the dates within [today, today+horizonDays] whose
// registry set is non-empty. A fully-booked date still counts as bookable;
// it just resolves to zero free times once opened. Hiding it would make the
// calendar jump around as bookings come and go.
func (rv *Resolver) BookableDates(ctx context.Context, now time.Time, horizonDays int) ([]string, error) {
	configured, err := rv.Slots.Dates(ctx)
	if err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	last := now.AddDate(0, 0, horizonDays).Format("2006-01-02")

	// zero-padded YYYY-MM-DD strings compare chronologically
	var out []string
	for _, d := range configured {
		if d >= today && d <= last {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out, nil
}
