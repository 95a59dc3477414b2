package slots

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"kopichat/db"
	"kopichat/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Universe returns every half-hour label from startHour (inclusive) to
// endHour (exclusive), e.g. Universe(9, 23) -> 09:00 ... 22:30. Pure, no side
// effects; this is the grid the admin toggles slots from.
func Universe(startHour, endHour int) []string {
	labels := make([]string, 0, (endHour-startHour)*2)
	for hour := startHour; hour < endHour; hour++ {
		labels = append(labels, fmt.Sprintf("%02d:00", hour))
		labels = append(labels, fmt.Sprintf("%02d:30", hour))
	}
	return labels
}

// SameSet compares two slot lists as sets, ignoring order and duplicates.
// The admin "has changes" indicator is this, negated.
func SameSet(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	other := make(map[string]bool, len(b))
	for _, s := range b {
		other[s] = true
	}
	if len(seen) != len(other) {
		return false
	}
	for s := range seen {
		if !other[s] {
			return false
		}
	}
	return true
}

var labelRe = regexp.MustCompile(`^([01]\d|2[0-3]):(00|30)$`)
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func ValidLabel(s string) bool { return labelRe.MatchString(s) }
func ValidDate(s string) bool  { return dateRe.MatchString(s) }

// Registry is the per-date set of offered slots, one document per date.
type Registry struct {
	Coll *mongo.Collection
}

var Store = &Registry{Coll: db.SlotCollection}

// Get returns the configured labels for the date, sorted ascending. A date
// that was never configured yields an empty set, not an error.
func (rg *Registry) Get(ctx context.Context, date string) ([]string, error) {
	var day models.SlotDay
	err := rg.Coll.FindOne(ctx, bson.M{"date": date}).Decode(&day)
	if err == mongo.ErrNoDocuments {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slots for %s: %w", date, err)
	}
	out := normalize(day.Slots)
	return out, nil
}

// Set replaces the date's whole set. Idempotent; there are no merge
// semantics, the caller passes the full desired set.
func (rg *Registry) Set(ctx context.Context, date string, labels []string) error {
	if !ValidDate(date) {
		return fmt.Errorf("%w: bad date %q", models.ErrValidation, date)
	}
	for _, s := range labels {
		if !ValidLabel(s) {
			return fmt.Errorf("%w: bad time label %q", models.ErrValidation, s)
		}
	}
	day := models.SlotDay{Date: date, Slots: normalize(labels)}
	opts := options.Replace().SetUpsert(true)
	if _, err := rg.Coll.ReplaceOne(ctx, bson.M{"date": date}, day, opts); err != nil {
		return fmt.Errorf("set slots for %s: %w", date, err)
	}
	return nil
}

// Dates lists every date whose configured set is non-empty, sorted.
func (rg *Registry) Dates(ctx context.Context) ([]string, error) {
	cur, err := rg.Coll.Find(ctx, bson.M{"slots.0": bson.M{"$exists": true}})
	if err != nil {
		return nil, fmt.Errorf("list slot dates: %w", err)
	}
	defer cur.Close(ctx)

	var dates []string
	for cur.Next(ctx) {
		var day models.SlotDay
		if err := cur.Decode(&day); err != nil {
			continue
		}
		dates = append(dates, day.Date)
	}
	sort.Strings(dates)
	return dates, nil
}

func normalize(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, s := range labels {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
