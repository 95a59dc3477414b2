package bookings

import (
	"context"
	"fmt"
	"time"

	"kopichat/db"
	"kopichat/models"
	"kopichat/slots"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ledger is a dumb store over the bookings collection. It validates record
// shape but does NOT enforce the slot-conflict invariant; that lives in the
// availability resolver and the wizard, at write time.
type Ledger struct {
	Coll *mongo.Collection
}

var Store = &Ledger{Coll: db.BookingsCollection}

// Validate rejects drafts missing the required fields. Pure; never touches
// the store.
func Validate(b models.Booking) error {
	if b.UserID == "" {
		return fmt.Errorf("%w: missing owner", models.ErrValidation)
	}
	if b.Date == "" {
		return fmt.Errorf("%w: missing date", models.ErrValidation)
	}
	if !slots.ValidDate(b.Date) {
		return fmt.Errorf("%w: malformed date %q", models.ErrValidation, b.Date)
	}
	if b.Time == "" {
		return fmt.Errorf("%w: missing time", models.ErrValidation)
	}
	if !slots.ValidLabel(b.Time) {
		return fmt.Errorf("%w: malformed time %q", models.ErrValidation, b.Time)
	}
	if b.Status == "" {
		return fmt.Errorf("%w: missing status", models.ErrValidation)
	}
	if !models.ValidStatus(b.Status) {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, b.Status)
	}
	return nil
}

// Create assigns id and created-timestamp and inserts the record.
func (l *Ledger) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	if err := Validate(b); err != nil {
		return models.Booking{}, err
	}
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()
	b.UpdatedAt = nil

	if _, err := l.Coll.InsertOne(ctx, b); err != nil {
		return models.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	err := l.Coll.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return models.Booking{}, fmt.Errorf("%w: booking %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// Replace overwrites the whole record, keeping the stored id and stamping the
// updated-timestamp. The caller is responsible for carrying over status and
// created-timestamp when they must survive the edit.
func (l *Ledger) Replace(ctx context.Context, id string, b models.Booking) (models.Booking, error) {
	if err := Validate(b); err != nil {
		return models.Booking{}, err
	}
	b.ID = id
	now := time.Now()
	b.UpdatedAt = &now

	res, err := l.Coll.ReplaceOne(ctx, bson.M{"id": id}, b)
	if err != nil {
		return models.Booking{}, fmt.Errorf("replace booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Booking{}, fmt.Errorf("%w: booking %s", models.ErrNotFound, id)
	}
	return b, nil
}

// Patch merges the given fields into the record and stamps the
// updated-timestamp, returning the post-update document.
func (l *Ledger) Patch(ctx context.Context, id string, fields bson.M) (models.Booking, error) {
	fields["updatedAt"] = time.Now()

	res := l.Coll.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Booking
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Booking{}, fmt.Errorf("%w: booking %s", models.ErrNotFound, id)
		}
		return models.Booking{}, fmt.Errorf("patch booking: %w", err)
	}
	return updated, nil
}

// Delete removes the record entirely (self-service cancellation is a hard
// delete, not a status flip).
func (l *Ledger) Delete(ctx context.Context, id string) error {
	res, err := l.Coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: booking %s", models.ErrNotFound, id)
	}
	return nil
}

// ByUser lists a user's bookings, newest (date, time) first, for the history view.
func (l *Ledger) ByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}})
	return l.list(ctx, bson.M{"userId": userID}, opts)
}

// All lists every booking, newest first, for the admin view.
func (l *Ledger) All(ctx context.Context) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}})
	return l.list(ctx, bson.M{}, opts)
}

// ByDateStatus lists bookings on a date with any of the given statuses,
// ascending by time, for the daily view.
func (l *Ledger) ByDateStatus(ctx context.Context, date string, statuses []string) ([]models.Booking, error) {
	filter := bson.M{"date": date}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	return l.list(ctx, filter, opts)
}

// ActiveTimes returns the time labels occupied by pending/confirmed bookings
// on the date. This is the resolver's exclusion input.
func (l *Ledger) ActiveTimes(ctx context.Context, date string) ([]string, error) {
	list, err := l.ByDateStatus(ctx, date, []string{models.StatusPending, models.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	times := make([]string, 0, len(list))
	for _, b := range list {
		times = append(times, b.Time)
	}
	return times, nil
}

func (l *Ledger) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	cur, err := l.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return out, nil
}
