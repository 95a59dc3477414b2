// Package wizard drives the multi-step reservation flow: pick a date, pick a
// free time, confirm with a phone number, submit. Each signed-in user has at
// most one flow in progress; new-booking progress is checkpointed so a
// reload resumes where the user left off.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kopichat/live"
	"kopichat/metrics"
	"kopichat/models"
)

// Steps of the flow. Editing an existing booking re-enters at StepDate
// pre-populated and never reaches StepDone; it exits on save instead.
const (
	StepDate    = 1
	StepTime    = 2
	StepConfirm = 3
	StepDone    = 4
)

var (
	ErrBusy     = errors.New("a submit is already in flight")
	ErrNotOwner = errors.New("not the booking owner")
	ErrLocked   = errors.New("completed or cancelled bookings cannot be edited")
)

// Draft is the checkpointed in-progress selection.
type Draft struct {
	Date  string `json:"date,omitempty"`
	Time  string `json:"time,omitempty"`
	Phone string `json:"phone,omitempty"`
	Step  int    `json:"step"`
}

func (d Draft) empty() bool {
	return d.Date == "" && d.Time == "" && d.Phone == "" && d.Step <= StepDate
}

// View is what handlers hand back to the client after every operation.
type View struct {
	Draft
	Editing   bool            `json:"editing"`
	EditingID string          `json:"editingId,omitempty"`
	Booking   *models.Booking `json:"booking,omitempty"`
}

type Availability interface {
	FreeSlots(ctx context.Context, date string) ([]string, error)
	BookableDates(ctx context.Context, now time.Time, horizonDays int) ([]string, error)
}

type LedgerStore interface {
	Get(ctx context.Context, id string) (models.Booking, error)
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	Replace(ctx context.Context, id string, b models.Booking) (models.Booking, error)
}

type DraftStore interface {
	Load(ctx context.Context, userID string) (Draft, bool, error)
	Save(ctx context.Context, userID string, d Draft) error
	Clear(ctx context.Context, userID string) error
}

// editState carries the booking being edited so saving can merge the new
// date/time/phone into it instead of rebuilding the record from scratch.
type editState struct {
	orig models.Booking
}

type session struct {
	draft    Draft
	editing  *editState
	inFlight bool
}

type Wizard struct {
	Avail   Availability
	Ledger  LedgerStore
	Drafts  DraftStore
	Horizon int // bookable days from today

	// Notify is called with each date whose availability a submit changed.
	Notify func(date string)

	mu       sync.Mutex
	sessions map[string]*session
}

func New(avail Availability, ledger LedgerStore, drafts DraftStore) *Wizard {
	return &Wizard{
		Avail:    avail,
		Ledger:   ledger,
		Drafts:   drafts,
		Horizon:  30,
		Notify:   live.BroadcastUpdate,
		sessions: make(map[string]*session),
	}
}

func (w *Wizard) notifyDate(date string) {
	if w.Notify != nil {
		w.Notify(date)
	}
}

// Current returns the user's flow, restoring a checkpoint if no live session
// exists. A corrupt or nonsensical checkpoint is discarded silently.
func (w *Wizard) Current(ctx context.Context, userID string) (View, error) {
	w.mu.Lock()
	if s, ok := w.sessions[userID]; ok {
		v := view(s)
		w.mu.Unlock()
		return v, nil
	}
	w.mu.Unlock()

	d, ok, err := w.Drafts.Load(ctx, userID)
	if err != nil || !ok || !plausible(d) {
		d = Draft{Step: StepDate}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.sessions[userID]; ok { // installed meanwhile
		return view(s), nil
	}
	s := &session{draft: d}
	w.sessions[userID] = s
	return view(s), nil
}

// plausible rejects restored checkpoints that would strand the flow, e.g. a
// time-selection step with no date.
func plausible(d Draft) bool {
	if d.Step < StepDate || d.Step > StepConfirm {
		return false
	}
	if d.Step > StepDate && d.Date == "" {
		return false
	}
	return true
}

// StartEdit re-enters the flow for an existing booking: owner only, and only
// while the booking is still pending or confirmed. Any new-booking
// checkpoint is discarded.
func (w *Wizard) StartEdit(ctx context.Context, userID, bookingID string) (View, error) {
	b, err := w.Ledger.Get(ctx, bookingID)
	if err != nil {
		return View{}, err
	}
	if b.UserID != userID {
		return View{}, ErrNotOwner
	}
	if b.Locked() {
		return View{}, ErrLocked
	}

	_ = w.Drafts.Clear(ctx, userID)

	w.mu.Lock()
	defer w.mu.Unlock()
	s := &session{
		draft: Draft{
			Date:  b.Date,
			Time:  b.Time,
			Phone: b.UserPhone,
			Step:  StepDate,
		},
		editing: &editState{orig: b},
	}
	w.sessions[userID] = s
	return view(s), nil
}

// SelectDate picks a calendar date and advances to time selection, clearing
// any previously picked time. An empty date while one is already chosen
// re-affirms the existing date: the calendar signalling "deselection" of
// the selected cell must never silently clear it.
func (w *Wizard) SelectDate(ctx context.Context, userID, date string) (View, error) {
	if _, err := w.Current(ctx, userID); err != nil {
		return View{}, err
	}

	if date == "" {
		w.mu.Lock()
		s := w.ensure(userID)
		if s.draft.Date != "" {
			s.draft.Time = ""
			s.draft.Step = StepTime
		} else {
			s.draft.Step = StepDate
		}
		v := view(s)
		w.mu.Unlock()
		w.checkpoint(ctx, userID)
		return v, nil
	}

	bookable, err := w.Avail.BookableDates(ctx, time.Now(), w.Horizon)
	if err != nil {
		return View{}, err
	}
	if !contains(bookable, date) {
		return View{}, fmt.Errorf("%w: date %s is not bookable", models.ErrValidation, date)
	}

	w.mu.Lock()
	s := w.ensure(userID)
	s.draft.Date = date
	s.draft.Time = ""
	s.draft.Step = StepTime
	v := view(s)
	w.mu.Unlock()
	w.checkpoint(ctx, userID)
	return v, nil
}

// SelectTime picks a label from the date's resolved free set and advances to
// confirmation.
func (w *Wizard) SelectTime(ctx context.Context, userID, label string) (View, error) {
	cur, err := w.Current(ctx, userID)
	if err != nil {
		return View{}, err
	}
	if cur.Date == "" || cur.Step < StepTime {
		return View{}, fmt.Errorf("%w: pick a date first", models.ErrValidation)
	}

	free, err := w.Avail.FreeSlots(ctx, cur.Date)
	if err != nil {
		return View{}, err
	}
	if !contains(free, label) {
		return View{}, fmt.Errorf("%w: time %s is not available on %s", models.ErrValidation, label, cur.Date)
	}

	w.mu.Lock()
	s := w.ensure(userID)
	s.draft.Time = label
	s.draft.Step = StepConfirm
	v := view(s)
	w.mu.Unlock()
	w.checkpoint(ctx, userID)
	return v, nil
}

// Back steps backwards one screen; always allowed.
func (w *Wizard) Back(ctx context.Context, userID string) (View, error) {
	if _, err := w.Current(ctx, userID); err != nil {
		return View{}, err
	}
	w.mu.Lock()
	s := w.ensure(userID)
	switch s.draft.Step {
	case StepConfirm:
		s.draft.Step = StepTime
	case StepTime, StepDone:
		s.draft.Step = StepDate
	}
	v := view(s)
	w.mu.Unlock()
	w.checkpoint(ctx, userID)
	return v, nil
}

// Confirm submits the reservation. New bookings are created pending and the
// flow advances to Done; edits preserve the original status and
// created-timestamp and the flow exits. A failed submit leaves the flow at
// the confirmation step, and a second submit while one is in flight is
// rejected.
func (w *Wizard) Confirm(ctx context.Context, userID, userName, phone string) (View, error) {
	if _, err := w.Current(ctx, userID); err != nil {
		return View{}, err
	}

	w.mu.Lock()
	s := w.ensure(userID)
	if s.inFlight {
		w.mu.Unlock()
		return View{}, ErrBusy
	}
	if phone != "" {
		s.draft.Phone = phone
	}
	if s.draft.Date == "" || s.draft.Time == "" {
		w.mu.Unlock()
		return View{}, fmt.Errorf("%w: date and time are required", models.ErrValidation)
	}
	if s.draft.Phone == "" {
		w.mu.Unlock()
		return View{}, fmt.Errorf("%w: phone is required", models.ErrValidation)
	}
	s.inFlight = true
	draft := s.draft
	editing := s.editing
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		if s, ok := w.sessions[userID]; ok {
			s.inFlight = false
		}
		w.mu.Unlock()
	}()

	var saved models.Booking
	var err error
	if editing != nil {
		// Merge into the existing record: only date, time, phone and the
		// venue fields change; notes, title, host id, guest name, status
		// and the created stamp all survive the edit.
		b := editing.orig
		b.Date = draft.Date
		b.Time = draft.Time
		b.UserPhone = draft.Phone
		b.HostName = models.DefaultHostName
		b.Location = models.DefaultLocation
		saved, err = w.Ledger.Replace(ctx, editing.orig.ID, b)
	} else {
		b := models.Booking{
			UserID:    userID,
			UserName:  userName,
			UserPhone: draft.Phone,
			HostName:  models.DefaultHostName,
			Location:  models.DefaultLocation,
			Date:      draft.Date,
			Time:      draft.Time,
			Status:    models.StatusPending,
		}
		saved, err = w.Ledger.Create(ctx, b)
	}
	if err != nil {
		// stay at Confirming; the caller surfaces the error
		return View{}, err
	}

	// The ledger changed either way; tell subscribers of the affected
	// date(s) even if the caller is already gone.
	w.notifyDate(saved.Date)
	if editing != nil {
		if editing.orig.Date != saved.Date {
			w.notifyDate(editing.orig.Date)
		}
	} else {
		metrics.BookingsCreated.Inc()
	}

	// The submit may have been superseded by teardown (caller gone). The
	// record is written, but local state must not advance.
	if ctx.Err() != nil {
		return View{}, ctx.Err()
	}

	_ = w.Drafts.Clear(context.WithoutCancel(ctx), userID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if editing != nil {
		delete(w.sessions, userID) // exits to the ledger view
		return View{Booking: &saved, Editing: true, EditingID: editing.orig.ID, Draft: Draft{Step: StepDate}}, nil
	}
	s = w.ensure(userID)
	s.draft.Step = StepDone
	v := view(s)
	v.Booking = &saved
	return v, nil
}

// ensure must be called with w.mu held.
func (w *Wizard) ensure(userID string) *session {
	s, ok := w.sessions[userID]
	if !ok {
		s = &session{draft: Draft{Step: StepDate}}
		w.sessions[userID] = s
	}
	return s
}

// Reset discards the flow and its checkpoint and starts over at date
// selection.
func (w *Wizard) Reset(ctx context.Context, userID string) (View, error) {
	_ = w.Drafts.Clear(ctx, userID)

	w.mu.Lock()
	defer w.mu.Unlock()
	s := &session{draft: Draft{Step: StepDate}}
	w.sessions[userID] = s
	return view(s), nil
}

// checkpoint persists new-booking progress after every change; editing
// sessions are never checkpointed. An empty draft removes any stale entry.
func (w *Wizard) checkpoint(ctx context.Context, userID string) {
	w.mu.Lock()
	s, ok := w.sessions[userID]
	if !ok || s.editing != nil {
		w.mu.Unlock()
		return
	}
	d := s.draft
	w.mu.Unlock()

	if d.empty() {
		_ = w.Drafts.Clear(ctx, userID)
		return
	}
	_ = w.Drafts.Save(ctx, userID, d)
}

func view(s *session) View {
	v := View{Draft: s.draft}
	if s.editing != nil {
		v.Editing = true
		v.EditingID = s.editing.orig.ID
	}
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
