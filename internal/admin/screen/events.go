package screen

import (
	"context"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/reconcile"
	pkgerrors "ojadmin/pkg/errors"
)

const (
	msgFetchEvents = "Failed to fetch events"
	msgCreateEvent = "Failed to create event"
	msgStartEvent  = "Failed to start event"
	msgStopEvent   = "Failed to stop event"
	eventsScreen   = "events"
)

type EventAPI interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, payload api.EventPayload) (*model.Event, error)
	StartEvent(ctx context.Context, payload api.StartEventPayload) (*model.Event, error)
	StopEvent(ctx context.Context, id model.ID) (*model.Event, error)
}

// Events is the contest event screen. Create appends the returned event,
// start and stop replace it in place. When the backend omits the event
// the list is refetched instead.
type Events struct {
	state[model.Event]
	api EventAPI
}

func NewEvents(api EventAPI) *Events {
	return &Events{api: api}
}

func (s *Events) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refetch(ctx, msgFetchEvents)
}

func (s *Events) refetch(ctx context.Context, msg string) error {
	items, err := reconcile.Refetch(ctx, s.items, s.api.ListEvents)
	if err != nil {
		return s.fail(ctx, eventsScreen, msg, err)
	}
	s.items, s.err = items, ""
	return nil
}

func (s *Events) Find(id model.ID) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reconcile.Find(s.items, id)
}

func (s *Events) Create(ctx context.Context, form api.EventForm) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := form.Normalize()
	if err != nil {
		return nil, s.fail(ctx, eventsScreen, msgCreateEvent, err)
	}
	ev, err := s.api.CreateEvent(ctx, payload)
	if err != nil {
		return nil, s.fail(ctx, eventsScreen, msgCreateEvent, err)
	}
	if ev == nil {
		return nil, s.refetch(ctx, msgFetchEvents)
	}
	s.items, s.err = reconcile.Append(s.items, *ev), ""
	return ev, nil
}

// Start begins a loaded event. Starting an active event is refused before
// any request is sent.
func (s *Events) Start(ctx context.Context, form api.StartEventForm) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := reconcile.Find(s.items, form.EventID); ok && !cur.CanStart() {
		return nil, s.fail(ctx, eventsScreen, msgStartEvent,
			pkgerrors.Newf(pkgerrors.EventAlreadyActive, "event %s is already active", cur.Name))
	}
	payload, err := form.Normalize()
	if err != nil {
		return nil, s.fail(ctx, eventsScreen, msgStartEvent, err)
	}
	ev, err := s.api.StartEvent(ctx, payload)
	if err != nil {
		return nil, s.fail(ctx, eventsScreen, msgStartEvent, err)
	}
	return s.settle(ctx, ev)
}

// Stop ends a loaded event. Stopping an inactive event is refused before
// any request is sent.
func (s *Events) Stop(ctx context.Context, id model.ID) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := reconcile.Find(s.items, id); ok && !cur.CanStop() {
		return nil, s.fail(ctx, eventsScreen, msgStopEvent,
			pkgerrors.Newf(pkgerrors.EventNotActive, "event %s is not active", cur.Name))
	}
	ev, err := s.api.StopEvent(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, eventsScreen, msgStopEvent, err)
	}
	return s.settle(ctx, ev)
}

func (s *Events) settle(ctx context.Context, ev *model.Event) (*model.Event, error) {
	if ev == nil {
		return nil, s.refetch(ctx, msgFetchEvents)
	}
	s.items, s.err = reconcile.ReplaceByID(s.items, *ev), ""
	return ev, nil
}
