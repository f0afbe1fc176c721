package api

import (
	"context"

	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/transport"
	"ojadmin/pkg/utils/logger"

	"go.uber.org/zap"
)

func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	resp, err := c.send(ctx, EndpointListEvents, "", nil, nil)
	if err != nil {
		return nil, err
	}
	var env model.EventsEnvelope
	if err := EndpointListEvents.decode(resp, &env); err != nil {
		return nil, err
	}
	return env.Events, nil
}

// CreateEvent returns the new event, or nil when the response omits it.
func (c *Client) CreateEvent(ctx context.Context, payload EventPayload) (*model.Event, error) {
	resp, err := c.send(ctx, EndpointCreateEvent, "", nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeEvent(ctx, resp, EndpointCreateEvent), nil
}

func (c *Client) StartEvent(ctx context.Context, payload StartEventPayload) (*model.Event, error) {
	resp, err := c.send(ctx, EndpointStartEvent, "", nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeEvent(ctx, resp, EndpointStartEvent), nil
}

func (c *Client) StopEvent(ctx context.Context, id model.ID) (*model.Event, error) {
	resp, err := c.send(ctx, EndpointStopEvent, "", nil, StopEventPayload{EventID: id})
	if err != nil {
		return nil, err
	}
	return decodeEvent(ctx, resp, EndpointStopEvent), nil
}

func decodeEvent(ctx context.Context, resp transport.Response, ep Endpoint) *model.Event {
	var env model.EventEnvelope
	if err := ep.decode(resp, &env); err != nil {
		logger.Warn(ctx, "ignore undecodable event", zap.String("op", ep.Name), zap.Error(err))
		return nil
	}
	if env.Event == nil || env.Event.ID.IsZero() {
		return nil
	}
	return env.Event
}
