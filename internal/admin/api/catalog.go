package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/transport"
	pkgerrors "ojadmin/pkg/errors"
)

// Envelope names the response shape of an endpoint.
type Envelope string

const (
	EnvelopeNone   Envelope = "none"
	EnvelopeToken  Envelope = "token"
	EnvelopeArray  Envelope = "array"
	EnvelopeRecord Envelope = "record"
	EnvelopeTeams  Envelope = "teams"
	EnvelopeSubs   Envelope = "submissions"
	EnvelopeEvents Envelope = "events"
	EnvelopeEvent  Envelope = "event"
)

// Endpoint declares one backend operation.
type Endpoint struct {
	Name         string
	Method       string
	PathTemplate string
	Multipart    bool
	Envelope     Envelope
}

var (
	EndpointLogin           = Endpoint{Name: "login", Method: http.MethodPost, PathTemplate: "/admin/login", Envelope: EnvelopeToken}
	EndpointRegisterAdmin   = Endpoint{Name: "register-admin", Method: http.MethodPost, PathTemplate: "/admin/register-admin", Envelope: EnvelopeNone}
	EndpointListUsers       = Endpoint{Name: "list-users", Method: http.MethodGet, PathTemplate: "/admin/users", Envelope: EnvelopeArray}
	EndpointDeleteUser      = Endpoint{Name: "delete-user", Method: http.MethodDelete, PathTemplate: "/admin/users/:id", Envelope: EnvelopeNone}
	EndpointListTeams       = Endpoint{Name: "list-teams", Method: http.MethodGet, PathTemplate: "/admin/teams", Envelope: EnvelopeTeams}
	EndpointDeleteTeam      = Endpoint{Name: "delete-team", Method: http.MethodDelete, PathTemplate: "/admin/teams/:id", Envelope: EnvelopeNone}
	EndpointGetProblem      = Endpoint{Name: "get-problem", Method: http.MethodGet, PathTemplate: "/problems/:id", Envelope: EnvelopeRecord}
	EndpointListProblems    = Endpoint{Name: "list-problems", Method: http.MethodGet, PathTemplate: "/admin/problems", Envelope: EnvelopeArray}
	EndpointCreateProblem   = Endpoint{Name: "create-problem", Method: http.MethodPost, PathTemplate: "/admin/problems", Envelope: EnvelopeRecord}
	EndpointUpdateProblem   = Endpoint{Name: "update-problem", Method: http.MethodPut, PathTemplate: "/admin/problems/:id", Envelope: EnvelopeRecord}
	EndpointDeleteProblem   = Endpoint{Name: "delete-problem", Method: http.MethodDelete, PathTemplate: "/admin/problems/:id", Envelope: EnvelopeNone}
	EndpointUploadTestcases = Endpoint{Name: "upload-testcases", Method: http.MethodPost, PathTemplate: "/admin/upload-testcases", Multipart: true, Envelope: EnvelopeNone}
	EndpointUploadSolution  = Endpoint{Name: "upload-solution", Method: http.MethodPost, PathTemplate: "/admin/upload-solution", Multipart: true, Envelope: EnvelopeNone}
	EndpointListSubmissions = Endpoint{Name: "list-submissions", Method: http.MethodGet, PathTemplate: "/admin/submissions", Envelope: EnvelopeSubs}
	EndpointListEvents      = Endpoint{Name: "list-events", Method: http.MethodGet, PathTemplate: "/users/events", Envelope: EnvelopeEvents}
	EndpointCreateEvent     = Endpoint{Name: "create-event", Method: http.MethodPost, PathTemplate: "/admin/event/create", Envelope: EnvelopeEvent}
	EndpointStartEvent      = Endpoint{Name: "start-event", Method: http.MethodPost, PathTemplate: "/admin/event/start", Envelope: EnvelopeEvent}
	EndpointStopEvent       = Endpoint{Name: "stop-event", Method: http.MethodPost, PathTemplate: "/admin/event/end", Envelope: EnvelopeEvent}
)

// Catalog lists every backend operation the console uses.
func Catalog() []Endpoint {
	return []Endpoint{
		EndpointLogin, EndpointRegisterAdmin,
		EndpointListUsers, EndpointDeleteUser,
		EndpointListTeams, EndpointDeleteTeam,
		EndpointGetProblem, EndpointListProblems, EndpointCreateProblem, EndpointUpdateProblem, EndpointDeleteProblem,
		EndpointUploadTestcases, EndpointUploadSolution,
		EndpointListSubmissions,
		EndpointListEvents, EndpointCreateEvent, EndpointStartEvent, EndpointStopEvent,
	}
}

// Path fills the :id placeholder.
func (e Endpoint) Path(id model.ID) string {
	if !strings.Contains(e.PathTemplate, ":id") {
		return e.PathTemplate
	}
	return strings.ReplaceAll(e.PathTemplate, ":id", url.PathEscape(id.String()))
}

// EnvelopeOf reports which envelope a decode target stands for.
func EnvelopeOf(v interface{}) Envelope {
	switch v.(type) {
	case *model.LoginResponse:
		return EnvelopeToken
	case *model.UserList, *model.ProblemList:
		return EnvelopeArray
	case *model.Problem:
		return EnvelopeRecord
	case *model.TeamsEnvelope:
		return EnvelopeTeams
	case *model.SubmissionsEnvelope:
		return EnvelopeSubs
	case *model.EventsEnvelope:
		return EnvelopeEvents
	case *model.EventEnvelope:
		return EnvelopeEvent
	}
	return EnvelopeNone
}

// decode reads resp into out, which must match the endpoint's envelope.
func (e Endpoint) decode(resp transport.Response, out interface{}) error {
	if got := EnvelopeOf(out); got != e.Envelope {
		return pkgerrors.Newf(pkgerrors.InternalServerError, "%s returns %s, not %s", e.Name, e.Envelope, got)
	}
	if err := resp.Decode(out); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return nil
}

// send issues e with the transport call its method and body kind select.
// Multipart endpoints take a *transport.MultipartForm body.
func (c *Client) send(ctx context.Context, e Endpoint, id model.ID, query url.Values, body interface{}) (transport.Response, error) {
	path := e.Path(id)
	if e.Multipart {
		form, ok := body.(*transport.MultipartForm)
		if !ok {
			return transport.Response{}, pkgerrors.Newf(pkgerrors.ValidationFailed, "%s needs a multipart form", e.Name)
		}
		return c.http.PostMultipart(ctx, path, form)
	}
	switch e.Method {
	case http.MethodGet:
		return c.http.Get(ctx, path, query)
	case http.MethodPut:
		return c.http.Put(ctx, path, body)
	case http.MethodDelete:
		return c.http.Delete(ctx, path)
	default:
		return c.http.Post(ctx, path, body)
	}
}
