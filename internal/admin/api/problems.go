package api

import (
	"context"

	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/transport"
	pkgerrors "ojadmin/pkg/errors"
)

const (
	fieldProblemID = "problem_id"
	fieldFiles     = "files"
)

func (c *Client) GetProblem(ctx context.Context, id model.ID) (*model.Problem, error) {
	resp, err := c.send(ctx, EndpointGetProblem, id, nil, nil)
	if err != nil {
		return nil, err
	}
	var p model.Problem
	if err := EndpointGetProblem.decode(resp, &p); err != nil {
		return nil, err
	}
	if p.ID.IsZero() {
		p.ID = id
	}
	return &p, nil
}

func (c *Client) ListProblems(ctx context.Context) ([]model.Problem, error) {
	resp, err := c.send(ctx, EndpointListProblems, "", nil, nil)
	if err != nil {
		return nil, err
	}
	var problems model.ProblemList
	if err := EndpointListProblems.decode(resp, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

// CreateProblem returns the created record, or nil when the backend sends
// none back.
func (c *Client) CreateProblem(ctx context.Context, payload ProblemPayload) (*model.Problem, error) {
	resp, err := c.send(ctx, EndpointCreateProblem, "", nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord[model.Problem](ctx, resp, EndpointCreateProblem), nil
}

// UpdateProblem replaces the problem; the result follows CreateProblem.
func (c *Client) UpdateProblem(ctx context.Context, id model.ID, payload ProblemPayload) (*model.Problem, error) {
	resp, err := c.send(ctx, EndpointUpdateProblem, id, nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord[model.Problem](ctx, resp, EndpointUpdateProblem), nil
}

func (c *Client) DeleteProblem(ctx context.Context, id model.ID) error {
	_, err := c.send(ctx, EndpointDeleteProblem, id, nil, nil)
	return err
}

// UploadTestcases sends the test case files of a problem as one multipart
// request.
func (c *Client) UploadTestcases(ctx context.Context, problemID model.ID, files []UploadFile) error {
	return c.upload(ctx, EndpointUploadTestcases, problemID, files)
}

// UploadSolution sends reference solution files of a problem.
func (c *Client) UploadSolution(ctx context.Context, problemID model.ID, files []UploadFile) error {
	return c.upload(ctx, EndpointUploadSolution, problemID, files)
}

func (c *Client) upload(ctx context.Context, ep Endpoint, problemID model.ID, files []UploadFile) error {
	if problemID.IsZero() {
		return pkgerrors.New(pkgerrors.RequiredFieldEmpty).WithMessage("problem id is required")
	}
	if len(files) == 0 {
		return pkgerrors.New(pkgerrors.TestCaseInvalid).WithMessage("no files selected")
	}
	form := transport.NewMultipartForm().AddField(fieldProblemID, problemID.String())
	for _, f := range files {
		form.AddFile(fieldFiles, f.Name, f.Reader())
	}
	_, err := c.send(ctx, ep, "", nil, form)
	return err
}
