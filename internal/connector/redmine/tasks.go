package redmine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
)

type taskQuery struct {
	client *client
}

func (q *taskQuery) FindAll(ctx context.Context, p connector.Pagination) (connector.Page[models.Task], error) {
	return q.page(ctx, url.Values{}, p)
}

func (q *taskQuery) FindByID(ctx context.Context, id string) (models.Task, error) {
	var resp issueResponse
	if err := q.client.get(ctx, "/issues/"+idPath(id)+".json", nil, &resp); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return models.Task{}, apperrors.NotFound("task.notFound").WithDetails(map[string]any{"id": id})
		}
		return models.Task{}, err
	}
	return resp.Issue.toModel(), nil
}

func (q *taskQuery) FindByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		task, err := q.FindByID(ctx, id)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (q *taskQuery) FindByCondition(ctx context.Context, cond connector.Condition, p connector.Pagination) (connector.Page[models.Task], error) {
	params, err := taskParams(cond)
	if err != nil {
		return connector.Page[models.Task]{}, err
	}
	return q.page(ctx, params, p)
}

func (q *taskQuery) Count(ctx context.Context, cond connector.Condition) (int, error) {
	page, err := q.FindByCondition(ctx, cond, connector.Pagination{Page: 1, PageSize: 1})
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

func (q *taskQuery) Exists(ctx context.Context, cond connector.Condition) (bool, error) {
	count, err := q.Count(ctx, cond)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q *taskQuery) FindByMemberID(ctx context.Context, memberID string, p connector.Pagination) (connector.Page[models.Task], error) {
	params := url.Values{}
	params.Set("assigned_to_id", memberID)
	return q.page(ctx, params, p)
}

func (q *taskQuery) page(ctx context.Context, params url.Values, p connector.Pagination) (connector.Page[models.Task], error) {
	p = p.Normalize()
	params.Set("limit", strconv.Itoa(p.PageSize))
	params.Set("offset", strconv.Itoa(p.Offset()))
	params.Set("status_id", "*")

	var resp issuesResponse
	if err := q.client.get(ctx, "/issues.json", params, &resp); err != nil {
		return connector.Page[models.Task]{}, err
	}

	items := make([]models.Task, 0, len(resp.Issues))
	for _, wire := range resp.Issues {
		items = append(items, wire.toModel())
	}
	return connector.Page[models.Task]{
		Items:    items,
		Total:    resp.TotalCount,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

func taskParams(cond connector.Condition) (url.Values, error) {
	params := url.Values{}
	for field, want := range cond {
		switch field {
		case "assignee_id":
			params.Set("assigned_to_id", fmt.Sprint(want))
		case "project_id":
			params.Set("project_id", fmt.Sprint(want))
		case "status":
			params.Set("status_id", fmt.Sprint(want))
		default:
			return nil, apperrors.Validation("query.unsupportedField").WithDetails(map[string]any{"field": field})
		}
	}
	return params, nil
}

type taskMutation struct {
	client *client
}

func (m *taskMutation) Create(ctx context.Context, task models.Task) (models.Task, error) {
	payload := issueEnvelope{Issue: issuePayload{
		Subject:      task.Subject,
		Description:  task.Description,
		AssignedToID: parseID(task.AssigneeID),
		ProjectID:    parseID(task.ProjectID),
	}}
	var resp issueResponse
	if err := m.client.doRequest(ctx, http.MethodPost, "/issues.json", payload, &resp); err != nil {
		return models.Task{}, err
	}
	return resp.Issue.toModel(), nil
}

func (m *taskMutation) Update(ctx context.Context, id string, task models.Task) (models.Task, error) {
	payload := issueEnvelope{Issue: issuePayload{
		Subject:      task.Subject,
		Description:  task.Description,
		AssignedToID: parseID(task.AssigneeID),
	}}
	path := "/issues/" + idPath(id) + ".json"
	if err := m.client.doRequest(ctx, http.MethodPut, path, payload, nil); err != nil {
		return models.Task{}, err
	}
	q := taskQuery{client: m.client}
	return q.FindByID(ctx, id)
}

func (m *taskMutation) Delete(ctx context.Context, id string) error {
	path := "/issues/" + idPath(id) + ".json"
	err := m.client.doRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil && apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil
	}
	return err
}

type memberQuery struct {
	client *client
}

func (q *memberQuery) FindAll(ctx context.Context, p connector.Pagination) (connector.Page[models.Member], error) {
	return q.page(ctx, url.Values{}, p)
}

func (q *memberQuery) FindByID(ctx context.Context, id string) (models.Member, error) {
	var resp userResponse
	if err := q.client.get(ctx, "/users/"+idPath(id)+".json", nil, &resp); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return models.Member{}, apperrors.NotFound("member.notFound").WithDetails(map[string]any{"id": id})
		}
		return models.Member{}, err
	}
	return resp.User.toMember(), nil
}

func (q *memberQuery) FindByIDs(ctx context.Context, ids []string) ([]models.Member, error) {
	members := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		member, err := q.FindByID(ctx, id)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				continue
			}
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (q *memberQuery) FindByCondition(ctx context.Context, cond connector.Condition, p connector.Pagination) (connector.Page[models.Member], error) {
	params := url.Values{}
	for field, want := range cond {
		switch field {
		case "login":
			params.Set("name", fmt.Sprint(want))
		default:
			return connector.Page[models.Member]{}, apperrors.Validation("query.unsupportedField").WithDetails(map[string]any{"field": field})
		}
	}
	return q.page(ctx, params, p)
}

func (q *memberQuery) Count(ctx context.Context, cond connector.Condition) (int, error) {
	page, err := q.FindByCondition(ctx, cond, connector.Pagination{Page: 1, PageSize: 1})
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

func (q *memberQuery) Exists(ctx context.Context, cond connector.Condition) (bool, error) {
	count, err := q.Count(ctx, cond)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q *memberQuery) Current(ctx context.Context) (models.Member, error) {
	var resp userResponse
	if err := q.client.get(ctx, "/users/current.json", nil, &resp); err != nil {
		return models.Member{}, err
	}
	return resp.User.toMember(), nil
}

func (q *memberQuery) page(ctx context.Context, params url.Values, p connector.Pagination) (connector.Page[models.Member], error) {
	p = p.Normalize()
	params.Set("limit", strconv.Itoa(p.PageSize))
	params.Set("offset", strconv.Itoa(p.Offset()))

	var resp usersResponse
	if err := q.client.get(ctx, "/users.json", params, &resp); err != nil {
		return connector.Page[models.Member]{}, err
	}

	items := make([]models.Member, 0, len(resp.Users))
	for _, wire := range resp.Users {
		items = append(items, wire.toMember())
	}
	return connector.Page[models.Member]{
		Items:    items,
		Total:    resp.TotalCount,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
