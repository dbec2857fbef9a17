package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
)

type taskQuery struct {
	store *Store
}

func (q *taskQuery) FindAll(ctx context.Context, p connector.Pagination) (connector.Page[models.Task], error) {
	tasks := q.store.listTasks()
	sortByID(tasks)
	return paginate(tasks, p), nil
}

func (q *taskQuery) FindByID(ctx context.Context, id string) (models.Task, error) {
	for _, task := range q.store.listTasks() {
		if task.ID == id {
			return task, nil
		}
	}
	return models.Task{}, apperrors.NotFound("task.notFound").WithDetails(map[string]any{"id": id})
}

func (q *taskQuery) FindByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	byID := make(map[string]models.Task)
	for _, task := range q.store.listTasks() {
		byID[task.ID] = task
	}
	tasks := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		if task, ok := byID[id]; ok {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (q *taskQuery) FindByCondition(ctx context.Context, cond connector.Condition, p connector.Pagination) (connector.Page[models.Task], error) {
	matched, err := q.match(cond)
	if err != nil {
		return connector.Page[models.Task]{}, err
	}
	sortByID(matched)
	return paginate(matched, p), nil
}

func (q *taskQuery) Count(ctx context.Context, cond connector.Condition) (int, error) {
	matched, err := q.match(cond)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (q *taskQuery) Exists(ctx context.Context, cond connector.Condition) (bool, error) {
	count, err := q.Count(ctx, cond)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q *taskQuery) FindByMemberID(ctx context.Context, memberID string, p connector.Pagination) (connector.Page[models.Task], error) {
	return q.FindByCondition(ctx, connector.Condition{"assignee_id": memberID}, p)
}

func (q *taskQuery) match(cond connector.Condition) ([]models.Task, error) {
	var matched []models.Task
	for _, task := range q.store.listTasks() {
		ok, err := taskMatches(task, cond)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func taskMatches(task models.Task, cond connector.Condition) (bool, error) {
	for field, want := range cond {
		var got string
		switch field {
		case "id":
			got = task.ID
		case "status":
			got = task.Status
		case "assignee_id":
			got = task.AssigneeID
		case "project_id":
			got = task.ProjectID
		default:
			return false, apperrors.Validation("query.unsupportedField").WithDetails(map[string]any{"field": field})
		}
		if got != fmt.Sprint(want) {
			return false, nil
		}
	}
	return true, nil
}

type taskMutation struct {
	store *Store
}

func (m *taskMutation) Create(ctx context.Context, task models.Task) (models.Task, error) {
	if task.ID == "" {
		return models.Task{}, apperrors.Validation("task.idRequired")
	}
	m.store.putTask(task)
	return task, nil
}

func (m *taskMutation) Update(ctx context.Context, id string, task models.Task) (models.Task, error) {
	q := taskQuery{store: m.store}
	if _, err := q.FindByID(ctx, id); err != nil {
		return models.Task{}, err
	}
	task.ID = id
	m.store.putTask(task)
	return task, nil
}

func (m *taskMutation) Delete(ctx context.Context, id string) error {
	m.store.deleteTask(id)
	return nil
}

type memberQuery struct {
	store  *Store
	apiKey string
}

func (q *memberQuery) FindAll(ctx context.Context, p connector.Pagination) (connector.Page[models.Member], error) {
	members := q.store.listMembers()
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return paginate(members, p), nil
}

func (q *memberQuery) FindByID(ctx context.Context, id string) (models.Member, error) {
	for _, member := range q.store.listMembers() {
		if member.ID == id {
			return member, nil
		}
	}
	return models.Member{}, apperrors.NotFound("member.notFound").WithDetails(map[string]any{"id": id})
}

func (q *memberQuery) FindByIDs(ctx context.Context, ids []string) ([]models.Member, error) {
	members := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		if member, err := q.FindByID(ctx, id); err == nil {
			members = append(members, member)
		}
	}
	return members, nil
}

func (q *memberQuery) FindByCondition(ctx context.Context, cond connector.Condition, p connector.Pagination) (connector.Page[models.Member], error) {
	var matched []models.Member
	for _, member := range q.store.listMembers() {
		ok, err := memberMatches(member, cond)
		if err != nil {
			return connector.Page[models.Member]{}, err
		}
		if ok {
			matched = append(matched, member)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, p), nil
}

func (q *memberQuery) Count(ctx context.Context, cond connector.Condition) (int, error) {
	page, err := q.FindByCondition(ctx, cond, connector.Pagination{PageSize: 1})
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
	member, ok := q.store.memberByKey(q.apiKey)
	if !ok {
		return models.Member{}, apperrors.Unauthorized("connector.invalidCredentials")
	}
	return member, nil
}

func memberMatches(member models.Member, cond connector.Condition) (bool, error) {
	for field, want := range cond {
		var got string
		switch field {
		case "id":
			got = member.ID
		case "login":
			got = member.Login
		default:
			return false, apperrors.Validation("query.unsupportedField").WithDetails(map[string]any{"field": field})
		}
		if got != fmt.Sprint(want) {
			return false, nil
		}
	}
	return true, nil
}
