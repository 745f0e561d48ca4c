package clickup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clickupai/domain"
)

// Wire schemas for the subset of ClickUp API v2 responses we read. Unknown
// fields are ignored; missing ids are rejected by validate.

type teamsResponse struct {
	Teams []team `json:"teams"`
}

type team struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type spacesResponse struct {
	Spaces []space `json:"spaces"`
}

type space struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type foldersResponse struct {
	Folders []folder `json:"folders"`
}

type folder struct {
	Id    string     `json:"id"`
	Name  string     `json:"name"`
	Lists []taskList `json:"lists"`
}

type listsResponse struct {
	Lists []taskList `json:"lists"`
}

type taskList struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type tasksResponse struct {
	Tasks    []task `json:"tasks"`
	LastPage *bool  `json:"last_page"`
}

type task struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Status struct {
		Status string `json:"status"`
		Type   string `json:"type"`
	} `json:"status"`
	Priority *struct {
		Priority string `json:"priority"`
	} `json:"priority"`
	Assignees []struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"assignees"`
	DueDate    millis `json:"due_date"`
	DateClosed millis `json:"date_closed"`
}

// millis is a millisecond epoch that ClickUp sends as a string, a number or
// null.
type millis int64

func (m *millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*m = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %s: %w", data, err)
	}
	*m = millis(v)
	return nil
}

func (m millis) time() *time.Time {
	return domain.UnixMilliPtr(int64(m))
}

func (t task) toDomain() domain.Task {
	var assignees []string
	for _, a := range t.Assignees {
		name := a.Username
		if name == "" {
			name = a.Email
		}
		if name != "" {
			assignees = append(assignees, name)
		}
	}
	var priority domain.Priority
	if t.Priority != nil {
		priority = domain.ParsePriority(t.Priority.Priority)
	}
	return domain.Task{
		Id:         t.Id,
		Name:       t.Name,
		Status:     t.Status.Status,
		StatusType: domain.StatusType(strings.ToLower(t.Status.Type)),
		Priority:   priority,
		Assignees:  assignees,
		DueDate:    t.DueDate.time(),
		DateClosed: t.DateClosed.time(),
	}
}

func (l taskList) toDomain() domain.List {
	return domain.List{Id: l.Id, Name: l.Name}
}

func requireIds[T any](kind string, items []T, id func(T) string) error {
	for i, item := range items {
		if id(item) == "" {
			return fmt.Errorf("%s %d has no id", kind, i)
		}
	}
	return nil
}

func (r teamsResponse) validate() error {
	return requireIds("team", r.Teams, func(t team) string { return t.Id })
}

func (r spacesResponse) validate() error {
	return requireIds("space", r.Spaces, func(s space) string { return s.Id })
}

func (r foldersResponse) validate() error {
	if err := requireIds("folder", r.Folders, func(f folder) string { return f.Id }); err != nil {
		return err
	}
	for _, f := range r.Folders {
		if err := requireIds("list", f.Lists, func(l taskList) string { return l.Id }); err != nil {
			return fmt.Errorf("folder %s: %w", f.Id, err)
		}
	}
	return nil
}

func (r listsResponse) validate() error {
	return requireIds("list", r.Lists, func(l taskList) string { return l.Id })
}

func (r tasksResponse) validate() error {
	return requireIds("task", r.Tasks, func(t task) string { return t.Id })
}

type validator interface {
	validate() error
}

// errorBody is ClickUp's error envelope, e.g. {"err":"Token invalid","ECODE":"OAUTH_025"}.
type errorBody struct {
	Err   string `json:"err"`
	ECode string `json:"ECODE"`
}

func parseErrorBody(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Err == "" {
		return ""
	}
	if eb.ECode != "" {
		return fmt.Sprintf("%s (%s)", eb.Err, eb.ECode)
	}
	return eb.Err
}
