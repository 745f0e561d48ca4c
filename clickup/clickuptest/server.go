// Package clickuptest provides an in-memory ClickUp API v2 server for tests.
package clickuptest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"clickupai/domain"
)

const pageSize = 100

// Fault is returned for requests whose path matches instead of the normal
// response. Times limits how many requests fail; zero means always.
type Fault struct {
	Status  int
	Body    string
	Headers map[string]string
	Times   int
}

// Server serves the workspaces it was given to requests carrying APIKey.
type Server struct {
	*httptest.Server
	APIKey     string
	Workspaces []domain.Workspace

	mu     sync.Mutex
	faults map[string]*Fault
	calls  map[string]int
}

func NewServer(t testing.TB, apiKey string, workspaces ...domain.Workspace) *Server {
	t.Helper()
	s := &Server{
		APIKey:     apiKey,
		Workspaces: workspaces,
		faults:     make(map[string]*Fault),
		calls:      make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Fail injects a fault for requests whose path (without query) equals path.
// The path "*" matches every request.
func (s *Server) Fail(path string, fault Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := fault
	s.faults[path] = &f
}

// Calls returns how many requests hit path; "*" returns the total.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == "*" {
		total := 0
		for _, n := range s.calls {
			total += n
		}
		return total
	}
	return s.calls[path]
}

func (s *Server) takeFault(path string) *Fault {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[path]++
	for _, key := range []string{path, "*"} {
		f, ok := s.faults[key]
		if !ok {
			continue
		}
		if f.Times > 0 {
			f.Times--
			if f.Times == 0 {
				delete(s.faults, key)
			}
		}
		return f
	}
	return nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if f := s.takeFault(r.URL.Path); f != nil {
		for k, v := range f.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(f.Status)
		fmt.Fprint(w, f.Body)
		return
	}

	if r.Header.Get("Authorization") != s.APIKey {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"err":"Token invalid","ECODE":"OAUTH_025"}`)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "team":
		teams := make([]map[string]string, 0, len(s.Workspaces))
		for _, ws := range s.Workspaces {
			teams = append(teams, map[string]string{"id": ws.Id, "name": ws.Name})
		}
		writeJSON(w, map[string]any{"teams": teams})
	case len(parts) == 3 && parts[0] == "team" && parts[2] == "space":
		ws, ok := s.workspace(parts[1])
		if !ok {
			notFound(w)
			return
		}
		spaces := make([]map[string]string, 0, len(ws.Spaces))
		for _, sp := range ws.Spaces {
			spaces = append(spaces, map[string]string{"id": sp.Id, "name": sp.Name})
		}
		writeJSON(w, map[string]any{"spaces": spaces})
	case len(parts) == 3 && parts[0] == "space" && parts[2] == "folder":
		sp, ok := s.space(parts[1])
		if !ok {
			notFound(w)
			return
		}
		folders := make([]map[string]any, 0, len(sp.Folders))
		for _, f := range sp.Folders {
			folders = append(folders, map[string]any{"id": f.Id, "name": f.Name, "lists": listRefs(f.Lists)})
		}
		writeJSON(w, map[string]any{"folders": folders})
	case len(parts) == 3 && parts[0] == "space" && parts[2] == "list":
		sp, ok := s.space(parts[1])
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, map[string]any{"lists": listRefs(sp.Lists)})
	case len(parts) == 3 && parts[0] == "list" && parts[2] == "task":
		l, ok := s.list(parts[1])
		if !ok {
			notFound(w)
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		start := min(page*pageSize, len(l.Tasks))
		end := min(start+pageSize, len(l.Tasks))
		tasks := make([]map[string]any, 0, end-start)
		for _, t := range l.Tasks[start:end] {
			tasks = append(tasks, taskJSON(t))
		}
		writeJSON(w, map[string]any{"tasks": tasks, "last_page": end == len(l.Tasks)})
	default:
		notFound(w)
	}
}

func (s *Server) workspace(id string) (domain.Workspace, bool) {
	for _, ws := range s.Workspaces {
		if ws.Id == id {
			return ws, true
		}
	}
	return domain.Workspace{}, false
}

func (s *Server) space(id string) (domain.Space, bool) {
	for _, ws := range s.Workspaces {
		for _, sp := range ws.Spaces {
			if sp.Id == id {
				return sp, true
			}
		}
	}
	return domain.Space{}, false
}

func (s *Server) list(id string) (domain.List, bool) {
	for _, ws := range s.Workspaces {
		for _, sp := range ws.Spaces {
			for _, l := range sp.AllLists() {
				if l.Id == id {
					return l, true
				}
			}
		}
	}
	return domain.List{}, false
}

func listRefs(lists []domain.List) []map[string]string {
	refs := make([]map[string]string, 0, len(lists))
	for _, l := range lists {
		refs = append(refs, map[string]string{"id": l.Id, "name": l.Name})
	}
	return refs
}

func taskJSON(t domain.Task) map[string]any {
	m := map[string]any{
		"id":     t.Id,
		"name":   t.Name,
		"status": map[string]string{"status": t.Status, "type": string(t.StatusType)},
	}
	if t.Priority != domain.PriorityNone {
		m["priority"] = map[string]string{"priority": string(t.Priority)}
	} else {
		m["priority"] = nil
	}
	assignees := make([]map[string]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		assignees = append(assignees, map[string]string{"username": a})
	}
	m["assignees"] = assignees
	if t.DueDate != nil {
		m["due_date"] = strconv.FormatInt(t.DueDate.UnixMilli(), 10)
	} else {
		m["due_date"] = nil
	}
	if t.DateClosed != nil {
		m["date_closed"] = strconv.FormatInt(t.DateClosed.UnixMilli(), 10)
	} else {
		m["date_closed"] = nil
	}
	return m
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, `{"err":"Resource not found","ECODE":"ITEM_013"}`)
}
