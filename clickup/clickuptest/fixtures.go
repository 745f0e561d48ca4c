package clickuptest

import (
	"fmt"
	"time"

	"clickupai/domain"
)

// ThreeSpaceWorkspace returns a workspace with three spaces, two folders,
// four lists and five tasks. One task is overdue relative to Now and one is
// urgent.
func ThreeSpaceWorkspace() domain.Workspace {
	due := Now.Add(-48 * time.Hour)
	later := Now.Add(72 * time.Hour)
	closed := Now.Add(-24 * time.Hour)
	return domain.Workspace{
		Id:   "9001",
		Name: "Acme",
		Spaces: []domain.Space{
			{
				Id:   "s1",
				Name: "Engineering",
				Folders: []domain.Folder{{
					Id:   "f1",
					Name: "Platform",
					Lists: []domain.List{{
						Id:   "l1",
						Name: "Sprint 12",
						Tasks: []domain.Task{
							{Id: "t1", Name: "Fix login", Status: "in progress", StatusType: domain.StatusTypeCustom, Priority: domain.PriorityUrgent, Assignees: []string{"jane"}, DueDate: &due},
							{Id: "t2", Name: "Ship release", Status: "complete", StatusType: domain.StatusTypeClosed, DateClosed: &closed},
						},
					}},
				}},
				Lists: []domain.List{{
					Id:    "l2",
					Name:  "Backlog",
					Tasks: []domain.Task{{Id: "t3", Name: "Write docs", Status: "to do", StatusType: domain.StatusTypeOpen, Priority: domain.PriorityLow, DueDate: &later}},
				}},
			},
			{
				Id:   "s2",
				Name: "Sales",
				Folders: []domain.Folder{{
					Id:   "f2",
					Name: "Pipeline",
					Lists: []domain.List{{
						Id:    "l3",
						Name:  "Leads",
						Tasks: []domain.Task{{Id: "t4", Name: "Call Globex", Status: "to do", StatusType: domain.StatusTypeOpen, Assignees: []string{"sam"}}},
					}},
				}},
			},
			{
				Id:   "s3",
				Name: "People",
				Lists: []domain.List{{
					Id:    "l4",
					Name:  "Hiring",
					Tasks: []domain.Task{{Id: "t5", Name: "Screen candidates", Status: "to do", StatusType: domain.StatusTypeOpen, Priority: domain.PriorityHigh}},
				}},
			},
		},
	}
}

// Now is the reference time used by the fixtures.
var Now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// LargeList returns a list with n generated open tasks.
func LargeList(id string, n int) domain.List {
	l := domain.List{Id: id, Name: "Large " + id}
	for i := 0; i < n; i++ {
		l.Tasks = append(l.Tasks, domain.Task{
			Id:         fmt.Sprintf("%s-t%d", id, i),
			Name:       fmt.Sprintf("Task %d", i),
			Status:     "to do",
			StatusType: domain.StatusTypeOpen,
		})
	}
	return l
}
