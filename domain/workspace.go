package domain

// A Workspace is the top-level container of a ClickUp account (a "team" in
// ClickUp API terms). Every value in the tree is a read-only snapshot fetched
// for a single analysis and is never cached.
type Workspace struct {
	Id     string  `json:"id"`
	Name   string  `json:"name"`
	Spaces []Space `json:"spaces"`
}

type Space struct {
	Id      string   `json:"id"`
	Name    string   `json:"name"`
	Folders []Folder `json:"folders"`
	Lists   []List   `json:"lists"` // folderless lists
}

type Folder struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Lists []List `json:"lists"`
}

type List struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// AllLists returns the folderless lists followed by each folder's lists, in
// API order.
func (s Space) AllLists() []List {
	lists := make([]List, 0, len(s.Lists))
	lists = append(lists, s.Lists...)
	for _, f := range s.Folders {
		lists = append(lists, f.Lists...)
	}
	return lists
}
