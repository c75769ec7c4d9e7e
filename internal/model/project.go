package model

// Project groups tasks and the employees assigned to them
type Project struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	CreatedBy         string   `json:"created_by,omitempty"`
	AssignedEmployees []string `json:"assigned_employees,omitempty"`
}

// Creator returns who created the project, "system" when unknown
func (p Project) Creator() string {
	if p.CreatedBy == "" {
		return "system"
	}
	return p.CreatedBy
}

// HasEmployee reports whether user id is assigned to the project
func (p Project) HasEmployee(id string) bool {
	for _, e := range p.AssignedEmployees {
		if e == id {
			return true
		}
	}
	return false
}

// CreateProjectRequest is the body of POST /projects/create
type CreateProjectRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	AssignedEmployees []string `json:"assigned_employees"`
}

// FindProject returns the project with the given id
func FindProject(projects []Project, id string) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// UniqueAssignees counts distinct assigned employees across projects
func UniqueAssignees(projects []Project) int {
	seen := make(map[string]struct{})
	for _, p := range projects {
		for _, id := range p.AssignedEmployees {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
