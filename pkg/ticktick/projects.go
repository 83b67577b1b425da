package ticktick

import (
	"context"
	"fmt"
	"net/url"
)

// GetAllProjects lists the account's projects. The inbox pseudo-project is
// not included; the API treats it separately.
func (c *Client) GetAllProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.getV1(ctx, "/project", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project by ID.
func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	var project Project
	if err := c.getV1(ctx, "/project/"+url.PathEscape(projectID), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProjectData fetches a project together with its tasks and columns.
func (c *Client) GetProjectData(ctx context.Context, projectID string) (*ProjectData, error) {
	var data ProjectData
	path := fmt.Sprintf("/project/%s/data", url.PathEscape(projectID))
	if err := c.getV1(ctx, path, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ProjectFields carries the optional fields of project create/update calls.
type ProjectFields struct {
	Name     *string
	Color    *string
	Kind     *string
	ViewMode *string
	FolderID *string // "NONE" removes the project from its folder
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, name string, fields ProjectFields) (*Project, error) {
	body := map[string]any{"name": name}
	applyProjectFields(body, fields)
	var project Project
	if err := c.postV1(ctx, "/project", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies partial changes to a project.
func (c *Client) UpdateProject(ctx context.Context, projectID string, fields ProjectFields) (*Project, error) {
	body := map[string]any{}
	if fields.Name != nil {
		body["name"] = *fields.Name
	}
	applyProjectFields(body, fields)
	var project Project
	if err := c.postV1(ctx, "/project/"+url.PathEscape(projectID), body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func applyProjectFields(body map[string]any, fields ProjectFields) {
	if fields.Color != nil {
		body["color"] = *fields.Color
	}
	if fields.Kind != nil {
		body["kind"] = *fields.Kind
	}
	if fields.ViewMode != nil {
		body["viewMode"] = *fields.ViewMode
	}
	if fields.FolderID != nil {
		body["groupId"] = *fields.FolderID
	}
}

// DeleteProject deletes a project and everything in it.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.deleteV1(ctx, "/project/"+url.PathEscape(projectID))
}

// GetAllFolders lists project groups.
func (c *Client) GetAllFolders(ctx context.Context) ([]Folder, error) {
	state, err := c.checkState(ctx)
	if err != nil {
		return nil, err
	}
	return state.ProjectGroups, nil
}

// CreateFolder creates a project group.
func (c *Client) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	body := map[string]any{
		"add":    []map[string]string{{"name": name, "listType": "group"}},
		"update": []any{},
		"delete": []any{},
	}
	var result BatchResult
	if err := c.postV2(ctx, "/batch/projectGroup", body, &result); err != nil {
		return nil, err
	}

	folders, err := c.GetAllFolders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if _, ok := result.ID2Etag[folders[i].ID]; ok {
			return &folders[i], nil
		}
		if folders[i].Name == name {
			return &folders[i], nil
		}
	}
	return nil, &APIError{Endpoint: "batch/projectGroup", Message: "created folder not found in state"}
}

// RenameFolder renames a project group and returns the refreshed record.
func (c *Client) RenameFolder(ctx context.Context, folderID, name string) (*Folder, error) {
	body := map[string]any{
		"add":    []any{},
		"update": []map[string]string{{"id": folderID, "name": name}},
		"delete": []any{},
	}
	if err := c.postV2(ctx, "/batch/projectGroup", body, nil); err != nil {
		return nil, err
	}
	folders, err := c.GetAllFolders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if folders[i].ID == folderID {
			return &folders[i], nil
		}
	}
	return &Folder{ID: folderID, Name: name}, nil
}

// DeleteFolder deletes a project group. Projects inside it survive and move
// to the top level.
func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	body := map[string]any{
		"add":    []any{},
		"update": []any{},
		"delete": []string{folderID},
	}
	return c.postV2(ctx, "/batch/projectGroup", body, nil)
}

// GetColumns lists the kanban columns of a project.
func (c *Client) GetColumns(ctx context.Context, projectID string) ([]Column, error) {
	var resp struct {
		Columns []Column `json:"columns"`
	}
	path := "/column/project/" + url.PathEscape(projectID)
	if err := c.getV2(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Columns, nil
}

// CreateColumn adds a kanban column to a project.
func (c *Client) CreateColumn(ctx context.Context, projectID, name string, sortOrder int64) (*Column, error) {
	body := map[string]any{
		"projectId": projectID,
		"name":      name,
		"sortOrder": sortOrder,
	}
	var column Column
	if err := c.postV2(ctx, "/column", body, &column); err != nil {
		return nil, err
	}
	if column.ID == "" {
		// Some deployments answer with an etag map only; refresh.
		columns, err := c.GetColumns(ctx, projectID)
		if err != nil {
			return nil, err
		}
		for i := range columns {
			if columns[i].Name == name {
				return &columns[i], nil
			}
		}
		return nil, &APIError{Endpoint: "column", Message: "created column not found"}
	}
	return &column, nil
}

// ColumnFields carries the optional fields of a column update.
type ColumnFields struct {
	Name      *string
	SortOrder *int64
}

// UpdateColumn applies partial changes to a column.
func (c *Client) UpdateColumn(ctx context.Context, columnID, projectID string, fields ColumnFields) (*Column, error) {
	body := map[string]any{
		"id":        columnID,
		"projectId": projectID,
	}
	if fields.Name != nil {
		body["name"] = *fields.Name
	}
	if fields.SortOrder != nil {
		body["sortOrder"] = *fields.SortOrder
	}
	if err := c.putV2(ctx, "/column", body, nil); err != nil {
		return nil, err
	}
	columns, err := c.GetColumns(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		if columns[i].ID == columnID {
			return &columns[i], nil
		}
	}
	return nil, &APIError{Endpoint: "column", Message: fmt.Sprintf("column %s not found after update", columnID)}
}

// DeleteColumn removes a kanban column. Tasks in the column keep their
// status and fall back to the default lane.
func (c *Client) DeleteColumn(ctx context.Context, columnID, projectID string) error {
	path := fmt.Sprintf("/column/%s?projectId=%s", url.PathEscape(columnID), url.QueryEscape(projectID))
	return c.deleteV2(ctx, path)
}
