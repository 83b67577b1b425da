package ticktick

import (
	"context"
	"net/url"
)

// GetAllTags lists the account's tags.
func (c *Client) GetAllTags(ctx context.Context) ([]Tag, error) {
	state, err := c.checkState(ctx)
	if err != nil {
		return nil, err
	}
	return state.Tags, nil
}

// TagFields carries the optional fields of tag create/update calls.
type TagFields struct {
	Color  *string
	Parent *string
}

// CreateTag creates a tag. The name is the identity; label preserves the
// user-entered casing.
func (c *Client) CreateTag(ctx context.Context, name string, fields TagFields) (*Tag, error) {
	tag := Tag{Name: name, Label: name, Color: fields.Color, Parent: fields.Parent}
	body := map[string]any{
		"add":    []Tag{tag},
		"update": []any{},
	}
	if err := c.postV2(ctx, "/batch/tag", body, nil); err != nil {
		return nil, err
	}
	return c.findTag(ctx, name)
}

// UpdateTag changes a tag's color or parent.
func (c *Client) UpdateTag(ctx context.Context, name string, fields TagFields) (*Tag, error) {
	tag, err := c.findTag(ctx, name)
	if err != nil {
		return nil, err
	}
	if fields.Color != nil {
		tag.Color = fields.Color
	}
	if fields.Parent != nil {
		tag.Parent = fields.Parent
	}
	body := map[string]any{
		"add":    []any{},
		"update": []Tag{*tag},
	}
	if err := c.postV2(ctx, "/batch/tag", body, nil); err != nil {
		return nil, err
	}
	return tag, nil
}

// RenameTag renames a tag everywhere it is used.
func (c *Client) RenameTag(ctx context.Context, name, newName string) error {
	body := map[string]string{"name": name, "newName": newName}
	return c.putV2(ctx, "/tag/rename", body, nil)
}

// DeleteTag removes a tag from the account and from every task carrying it.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	return c.deleteV2(ctx, "/tag?name="+url.QueryEscape(name))
}

// MergeTags folds the source tag into the target: tasks tagged with source
// get target instead, and source disappears.
func (c *Client) MergeTags(ctx context.Context, source, target string) error {
	body := map[string]string{"name": source, "newName": target}
	return c.putV2(ctx, "/tag/merge", body, nil)
}

func (c *Client) findTag(ctx context.Context, name string) (*Tag, error) {
	tags, err := c.GetAllTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if tags[i].Name == name {
			return &tags[i], nil
		}
	}
	return nil, &APIError{Endpoint: "tag", Message: "tag " + name + " not found"}
}
