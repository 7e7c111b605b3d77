package models

import (
	"encoding/json"
	"strings"
)

// Contact is a person tracked by an account. Besides the well-known fields a
// contact carries arbitrary custom fields that filters can address by name.
type Contact struct {
	ID      string         `json:"id"`
	Account string         `json:"account,omitempty"`
	Email   string         `json:"email,omitempty"`
	Name    string         `json:"name,omitempty"`
	Tags    []string       `json:"tags"`
	Fields  map[string]any `json:"-"`
}

var contactKnownFields = []string{"id", "account", "email", "name", "tags"}

// Field resolves a field by plain or dotted name. The second return value is
// false when the field is absent.
func (c *Contact) Field(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, c.ID != ""
	case "account":
		return c.Account, c.Account != ""
	case "email":
		return c.Email, c.Email != ""
	case "name":
		return c.Name, c.Name != ""
	case "tags":
		if c.Tags == nil {
			return nil, false
		}

		tags := make([]any, len(c.Tags))
		for i, tag := range c.Tags {
			tags[i] = tag
		}

		return tags, true
	}

	if value, ok := c.Fields[name]; ok {
		return value, true
	}

	return lookupPath(c.Fields, strings.Split(name, "."))
}

func lookupPath(data map[string]any, path []string) (any, bool) {
	if len(path) == 0 || data == nil {
		return nil, false
	}

	value, ok := data[path[0]]
	if !ok {
		return nil, false
	}

	if len(path) == 1 {
		return value, true
	}

	nested, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}

	return lookupPath(nested, path[1:])
}

// UnmarshalJSON decodes the well-known fields and keeps every other key in Fields.
func (c *Contact) UnmarshalJSON(data []byte) error {
	type plain Contact

	var known plain

	err := json.Unmarshal(data, &known)
	if err != nil {
		return err
	}

	var raw map[string]any

	err = json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	for _, key := range contactKnownFields {
		delete(raw, key)
	}

	*c = Contact(known)
	if len(raw) > 0 {
		c.Fields = raw
	}

	return nil
}

// MarshalJSON flattens custom fields next to the well-known ones.
func (c Contact) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+len(contactKnownFields))
	for key, value := range c.Fields {
		out[key] = value
	}

	out["id"] = c.ID
	out["tags"] = c.Tags

	if c.Account != "" {
		out["account"] = c.Account
	}

	if c.Email != "" {
		out["email"] = c.Email
	}

	if c.Name != "" {
		out["name"] = c.Name
	}

	return json.Marshal(out)
}
