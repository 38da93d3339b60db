package domain

import "strings"

// UnknownName is shown for references that no longer resolve.
const UnknownName = "unknown"

type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// Normalize trims surrounding whitespace from every text field.
func (c *Client) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Email = strings.TrimSpace(c.Email)
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Invalid("name", "client name is required")
	}
	return nil
}
