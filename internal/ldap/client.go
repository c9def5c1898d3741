package ldap

import (
	"context"
	"fmt"

	goldap "github.com/go-ldap/ldap/v3"

	"github.com/elitehr/elite-time/internal"
)

// DirectoryUser is the subset of directory attributes the sync cares
// about.
type DirectoryUser struct {
	DN         string
	Email      string
	Name       string
	Department string
	Position   string
}

// DirectoryClient is the directory boundary. The LDAP server is an
// external collaborator; everything behind this interface is mockable.
type DirectoryClient interface {
	Authenticate(ctx context.Context, dn, password string) error
	Search(ctx context.Context) ([]DirectoryUser, error)
}

type Client struct {
	cfg internal.LDAPConfig
}

func NewClient(cfg internal.LDAPConfig) *Client {
	return &Client{cfg: cfg}
}

// Authenticate verifies credentials with a bind as the user's own DN.
// Each call uses a fresh connection; bind state is per-connection.
func (c *Client) Authenticate(ctx context.Context, dn, password string) error {
	conn, err := goldap.DialURL(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("ldap dial: %w", err)
	}
	defer conn.Close()

	if err := conn.Bind(dn, password); err != nil {
		return fmt.Errorf("ldap bind: %w", err)
	}
	return nil
}

func (c *Client) Search(ctx context.Context) ([]DirectoryUser, error) {
	conn, err := goldap.DialURL(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ldap dial: %w", err)
	}
	defer conn.Close()

	if err := conn.Bind(c.cfg.BindDN, c.cfg.BindPassword); err != nil {
		return nil, fmt.Errorf("ldap service bind: %w", err)
	}

	req := goldap.NewSearchRequest(
		c.cfg.BaseDN,
		goldap.ScopeWholeSubtree,
		goldap.NeverDerefAliases,
		0, 0, false,
		"(&(objectClass=person)(mail=*))",
		[]string{"mail", "cn", "departmentNumber", "title"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("ldap search: %w", err)
	}

	users := make([]DirectoryUser, 0, len(res.Entries))
	for _, entry := range res.Entries {
		email := entry.GetAttributeValue("mail")
		if email == "" {
			continue
		}
		users = append(users, DirectoryUser{
			DN:         entry.DN,
			Email:      email,
			Name:       entry.GetAttributeValue("cn"),
			Department: entry.GetAttributeValue("departmentNumber"),
			Position:   entry.GetAttributeValue("title"),
		})
	}
	return users, nil
}
