package config

import (
	"strconv"
	"strings"
)

// attribute binds a configuration name to its field. The environment
// variable is the upper-cased name prefixed with CMS_.
type attribute struct {
	name   string
	secret bool
	get    func(*CMSConfig) string
	set    func(*CMSConfig, string) error
}

func (a attribute) env() string {
	return "CMS_" + strings.ToUpper(a.name)
}

var attributes = []attribute{
	stringAttr("site_url", func(c *CMSConfig) *string { return &c.SiteURL }),
	stringAttr("form_layout", func(c *CMSConfig) *string { return &c.FormLayout }),
	intAttr("entries_per_page", func(c *CMSConfig) *int { return &c.EntriesPerPage }),
	intAttr("entries_per_page_max", func(c *CMSConfig) *int { return &c.EntriesPerPageMax }),
	stringAttr("mail_sender", func(c *CMSConfig) *string { return &c.MailSender }),
	stringAttr("smtp_host", func(c *CMSConfig) *string { return &c.SMTPHost }),
	intAttr("smtp_port", func(c *CMSConfig) *int { return &c.SMTPPort }),
	stringAttr("smtp_username", func(c *CMSConfig) *string { return &c.SMTPUsername }),
	secretAttr("smtp_password", func(c *CMSConfig) *string { return &c.SMTPPassword }),
	secretAttr("token_secret", func(c *CMSConfig) *string { return &c.TokenSecret }),
	intAttr("token_ttl", func(c *CMSConfig) *int { return &c.TokenTTL }),
	boolAttr("fixtures_silent", func(c *CMSConfig) *bool { return &c.FixturesSilent }),
	listAttr("trusted_proxies", func(c *CMSConfig) *[]string { return &c.TrustedProxies }),
}

func lookupAttribute(name string) *attribute {
	for i := range attributes {
		if attributes[i].name == name {
			return &attributes[i]
		}
	}
	return nil
}

func stringAttr(name string, field func(*CMSConfig) *string) attribute {
	return attribute{
		name: name,
		get:  func(c *CMSConfig) string { return *field(c) },
		set: func(c *CMSConfig, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func secretAttr(name string, field func(*CMSConfig) *string) attribute {
	a := stringAttr(name, field)
	a.secret = true
	return a
}

func intAttr(name string, field func(*CMSConfig) *int) attribute {
	return attribute{
		name: name,
		get:  func(c *CMSConfig) string { return strconv.Itoa(*field(c)) },
		set: func(c *CMSConfig, v string) error {
			i, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*field(c) = i
			return nil
		},
	}
}

func boolAttr(name string, field func(*CMSConfig) *bool) attribute {
	return attribute{
		name: name,
		get:  func(c *CMSConfig) string { return strconv.FormatBool(*field(c)) },
		set: func(c *CMSConfig, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*field(c) = b
			return nil
		},
	}
}

func listAttr(name string, field func(*CMSConfig) *[]string) attribute {
	return attribute{
		name: name,
		get:  func(c *CMSConfig) string { return strings.Join(*field(c), ",") },
		set: func(c *CMSConfig, v string) error {
			var items []string
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			*field(c) = items
			return nil
		},
	}
}
