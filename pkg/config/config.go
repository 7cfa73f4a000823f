package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/cms/config"
	ConfigFileName    = "cms.yml"
)

// Value sources reported by Source and Attributes
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// CMSConfig holds all CMS configuration settings
type CMSConfig struct {
	// SiteURL is the public base URL, used to build absolute links
	SiteURL string `yaml:"site_url" json:"site_url"`

	// FormLayout is the layout public form pages are rendered in
	FormLayout string `yaml:"form_layout" json:"form_layout"`

	EntriesPerPage    int `yaml:"entries_per_page" json:"entries_per_page"`
	EntriesPerPageMax int `yaml:"entries_per_page_max" json:"entries_per_page_max"`

	// MailSender is the From address of notification messages
	MailSender string `yaml:"mail_sender" json:"mail_sender"`

	// SMTPHost is the mail relay; empty disables delivery
	SMTPHost     string `yaml:"smtp_host" json:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port" json:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username" json:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password" json:"-"`

	// TokenSecret signs admin API tokens
	TokenSecret string `yaml:"token_secret" json:"-"`

	// TokenTTL is the lifetime of admin API tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	FixturesSilent bool `yaml:"fixtures_silent" json:"fixtures_silent"`

	// TrustedProxies lists CIDR ranges or single addresses allowed to set
	// X-Forwarded-For
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	sources        map[string]string
	configFilePath string
}

// Attribute is one configuration value as shown by `cmsctl configuration show`
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

var (
	current   *CMSConfig
	currentMu sync.Mutex
)

// Get returns the process-wide configuration, loading it on first use. A
// configuration that fails to load is replaced by the defaults.
func Get() *CMSConfig {
	currentMu.Lock()
	defer currentMu.Unlock()

	if current == nil {
		cfg, err := Load()
		if err != nil {
			cfg = NewDefault()
		}
		current = cfg
	}
	return current
}

// Reload replaces the process-wide configuration. On error the previous one
// stays in place.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	currentMu.Lock()
	current = cfg
	currentMu.Unlock()
	return nil
}

// NewDefault returns a config with default values
func NewDefault() *CMSConfig {
	return &CMSConfig{
		SiteURL:           "http://localhost:8000",
		FormLayout:        "default",
		EntriesPerPage:    15,
		EntriesPerPageMax: 100,
		MailSender:        "cms@localhost",
		SMTPPort:          25,
		TokenTTL:          3600,
		TrustedProxies:    []string{},
		sources:           map[string]string{},
	}
}

// Load builds the configuration from defaults, then
// $CMS_CONFIG_PATH/cms.yml, then CMS_* environment variables.
func Load() (*CMSConfig, error) {
	cfg := NewDefault()

	dir := os.Getenv("CMS_CONFIG_PATH")
	if dir == "" {
		dir = DefaultConfigPath
	}
	cfg.configFilePath = filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(cfg.configFilePath)
	switch {
	case err == nil:
		if err := cfg.applyFile(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", cfg.configFilePath, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config file %s: %w", cfg.configFilePath, err)
	}

	if err := cfg.applyEnvironment(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile decodes the YAML document over the current values and marks
// every key it names as coming from the file.
func (c *CMSConfig) applyFile(data []byte) error {
	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return err
	}
	for key := range keys {
		if lookupAttribute(key) == nil {
			return fmt.Errorf("unknown attribute %q", key)
		}
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	for key := range keys {
		c.sources[key] = SourceFile
	}
	return nil
}

func (c *CMSConfig) applyEnvironment() error {
	for _, attr := range attributes {
		val := os.Getenv(attr.env())
		if val == "" {
			continue
		}
		if err := attr.set(c, val); err != nil {
			return fmt.Errorf("invalid %s value %q: %w", attr.env(), val, err)
		}
		c.sources[attr.name] = SourceEnvironment
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *CMSConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source reports where the named attribute's value came from
func (c *CMSConfig) Source(name string) string {
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// AbsoluteURL resolves path against SiteURL. Links sent outside the browser
// session, such as notification emails, must use it.
func (c *CMSConfig) AbsoluteURL(path string) string {
	base, err := url.Parse(strings.TrimRight(c.SiteURL, "/") + "/")
	if err != nil {
		return path
	}
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return path
	}
	return base.ResolveReference(ref).String()
}

// TokenLifetime returns the admin token TTL as a duration
func (c *CMSConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// MailEnabled reports whether an SMTP relay is configured
func (c *CMSConfig) MailEnabled() bool {
	return c.SMTPHost != ""
}

// IsTrustedProxy reports whether ip falls in one of TrustedProxies
func (c *CMSConfig) IsTrustedProxy(ip string) bool {
	addr := net.ParseIP(ip)
	if addr == nil {
		return false
	}
	for _, entry := range c.TrustedProxies {
		if network, err := parseProxy(entry); err == nil && network.Contains(addr) {
			return true
		}
	}
	return false
}

// parseProxy accepts a CIDR range or a bare address, the latter as a
// single-host network.
func parseProxy(entry string) (*net.IPNet, error) {
	if _, network, err := net.ParseCIDR(entry); err == nil {
		return network, nil
	}
	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, fmt.Errorf("invalid trusted_proxies value: %s", entry)
	}
	bits := 8 * net.IPv6len
	if v4 := ip.To4(); v4 != nil {
		ip, bits = v4, 8*net.IPv4len
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *CMSConfig) Validate() error {
	u, err := url.Parse(c.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid site_url value: %q must be an absolute URL", c.SiteURL)
	}
	if c.FormLayout == "" {
		return fmt.Errorf("form_layout must not be empty")
	}
	if c.EntriesPerPage <= 0 {
		return fmt.Errorf("invalid entries_per_page value: %d", c.EntriesPerPage)
	}
	if c.EntriesPerPageMax < c.EntriesPerPage {
		return fmt.Errorf("entries_per_page_max (%d) is lower than entries_per_page (%d)", c.EntriesPerPageMax, c.EntriesPerPage)
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid smtp_port value: %d", c.SMTPPort)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token_ttl value: %d", c.TokenTTL)
	}
	for _, entry := range c.TrustedProxies {
		if _, err := parseProxy(entry); err != nil {
			return err
		}
	}
	return nil
}

// Attributes lists every attribute in a fixed order. Secrets are masked.
func (c *CMSConfig) Attributes() []Attribute {
	out := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		value := attr.get(c)
		if attr.secret && value != "" {
			value = "********"
		}
		out = append(out, Attribute{Name: attr.name, Value: value, Source: c.Source(attr.name)})
	}
	return out
}

// FormatText renders the attributes as an aligned table
func (c *CMSConfig) FormatText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Config file: %s\n\n", c.configFilePath)

	row := func(name, value, source string) {
		fmt.Fprintf(&sb, "%-30s %-40s %s\n", name, value, source)
	}
	row("NAME", "VALUE", "SOURCE")
	row("----", "-----", "------")
	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		row(attr.Name, value, attr.Source)
	}
	return sb.String()
}

// FormatJSON renders the config file path and attributes as indented JSON
func (c *CMSConfig) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(struct {
		ConfigFile string      `json:"config_file"`
		Attributes []Attribute `json:"attributes"`
	}{c.configFilePath, c.Attributes()}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
