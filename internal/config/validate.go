package config

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/sys/unix"

	"grimm.is/wpand/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate validates the entire configuration. It expects defaults to
// have been applied.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("unknown level %q", c.LogLevel),
		})
	}

	if c.MetricsListen != "" {
		if _, port, err := net.SplitHostPort(c.MetricsListen); err != nil || port == "" {
			errs = append(errs, ValidationError{
				Field:   "metrics_listen",
				Message: fmt.Sprintf("invalid listen address %q", c.MetricsListen),
			})
		}
	}

	errs = append(errs, c.validateSyslog()...)
	errs = append(errs, c.validateLowpan()...)

	return errs
}

func (c *Config) validateSyslog() ValidationErrors {
	if c.Syslog == nil || !c.Syslog.Enabled {
		return nil
	}

	var errs ValidationErrors
	if c.Syslog.Host == "" {
		errs = append(errs, ValidationError{Field: "syslog.host", Message: "required when syslog is enabled"})
	}
	if c.Syslog.Port < 1 || c.Syslog.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "syslog.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", c.Syslog.Port),
		})
	}
	if c.Syslog.Protocol != "udp" && c.Syslog.Protocol != "tcp" {
		errs = append(errs, ValidationError{
			Field:   "syslog.protocol",
			Message: fmt.Sprintf("must be udp or tcp, got %q", c.Syslog.Protocol),
		})
	}
	return errs
}

func (c *Config) validateLowpan() ValidationErrors {
	l := c.Lowpan
	if l == nil {
		return ValidationErrors{{Field: "lowpan", Message: "block is required"}}
	}

	var errs ValidationErrors
	field := fmt.Sprintf("lowpan[%s]", l.Name)

	if l.Name == "" {
		errs = append(errs, ValidationError{Field: field + ".name", Message: "name is required"})
	} else if len(l.Name) >= unix.IFNAMSIZ {
		errs = append(errs, ValidationError{
			Field:   field + ".name",
			Message: fmt.Sprintf("name %q longer than %d characters", l.Name, unix.IFNAMSIZ-1),
		})
	} else if strings.ContainsAny(l.Name, "/ \t\n:") {
		errs = append(errs, ValidationError{
			Field:   field + ".name",
			Message: fmt.Sprintf("invalid interface name %q", l.Name),
		})
	}

	switch {
	case l.Parent == "" && l.ParentIndex == 0:
		errs = append(errs, ValidationError{Field: field + ".parent", Message: "parent or parent_index is required"})
	case l.Parent != "" && l.ParentIndex != 0:
		errs = append(errs, ValidationError{Field: field + ".parent", Message: "parent and parent_index are mutually exclusive"})
	case l.ParentIndex < 0:
		errs = append(errs, ValidationError{
			Field:   field + ".parent_index",
			Message: fmt.Sprintf("must be positive, got %d", l.ParentIndex),
		})
	}

	if p, err := l.Prefix(); err != nil {
		errs = append(errs, ValidationError{Field: field + ".address", Message: err.Error()})
	} else {
		addr := p.Addr()
		switch {
		case !addr.Is6() || addr.Is4In6():
			errs = append(errs, ValidationError{
				Field:   field + ".address",
				Message: fmt.Sprintf("%s is not an IPv6 address", p),
			})
		case !addr.IsLinkLocalUnicast():
			errs = append(errs, ValidationError{
				Field:   field + ".address",
				Message: fmt.Sprintf("%s is not link-local (fe80::/10)", p),
			})
		}
	}

	if d, err := l.Timeout(); err != nil {
		errs = append(errs, ValidationError{Field: field + ".shutdown_timeout", Message: err.Error()})
	} else if d <= 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".shutdown_timeout",
			Message: fmt.Sprintf("must be positive, got %s", d),
		})
	}

	return errs
}
