package resources

import (
	"fmt"
	"regexp"
	"strings"
)

// compiledTemplate is an RFC 6570 Level 1-3 template compiled to an
// anchored regexp with named capture groups, built once at registration
// time (spec.md §4.9, §9 "Template URI matching").
//
// Supported forms: simple expansion {var}, reserved expansion {+var}
// (matches reserved characters including '/'), fragment expansion
// {#var} (same matching behavior as {+var}, the '#' only affects output
// rendering which this core never needs), and multi-variable lists
// {var,var2}. Deviations from full Level 3: list/associative-array
// modifiers (var*) and query-string forms ({?...}, {&...}) are not
// supported, since no resource in this core's example set needs them;
// registering a template using them fails at build time rather than
// silently mismatching at lookup time.
type compiledTemplate struct {
	pattern string
	re      *regexp.Regexp
	vars    []string
}

var varNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.%]+$`)

func compileTemplate(tmpl string) (*compiledTemplate, error) {
	var sb strings.Builder
	sb.WriteString("^")
	var vars []string

	i := 0
	for i < len(tmpl) {
		c := tmpl[i]
		if c != '{' {
			sb.WriteString(regexp.QuoteMeta(string(c)))
			i++
			continue
		}
		end := strings.IndexByte(tmpl[i:], '}')
		if end == -1 {
			return nil, fmt.Errorf("unterminated variable in template %q", tmpl)
		}
		expr := tmpl[i+1 : i+end]
		i += end + 1

		reserved := false
		if len(expr) > 0 && (expr[0] == '+' || expr[0] == '#') {
			reserved = true
			expr = expr[1:]
		} else if len(expr) > 0 && (expr[0] == '?' || expr[0] == '&' || expr[0] == ';') {
			return nil, fmt.Errorf("template %q uses an unsupported RFC 6570 operator %q", tmpl, string(expr[0]))
		}

		first := true
		for _, name := range strings.Split(expr, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if strings.HasSuffix(name, "*") {
				return nil, fmt.Errorf("template %q uses an unsupported list/associative modifier on %q", tmpl, name)
			}
			if !varNamePattern.MatchString(name) {
				return nil, fmt.Errorf("template %q has an invalid variable name %q", tmpl, name)
			}
			if !first {
				sb.WriteString(",")
			}
			first = false
			group := regexpGroupName(name)
			vars = append(vars, name)
			if reserved {
				sb.WriteString(fmt.Sprintf("(?P<%s>.+)", group))
			} else {
				sb.WriteString(fmt.Sprintf("(?P<%s>[^/]+)", group))
			}
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("compiling template %q: %w", tmpl, err)
	}
	return &compiledTemplate{pattern: tmpl, re: re, vars: vars}, nil
}

// regexpGroupName maps an RFC 6570 variable name to a valid Go regexp
// named-capture-group identifier (Go requires [A-Za-z_][A-Za-z0-9_]*).
func regexpGroupName(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r == '.' || r == '%' {
			sb.WriteByte('_')
			continue
		}
		if i == 0 && r >= '0' && r <= '9' {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// match reports whether uri satisfies the template, and the bound
// variables if so.
func (c *compiledTemplate) match(uri string) (map[string]string, bool) {
	m := c.re.FindStringSubmatch(uri)
	if m == nil {
		return nil, false
	}
	vars := make(map[string]string, len(c.vars))
	for i, name := range c.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		vars[name] = m[i]
	}
	return vars, true
}
