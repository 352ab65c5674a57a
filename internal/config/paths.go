package config

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveDir turns a configured directory into a clean absolute path.
//
// $VAR and ${VAR} are expanded through lookup, so values from .env can be
// referenced (data_dir = "$TASKLIST_HOME/data"). On Windows %VAR% is expanded
// too and unset %VAR% references are kept as written. A leading ~ is the home
// directory. Relative results are taken from root. An empty result stays
// empty so validation can report it.
func resolveDir(p, root string, lookup lookupFunc, windows bool) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	p = os.Expand(p, func(key string) string {
		v, _ := lookup(key)
		return v
	})
	if windows {
		p = expandPercentVars(p, lookup)
	}
	p = expandHome(p, windows)
	if p == "" {
		return ""
	}

	if !filepath.IsAbs(p) && root != "" {
		p = filepath.Join(root, p)
	}
	return filepath.Clean(p)
}

func expandHome(p string, windows bool) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !(windows && strings.HasPrefix(p, `~\`)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// expandPercentVars expands cmd.exe style %VAR% references. "%%" and a lone
// "%" are literal.
func expandPercentVars(p string, lookup lookupFunc) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			b.WriteString(p)
			return b.String()
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			b.WriteString(p)
			return b.String()
		}
		b.WriteString(p[:start])
		name := p[start+1 : start+1+end]
		switch v, ok := lookup(name); {
		case name == "":
			b.WriteString("%%")
		case ok:
			b.WriteString(v)
		default:
			b.WriteString("%" + name + "%")
		}
		p = p[start+end+2:]
	}
}
