package cephconf

import (
	"sort"
	"strings"
)

// writeOrder is the fixed section-priority order: each predicate is
// tried in turn, and every section matching it (in lexicographic order
// among themselves) is emitted before the next predicate is considered.
var writeOrder = []func(name string) bool{
	func(n string) bool { return n == "global" },
	func(n string) bool { return n == "client" },
	func(n string) bool { return strings.HasPrefix(n, "client.") },
	func(n string) bool { return n == "mds" },
	func(n string) bool { return strings.HasPrefix(n, "mds.") },
	func(n string) bool { return n == "mon" },
	func(n string) bool { return strings.HasPrefix(n, "mon.") },
	func(n string) bool { return n == "osd" },
	func(n string) bool { return strings.HasPrefix(n, "osd.") },
	func(n string) bool { return n == "mgr" },
	func(n string) bool { return strings.HasPrefix(n, "mgr.") },
}

// Write serializes cfg into Ceph's canonical textual form: the fixed
// section-priority ordering above, lexicographically sorted keys within
// each section, and a final pass protecting unescaped comment literals.
func Write(cfg *Config) string {
	order := orderedSectionNames(cfg)

	var b strings.Builder
	for _, name := range order {
		b.WriteString("[")
		b.WriteString(name)
		b.WriteString("]\n")

		section := cfg.sections[name]
		keys := section.Keys()
		sort.Strings(keys)

		for _, key := range keys {
			value, _ := section.get(key)
			b.WriteString("\t")
			b.WriteString(key)
			b.WriteString(" = ")
			b.WriteString(value)
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	return escapeComments(b.String())
}

func orderedSectionNames(cfg *Config) []string {
	emitted := make(map[string]bool, len(cfg.names))
	order := make([]string, 0, len(cfg.names))

	for _, match := range writeOrder {
		var batch []string

		for _, name := range cfg.names {
			if emitted[name] || !match(name) {
				continue
			}

			batch = append(batch, name)
		}

		sort.Strings(batch)

		for _, name := range batch {
			emitted[name] = true
		}

		order = append(order, batch...)
	}

	var remaining []string
	for _, name := range cfg.names {
		if !emitted[name] {
			remaining = append(remaining, name)
		}
	}

	sort.Strings(remaining)

	return append(order, remaining...)
}

// escapeComments prefixes every unescaped ';' or '#' with a backslash.
// It relies on a simple negative look-behind (the immediately preceding
// rune) rather than full escape-parity tracking, so an already-escaped
// "\;"/"\#" is left single-escaped rather than doubled.
func escapeComments(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))

	for i, r := range runes {
		if isComment(r) && (i == 0 || runes[i-1] != '\\') {
			out = append(out, '\\', r)
			continue
		}

		out = append(out, r)
	}

	return string(out)
}
