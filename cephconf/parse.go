package cephconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/proxmox/pve-storage-sub000/shared/logger"
)

// Diagnostic is a recoverable per-line parse failure: the offending line
// text plus a human-readable reason. Diagnostics never abort a parse.
type Diagnostic struct {
	Line   string
	Reason string
}

// Diagnostics collects every Diagnostic raised while parsing. It
// implements error so callers that want to treat warnings as fatal can
// do so explicitly.
type Diagnostics []Diagnostic

// Error renders a short summary of the collected diagnostics.
func (d Diagnostics) Error() string {
	switch len(d) {
	case 0:
		return "no errors"
	case 1:
		return fmt.Sprintf("%s: %q", d[0].Reason, d[0].Line)
	default:
		return fmt.Sprintf("%s: %q (and %d more errors)", d[0].Reason, d[0].Line, len(d)-1)
	}
}

// parser holds the mutable state consumed while turning raw text into a
// Config: the remaining physical-line queue and the section currently
// being populated.
type parser struct {
	lines   []string
	pos     int
	cfg     *Config
	diags   Diagnostics
	section *Section
}

// Parse consumes raw Ceph config text and returns the resulting Config
// together with any recoverable per-line diagnostics. It never panics;
// malformed lines are skipped and recorded, not fatal.
func Parse(raw string) (*Config, Diagnostics) {
	p := &parser{
		lines: strings.Split(raw, "\n"),
		cfg:   NewConfig(),
	}

	for p.pos < len(p.lines) {
		p.parseLogicalLine()
	}

	return p.cfg, p.diags
}

func (p *parser) nextLine() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}

	line := p.lines[p.pos]
	p.pos++

	return stripTrailingComment(line), true
}

func (p *parser) warn(line, reason string) {
	p.diags = append(p.diags, Diagnostic{Line: line, Reason: reason})
	logger.Warn(reason, logger.Ctx{"line": line})
}

// joinContinuations pulls further physical lines while the accumulated
// text ends with an unescaped backslash, stripping each pulled line's
// leading whitespace before appending it to the current logical line.
func (p *parser) joinContinuations(first string) string {
	line := first
	for endsWithUnescapedBackslash(line) {
		line = stripContinuationMarker(line)

		next, ok := p.nextLine()
		if !ok {
			break
		}

		line += strings.TrimLeft(next, " \t")
	}

	return line
}

func (p *parser) parseLogicalLine() {
	line, ok := p.nextLine()
	if !ok {
		return
	}

	if isBlankLogicalLine(line) {
		return
	}

	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "[") {
		p.parseSectionHeader(line)
		return
	}

	p.parseKeyValue(line)
}

func (p *parser) parseSectionHeader(firstLine string) {
	full := p.joinContinuations(firstLine)
	trimmed := strings.TrimLeft(full, " \t")

	rest := []rune(trimmed[1:])

	var name []rune
	i := 0
	malformed := false

	for i < len(rest) {
		if rest[i] == ']' {
			break
		}

		if isComment(rest[i]) {
			malformed = true
			break
		}

		i = consumeEscaped(rest, i, &name)
	}

	if malformed || i >= len(rest) || rest[i] != ']' {
		p.warn(firstLine, "malformed section header")
		p.section = nil

		return
	}

	after := strings.TrimSpace(string(rest[i+1:]))
	if after != "" {
		p.warn(firstLine, "unexpected content after section header")
		p.section = nil

		return
	}

	sectionName := unescapeComments(string(name))
	if sectionName == "" {
		p.warn(firstLine, "empty section name")
		p.section = nil

		return
	}

	p.section = p.cfg.ensureSection(sectionName)
}

func (p *parser) parseKeyValue(firstLine string) {
	if p.section == nil {
		p.warn(firstLine, "key-value pair outside of any section")
		return
	}

	full := p.joinContinuations(firstLine)
	runes := []rune(full)

	var rawKey []rune
	i := 0
	for i < len(runes) && runes[i] != '=' {
		i = consumeEscaped(runes, i, &rawKey)
	}

	if i >= len(runes) {
		p.warn(firstLine, "missing '=' separator")
		return
	}

	key := normalizeKey(string(rawKey))
	if key == "" {
		p.warn(firstLine, "empty key")
		return
	}

	i++ // consume '='
	for i < len(runes) && (runes[i] == ' ' || runes[i] == '\t') {
		i++
	}

	value, err := parseValue(string(runes[i:]))
	if err != nil {
		p.warn(firstLine, err.Error())
		return
	}

	p.section.set(key, value)
}

func parseValue(rest string) (string, error) {
	if rest == "" {
		return "", nil
	}

	first := []rune(rest)[0]
	if first == '\'' || first == '"' {
		return parseQuotedValue(rest, first)
	}

	return parseUnquotedValue(rest), nil
}

func parseQuotedValue(rest string, quote rune) (string, error) {
	runes := []rune(rest)

	var val []rune
	i := 1
	closed := false

	for i < len(runes) {
		if runes[i] == quote {
			closed = true
			i++

			break
		}

		i = consumeEscaped(runes, i, &val)
	}

	if !closed {
		return "", errors.New("unterminated quoted value")
	}

	trailing := strings.TrimSpace(string(runes[i:]))
	if trailing != "" && trailing != "\\" {
		return "", errors.New("unexpected content after quoted value")
	}

	return unescapeComments(string(val)), nil
}

func parseUnquotedValue(rest string) string {
	runes := []rune(rest)

	var val []rune
	for i := 0; i < len(runes); {
		i = consumeEscaped(runes, i, &val)
	}

	trimmed := strings.TrimRight(string(val), " \t")

	return unescapeComments(trimmed)
}
