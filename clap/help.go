package clap

import (
	"strings"
)

const (
	helpIndent      = 2
	helpMaxPosition = 24
	helpMinWidth    = 40
)

// metavar is the placeholder shown for one value of o.
func metavar(o *Option, p Prefixes) string {
	switch {
	case o.Metavar != "":
		return o.Metavar
	case len(o.Choices) > 0:
		parts := make([]string, len(o.Choices))
		for i, c := range o.Choices {
			parts[i] = formatValue(c)
		}
		return "{" + strings.Join(parts, ",") + "}"
	case o.isPositional():
		return o.Names[0]
	}
	return strings.ToUpper(strings.ReplaceAll(o.StorageName(p), "-", "_"))
}

// valueSpec renders the values an arity consumes, e.g. "N [N ...]".
func valueSpec(a Arity, mv string) string {
	switch a.Policy {
	case ArityExact:
		return strings.TrimSpace(strings.Repeat(mv+" ", a.N))
	case ArityZeroOrOne:
		return "[" + mv + "]"
	case ArityZeroOrMore:
		return "[" + mv + " ...]"
	case ArityOneOrMore:
		return mv + " [" + mv + " ...]"
	default:
		return "..."
	}
}

func shortestName(o *Option) string {
	best := o.Names[0]
	for _, n := range o.Names[1:] {
		if len(n) < len(best) {
			best = n
		}
	}
	return best
}

// usageItem is o's element of the usage synopsis.
func usageItem(o *Option, p Prefixes) string {
	if o.isPositional() {
		return valueSpec(o.Arity, metavar(o, p))
	}
	item := shortestName(o)
	if o.takesValues() {
		item += " " + valueSpec(o.Arity, metavar(o, p))
	}
	if o.required() {
		return item
	}
	return "[" + item + "]"
}

// invocation is o's label in the help listing, e.g. "-d, --depth DEPTH".
func invocation(o *Option, p Prefixes) string {
	if o.isPositional() {
		return metavar(o, p)
	}
	inv := strings.Join(o.Names, ", ")
	if o.takesValues() {
		inv += " " + valueSpec(o.Arity, metavar(o, p))
	}
	return inv
}

func describe(o *Option, p Prefixes) string {
	desc := o.Description
	if o.HasDefault && o.takesValues() && o.Default != nil {
		def := sliceItems(o.Default)
		if o.Value != ValueSequence && o.Value != ValueSet {
			def = []any{o.Default}
		}
		if len(def) > 0 {
			parts := make([]string, len(def))
			for i, d := range def {
				parts[i] = formatValue(d)
			}
			desc = strings.TrimSpace(desc + " (default: " + strings.Join(parts, " ") + ")")
		}
	}
	return desc
}

// wrap breaks text into lines of at most width columns. Words longer than
// width get a line of their own.
func wrap(text string, width int) []string {
	var lines []string
	line := ""
	for _, w := range strings.Fields(text) {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) <= width:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// helpWriter lays out one scope's usage and help text.
type helpWriter struct {
	texts *Texts
	width int
	sb    strings.Builder
}

func newHelpWriter(t *Texts, width int) *helpWriter {
	if width < helpMinWidth {
		width = helpMinWidth
	}
	return &helpWriter{texts: t, width: width}
}

func (h *helpWriter) usage(sc *scope) string {
	p := sc.prefixes
	var items []string
	for _, e := range sc.entries {
		if e.opt != nil && !e.opt.Hidden && !e.opt.isPositional() {
			items = append(items, usageItem(e.opt, p))
		}
	}
	for _, i := range sc.positionals {
		if o := sc.options[i]; !o.Hidden {
			items = append(items, usageItem(o, p))
		}
	}
	var cmds []string
	for _, e := range sc.commands {
		if !e.cmd.Hidden {
			cmds = append(cmds, e.cmd.Name)
		}
	}
	if len(cmds) > 0 {
		items = append(items, "{"+strings.Join(cmds, ",")+"} ...")
	}

	lead := h.texts.UsagePrefix + sc.path
	indent := strings.Repeat(" ", len(lead)+1)
	var b strings.Builder
	b.WriteString(lead)
	col := len(lead)
	for _, it := range items {
		if col+1+len(it) > h.width && col > len(lead) {
			b.WriteString("\n" + indent[:len(indent)-1])
			col = len(indent) - 1
		}
		b.WriteString(" " + it)
		col += 1 + len(it)
	}
	return b.String()
}

// help renders the full help for sc. description is printed under the
// usage line.
func (h *helpWriter) help(sc *scope, description string) string {
	h.sb.Reset()
	h.sb.WriteString(h.usage(sc))
	h.sb.WriteString("\n")
	if description != "" {
		h.sb.WriteString("\n")
		for _, l := range wrap(description, h.width) {
			h.sb.WriteString(l + "\n")
		}
	}

	p := sc.prefixes
	var positionals, options []*Option
	for _, o := range sc.ungrouped {
		if o.Hidden {
			continue
		}
		if o.isPositional() {
			positionals = append(positionals, o)
		} else {
			options = append(options, o)
		}
	}

	type row struct{ inv, desc string }
	var all []row
	rowsOf := func(opts []*Option) []row {
		rows := make([]row, 0, len(opts))
		for _, o := range opts {
			rows = append(rows, row{invocation(o, p), describe(o, p)})
		}
		all = append(all, rows...)
		return rows
	}
	posRows := rowsOf(positionals)
	optRows := rowsOf(options)
	secRows := make([][]row, len(sc.sections))
	for i, s := range sc.sections {
		var visible []*Option
		for _, o := range s.options {
			if !o.Hidden {
				visible = append(visible, o)
			}
		}
		secRows[i] = rowsOf(visible)
	}
	var cmdRows []row
	for _, e := range sc.commands {
		if e.cmd.Hidden {
			continue
		}
		inv := e.cmd.Name
		if len(e.cmd.Aliases) > 0 {
			inv += " (" + strings.Join(e.cmd.Aliases, ", ") + ")"
		}
		cmdRows = append(cmdRows, row{inv, e.cmd.Description})
	}
	all = append(all, cmdRows...)

	pos := 0
	for _, r := range all {
		if n := helpIndent + len(r.inv) + 2; n > pos {
			pos = n
		}
	}
	if pos > helpMaxPosition {
		pos = helpMaxPosition
	}
	descWidth := h.width - pos
	if descWidth < helpMinWidth/2 {
		descWidth = helpMinWidth / 2
	}

	block := func(title, intro string, rows []row) {
		if len(rows) == 0 && intro == "" {
			return
		}
		h.sb.WriteString("\n" + title + "\n")
		if intro != "" {
			for _, l := range wrap(intro, h.width-helpIndent) {
				h.sb.WriteString(strings.Repeat(" ", helpIndent) + l + "\n")
			}
			if len(rows) > 0 {
				h.sb.WriteString("\n")
			}
		}
		for _, r := range rows {
			h.row(r.inv, r.desc, pos, descWidth)
		}
	}
	block(h.texts.PositionalsHeader, "", posRows)
	block(h.texts.OptionsHeader, "", optRows)
	for i, s := range sc.sections {
		block(s.title+":", s.description, secRows[i])
	}
	block(h.texts.CommandsHeader, "", cmdRows)
	return h.sb.String()
}

func (h *helpWriter) row(inv, desc string, pos, descWidth int) {
	head := strings.Repeat(" ", helpIndent) + inv
	lines := wrap(desc, descWidth)
	if len(lines) == 0 {
		h.sb.WriteString(head + "\n")
		return
	}
	pad := strings.Repeat(" ", pos)
	if len(head)+2 <= pos {
		h.sb.WriteString(head + pad[len(head):] + lines[0] + "\n")
		lines = lines[1:]
	} else {
		h.sb.WriteString(head + "\n")
	}
	for _, l := range lines {
		h.sb.WriteString(pad + l + "\n")
	}
}

func scopeDescription(a *App, sc *scope) string {
	if sc.cmd == nil {
		return a.description
	}
	if sc.cmd.HelpText != "" {
		return sc.cmd.HelpText
	}
	return sc.cmd.Description
}
