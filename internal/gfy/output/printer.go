package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
)

// Printer writes command results. Human output goes to out and diagnostics
// to errOut; in JSON mode only JSON reaches out, and quiet mode keeps
// everything but failures off the terminal.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	json    bool
	quiet   bool
	noColor bool
}

type Option func(*Printer)

func WithJSON(on bool) Option {
	return func(p *Printer) { p.json = on }
}

func WithQuiet(on bool) Option {
	return func(p *Printer) { p.quiet = on }
}

func WithNoColor(on bool) Option {
	return func(p *Printer) { p.noColor = on }
}

func WithOutput(w io.Writer) Option {
	return func(p *Printer) { p.out = w }
}

func WithErrOutput(w io.Writer) Option {
	return func(p *Printer) { p.errOut = w }
}

func New(opts ...Option) *Printer {
	p := &Printer{out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(p)
	}
	if p.noColor {
		color.NoColor = true
	}
	return p
}

var (
	okMark    = color.GreenString("✓")
	failMark  = color.RedString("✗")
	warnMark  = color.YellowString("!")
	arrowMark = color.CyanString("→")
	childMark = color.HiBlackString("└─")

	sectionStyle = color.New(color.Bold, color.FgCyan)
)

// silent reports whether human output is suppressed.
func (p *Printer) silent() bool {
	return p.quiet || p.json
}

func (p *Printer) mark(w io.Writer, mark, format string, args []any) {
	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// Out is where tables and other primary output go.
func (p *Printer) Out() io.Writer {
	return p.out
}

func (p *Printer) Printf(format string, args ...any) {
	if !p.silent() {
		fmt.Fprintf(p.out, format, args...)
	}
}

func (p *Printer) Println(args ...any) {
	if !p.silent() {
		fmt.Fprintln(p.out, args...)
	}
}

func (p *Printer) Success(format string, args ...any) {
	if !p.silent() {
		p.mark(p.out, okMark, format, args)
	}
}

func (p *Printer) Info(format string, args ...any) {
	if !p.silent() {
		p.mark(p.out, arrowMark, format, args)
	}
}

func (p *Printer) Warn(format string, args ...any) {
	if !p.silent() {
		p.mark(p.errOut, warnMark, format, args)
	}
}

// Indent prints a detail line under the previous line.
func (p *Printer) Indent(format string, args ...any) {
	if !p.silent() {
		fmt.Fprintf(p.out, "  %s %s\n", childMark, fmt.Sprintf(format, args...))
	}
}

// JSON writes v indented. It ignores quiet mode so scripts always get a
// result.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) Section(title string) {
	if !p.silent() {
		fmt.Fprintf(p.out, "\n%s\n", sectionStyle.Sprint(title))
	}
}

// KeyValue prints one field of a gfycat, user or collection detail view.
func (p *Printer) KeyValue(key, value string) {
	if !p.silent() {
		fmt.Fprintf(p.out, "  %s: %s\n", color.HiBlackString(key), value)
	}
}

// Summary closes a multi-target command with how many targets succeeded.
func (p *Printer) Summary(succeeded, failed int) {
	if p.silent() {
		return
	}
	total := succeeded + failed
	if failed == 0 {
		color.New(color.FgGreen).Fprintf(p.out, "\n%d/%d completed successfully\n", succeeded, total)
		return
	}
	color.New(color.FgYellow).Fprintf(p.out, "\n%d/%d completed (%d failed)\n", succeeded, total, failed)
}

// GfycatUploaded reports a finished upload with its page URL and, when
// known, its media URLs in a stable order.
func (p *Printer) GfycatUploaded(file, pageURL string, media map[string]string) {
	if p.silent() {
		return
	}
	fmt.Fprintf(p.out, "%s %s %s %s\n", okMark, file, arrowMark, pageURL)
	kinds := make([]string, 0, len(media))
	for kind := range media {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(p.out, "  %s %s: %s\n", childMark, kind, media[kind])
	}
}

// ItemFailed reports one failed target of a multi-target command. It is
// shown in quiet mode.
func (p *Printer) ItemFailed(item string, err error) {
	if !p.json {
		fmt.Fprintf(p.errOut, "%s %s: %v\n", failMark, item, err)
	}
}
