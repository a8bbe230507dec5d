package output

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress indicators draw on the printer's error stream and are inert in
// quiet or JSON mode.

type indicator struct {
	bar *progressbar.ProgressBar
}

func (i *indicator) Finish() {
	if i.bar != nil {
		_ = i.bar.Finish()
	}
}

func barOptions(w io.Writer, description string, extra ...progressbar.Option) []progressbar.Option {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprint(w, "\n") }),
	}
	return append(opts, extra...)
}

func barTheme(tint string) progressbar.Option {
	return progressbar.OptionSetTheme(progressbar.Theme{
		Saucer:        "[" + tint + "]=[reset]",
		SaucerHead:    "[" + tint + "]>[reset]",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	})
}

// Transfer follows the bytes of one file sent to the file drop host. Pass
// it as gfycat.UploadOptions.Progress. A negative size draws a spinner with
// a byte counter.
type Transfer struct {
	indicator
}

func (p *Printer) Transfer(file string, size int64) *Transfer {
	t := &Transfer{}
	if p.silent() {
		return t
	}
	t.bar = progressbar.NewOptions64(size, barOptions(p.errOut, file,
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionFullWidth(),
		barTheme("cyan"),
	)...)
	return t
}

func (t *Transfer) Write(b []byte) (int, error) {
	if t.bar != nil {
		_ = t.bar.Add(len(b))
	}
	return len(b), nil
}

// Waiting is a spinner for encoding waits, where no total is known.
type Waiting struct {
	indicator
}

func (p *Printer) Waiting(description string) *Waiting {
	w := &Waiting{}
	if p.silent() {
		return w
	}
	w.bar = progressbar.NewOptions(-1, barOptions(p.errOut, description,
		progressbar.OptionSpinnerType(14),
	)...)
	return w
}

// Update replaces the description and advances the spinner.
func (w *Waiting) Update(description string) {
	if w.bar != nil {
		w.bar.Describe(description)
		_ = w.bar.Add(1)
	}
}

// Batch counts the finished entries of a multi-file upload.
type Batch struct {
	indicator
}

func (p *Printer) Batch(total int) *Batch {
	b := &Batch{}
	if p.silent() {
		return b
	}
	b.bar = progressbar.NewOptions(total, barOptions(p.errOut, "Uploading",
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		barTheme("green"),
	)...)
	return b
}

// Done marks one entry finished, successful or not.
func (b *Batch) Done(file string) {
	if b.bar != nil {
		b.bar.Describe(file)
		_ = b.bar.Add(1)
	}
}
