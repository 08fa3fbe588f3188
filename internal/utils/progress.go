package utils

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescPlanning = "Planning"
	DescCopying  = "Copying"
)

// NewProgressBar creates a consistently styled progress bar writing to w.
//
// A negative total renders a spinner; otherwise count and iterations/second
// are shown:
//
//	bar := utils.NewProgressBar(os.Stderr, len(jobs), utils.DescCopying)
//	defer bar.Finish()
//
//	for range jobs {
//	    bar.Add(1)
//	}
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
