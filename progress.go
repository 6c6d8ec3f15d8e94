package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// newPointsBar builds the per-track trackpoint bar. It writes to w (stderr
// in normal runs) and clears itself on finish so warnings stay readable.
func newPointsBar(total int, w io.Writer) *progressbar.ProgressBar {
	theme := progressbar.Theme{
		Saucer:        "=",
		SaucerHead:    ">",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetTheme(theme),
		progressbar.OptionSetDescription("[trkpt]"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetWriter(w),
		progressbar.OptionClearOnFinish(),
	)
}
