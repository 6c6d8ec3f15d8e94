package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Tblue/gpstools/geo"
	"github.com/Tblue/gpstools/gpx"
)

const timeStampLayout = "2006-01-02 15:04 MST"

// annotateTracks walks every track in document order: it computes the
// track's distance (and duration when the boundary points carry
// timestamps), replaces the track's <desc> with the result and applies the
// positional rename, if one was supplied for the track's index. Progress
// lines go to out, warnings and the per-track point bar to errw.
//
// Any point with missing or malformed coordinates fails the whole call; no
// partially annotated document is ever written because the caller only
// serializes on success.
func annotateTracks(doc *gpx.Document, renames []string, out, errw io.Writer) error {
	for i, track := range doc.Tracks() {
		// The #i fallback applies only when the element is absent; an
		// empty <name/> is used as-is.
		currname, named := track.Name()
		if !named {
			currname = "#" + strconv.Itoa(i)
		}

		points, err := track.Points()
		if err != nil {
			return fmt.Errorf("while processing track %s: %w", currname, err)
		}

		if len(points) == 0 {
			// According to the GPX spec this is not an error.
			fmt.Fprintf(errw, "W: Track %s has no segments and/or points! Skipping.\n", currname)
		} else {
			fmt.Fprintf(out, "Track %s:\n", currname)
			track.SetDescription(describeTrack(points, out, errw))
		}

		if i < len(renames) {
			fmt.Fprintf(out, "  Renaming to `%s'.\n", renames[i])
			track.SetName(renames[i])
		}
	}
	return nil
}

// describeTrack accumulates the great-circle distance over consecutive
// point pairs and returns the description text: a Distance line plus, when
// both the first and last point are timestamped, a Duration line.
func describeTrack(points []gpx.Point, out, errw io.Writer) string {
	bar := newPointsBar(len(points), errw)
	_ = bar.Add(1)

	var distance float64
	for j := 1; j < len(points); j++ {
		a, b := points[j-1], points[j]
		distance += geo.Distance(a.Lat, a.Lon, b.Lat, b.Lon)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	formatted := geo.FormatDistance(distance)
	desc := "Distance: " + formatted
	fmt.Fprintf(out, "  Distance: %s\n", formatted)

	if len(points) > 1 {
		start, end := points[0].Time, points[len(points)-1].Time
		if start != nil && end != nil {
			durStr := fmt.Sprintf("Duration: %s (%s to %s)",
				formatDuration(end.Sub(*start)),
				start.Format(timeStampLayout),
				end.Format(timeStampLayout))
			desc += "\n" + durStr
			fmt.Fprintf(out, "  %s\n", durStr)
		}
	}
	return desc
}

// formatDuration renders a duration as H:MM:SS with unpadded, unbounded
// hours, e.g. "1:00:00" or "26:03:09".
func formatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign, d = "-", -d
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}
