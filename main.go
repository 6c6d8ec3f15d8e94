package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Tblue/gpstools/gpx"
)

// toolName is what gets stamped into the GPX creator attribute.
const toolName = "gpxannotate"

// Exit codes, kept stable for scripting against this tool.
const (
	exitOK       = 0
	exitUsage    = 1 // missing command line parameters
	exitOpen     = 2 // could not open input file
	exitParse    = 3 // parse error in input file
	exitInvalid  = 4 // not a valid GPX 1.0 file, or bad point coordinates
	exitNoTracks = 5 // no <trk> elements
	exitWrite    = 6 // could not write changes back
)

var pprofAddr = flag.String("pprof", "", "enable pprof on this address (e.g. 127.0.0.1:6060), empty = off")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n %s [flags] gpx-file [new-track-name...]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(exitUsage)
	}

	if *pprofAddr != "" {
		enablePPROF(*pprofAddr)
	}

	os.Exit(run(flag.Arg(0), flag.Args()[1:], os.Stdout, os.Stderr))
}

// run drives one annotation pass: open and parse path, validate the
// document, process every track, stamp the creator and atomically replace
// the file. Progress goes to out, warnings and errors to errw. The input
// file is left untouched on every failure path.
func run(path string, renames []string, out, errw io.Writer) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(errw, "E: Could not open file `%s': %v\n", path, err)
		return exitOpen
	}
	doc, err := gpx.Load(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(errw, "E: Could not parse file `%s': %v\n", path, err)
		return exitParse
	}

	ver := doc.Version()
	if ver == "" || doc.RootTag() != "gpx" || doc.RootNamespace() != gpx.Namespace {
		fmt.Fprintf(errw, "E: File `%s' does not appear to be a valid GPX file!\n", path)
		return exitInvalid
	}
	if ver != "1.0" {
		fmt.Fprintf(errw, "E: File `%s' has unsupported GPX version %s (need: 1.0).\n", path, ver)
		return exitInvalid
	}

	if len(doc.Tracks()) == 0 {
		fmt.Fprintf(errw, "E: No <trk> elements found in file `%s'!\n", path)
		return exitNoTracks
	}

	if err := annotateTracks(doc, renames, out, errw); err != nil {
		fmt.Fprintf(errw, "E: %v\n", err)
		return exitInvalid
	}

	doc.StampCreator(toolName)

	if err := doc.WriteFileAtomic(path); err != nil {
		fmt.Fprintf(errw, "E: Could not write changes back to `%s': %v\n", path, err)
		return exitWrite
	}
	return exitOK
}
