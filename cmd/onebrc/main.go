// onebrc prints min/mean/max per station of a measurements file.
//
//	$ onebrc measurements.txt
//	{Abha=-23.0/18.0/59.2, Abidjan=-16.2/26.0/67.3, ...}
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/profile"

	"github.com/miku/onebrc/basic"
	"github.com/miku/onebrc/engine"
	"github.com/miku/onebrc/mapfile"
)

var (
	strict     = flag.Bool("strict", false, "compare full station names, not just their hashes")
	hashName   = flag.String("hash", "fx", "fingerprint hash: fx, xxh3 or xxhash")
	tableName  = flag.String("table", "open", "per worker table: open or swiss")
	engineName = flag.String("engine", "fast", "fast or basic (line by line, for comparison)")
	profMode   = flag.String("profile", "", "write a cpu, mem or trace profile")
	profDir    = flag.String("profile-dir", ".", "directory for profile output")
	unchecked  = flag.Bool("unchecked", false, "skip value validation, for input known to be well formed")
	verbose    = flag.Bool("v", false, "log progress to stderr")
)

// startProfile starts profiling according to mode, returns nil for no
// profiling.
func startProfile(mode, dir string) (interface{ Stop() }, error) {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return nil, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	case "trace":
		kind = profile.TraceProfile
	default:
		return nil, fmt.Errorf("unknown profile: %q", mode)
	}
	return profile.Start(kind, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook), nil
}

func run(fn string) ([]byte, error) {
	switch *engineName {
	case "fast":
		opts := engine.Options{
			Strict:    *strict,
			Hash:      *hashName,
			Table:     *tableName,
			Unchecked: *unchecked,
		}
		if *verbose {
			opts.Logf = log.Printf
		}
		return engine.AggregateFile(fn, opts)
	case "basic":
		f, err := mapfile.Open(fn)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		s, err := basic.Summarize(bytes.NewReader(f.Bytes()))
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unknown engine: %q", *engineName)
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [measurements.txt]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	fn := "measurements.txt"
	if flag.NArg() == 1 {
		fn = flag.Arg(0)
	}
	p, err := startProfile(*profMode, *profDir)
	if err != nil {
		log.Fatal(err)
	}
	out, err := run(fn)
	if p != nil {
		p.Stop()
	}
	if err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		log.Fatal(err)
	}
}
