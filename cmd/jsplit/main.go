// jsplit - extracts downloadable fragments from a compiled program archive
// according to a split plan.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/akoita/jsplit/pkg/fragment"
	"github.com/akoita/jsplit/pkg/liveness"
	"github.com/akoita/jsplit/pkg/report"
	"github.com/akoita/jsplit/pkg/splitplan"
	"github.com/akoita/jsplit/pkg/splitter"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	planDir := flag.String("plan", ".", "Directory to search (upward) for jsplit.toml")
	verbose := flag.Bool("v", false, "Log every statement decision")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: jsplit [options]\n\n")
		fmt.Fprintf(os.Stderr, "Reads a program archive and a split plan, extracts one fragment per\n")
		fmt.Fprintf(os.Stderr, "split point, and writes fragment files plus an optional report.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	verbosity := 1
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
	log := commonlog.GetLogger("jsplit")

	plan, err := splitplan.FindAndLoad(*planDir)
	if err != nil {
		fatal(err)
	}
	if plan == nil {
		fatal(fmt.Errorf("no %s found from %s", splitplan.PlanFile, *planDir))
	}

	data, err := os.ReadFile(plan.ArchivePath())
	if err != nil {
		fatal(err)
	}
	arch, err := fragment.UnmarshalArchive(data)
	if err != nil {
		fatal(err)
	}
	decoded, err := fragment.Decode(arch)
	if err != nil {
		fatal(err)
	}
	log.Infof("loaded archive: %d statements, %d types, %d split points",
		len(decoded.Prog.Global), len(decoded.Prog.Types), len(decoded.SplitPoints))

	byID := make(map[int]fragment.SplitLiveness, len(decoded.SplitPoints))
	for _, sl := range decoded.SplitPoints {
		byID[sl.ID] = sl
	}

	var store *report.Store
	if path := plan.ReportPath(); path != "" {
		store, err = report.Open(path)
		if err != nil {
			fatal(err)
		}
		defer store.Close()
	}

	if err := os.MkdirAll(plan.OutputDir(), 0o755); err != nil {
		fatal(err)
	}

	ext := splitter.New(decoded.Prog, decoded.Map, decoded.Handles)

	// Plan order is load order: each fragment's already-loaded predicate is
	// the previous split point's cumulative liveness.
	var already liveness.Predicate = liveness.NothingLive{}
	for _, sp := range plan.SplitPoints {
		sl, ok := byID[sp.ID]
		if !ok {
			fatal(fmt.Errorf("split point %d (%s) has no liveness data in the archive", sp.ID, sp.Name))
		}
		current := liveness.NewAnalysis(sl.Result)

		var rec *report.Recorder
		switch {
		case store != nil:
			rec = report.NewRecorder()
			ext.SetStatementLogger(rec)
		case *verbose:
			ext.SetStatementLogger(splitter.NewCommonLogger("jsplit.extract"))
		default:
			ext.SetStatementLogger(nil)
		}

		stats, err := ext.ExtractStatements(current, already)
		if err != nil {
			fatal(err)
		}
		onLoaded, err := ext.CreateOnLoadedCall(sp.ID)
		if err != nil {
			fatal(err)
		}
		stats = append(stats, onLoaded...)

		frag := fragment.New(sp.ID, sp.Name, stats)
		if err := writeFragment(plan.OutputDir(), frag); err != nil {
			fatal(err)
		}
		decoded.Prog.Fragments = append(decoded.Prog.Fragments, stats)

		if store != nil {
			if err := store.WriteFragment(frag, rec); err != nil {
				fatal(err)
			}
		}

		log.Infof("fragment %d (%s): %d statements, %d bytes",
			sp.ID, sp.Name, frag.Statements, len(frag.JS))
		already = current
	}

	log.Infof("done: %d fragments, %d methods in output",
		len(decoded.Prog.Fragments), len(ext.MethodsInOutput()))
}

// writeFragment writes the rendered JS alongside the CBOR fragment record.
func writeFragment(dir string, frag *fragment.Fragment) error {
	jsPath := filepath.Join(dir, fmt.Sprintf("fragment_%d.js", frag.SplitPoint))
	if err := os.WriteFile(jsPath, []byte(frag.JS), 0o644); err != nil {
		return err
	}

	data, err := fragment.MarshalFragment(frag)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fmt.Sprintf("fragment_%d.frag", frag.SplitPoint)), data, 0o644)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "jsplit: %v\n", err)
	os.Exit(1)
}
