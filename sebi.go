// Package sebi is the Stylus Execution Boundary Inspector: a deterministic,
// offline static analyzer for WASM smart-contract artifacts. Inspect is the
// single library entry point named in spec.md §6; it wires the Loader,
// Parser, Scanner, Signal projector, Rule catalog, Evaluator, Classifier and
// Report assembler into one synchronous, single-threaded pipeline
// (spec.md §5): bytes -> Artifact -> RawFacts -> Signals -> (TriggeredRules,
// Classification) -> Report.
package sebi

import (
	"fmt"

	"github.com/0xphen/sebi/internal/classify"
	"github.com/0xphen/sebi/internal/facts"
	"github.com/0xphen/sebi/internal/loader"
	"github.com/0xphen/sebi/internal/policyconfig"
	"github.com/0xphen/sebi/internal/report"
	"github.com/0xphen/sebi/internal/rules"
	"github.com/0xphen/sebi/internal/signals"
	"github.com/0xphen/sebi/internal/wasm"
)

// ToolInfo carries tool identity, copied verbatim into the report per
// spec.md §6. It is the only source of tool identity anywhere in the output.
type ToolInfo struct {
	Name    string
	Version string
	Commit  string
}

// Option configures an Inspect call. Options are functional, matching the
// teacher's top-level construction idiom.
type Option func(*options)

type options struct {
	digester   loader.Digester
	sizeParams *rules.SizeParams
	policyName string
}

// WithDigester injects a non-default digest capability (spec.md §3: hashing
// is an injectable function, not a hardcoded primitive).
func WithDigester(d loader.Digester) Option {
	return func(o *options) { o.digester = d }
}

// WithPolicyConfig applies a loaded policyconfig.Config, overriding
// R-SIZE-01's threshold/severity and the reported policy identifier.
func WithPolicyConfig(cfg policyconfig.Config) Option {
	return func(o *options) {
		sp := cfg.SizeParams()
		o.sizeParams = &sp
		o.policyName = cfg.Policy
	}
}

// Inspect runs the full SEBI pipeline against the WASM artifact at path,
// returning a Report or an error. An error is returned only for the loader's
// fatal IO conditions (spec.md §4.1/§7: not-found, permission-denied,
// io-failure, too-large) — no partial report is possible for those. A
// malformed WASM module instead yields a Report whose analysis.status is
// "parse_error", with conservative (zero/empty) signals, so callers still
// see tool identity and artifact digest.
func Inspect(path string, tool ToolInfo, opts ...Option) (report.Report, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	art, err := loader.Load(path, o.digester)
	if err != nil {
		return report.Report{}, fmt.Errorf("sebi: %w", err)
	}

	sizeParams := rules.DefaultSizeParams()
	if o.sizeParams != nil {
		sizeParams = *o.sizeParams
	}
	policyName := "default"
	if o.policyName != "" {
		policyName = o.policyName
	}
	catalog := rules.NewCatalog(sizeParams)

	toolOut := report.Tool{Name: tool.Name, Version: tool.Version, Commit: tool.Commit}

	parsed, parseErr := wasm.Parse(art.Bytes)
	if parseErr != nil {
		// spec.md §7: a parse error is not fatal to Inspect itself; it
		// degrades the report to conservative defaults and surfaces
		// status=parse_error with the diagnostic as a warning.
		sig := signals.Project(&facts.RawFacts{})
		triggered := rules.Evaluate(catalog, rules.Input{Signals: sig, SizeBytes: art.SizeBytes})
		cls := classify.Default(triggered)
		cls.Policy = policyName
		rep := report.Assemble(toolOut, art, sig, catalog, triggered, cls,
			report.StatusParseError, []string{parseErr.Error()})
		return rep, nil
	}

	sig := signals.Project(parsed.Facts)
	triggered := rules.Evaluate(catalog, rules.Input{Signals: sig, SizeBytes: art.SizeBytes})
	cls := classify.Default(triggered)
	cls.Policy = policyName

	status := report.StatusOK
	if parsed.Unsupported {
		status = report.StatusUnsupported
	}

	rep := report.Assemble(toolOut, art, sig, catalog, triggered, cls, status, parsed.Warnings)
	return rep, nil
}
