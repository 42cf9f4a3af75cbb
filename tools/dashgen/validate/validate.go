// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and every metric it selects must be known.
package validate

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/retail-price-tracker/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation, warnings
// are reported only.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// histogramSuffixes are the series a histogram exposes beyond its base name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Metrics parses expr and returns the metric names it selects.
func Metrics(expr string) ([]string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}

	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names, nil
}

// known reports whether name, or its histogram base name, is in the set.
func known(name string, set map[string]bool) bool {
	if set[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && set[base] {
			return true
		}
	}
	return false
}

func (r *Result) checkExpr(where, expr string, set map[string]bool) {
	names, err := Metrics(expr)
	if err != nil {
		r.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	for _, name := range names {
		if !known(name, set) {
			r.errorf("%s: unknown metric %q", where, name)
		}
	}
}

// Dashboard validates every Prometheus target in d.
func Dashboard(d dashboard.Dashboard, set map[string]bool) Result {
	var r Result
	for _, p := range d.Panels {
		switch {
		case p.Panel != nil:
			r.checkPanel(*p.Panel, set)
		case p.RowPanel != nil:
			for _, inner := range p.RowPanel.Panels {
				r.checkPanel(inner, set)
			}
		}
	}
	return r
}

func (r *Result) checkPanel(p dashboard.Panel, set map[string]bool) {
	title := "<untitled>"
	if p.Title != nil {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		r.warnf("panel %q has no targets", title)
	}

	for i, target := range p.Targets {
		where := fmt.Sprintf("panel %q target %d", title, i)
		switch q := target.(type) {
		case prometheus.Dataquery:
			r.checkExpr(where, q.Expr, set)
		case *prometheus.Dataquery:
			r.checkExpr(where, q.Expr, set)
		default:
			r.warnf("%s: not a prometheus query", where)
		}
	}
}

// Rules validates every expression in cr. Alert rules must carry a
// severity label.
func Rules(cr rules.PrometheusRule, set map[string]bool) Result {
	var r Result
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			where := fmt.Sprintf("%s/%s", g.Name, name)

			r.checkExpr(where, rule.Expr, set)
			if rule.Alert != "" && rule.Labels["severity"] == "" {
				r.errorf("%s: alert without severity label", where)
			}
		}
	}
	return r
}
