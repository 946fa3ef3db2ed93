package main

import (
	"errors"

	"go.uber.org/zap"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/config"
	"proxy-generator/internal/diagnostic"
	"proxy-generator/internal/manifest"
	"proxy-generator/internal/plan"
)

// DefaultUnit names the single generation unit used when the manifest
// declares none.
const DefaultUnit = "default"

var (
	errNothingToPlan = errors.New("nothing to plan: set a manifest or Go packages")
	errPlanFailed    = errors.New("planning reported errors, no plan written")
	errInvalidInput  = errors.New("input is invalid")
)

// input is the metadata assembled from the manifest and Go packages.
type input struct {
	*manifest.Result

	diags *diagnostic.Diagnostics
}

// loadInput builds the metadata model from cfg. Go packages are loaded first
// so the manifest can refer to their types.
func loadInput(cfg *config.Config, logger *zap.Logger) (*input, error) {
	if cfg.Manifest == "" && len(cfg.Packages) == 0 {
		return nil, errNothingToPlan
	}

	b := analyze.NewBuilder()

	if len(cfg.Packages) > 0 {
		logger.Debug("loading packages", zap.Strings("patterns", cfg.Packages))

		if err := analyze.NewAnalyzerFor(b).LoadPackages(cfg.Packages...); err != nil {
			return nil, err
		}
	}

	f := &manifest.File{}

	if cfg.Manifest != "" {
		logger.Debug("loading manifest", zap.String("path", cfg.Manifest))

		var err error
		if f, err = manifest.LoadFile(cfg.Manifest); err != nil {
			return nil, err
		}
	}

	res, diags := manifest.BuildInto(f, b)

	if res.Model != nil && len(res.Units) == 0 {
		res.Units = []plan.Unit{defaultUnit(res.Model)}
	}

	return &input{Result: res, diags: diags}, nil
}

// defaultUnit exposes every entity of m in one unit.
func defaultUnit(m *analyze.Model) plan.Unit {
	u := plan.Unit{Name: DefaultUnit}
	for _, e := range m.Entities() {
		u.Entities = append(u.Entities, m.ID(e))
	}

	return u
}

// generate runs the whole pipeline. Diagnostics are returned in the sink; the
// plan is nil when the input itself is invalid.
func generate(cfg *config.Config, logger *zap.Logger) (*plan.ProxyPlan, *diagnostic.LoggingSink, error) {
	sink := diagnostic.NewLoggingSink(logger)

	in, err := loadInput(cfg, logger)
	if err != nil {
		return nil, sink, err
	}

	sink.Replay(*in.diags)

	if !in.diags.IsValid() {
		return nil, sink, nil
	}

	p, err := plan.NewPlanner(in.Model, in.Units, in.Oracle, sink, cfg.PlanOptions()).Plan()
	if err != nil {
		return nil, sink, err
	}

	logger.Debug("plan complete",
		zap.Int("types", len(p.Types)),
		zap.Int("enums", len(p.Enums)),
		zap.Int("errors", len(sink.Errors)),
		zap.Int("warnings", len(sink.Warnings)))

	return p, sink, nil
}
