package esicore

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dbrunet-lab/esicore/center"
	"github.com/dbrunet-lab/esicore/esierr"
	"github.com/dbrunet-lab/esicore/esilog"
	"github.com/dbrunet-lab/esicore/esiio"
	"github.com/dbrunet-lab/esicore/geom"
	"github.com/dbrunet-lab/esicore/headmodel"
	"github.com/dbrunet-lab/esicore/inverse"
	"github.com/dbrunet-lab/esicore/progress"
	"github.com/dbrunet-lab/esicore/solutionpoints"
)

// Input collects everything a Build call needs (§4 data flow).
type Input struct {
	Head, Electrodes, SolutionPoints *geom.Pset
	Preset                           *headmodel.Preset
	Probe                            headmodel.RadiusProbe // optional LSMAC probe; nil -> spherical outer radius
	Methods                          []inverse.Method
	Options                          inverse.Options
	Gauge                            progress.Gauge
	Logger                           *esilog.Logger
}

// Report summarizes a completed build: the fused translation applied
// to every point set, the final rejection set, and one inverse.Result
// per requested method.
type Report struct {
	Translation   r3.Vec
	Rejected      map[int]bool
	NeighborGraph *simple.UndirectedGraph
	LeadField     *headmodel.BuildReport
	Results       map[inverse.Method]inverse.Result
}

// Build runs the full pipeline (§4: C4 -> C6 -> C5 -> C7/C8) and
// returns a Report, or an *esierr.InputError for structural invalid
// inputs (§7 InputInvalid; fatal, no output produced). Numeric
// degeneracies (rejected points, clamped eigenvalues) are absorbed
// into the Report and logged, never returned as an error.
func Build(in Input) (*Report, error) {
	log := in.Logger
	if in.SolutionPoints == nil || in.SolutionPoints.Len() == 0 {
		return nil, esierr.Newf(esierr.NoSolutionPoints, "solution points required")
	}
	if in.Electrodes == nil || in.Electrodes.Len() == 0 {
		return nil, esierr.Newf(esierr.EmptyLeadField, "electrodes required")
	}
	if in.Head == nil || in.Head.Len() == 0 {
		return nil, esierr.Newf(esierr.EmptyLeadField, "head surface required")
	}
	if in.Preset == nil {
		return nil, esierr.Newf(esierr.DimensionMismatch, "head model preset required")
	}

	log.Info("fusing inverse center")
	variants := center.DefaultVariants(in.Head, in.Electrodes, in.SolutionPoints)
	fused := center.Fuse(variants)

	head := in.Head.Translate(fused.Translation)
	electrodes := in.Electrodes.Translate(fused.Translation)
	sp := in.SolutionPoints.Translate(fused.Translation)
	headCenter := r3.Vec{}

	progress.Report(in.Gauge, "neighborhood graph", 0)
	step := sp.Step()
	ng := solutionpoints.BuildAdaptive2618(sp, step, true)
	rejected := solutionpoints.RejectSingleNeighbors(ng)
	rejected = solutionpoints.Union(rejected, solutionpoints.OutsideHead(sp, head))
	for i := range rejected {
		log.Warn("solution point rejected", "index", i)
	}

	progress.Report(in.Gauge, "lead field", 0)
	K, leadReport := headmodel.Build(in.Preset, electrodes, sp, headCenter, in.Probe, rejected)
	for i := range leadReport.RejectedSources {
		if !rejected[i] {
			rejected[i] = true
			log.Warn("solution point rejected by lead field geometry", "index", i)
		}
	}

	results := make(map[inverse.Method]inverse.Result, len(in.Methods))
	for _, m := range in.Methods {
		if progress.IsCanceled(in.Gauge) {
			break
		}
		log.Info("building inverse operator", "method", m.String())
		results[m] = inverse.Build(m, inverse.Input{
			K:             K,
			Rejected:      rejected,
			NeighborGraph: ng,
			Points:        sp,
		}, in.Options)
	}

	return &Report{
		Translation:   fused.Translation,
		Rejected:      rejected,
		NeighborGraph: ng,
		LeadField:     leadReport,
		Results:       results,
	}, nil
}

// WriteResult serializes one method's regularization sweep to path
// using the C9 container format. Electrode/solution-point names fall
// back to esiio's "e<index+1>"/"sp<index+1>" policy (§6).
func WriteResult(path string, res inverse.Result, numEl, numSolp int) error {
	header := esiio.Header{
		NumEl:     numEl,
		NumSolp:   numSolp,
		NumReg:    len(res.Regularizations),
		RegValues: res.Regularizations,
	}
	return esiio.WriteStack(path, header, res.J)
}
