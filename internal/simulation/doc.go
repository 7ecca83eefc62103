// Package simulation runs bulk "6+1" campaign simulations over a building and
// folds the per-campaign statistics into whole-run distributions.
//
// Two modes exist:
//
//   - Random sampling (Options.Max > 0) draws Max independent, uniformly
//     distributed (pattern, start hour) pairs from a seeded generator.
//   - Exhaustive sweep (Options.Max == 0) visits every pattern, in pattern
//     order, at every valid start hour, in increasing order.
//
// Every campaign's eight scalars are folded into eight stats.Descriptive
// accumulators as soon as the campaign is built. Campaigns themselves are only
// retained with Options.KeepCampaigns.
//
// Usage:
//
//	engine := simulation.NewEngine(simulation.WithLogger(logger))
//	sim, err := engine.Run(ctx, b, simulation.Options{Max: 500, Seed: 42})
//	if errors.Is(err, simulation.ErrInsufficientData) {
//	    // fewer than 169 hourly values
//	}
//	report := sim.Summary() // Report: the eight distribution summaries
package simulation
