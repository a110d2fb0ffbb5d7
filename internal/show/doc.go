// Package show provides the show record type and the set logic used to detect
// newly listed shows.
//
// A Show is identified by its canonical line ("display date - title @ venue").
// The link and date key are deliberately left out of that identity so that
// churn in detail-page URLs on the listing site never produces a false "new
// show" signal. Diff compares a freshly extracted, sorted set of shows against
// the canonical lines persisted by the previous run.
package show
