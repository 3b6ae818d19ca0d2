// Package calibrate derives a ladder band table from observed readings.
//
// The calibrator samples a source for a bounded time while the user holds
// each button in turn. Readings are grouped online: a reading joins the
// first cluster whose center (the reading that created it) is closer than
// the threshold, otherwise it starts a new cluster. Centers never move and
// clusters never merge, so a slowly drifting level can split into several
// clusters. After sampling, small clusters are dropped as noise and the rest
// are ranked by center, highest first: in a pull-up ladder the idle state
// reads highest, so the first cluster becomes the baseline.
package calibrate
