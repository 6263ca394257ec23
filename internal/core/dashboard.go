// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/model"
)

// DashboardData holds aggregated values for the main dashboard.
type DashboardData struct {
	Counts model.Counts

	// Latest entries per result kind; nil when the table is empty.
	LatestTrial  *model.TrialResult
	LatestCrypto *model.CryptoResult
	LatestRun    *model.ExtractionRun

	// RecentTrials holds up to five of the newest trial batches.
	RecentTrials []model.TrialResult
}

// BuildDashboardData collects row counts and the most recent results for
// the dashboard.
func BuildDashboardData() (DashboardData, error) {
	var out DashboardData

	counts, err := db.CountResults()
	if err != nil {
		return out, err
	}
	out.Counts = counts

	trials, err := db.GetAllTrialResults()
	if err != nil {
		return out, err
	}
	if len(trials) > 0 {
		out.LatestTrial = &trials[0]
	}
	const maxRecent = 5
	if len(trials) > maxRecent {
		out.RecentTrials = trials[:maxRecent]
	} else {
		out.RecentTrials = trials
	}

	cryptos, err := db.GetAllCryptoResults()
	if err != nil {
		return out, err
	}
	if len(cryptos) > 0 {
		out.LatestCrypto = &cryptos[0]
	}

	runs, err := db.GetAllExtractionRuns()
	if err != nil {
		return out, err
	}
	if len(runs) > 0 {
		out.LatestRun = &runs[0]
	}

	return out, nil
}
