package tag

func ToTerseStatus(status string) int {
	if status == "success" {
		return 0
	}
	return 1
}

// ToTerseResult converts ResultSummary to ResultSummaryTerse.
func ToTerseResult(r ResultSummary) ResultSummaryTerse {
	return ResultSummaryTerse{
		Path:            r.Path,
		SidecarPath:     r.SidecarPath,
		Status:          ToTerseStatus(r.Status),
		Error:           r.Error,
		PageCount:       r.PageCount,
		FragmentCount:   r.FragmentCount,
		EstimatedTokens: r.EstimatedTokens,
		CacheHits:       r.CacheHits,
		CacheMisses:     r.CacheMisses,
		Language:        r.Language,
		TagDistribution: r.TagDistribution,
	}
}

// ToTerseStats converts Stats to StatsTerse.
func ToTerseStats(s Stats) StatsTerse {
	return StatsTerse{
		Total:    s.TotalDocs,
		Success:  s.Successful,
		Failed:   s.Failed,
		HitRate:  s.CacheHitRate,
		Time:     s.TotalTimeSeconds,
		Keywords: s.TopKeywords,
		Saved:    s.Cost.TokensSaved,
	}
}
