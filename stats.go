package parsebench

// Stats contains some useful data about the parsing process.
type Stats struct {
	// Tokens is the number of lexemes matched outside of speculation.
	Tokens int

	Predictions  int
	CacheHits    int
	CacheMisses  int
	Conflicts    int
	Speculations int
	Recoveries   int
}

// Add returns the sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Tokens:       s.Tokens + o.Tokens,
		Predictions:  s.Predictions + o.Predictions,
		CacheHits:    s.CacheHits + o.CacheHits,
		CacheMisses:  s.CacheMisses + o.CacheMisses,
		Conflicts:    s.Conflicts + o.Conflicts,
		Speculations: s.Speculations + o.Speculations,
		Recoveries:   s.Recoveries + o.Recoveries,
	}
}
