package models

// Stats is the summary rebuilt by replaying the event log
type Stats struct {
	TotalLoginAttempts uint64            `json:"total_login_attempts"`
	BruteForceAlerts   uint64            `json:"brute_force_alerts"`
	AttacksByIP        map[string]uint64 `json:"attacks_by_ip"`
	AttacksByEndpoint  map[string]uint64 `json:"attacks_by_endpoint"`
}

// NewStats returns zeroed Stats with empty (non-nil) maps
func NewStats() Stats {
	return Stats{
		AttacksByIP:       make(map[string]uint64),
		AttacksByEndpoint: make(map[string]uint64),
	}
}

// Clone returns a deep copy so callers can't mutate a shared result
func (s Stats) Clone() Stats {
	out := Stats{
		TotalLoginAttempts: s.TotalLoginAttempts,
		BruteForceAlerts:   s.BruteForceAlerts,
		AttacksByIP:        make(map[string]uint64, len(s.AttacksByIP)),
		AttacksByEndpoint:  make(map[string]uint64, len(s.AttacksByEndpoint)),
	}
	for k, v := range s.AttacksByIP {
		out.AttacksByIP[k] = v
	}
	for k, v := range s.AttacksByEndpoint {
		out.AttacksByEndpoint[k] = v
	}
	return out
}
