package contracts

// SectorUnknown is assigned when a symbol has no sector-map entry.
const SectorUnknown = "Unknown"

// SectorMap is the symbol-to-sector lookup shared read-only across a scan.
// It is passed explicitly to whoever needs it; a nil map is valid and simply
// answers Unknown for everything, so a missing sector file never aborts a
// run.
type SectorMap map[string]string

// Sector resolves a symbol, defaulting to Unknown.
func (m SectorMap) Sector(symbol string) string {
	if m == nil {
		return SectorUnknown
	}
	if s, ok := m[symbol]; ok && s != "" {
		return s
	}
	return SectorUnknown
}
