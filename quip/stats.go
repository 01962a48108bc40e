package quip

import "sync"

// Operation names recorded in UsageStats.
const (
	OpGetThread         = "getThread"
	OpGetThreads        = "getThreads"
	OpGetFolder         = "getFolder"
	OpGetFolders        = "getFolders"
	OpGetThreadMessages = "getThreadMessages"
	OpGetUser           = "getUser"
	OpGetCurrentUser    = "getCurrentUser"
	OpGetBlob           = "getBlob"
	OpExportPDF         = "getPdf"
	OpExportDOCX        = "getDocx"
	OpExportXLSX        = "getXlsx"
	OpCheckUser         = "checkUser"
)

// UsageStats counts logical calls per operation. Retries are not counted.
type UsageStats struct {
	mu     sync.Mutex
	counts map[string]int
}

func newUsageStats() *UsageStats {
	return &UsageStats{counts: make(map[string]int)}
}

func (s *UsageStats) record(op string) {
	s.mu.Lock()
	s.counts[op]++
	s.mu.Unlock()
}

// Count returns how many times op was invoked.
func (s *UsageStats) Count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[op]
}

// Snapshot returns a copy of all counters.
func (s *UsageStats) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}
