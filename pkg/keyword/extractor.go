// Package keyword detects a student-name search intent inside a user
// utterance using an ordered chain of regex matchers.
package keyword

import (
	"regexp"
	"strings"
)

// patterns are tried in order; the first pattern whose capture survives the
// stop-word and length checks wins. The ordering is deliberate precedence:
// explicit "cari ... nama X" phrasing beats looser trailing-name forms.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cari\s+(?:siswa\s+)?(?:dengan\s+)?nama\s+([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)(?:info|data|tentang|status|jumlah|tampilkan)\s+(?:karomah|ramadan|puasa|siswa|jurnal)\s+(?:atas\s+nama\s+|bernama\s+|untuk\s+)?([a-zA-Z\s]{3,})`),
	regexp.MustCompile(`(?i)siswa\s+(?:bernama|dengan\s+nama)?\s*([a-zA-Z\s]{3,})`),
	regexp.MustCompile(`(?i)(?:siapa|dimana)\s+([a-zA-Z]{3,}(?:\s+[a-zA-Z]+)*)\s+(?:pkl|magang|dudi)`),
	regexp.MustCompile(`(?i)(?:bagaimana|cek|tampilkan)\s+(?:status|jurnal|karomah|ramadan|jumlah)\s+(?:jurnal\s+|)(?:siswa\s+|)(?:atas\s+nama\s+|bernama\s+|untuk\s+)?([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)([a-zA-Z\s]{3,})\s+(?:status|info|pkl|karomah)-nya`),
}

var stopWords = map[string]struct{}{
	"siswa": {}, "nama": {}, "dalam": {}, "yang": {}, "dan": {},
	"pkl": {}, "data": {}, "info": {}, "karomah": {}, "ramadan": {},
	"jurnal": {}, "untuk": {}, "atas": {}, "jumlah": {},
}

// Extract returns the detected search keyword, or "" when the utterance has
// no name-search intent. Pure function, no failure mode beyond no-match.
func Extract(text string) string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		kw := strings.Join(strings.Fields(m[1]), " ")
		if len(kw) < 3 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(kw)]; stop {
			continue
		}
		return kw
	}
	return ""
}
