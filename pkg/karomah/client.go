// Package karomah talks to the Karomah data-sharing API, the partner system
// tracking Ramadan journal entries. Like the PKL aggregators, everything here
// degrades to an empty context block on failure.
package karomah

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"baknusai-be/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	typeStudents = "siswa"
	typeJournals = "jurnal"

	summaryCacheKey = "karomah:summary"
	summaryCacheTTL = 60 * time.Second

	searchLimit = 10
)

// Student is one roster entry from the partner API.
type Student struct {
	Nama   string `json:"nama"`
	Nis    string `json:"nis"`
	Kelas  string `json:"kelas"`
	Status string `json:"status"`
}

// JournalEntry is one Ramadan journal record; only the NIS join key matters.
type JournalEntry struct {
	Nis string `json:"nis"`
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	BaseURL string
	Token   string
	http    *http.Client
	cache   *gocache.Cache
	log     logger.ILogger
}

func NewClient(baseURL, token string, log logger.ILogger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache: gocache.New(summaryCacheTTL, 5*time.Minute),
		log:   log,
	}
}

func (c *Client) fetch(ctx context.Context, typ string, out interface{}) error {
	url := fmt.Sprintf("%s/api/data-sharing?token=%s&type=%s", c.BaseURL, c.Token, typ)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("karomah request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("karomah error: status %d", res.StatusCode)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if !envelope.Success {
		return fmt.Errorf("karomah reported success=false for type %s", typ)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}

func (c *Client) fetchStudents(ctx context.Context) ([]Student, error) {
	var students []Student
	if err := c.fetch(ctx, typeStudents, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) fetchJournals(ctx context.Context) ([]JournalEntry, error) {
	var journals []JournalEntry
	if err := c.fetch(ctx, typeJournals, &journals); err != nil {
		return nil, err
	}
	return journals, nil
}

// Summary renders the global Karomah participation block. Both upstream
// calls run in parallel; either failing degrades to "".
func (c *Client) Summary(ctx context.Context) string {
	if cached, found := c.cache.Get(summaryCacheKey); found {
		return cached.(string)
	}

	var (
		students []Student
		journals []JournalEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := c.fetchStudents(gctx)
		students = s
		return err
	})
	g.Go(func() error {
		j, err := c.fetchJournals(gctx)
		journals = j
		return err
	})
	if err := g.Wait(); err != nil {
		c.log.Warn("karomah", "summary fetch failed, degrading context", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n### Statistik Aplikasi Karomah (Buku Ramadan Digital)\n")
	sb.WriteString(fmt.Sprintf("- Total partisipasi siswa pengguna Karomah: **%d** orang\n", len(students)))
	sb.WriteString(fmt.Sprintf("- Total jurnal Ramadan yang telah ditulis: **%d** jurnal (data real-time via API)\n", len(journals)))
	sb.WriteString("- AI dapat melakukan pengecekan nama siswa untuk melihat status kegiatan puasa Ramadannya.\n")

	block := sb.String()
	c.cache.Set(summaryCacheKey, block, summaryCacheTTL)
	return block
}

// SearchByName finds up to 10 roster entries by partial name match and
// cross-references each against the journal counts. No match degrades to "".
func (c *Client) SearchByName(ctx context.Context, keyword string) string {
	students, err := c.fetchStudents(ctx)
	if err != nil {
		c.log.Warn("karomah", "student search fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}

	needle := strings.ToLower(keyword)
	var matched []Student
	for _, s := range students {
		if s.Nama != "" && strings.Contains(strings.ToLower(s.Nama), needle) {
			matched = append(matched, s)
			if len(matched) == searchLimit {
				break
			}
		}
	}
	if len(matched) == 0 {
		return ""
	}

	// journal counts are best-effort enrichment
	countsByNis := make(map[string]int)
	haveJournals := false
	if journals, err := c.fetchJournals(ctx); err == nil {
		haveJournals = true
		for _, j := range journals {
			countsByNis[j.Nis]++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n### Hasil Pencarian Jurnal Ramadan Karomah untuk %q\n", keyword))
	for _, siswa := range matched {
		sb.WriteString(fmt.Sprintf("\n**%s**\n", siswa.Nama))
		sb.WriteString(fmt.Sprintf("- NIS: %s\n", orDash(siswa.Nis)))
		sb.WriteString(fmt.Sprintf("- Kelas: %s\n", orDash(siswa.Kelas)))
		status := siswa.Status
		if status == "" {
			status = "Tidak ada status"
		}
		sb.WriteString(fmt.Sprintf("- Pesan Status Karomah Terakhir: %q\n", status))
		if haveJournals {
			sb.WriteString(fmt.Sprintf("- Total Jurnal Ramadan Terlaksana: %d catatan\n", countsByNis[siswa.Nis]))
		}
	}
	return sb.String()
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
