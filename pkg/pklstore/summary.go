package pklstore

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

type summaryStats struct {
	TotalSiswa      int64 `gorm:"column:total_siswa"`
	TotalGuru       int64 `gorm:"column:total_guru"`
	TotalDudi       int64 `gorm:"column:total_dudi"`
	TotalPenempatan int64 `gorm:"column:total_penempatan"`
	TotalJurnal     int64 `gorm:"column:total_jurnal"`
	TotalAbsen      int64 `gorm:"column:total_absen"`
}

type academicTerm struct {
	NamaTa   string  `gorm:"column:nama_ta"`
	Angkatan *string `gorm:"column:angkatan"`
}

type major struct {
	NamaJurusan string  `gorm:"column:nama_jurusan"`
	Komli       *string `gorm:"column:komli"`
}

type classRow struct {
	NamaKelas   string  `gorm:"column:nama_kelas"`
	NamaJurusan *string `gorm:"column:nama_jurusan"`
	Jml         int64   `gorm:"column:jml"`
}

type staffRow struct {
	NamaGuru string  `gorm:"column:nama_guru"`
	Nipy     *string `gorm:"column:nipy"`
}

type attendanceRow struct {
	KetAbsen string `gorm:"column:ket_absen"`
	Total    int64  `gorm:"column:total"`
}

// BuildSummaryContext renders the global PKL statistics block. The result is
// cached briefly since it is identical for every concurrent request. Any
// data-store error degrades to an empty string.
func (s *Store) BuildSummaryContext(ctx context.Context) string {
	if cached, found := s.cache.Get(summaryCacheKey); found {
		return cached.(string)
	}

	var (
		stats      summaryStats
		terms      []academicTerm
		majors     []major
		classes    []classRow
		staff      []staffRow
		attendance []attendanceRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(`SELECT
			(SELECT COUNT(*) FROM user WHERE level='Siswa') as total_siswa,
			(SELECT COUNT(*) FROM user WHERE level='Pembimbing') as total_guru,
			(SELECT COUNT(*) FROM dudi) as total_dudi,
			(SELECT COUNT(*) FROM penempatan) as total_penempatan,
			(SELECT COUNT(*) FROM jurnal_siswa) as total_jurnal,
			(SELECT COUNT(*) FROM absen) as total_absen`).Scan(&stats).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(
			`SELECT nama_ta, angkatan FROM tahun_ajaran ORDER BY id_ta DESC LIMIT 3`).Scan(&terms).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(
			`SELECT nama_jurusan, komli FROM jurusan ORDER BY nama_jurusan`).Scan(&majors).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(
			`SELECT k.nama_kelas, j.nama_jurusan,
				(SELECT COUNT(*) FROM user u WHERE u.kelas_id = k.id_kelas AND u.level='Siswa') as jml
			 FROM kelas k LEFT JOIN jurusan j ON k.jurusan_id = j.id_jurusan
			 ORDER BY j.nama_jurusan, k.nama_kelas`).Scan(&classes).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(
			`SELECT nama as nama_guru, username as nipy FROM user WHERE level='Pembimbing' ORDER BY nama`).Scan(&staff).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(
			`SELECT ket_absen, COUNT(*) as total FROM absen GROUP BY ket_absen`).Scan(&attendance).Error
	})

	if err := g.Wait(); err != nil {
		s.warn("BuildSummaryContext", err)
		return ""
	}

	var sb strings.Builder
	sb.WriteString("### Statistik Database PKL (Real-time)\n")
	sb.WriteString(fmt.Sprintf("- Total siswa terdaftar: **%d** orang\n", stats.TotalSiswa))
	sb.WriteString(fmt.Sprintf("- Total guru: **%d** orang\n", stats.TotalGuru))
	sb.WriteString(fmt.Sprintf("- Total tempat PKL (DUDI): **%d** tempat\n", stats.TotalDudi))
	sb.WriteString(fmt.Sprintf("- Siswa yang sudah ditempatkan PKL: **%d** siswa\n", stats.TotalPenempatan))
	sb.WriteString(fmt.Sprintf("- Total entri jurnal: **%d** | Total catatan absen: **%d**\n\n", stats.TotalJurnal, stats.TotalAbsen))

	if len(terms) > 0 {
		sb.WriteString("### Tahun Ajaran\n")
		for _, ta := range terms {
			sb.WriteString(fmt.Sprintf("- %s (Angkatan: %s)\n", ta.NamaTa, orDash(ta.Angkatan)))
		}
		sb.WriteString("\n")
	}

	if len(majors) > 0 {
		sb.WriteString("### Program Keahlian / Jurusan\n")
		for _, j := range majors {
			sb.WriteString("- " + j.NamaJurusan)
			if j.Komli != nil && *j.Komli != "" {
				sb.WriteString(fmt.Sprintf(" (Komli: %s)", *j.Komli))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(classes) > 0 {
		sb.WriteString("### Daftar Kelas\n")
		for _, k := range classes {
			sb.WriteString(fmt.Sprintf("- %s (%s) — %d siswa\n", k.NamaKelas, orDash(k.NamaJurusan), k.Jml))
		}
		sb.WriteString("\n")
	}

	if len(staff) > 0 {
		sb.WriteString(fmt.Sprintf("### Daftar Guru (%d orang)\n", len(staff)))
		for _, g := range staff {
			sb.WriteString("- " + g.NamaGuru)
			if g.Nipy != nil && *g.Nipy != "" {
				sb.WriteString(fmt.Sprintf(" (NIPY: %s)", *g.Nipy))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(attendance) > 0 {
		sb.WriteString("### Statistik Kehadiran PKL\n")
		for _, a := range attendance {
			sb.WriteString(fmt.Sprintf("- %s: %d catatan\n", a.KetAbsen, a.Total))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n> CATATAN: Untuk melihat data siswa atau penempatan PKL spesifik, user bisa minta \"cari siswa nama [nama]\"\n")

	ctxBlock := sb.String()
	s.cache.Set(summaryCacheKey, ctxBlock, summaryCacheTTL)
	return ctxBlock
}
