package pklstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type journalRow struct {
	TglJurnal   string  `gorm:"column:tgl_jurnal"`
	UraianKerja *string `gorm:"column:uraian_kerja"`
	NamaUraian  *string `gorm:"column:nama_uraian"`
}

type attendanceTally struct {
	KetAbsen string `gorm:"column:ket_absen"`
	Jumlah   int64  `gorm:"column:jumlah"`
}

// BuildPersonalContext renders the logged-in student's own data: identity,
// placement, last five journal entries and the current month's attendance
// tally. Staff accounts (no matching student record) get an empty context.
// Every sub-fetch is independently best-effort.
func (s *Store) BuildPersonalContext(ctx context.Context, email string) string {
	siswa, err := s.studentByEmail(ctx, email)
	if err != nil {
		s.warn("studentByEmail", err)
		return ""
	}
	if siswa == nil {
		return ""
	}

	var (
		placement  *placementRow
		journals   []journalRow
		attendance []attendanceTally
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.placementByNis(gctx, siswa.Nis)
		if err != nil {
			s.warn("placementByNis", err)
			return nil
		}
		placement = p
		return nil
	})
	g.Go(func() error {
		rows, err := s.recentJournals(gctx, siswa.Nis, 5)
		if err != nil {
			s.warn("recentJournals", err)
			return nil
		}
		journals = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.monthlyAttendance(gctx, siswa.Nis)
		if err != nil {
			s.warn("monthlyAttendance", err)
			return nil
		}
		attendance = rows
		return nil
	})
	// sub-fetches swallow their own errors, Wait cannot fail
	_ = g.Wait()

	var sb strings.Builder
	sb.WriteString("\n## DATA PRIBADI SISWA YANG SEDANG LOGIN\n")
	sb.WriteString(fmt.Sprintf("- Nama: %s\n", siswa.NamaSiswa))
	sb.WriteString(fmt.Sprintf("- NIS: %s | NISN: %s\n", siswa.Nis, orDash(siswa.Nisn)))
	sb.WriteString(fmt.Sprintf("- Kelas: %s | Jurusan: %s\n", orDash(siswa.NamaKelas), orDash(siswa.NamaJurusan)))
	sb.WriteString(fmt.Sprintf("- Tahun Ajaran: %s\n", orDash(siswa.NamaTa)))

	if placement != nil {
		sb.WriteString("\n### Penempatan PKL\n")
		sb.WriteString(fmt.Sprintf("- DUDI: %s\n", orDash(placement.NamaDudi)))
		sb.WriteString(fmt.Sprintf("- Alamat: %s\n", orDash(placement.AlamatDudi)))
		sb.WriteString(fmt.Sprintf("- Kontak: %s (%s)\n", orDash(placement.NamaKontak), orDash(placement.NoKontak)))
		sb.WriteString(fmt.Sprintf("- Pembimbing Sekolah: %s\n", orDash(placement.Pembimbing)))
		if placement.Mulai != nil && *placement.Mulai != "" {
			sb.WriteString(fmt.Sprintf("- Periode: %s s/d %s\n", *placement.Mulai, orDash(placement.Selesai)))
		}
	}

	if len(journals) > 0 {
		sb.WriteString("\n### 5 Jurnal Terakhir\n")
		for i, j := range journals {
			uraian := "-"
			if j.UraianKerja != nil && *j.UraianKerja != "" {
				uraian = *j.UraianKerja
			} else if j.NamaUraian != nil && *j.NamaUraian != "" {
				uraian = *j.NamaUraian
			}
			sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, j.TglJurnal, uraian))
		}
	}

	if len(attendance) > 0 {
		sb.WriteString("\n### Rekap Kehadiran Bulan Ini\n")
		for _, a := range attendance {
			sb.WriteString(fmt.Sprintf("- %s: %d hari\n", a.KetAbsen, a.Jumlah))
		}
	}

	return sb.String()
}

// studentByEmail resolves a student record by the local part of the school
// email (the NIS doubles as the mailbox name).
func (s *Store) studentByEmail(ctx context.Context, email string) (*studentRow, error) {
	localPart := email
	if at := strings.Index(email, "@"); at >= 0 {
		localPart = email[:at]
	}

	var students []studentRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT u.username as nis, u.username as nisn, u.nama as nama_siswa,
			k.nama_kelas, j.nama_jurusan, ta.nama_ta
		 FROM user u
		 LEFT JOIN kelas k ON u.kelas_id = k.id_kelas
		 LEFT JOIN jurusan j ON u.jurusan_id = j.id_jurusan
		 LEFT JOIN tahun_ajaran ta ON u.ta_id = ta.id_ta
		 WHERE u.level = 'Siswa' AND u.username = ? LIMIT 1`,
		localPart,
	).Scan(&students).Error
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, nil
	}
	return &students[0], nil
}

func (s *Store) recentJournals(ctx context.Context, nis string, limit int) ([]journalRow, error) {
	var rows []journalRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT js.tgl_jurnal, js.uraian_kerja, uk.nama_uraian
		 FROM jurnal_siswa js
		 LEFT JOIN uraian_kegiatan uk ON js.uraian_id = uk.id_uraian
		 WHERE js.nis_jurnal = ?
		 ORDER BY js.tgl_jurnal DESC LIMIT ?`,
		nis, limit,
	).Scan(&rows).Error
	return rows, err
}

// monthlyAttendance tallies the current calendar month in the configured
// timezone, matching the quota gate's day arithmetic.
func (s *Store) monthlyAttendance(ctx context.Context, nis string) ([]attendanceTally, error) {
	month := time.Now().In(s.loc).Format("2006-01")
	var rows []attendanceTally
	err := s.db.WithContext(ctx).Raw(
		`SELECT ket_absen, COUNT(*) as jumlah
		 FROM absen
		 WHERE nis_absen = ? AND DATE_FORMAT(tgl_absen, '%Y-%m') = ?
		 GROUP BY ket_absen`,
		nis, month,
	).Scan(&rows).Error
	return rows, err
}
