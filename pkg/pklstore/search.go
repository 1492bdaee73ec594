package pklstore

import (
	"context"
	"fmt"
	"strings"
)

const searchLimit = 10

type studentRow struct {
	Nis         string  `gorm:"column:nis"`
	Nisn        *string `gorm:"column:nisn"`
	NamaSiswa   string  `gorm:"column:nama_siswa"`
	NamaKelas   *string `gorm:"column:nama_kelas"`
	NamaJurusan *string `gorm:"column:nama_jurusan"`
	NamaTa      *string `gorm:"column:nama_ta"`
}

type placementRow struct {
	Mulai      *string `gorm:"column:mulai"`
	Selesai    *string `gorm:"column:selesai"`
	NamaDudi   *string `gorm:"column:nama_dudi"`
	AlamatDudi *string `gorm:"column:alamat_dudi"`
	NoKontak   *string `gorm:"column:no_kontak"`
	NamaKontak *string `gorm:"column:nama_kontak"`
	Pembimbing *string `gorm:"column:pembimbing"`
}

// SearchStudentsByName finds up to 10 students by partial name match and
// renders each with placement details, or an explicit "not placed" status.
// A no-match result is an explicit message so the model can answer
// accurately instead of guessing.
func (s *Store) SearchStudentsByName(ctx context.Context, keyword string) string {
	var students []studentRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT u.username as nis, u.username as nisn, u.nama as nama_siswa,
			k.nama_kelas, j.nama_jurusan, ta.nama_ta
		 FROM user u
		 LEFT JOIN kelas k ON u.kelas_id = k.id_kelas
		 LEFT JOIN jurusan j ON u.jurusan_id = j.id_jurusan
		 LEFT JOIN tahun_ajaran ta ON u.ta_id = ta.id_ta
		 WHERE u.level = 'Siswa' AND u.nama LIKE ? LIMIT ?`,
		"%"+keyword+"%", searchLimit,
	).Scan(&students).Error
	if err != nil {
		s.warn("SearchStudentsByName", err)
		return ""
	}

	if len(students) == 0 {
		return fmt.Sprintf("\n> Tidak ditemukan siswa dengan nama mengandung kata %q dalam database.\n", keyword)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n### Hasil Pencarian Siswa: %q (%d ditemukan)\n", keyword, len(students)))

	for _, siswa := range students {
		sb.WriteString(fmt.Sprintf("\n**%s**\n", siswa.NamaSiswa))
		sb.WriteString(fmt.Sprintf("- NIS: %s | NISN: %s\n", siswa.Nis, orDash(siswa.Nisn)))
		sb.WriteString(fmt.Sprintf("- Kelas: %s | Jurusan: %s\n", orDash(siswa.NamaKelas), orDash(siswa.NamaJurusan)))
		sb.WriteString(fmt.Sprintf("- Tahun Ajaran: %s\n", orDash(siswa.NamaTa)))

		placement, err := s.placementByNis(ctx, siswa.Nis)
		if err != nil {
			// placement lookup is best-effort per student
			s.warn("placementByNis", err)
			continue
		}
		if placement == nil {
			sb.WriteString("- Status PKL: **Belum ditempatkan**\n")
			continue
		}

		sb.WriteString(fmt.Sprintf("- **Tempat PKL: %s**\n", orDash(placement.NamaDudi)))
		sb.WriteString(fmt.Sprintf("  Alamat: %s\n", orDash(placement.AlamatDudi)))
		if placement.NamaKontak != nil && *placement.NamaKontak != "" {
			sb.WriteString(fmt.Sprintf("  Kontak: %s (%s)\n", *placement.NamaKontak, orDash(placement.NoKontak)))
		}
		if placement.Pembimbing != nil && *placement.Pembimbing != "" {
			sb.WriteString(fmt.Sprintf("  Pembimbing Sekolah: %s\n", *placement.Pembimbing))
		}
		if placement.Mulai != nil && *placement.Mulai != "" {
			selesai := "sekarang"
			if placement.Selesai != nil && *placement.Selesai != "" {
				selesai = *placement.Selesai
			}
			sb.WriteString(fmt.Sprintf("  Periode: %s s/d %s\n", *placement.Mulai, selesai))
		}
	}

	return sb.String()
}

func (s *Store) placementByNis(ctx context.Context, nis string) (*placementRow, error) {
	var placements []placementRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT p.mulai, p.selesai, d.nama_dudi, d.alamat_dudi, d.no_kontak, d.nama_kontak,
			g.nama as pembimbing
		 FROM penempatan p
		 LEFT JOIN dudi d ON p.dudi_id = d.id_dudi
		 LEFT JOIN user g ON p.pembimbing1 = g.username
		 WHERE p.nis_penempatan = ? LIMIT 1`,
		nis,
	).Scan(&placements).Error
	if err != nil {
		return nil, err
	}
	if len(placements) == 0 {
		return nil, nil
	}
	return &placements[0], nil
}
