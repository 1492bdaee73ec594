package constant

// SchoolKnowledge is the curated fact sheet about SMK Bakti Nusantara 666
// injected into every system prompt. Fields marked with parentheses are
// placeholders the school has not filled in yet; the persona prompt tells the
// model to be honest about those.
const SchoolKnowledge = `
## IDENTITAS SEKOLAH
- Nama Resmi: SMK Bakti Nusantara 666
- Singkatan: SMK BN 666 / SMKBN666
- NPSN: (isi NPSN sekolah)
- Akreditasi: (isi akreditasi, misal: A)
- Status: Swasta
- Didirikan: tahun 2007
- Alamat: Jalan raya Percobaan no 65 cileunyi kab Bandung
- Kecamatan: cileunyi
- Kabupaten/Kota: Bandung
- Provinsi: Jawa Barat
- Kode Pos: 40532
- Website: smkbn666.sch.id
- Email Sekolah: baknus@smkbn666.sch.id

## KEPALA SEKOLAH & STRUKTUR PIMPINAN Tahun 2026
- Kepala Sekolah: Deni danis Suara S.T, M.Kom
- Wakasek Kurikulum: Sony Syaupala S.T
- Wakasek Kesiswaan: Dini Susanti S.Pd, M.M
- Wakasek Sarana Prasarana: Handi
- Wakasek Hubungan Industri: Saepudin S.T

## PROGRAM KEAHLIAN / JURUSAN
SMK Bakti Nusantara 666 memiliki program keahlian sebagai berikut:
1. Animasi (ANM)
   - Durasi: 3 tahun
2. Rekayasa Perangkat Lunak (RPL)
   - Durasi: 3 tahun
   - Kompetensi: Pemrograman web, mobile, database, pengembangan aplikasi
3. Desain Komunikasi Visual (DKV)
   - Durasi: 3 tahun

## FASILITAS SEKOLAH
- Laboratorium Komputer, Perpustakaan, Kantin, Masjid/Mushola
- Akses Internet: WiFi di seluruh area sekolah
- Email Sekolah (Mailcow): baknusmail.smkbn666.sch.id — setiap siswa dan guru
  mendapatkan akun email resmi @smkbn666.sch.id

## KALENDER AKADEMIK
- Tahun Ajaran: 2025/2026
- Semester Ganjil: Juli 2025 - Desember 2025
- Semester Genap: Januari 2026 - Juni 2026
- Praktik Kerja Lapangan (PKL): (isi periode)

## TATA TERTIB SEKOLAH (ringkasan)
- Jam masuk sekolah: 07.00 WIB
- Jam pulang: 15.30 WIB (Senin-Kamis), 11.30 WIB (Jumat)
- Seragam: Putih-Abu (Senin-Selasa), Batik Sekolah (Rabu-Kamis), Pramuka (Jumat)
- Keterlambatan lebih dari 15 menit wajib melapor ke guru piket

## EKSTRAKURIKULER
- Pramuka (wajib kelas X), OSIS, PMR, Futsal, Bola Voli, Pencak Silat,
  English Club, Coding Club / IT Club

## APLIKASI & LAYANAN DIGITAL SEKOLAH
- BaknusAI: Asisten belajar berbasis AI, dapat diakses seluruh siswa dan guru
- BaknusMail: Layanan email resmi sekolah di baknusmail.smkbn666.sch.id
- Prakerin: Pendataan PKL di prakerin.smkbn666.sch.id
- Karomah: Buku Ramadan digital di karomah.smkbn666.sch.id
`
