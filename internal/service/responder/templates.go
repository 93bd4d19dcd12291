package responder

// Canned reply templates for the customer-service widget. All replies are
// fixed strings; the widget never generates text.

const templateWelcome = `Halo! Selamat datang di layanan chat Desa Digital. 👋
Saya asisten virtual kantor desa. Silakan tanyakan seputar jam operasional, persyaratan surat, bantuan sosial, atau kegiatan desa.`

const templateHours = `Kantor desa buka pada jam berikut:
• Senin – Kamis: 08.00 – 15.00 WIB
• Jumat: 08.00 – 11.30 WIB
• Sabtu, Minggu & hari libur nasional: tutup
Pelayanan loket terakhir 30 menit sebelum jam tutup.`

const templateLetterRequirements = `Untuk mengajukan surat keterangan, siapkan dokumen berikut:
1. Fotokopi KTP
2. Fotokopi Kartu Keluarga
3. Surat pengantar RT/RW
Pengajuan dapat dilakukan lewat menu "Layanan Surat" di portal ini, lalu ambil hasilnya di kantor desa.`

const templateSocialAid = `Informasi bantuan sosial:
Pendataan penerima bantuan dilakukan melalui RT/RW masing-masing. Pastikan data Kartu Keluarga Anda sudah terdaftar di kantor desa. Pengumuman penyaluran bantuan dipublikasikan di halaman Berita portal ini.`

const templateResidencyLetter = `Surat keterangan domisili dapat diajukan melalui menu "Layanan Surat" dengan melampirkan:
1. Fotokopi KTP
2. Fotokopi Kartu Keluarga
3. Surat pengantar RT/RW
Proses biasanya selesai dalam 1–2 hari kerja.`

const templateContacts = `Kontak kantor desa:
• Telepon: (0274) 512-345
• Email: layanan@desadigital.example
Kepala desa menerima audiensi warga setiap Rabu pukul 09.00 – 11.00 WIB di kantor desa.`

const templateEvents = `Jadwal kegiatan dan agenda desa dapat dilihat pada halaman "Kegiatan" di portal ini. Agenda terdekat juga diumumkan melalui pengeras suara masjid dan grup RT/RW.`

const templateGreeting = `Halo! Ada yang bisa saya bantu? Silakan tanyakan seputar layanan kantor desa, misalnya jam operasional atau persyaratan surat.`

const templateThanks = `Sama-sama! Senang bisa membantu. Jika ada pertanyaan lain, silakan tulis di sini. 🙏`

const templateFallback = `Mohon maaf, saya belum bisa menjawab pertanyaan tersebut. Untuk bantuan lebih lanjut, silakan hubungi kantor desa di (0274) 512-345 pada jam kerja, atau datang langsung ke kantor desa.`
