// internal/reference/builtin.go
package reference

import "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"

func wv(pu, ppu, pbm, pk, lbi, lbe, pm float64) models.WeightVector {
	return models.WeightVector{
		models.SubtestPU:  pu,
		models.SubtestPPU: ppu,
		models.SubtestPBM: pbm,
		models.SubtestPK:  pk,
		models.SubtestLBI: lbi,
		models.SubtestLBE: lbe,
		models.SubtestPM:  pm,
	}
}

// DefaultWeights applies to any major absent from the catalog.
func DefaultWeights() models.WeightVector {
	return wv(.15, .15, .15, .15, .15, .15, .10)
}

// DefaultBand applies to any institution absent from the catalog.
func DefaultBand() models.InstitutionBand {
	return models.InstitutionBand{Tier: 4, Min: 630, Max: 710, Label: "Cluster 4"}
}

var tierLabels = map[int]string{
	1: "Cluster 1 - Top Tier",
	2: "Cluster 2 - Upper Middle",
	3: "Cluster 3 - Middle",
	4: "Cluster 4 - Regional",
}

// TierLabel returns the display label of a selectivity tier.
func TierLabel(tier int) string {
	if l, ok := tierLabels[tier]; ok {
		return l
	}
	return DefaultBand().Label
}

var subtestNames = map[models.Subtest]string{
	models.SubtestPU:  "Penalaran Umum",
	models.SubtestPPU: "Pem. & Pengetahuan Umum",
	models.SubtestPBM: "Pemahaman Bacaan & Menulis",
	models.SubtestPK:  "Pengetahuan Kuantitatif",
	models.SubtestLBI: "Literasi Bahasa Indonesia",
	models.SubtestLBE: "Literasi Bahasa Inggris",
	models.SubtestPM:  "Penalaran Matematika",
}

// SubtestName returns the descriptive name of a subtest code, or the code itself.
func SubtestName(code models.Subtest) string {
	if n, ok := subtestNames[code]; ok {
		return n
	}
	return string(code)
}

func band(tier int, min, max float64) InstitutionEntry {
	return InstitutionEntry{Tier: tier, Min: min, Max: max, Label: tierLabels[tier]}
}

func named(name string, e InstitutionEntry) InstitutionEntry {
	e.Name = name
	return e
}

// Builtin returns the compiled-in reference document.
func Builtin() *Document {
	return &Document{
		Version:        "builtin",
		DefaultWeights: DefaultWeights(),
		Majors: []MajorEntry{
			{Name: "Kedokteran", Weights: wv(.20, .15, .10, .15, .10, .10, .20), Alternatives: []string{"Keperawatan", "Farmasi", "Gizi"}},
			{Name: "Kedokteran Gigi", Weights: wv(.20, .15, .10, .15, .10, .10, .20), Alternatives: []string{"Farmasi", "Keperawatan", "Kesehatan Masyarakat"}},
			{Name: "Teknik Sipil", Weights: wv(.20, .05, .05, .20, .05, .10, .35), Alternatives: []string{"Teknik Industri", "Teknik Mesin", "Fisika"}},
			{Name: "Teknik Mesin", Weights: wv(.20, .05, .05, .20, .05, .10, .35), Alternatives: []string{"Teknik Industri", "Teknik Sipil", "Fisika"}},
			{Name: "Teknik Elektro", Weights: wv(.20, .05, .05, .20, .05, .10, .35), Alternatives: []string{"Teknik Informatika", "Fisika", "Matematika"}},
			{Name: "Teknik Industri", Weights: wv(.20, .05, .05, .20, .05, .10, .35), Alternatives: []string{"Teknik Sipil", "Manajemen", "Statistika"}},
			{Name: "Teknik Kimia", Weights: wv(.18, .08, .05, .20, .05, .07, .37), Alternatives: []string{"Kimia", "Farmasi", "Teknik Industri"}},
			{Name: "Teknik Informatika", Weights: wv(.20, .05, .05, .20, .05, .10, .35), Alternatives: []string{"Statistika", "Matematika", "Teknik Elektro"}},
			{Name: "Matematika", Weights: wv(.15, .05, .05, .20, .05, .05, .45), Alternatives: []string{"Statistika", "Aktuaria", "Fisika"}},
			{Name: "Fisika", Weights: wv(.18, .07, .05, .20, .05, .05, .40), Alternatives: []string{"Matematika", "Teknik Mesin", "Teknik Elektro"}},
			{Name: "Kimia", Weights: wv(.18, .10, .07, .18, .07, .05, .35), Alternatives: []string{"Farmasi", "Teknik Kimia", "Biologi"}},
			{Name: "Biologi", Weights: wv(.20, .15, .10, .15, .10, .08, .22), Alternatives: []string{"Gizi", "Keperawatan", "Kimia"}},
			{Name: "Statistika", Weights: wv(.15, .07, .05, .20, .05, .05, .43), Alternatives: []string{"Matematika", "Aktuaria", "Teknik Informatika"}},
			{Name: "Aktuaria", Weights: wv(.15, .07, .05, .20, .05, .05, .43), Alternatives: []string{"Statistika", "Matematika", "Ekonomi"}},
			{Name: "Farmasi", Weights: wv(.18, .12, .08, .18, .08, .08, .28), Alternatives: []string{"Kimia", "Gizi", "Kesehatan Masyarakat"}},
			{Name: "Gizi", Weights: wv(.18, .12, .10, .15, .12, .08, .25), Alternatives: []string{"Keperawatan", "Farmasi", "Kesehatan Masyarakat"}},
			{Name: "Keperawatan", Weights: wv(.18, .12, .12, .12, .15, .08, .23), Alternatives: []string{"Gizi", "Kesehatan Masyarakat", "Farmasi"}},
			{Name: "Kesehatan Masyarakat", Weights: wv(.20, .12, .12, .12, .15, .08, .21), Alternatives: []string{"Keperawatan", "Gizi", "Biologi"}},
			{Name: "Ilmu Hukum", Weights: wv(.22, .18, .20, .08, .18, .10, .04), Alternatives: []string{"Administrasi Publik", "Ilmu Politik", "Sosiologi"}},
			{Name: "Ekonomi", Weights: wv(.20, .15, .10, .20, .10, .10, .15), Alternatives: []string{"Akuntansi", "Manajemen", "Bisnis"}},
			{Name: "Manajemen", Weights: wv(.20, .15, .12, .18, .12, .10, .13), Alternatives: []string{"Ekonomi", "Bisnis", "Akuntansi"}},
			{Name: "Akuntansi", Weights: wv(.18, .15, .10, .22, .10, .10, .15), Alternatives: []string{"Manajemen", "Ekonomi", "Bisnis"}},
			{Name: "Bisnis", Weights: wv(.20, .15, .12, .18, .12, .10, .13), Alternatives: []string{"Manajemen", "Ekonomi", "Akuntansi"}},
			{Name: "Psikologi", Weights: wv(.22, .15, .18, .10, .18, .10, .07), Alternatives: []string{"Ilmu Komunikasi", "Sosiologi", "Administrasi Publik"}},
			{Name: "Ilmu Komunikasi", Weights: wv(.20, .15, .22, .08, .20, .10, .05), Alternatives: []string{"Hubungan Internasional", "Administrasi Publik", "Psikologi"}},
			{Name: "Hubungan Internasional", Weights: wv(.20, .15, .15, .08, .17, .20, .05), Alternatives: []string{"Ilmu Komunikasi", "Ilmu Politik", "Sejarah"}},
			{Name: "Administrasi Publik", Weights: wv(.22, .15, .18, .08, .20, .10, .07), Alternatives: []string{"Ilmu Politik", "Sosiologi", "Ilmu Hukum"}},
			{Name: "Sastra Inggris", Weights: wv(.12, .12, .20, .05, .15, .31, .05), Alternatives: []string{"Pendidikan Bahasa Inggris", "Hubungan Internasional", "Ilmu Komunikasi"}},
			{Name: "Pendidikan Bahasa Indonesia", Weights: wv(.12, .12, .22, .05, .32, .12, .05), Alternatives: []string{"Sastra Inggris", "Ilmu Komunikasi", "Sosiologi"}},
			{Name: "Pendidikan Bahasa Inggris", Weights: wv(.12, .12, .18, .05, .12, .33, .08), Alternatives: []string{"Sastra Inggris", "Hubungan Internasional", "Ilmu Komunikasi"}},
			{Name: "Sosiologi", Weights: wv(.22, .17, .18, .08, .18, .10, .07), Alternatives: []string{"Ilmu Politik", "Administrasi Publik", "Psikologi"}},
			{Name: "Ilmu Politik", Weights: wv(.22, .17, .18, .08, .18, .10, .07), Alternatives: []string{"Sosiologi", "Hubungan Internasional", "Administrasi Publik"}},
			{Name: "Sejarah", Weights: wv(.20, .20, .18, .05, .22, .10, .05), Alternatives: []string{"Sosiologi", "Geografi", "Ilmu Politik"}},
			{Name: "Geografi", Weights: wv(.20, .15, .15, .12, .15, .08, .15), Alternatives: []string{"Sejarah", "Sosiologi", "Kesehatan Masyarakat"}},
		},
		Institutions: []InstitutionEntry{
			named("Universitas Indonesia (UI)", band(1, 880, 960)),
			named("Universitas Gadjah Mada (UGM)", band(1, 880, 960)),
			named("Institut Teknologi Bandung (ITB)", band(1, 890, 970)),
			named("Universitas Padjadjaran (Unpad)", band(1, 860, 940)),
			named("Institut Pertanian Bogor (IPB)", band(1, 850, 930)),
			named("Universitas Diponegoro (Undip)", band(2, 800, 870)),
			named("Universitas Airlangga (Unair)", band(2, 810, 880)),
			named("Universitas Brawijaya (UB)", band(2, 780, 855)),
			named("Institut Teknologi Sepuluh Nopember (ITS)", band(2, 810, 885)),
			named("Universitas Sebelas Maret (UNS)", band(2, 760, 840)),
			named("Universitas Hasanuddin (Unhas)", band(2, 760, 840)),
			named("Universitas Negeri Yogyakarta (UNY)", band(3, 710, 790)),
			named("Universitas Negeri Semarang (UNNES)", band(3, 700, 780)),
			named("Universitas Negeri Malang (UM)", band(3, 700, 780)),
			named("Universitas Andalas (Unand)", band(3, 700, 780)),
			named("Universitas Sumatera Utara (USU)", band(3, 690, 770)),
			named("Universitas Sriwijaya (Unsri)", band(4, 650, 730)),
			named("Universitas Lampung (Unila)", band(4, 640, 720)),
			named("Universitas Jember (Unej)", band(4, 635, 715)),
			named("Universitas Riau (Unri)", band(4, 630, 710)),
		},
	}
}
