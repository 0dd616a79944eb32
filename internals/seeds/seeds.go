// Package seeds holds the built-in fallback content served when both the
// content backend and the local mirror have nothing to offer. The shapes
// match the backend wire format so the dashboard renders them unchanged.
package seeds

import "kursusku_backend/pkg/authoring"

func Categories() []authoring.Category {
	return []authoring.Category{
		{ID: "seed-cat-1", Name: "Matematika", Status: "Active"},
		{ID: "seed-cat-2", Name: "Bahasa Inggris", Status: "Active"},
		{ID: "seed-cat-3", Name: "Sains", Status: "Active"},
		{ID: "seed-cat-4", Name: "Teknologi", Status: "Active"},
	}
}

func Subcategories(categoryID string) []authoring.Category {
	subs := map[string][]authoring.Category{
		"seed-cat-1": {
			{ID: "seed-sub-11", Name: "Aljabar", CategoryID: "seed-cat-1", Status: "Active"},
			{ID: "seed-sub-12", Name: "Geometri", CategoryID: "seed-cat-1", Status: "Active"},
		},
		"seed-cat-2": {
			{ID: "seed-sub-21", Name: "Grammar", CategoryID: "seed-cat-2", Status: "Active"},
			{ID: "seed-sub-22", Name: "Conversation", CategoryID: "seed-cat-2", Status: "Active"},
		},
		"seed-cat-3": {
			{ID: "seed-sub-31", Name: "Fisika", CategoryID: "seed-cat-3", Status: "Active"},
			{ID: "seed-sub-32", Name: "Biologi", CategoryID: "seed-cat-3", Status: "Active"},
		},
		"seed-cat-4": {
			{ID: "seed-sub-41", Name: "Pemrograman", CategoryID: "seed-cat-4", Status: "Active"},
		},
	}
	return subs[categoryID]
}

type HomepageSection struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type Homepage struct {
	Hero     HomepageSection   `json:"hero"`
	Sections []HomepageSection `json:"sections"`
}

func HomepageContent() Homepage {
	return Homepage{
		Hero: HomepageSection{
			Title:    "Belajar kapan saja, di mana saja",
			Subtitle: "Video pembelajaran terstruktur untuk semua jenjang",
		},
		Sections: []HomepageSection{
			{Title: "Topik Terbaru", Subtitle: "Materi yang baru dipublikasikan"},
			{Title: "Kategori Populer", Subtitle: "Jelajahi berdasarkan bidang"},
		},
	}
}

type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order"`
}

func FAQs() []FAQ {
	return []FAQ{
		{ID: "seed-faq-1", Question: "Bagaimana cara mendaftar?", Answer: "Klik tombol daftar di halaman utama dan isi formulir.", Order: 1},
		{ID: "seed-faq-2", Question: "Apakah ada materi gratis?", Answer: "Ya, topik dengan label gratis dapat diakses tanpa berlangganan.", Order: 2},
		{ID: "seed-faq-3", Question: "Bagaimana cara menghubungi dukungan?", Answer: "Gunakan formulir kontak atau email support kami.", Order: 3},
	}
}

type LegalDocument struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func Privacy() LegalDocument {
	return LegalDocument{
		Slug:  "privacy",
		Title: "Kebijakan Privasi",
		Body:  "Kami menghargai privasi Anda. Data pribadi hanya digunakan untuk menyediakan layanan pembelajaran.",
	}
}

func Terms() LegalDocument {
	return LegalDocument{
		Slug:  "terms",
		Title: "Syarat dan Ketentuan",
		Body:  "Dengan menggunakan platform ini Anda menyetujui syarat dan ketentuan yang berlaku.",
	}
}
