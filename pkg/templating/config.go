package templating

// TemplateConfig holds all configuration options for the page templates.
type TemplateConfig struct {
	// TemplateDir, when set, is a directory of *.tmpl.html and *.part.html files
	// used instead of the embedded templates.
	TemplateDir string `json:"template_dir" yaml:"template_dir"`

	// SiteName is the brand shown in titles, JSON-LD and the footer.
	SiteName string `json:"site_name" yaml:"site_name"`

	// Domain is the absolute origin used for canonical and OpenGraph URLs. It is
	// copied from the site configuration.
	Domain string `json:"-" yaml:"-"`

	// MaxHintsPerSection caps the across and down hint lists of a post.
	MaxHintsPerSection int `json:"max_hints_per_section" yaml:"max_hints_per_section"`

	// CopyrightYear is printed in the footer.
	CopyrightYear int `json:"copyright_year" yaml:"copyright_year"`
}

// DefaultConfig returns a TemplateConfig with the production site values.
func DefaultConfig() TemplateConfig {
	return TemplateConfig{
		TemplateDir:        "",
		SiteName:           "십자가로세로",
		Domain:             "https://crossero.com",
		MaxHintsPerSection: 20,
		CopyrightYear:      2026,
	}
}
