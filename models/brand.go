package models

// Brand is one category key of the discovery walk. The numeric ID is the
// site-native search parameter; the slug is only used for logging.
type Brand struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}
