package night

import "github.com/spf13/viper"

// Default time zone of the site when none is configured.
const DefaultTimezone = "America/Denver"

// SiteFromConfig builds the site from the site.name, site.latitude,
// site.longitude and site.timezone settings. Unset settings fall back to
// Denver.
func SiteFromConfig(v *viper.Viper) (*Site, error) {
	v.SetDefault("site.name", Denver.Name)
	v.SetDefault("site.latitude", Denver.Latitude)
	v.SetDefault("site.longitude", Denver.Longitude)
	v.SetDefault("site.timezone", DefaultTimezone)

	return NewSite(
		v.GetString("site.name"),
		v.GetFloat64("site.latitude"),
		v.GetFloat64("site.longitude"),
		v.GetString("site.timezone"),
	)
}
