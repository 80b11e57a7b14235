package night

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteFromConfigDefaults(t *testing.T) {
	s, err := SiteFromConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "Denver", s.Name)
	assert.Equal(t, Denver.Latitude, s.Latitude)
	assert.Equal(t, Denver.Longitude, s.Longitude)
	assert.Equal(t, DefaultTimezone, s.Location.String())
}

func TestSiteFromConfig(t *testing.T) {
	v := viper.New()
	v.Set("site.name", "Fairbanks")
	v.Set("site.latitude", 64.8378)
	v.Set("site.longitude", -147.7164)
	v.Set("site.timezone", "America/Anchorage")

	s, err := SiteFromConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "Fairbanks", s.Name)
	assert.Equal(t, 64.8378, s.Latitude)
	assert.Equal(t, "America/Anchorage", s.Location.String())
}

func TestSiteFromConfigBadZone(t *testing.T) {
	v := viper.New()
	v.Set("site.timezone", "Mars/Olympus_Mons")

	_, err := SiteFromConfig(v)
	assert.Error(t, err)
}
