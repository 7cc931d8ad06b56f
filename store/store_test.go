package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "without period",
			key:  Key{Parameter: "rx", Resolution: "5_minutes", Entity: "rx_5_minutes_202001011215"},
			want: "rx/5_minutes/rx_5_minutes_202001011215",
		},
		{
			name: "with period",
			key:  Key{Parameter: "kl", Resolution: "daily", Period: "historical", Entity: "station_id_7370"},
			want: "kl/daily/historical/station_id_7370",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestRadarKey(t *testing.T) {
	t.Parallel()

	key := RadarKey("dx", "5_minutes", time.Date(2020, 1, 1, 12, 15, 0, 0, time.UTC))
	assert.Equal(t, "dx/5_minutes/dx_5_minutes_202001011215", key.String())
	assert.Empty(t, key.Period)
}

func TestRadarKey_NormalizesZone(t *testing.T) {
	t.Parallel()

	cet := time.FixedZone("CET", 60*60)
	key := RadarKey("rw", "hourly", time.Date(2019, 8, 8, 1, 50, 0, 0, cet))
	assert.Equal(t, "rw/hourly/rw_hourly_201908080050", key.String())
}

func TestStationKey(t *testing.T) {
	t.Parallel()

	key := StationKey("kl", "daily", "historical", 7370)
	assert.Equal(t, "kl/daily/historical/station_id_7370", key.String())
}
