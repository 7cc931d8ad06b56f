package dwdradar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteFor_Grid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resolution Resolution
		period     Period
		wantPath   string
	}{
		{
			name:       "hourly recent",
			resolution: ResolutionHourly,
			period:     PeriodRecent,
			wantPath:   "climate_environment/CDC/grids_germany/hourly/radolan/recent",
		},
		{
			name:       "daily historical",
			resolution: ResolutionDaily,
			period:     PeriodHistorical,
			wantPath:   "climate_environment/CDC/grids_germany/daily/radolan/historical",
		},
		{
			name:       "five minutes historical",
			resolution: Resolution5Minutes,
			period:     PeriodHistorical,
			wantPath:   "climate_environment/CDC/grids_germany/5_minutes/radolan/historical",
		},
		{
			name:       "fifteen minutes recent",
			resolution: Resolution15Minutes,
			period:     PeriodRecent,
			wantPath:   "climate_environment/CDC/grids_germany/15_minutes/radolan/recent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt, err := routeFor(selector{
				product:    ProductRadolanGrid,
				resolution: tt.resolution,
				period:     tt.period,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, rt.path)
			assert.True(t, rt.grid)
		})
	}
}

func TestRouteFor_RealtimeAndSites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sel      selector
		wantPath string
	}{
		{
			name:     "composite rx",
			sel:      selector{product: ProductRX},
			wantPath: "weather/radar/composit/rx",
		},
		{
			name:     "composite fx binary",
			sel:      selector{product: ProductFX, format: FormatBinary},
			wantPath: "weather/radar/composit/fx",
		},
		{
			name:     "radolan rw",
			sel:      selector{product: ProductRW},
			wantPath: "weather/radar/radolan/rw",
		},
		{
			name:     "site dx",
			sel:      selector{product: ProductDX, site: SiteBOO},
			wantPath: "weather/radar/sites/dx/boo",
		},
		{
			name:     "site px250 bufr",
			sel:      selector{product: ProductPX250, site: SiteESS, format: FormatBUFR},
			wantPath: "weather/radar/sites/px250/ess",
		},
		{
			name:     "sweep bufr",
			sel:      selector{product: ProductSweepVolV, site: SiteESS, format: FormatBUFR},
			wantPath: "weather/radar/sites/sweep_vol_v/ess",
		},
		{
			name:     "sweep hdf5 lives one level deeper",
			sel:      selector{product: ProductSweepPcpZ, site: SiteASB, format: FormatHDF5},
			wantPath: "weather/radar/sites/sweep_pcp_z/asb/hdf5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt, err := routeFor(tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, rt.path)
			assert.False(t, rt.grid)
		})
	}
}

func TestRouteFor_UnsupportedCombinations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sel  selector
	}{
		{
			name: "grid without period",
			sel:  selector{product: ProductRadolanGrid, resolution: ResolutionHourly},
		},
		{
			name: "grid without resolution",
			sel:  selector{product: ProductRadolanGrid, period: PeriodRecent},
		},
		{
			name: "grid with site",
			sel:  selector{product: ProductRadolanGrid, resolution: ResolutionHourly, period: PeriodRecent, site: SiteBOO},
		},
		{
			name: "composite with site",
			sel:  selector{product: ProductRX, site: SiteBOO},
		},
		{
			name: "composite with resolution",
			sel:  selector{product: ProductRX, resolution: ResolutionHourly},
		},
		{
			name: "composite as hdf5",
			sel:  selector{product: ProductRX, format: FormatHDF5},
		},
		{
			name: "site product without site",
			sel:  selector{product: ProductDX},
		},
		{
			name: "site product with unknown site",
			sel:  selector{product: ProductDX, site: Site("xxx")},
		},
		{
			name: "site product with period",
			sel:  selector{product: ProductDX, site: SiteBOO, period: PeriodRecent},
		},
		{
			name: "sweep without format",
			sel:  selector{product: ProductSweepVolZ, site: SiteBOO},
		},
		{
			name: "sweep as binary",
			sel:  selector{product: ProductSweepVolZ, site: SiteBOO, format: FormatBinary},
		},
		{
			name: "sweep without site",
			sel:  selector{product: ProductSweepVolZ, format: FormatBUFR},
		},
		{
			name: "unknown product",
			sel:  selector{product: Product("nope")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := routeFor(tt.sel)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedCombination)
		})
	}
}
