package dwdradar

import "fmt"

// selector is the full identity of a request: the product plus the
// qualifiers that pick one directory on the open-data server.
type selector struct {
	product    Product
	site       Site
	format     Format
	resolution Resolution
	period     Period
}

// route describes where a selector's files live on the server and which
// filename rules apply when indexing them.
type route struct {
	// path is the directory relative to the server root, without
	// leading or trailing slash.
	path string
	// grid marks routes whose listings are filtered to /bin/
	// subdirectories and gzip archives.
	grid bool
}

// routeFor maps a selector onto its server directory. Selectors outside
// the published archive layout fail with ErrUnsupportedCombination.
func routeFor(sel selector) (route, error) {
	switch {
	case sel.product.IsGrid():
		return gridRoute(sel)
	case sel.product.IsComposite():
		return realtimeRoute(sel, "composit")
	case sel.product.IsRadolan():
		return realtimeRoute(sel, "radolan")
	case sel.product.IsSweep():
		return sweepRoute(sel)
	case sel.product.IsSite():
		return siteRoute(sel)
	}
	return route{}, fmt.Errorf("%w: unknown product %q", ErrUnsupportedCombination, sel.product)
}

// gridRoute serves the archived RADOLAN grids under
// climate_environment/CDC. Grids are keyed by resolution and period and
// take no site or format.
func gridRoute(sel selector) (route, error) {
	if sel.site != "" || sel.format != "" {
		return route{}, fmt.Errorf("%w: %s takes no site or format", ErrUnsupportedCombination, sel.product)
	}
	if !sel.resolution.valid() {
		return route{}, fmt.Errorf("%w: %s requires a resolution", ErrUnsupportedCombination, sel.product)
	}
	if !sel.period.valid() {
		return route{}, fmt.Errorf("%w: %s requires a period", ErrUnsupportedCombination, sel.product)
	}
	return route{
		path: fmt.Sprintf("climate_environment/CDC/grids_germany/%s/radolan/%s", sel.resolution, sel.period),
		grid: true,
	}, nil
}

// realtimeRoute serves the near-real-time weather directories. The
// composite directory is spelled "composit" on the server.
func realtimeRoute(sel selector, dir string) (route, error) {
	if sel.site != "" || sel.resolution != "" || sel.period != "" {
		return route{}, fmt.Errorf("%w: %s takes no site, resolution, or period", ErrUnsupportedCombination, sel.product)
	}
	if sel.format != "" && sel.format != FormatBinary && sel.format != FormatBUFR {
		return route{}, fmt.Errorf("%w: %s is not published as %s", ErrUnsupportedCombination, sel.product, sel.format)
	}
	return route{path: fmt.Sprintf("weather/radar/%s/%s", dir, sel.product)}, nil
}

// sweepRoute serves per-site OPERA sweeps, which exist only as BUFR or
// HDF5. HDF5 files live one level deeper than the site directory.
func sweepRoute(sel selector) (route, error) {
	if sel.resolution != "" || sel.period != "" {
		return route{}, fmt.Errorf("%w: %s takes no resolution or period", ErrUnsupportedCombination, sel.product)
	}
	if !sel.site.valid() {
		return route{}, fmt.Errorf("%w: %s requires a radar site", ErrUnsupportedCombination, sel.product)
	}
	switch sel.format {
	case FormatBUFR:
		return route{path: fmt.Sprintf("weather/radar/sites/%s/%s", sel.product, sel.site)}, nil
	case FormatHDF5:
		return route{path: fmt.Sprintf("weather/radar/sites/%s/%s/hdf5", sel.product, sel.site)}, nil
	}
	return route{}, fmt.Errorf("%w: %s requires the bufr or hdf5 format", ErrUnsupportedCombination, sel.product)
}

// siteRoute serves the remaining per-site products.
func siteRoute(sel selector) (route, error) {
	if sel.resolution != "" || sel.period != "" {
		return route{}, fmt.Errorf("%w: %s takes no resolution or period", ErrUnsupportedCombination, sel.product)
	}
	if !sel.site.valid() {
		return route{}, fmt.Errorf("%w: %s requires a radar site", ErrUnsupportedCombination, sel.product)
	}
	if sel.format != "" && sel.format != FormatBinary && sel.format != FormatBUFR {
		return route{}, fmt.Errorf("%w: %s is not published as %s", ErrUnsupportedCombination, sel.product, sel.format)
	}
	return route{path: fmt.Sprintf("weather/radar/sites/%s/%s", sel.product, sel.site)}, nil
}
