package dwdradar

// Product identifies a radar or climate-grid product on the open-data
// server. The value doubles as the product's path segment.
type Product string

// Nationwide composite products under weather/radar/composit.
const (
	ProductFX Product = "fx"
	ProductPG Product = "pg"
	ProductWX Product = "wx"
	ProductWN Product = "wn"
	ProductRX Product = "rx"
)

// Near-real-time RADOLAN products under weather/radar/radolan.
const (
	ProductRW Product = "rw"
	ProductRY Product = "ry"
	ProductSF Product = "sf"
)

// Per-site products under weather/radar/sites.
const (
	ProductDX    Product = "dx"
	ProductLMax  Product = "lmax"
	ProductPE    Product = "pe"
	ProductPF    Product = "pf"
	ProductPL    Product = "pl"
	ProductPR    Product = "pr"
	ProductPX    Product = "px"
	ProductPX250 Product = "px250"
	ProductPZ    Product = "pz"
)

// OPERA sweep products, per-site, available as BUFR or ODIM HDF5.
const (
	ProductSweepPcpV Product = "sweep_pcp_v"
	ProductSweepPcpZ Product = "sweep_pcp_z"
	ProductSweepVolV Product = "sweep_vol_v"
	ProductSweepVolZ Product = "sweep_vol_z"
)

// ProductRadolanGrid is the gridded RADOLAN climatology under
// climate_environment/CDC/grids_germany. It is the only product with full
// timestamp resolution; historical months are bundled tar archives.
const ProductRadolanGrid Product = "radolan_grid"

// IsGrid reports whether p is the bundled grid product.
func (p Product) IsGrid() bool { return p == ProductRadolanGrid }

// IsComposite reports whether p is a nationwide composite product.
func (p Product) IsComposite() bool {
	switch p {
	case ProductFX, ProductPG, ProductWX, ProductWN, ProductRX:
		return true
	}
	return false
}

// IsRadolan reports whether p is a near-real-time RADOLAN product.
func (p Product) IsRadolan() bool {
	switch p {
	case ProductRW, ProductRY, ProductSF:
		return true
	}
	return false
}

// IsSweep reports whether p is an OPERA sweep product.
func (p Product) IsSweep() bool {
	switch p {
	case ProductSweepPcpV, ProductSweepPcpZ, ProductSweepVolV, ProductSweepVolZ:
		return true
	}
	return false
}

// IsSite reports whether p is published per radar site. Sweep products
// are site products too.
func (p Product) IsSite() bool {
	if p.IsSweep() {
		return true
	}
	switch p {
	case ProductDX, ProductLMax, ProductPE, ProductPF, ProductPL,
		ProductPR, ProductPX, ProductPX250, ProductPZ:
		return true
	}
	return false
}

// Site identifies one of the DWD radar sites by its three-letter code.
type Site string

// Radar sites.
const (
	SiteASB Site = "asb"
	SiteBOO Site = "boo"
	SiteDRS Site = "drs"
	SiteEIS Site = "eis"
	SiteESS Site = "ess"
	SiteFBG Site = "fbg"
	SiteFLD Site = "fld"
	SiteHNR Site = "hnr"
	SiteISN Site = "isn"
	SiteMEM Site = "mem"
	SiteNEU Site = "neu"
	SiteNHB Site = "nhb"
	SiteOFT Site = "oft"
	SitePRO Site = "pro"
	SiteROS Site = "ros"
	SiteTUR Site = "tur"
	SiteUMD Site = "umd"
)

var sites = map[Site]struct{}{
	SiteASB: {}, SiteBOO: {}, SiteDRS: {}, SiteEIS: {}, SiteESS: {},
	SiteFBG: {}, SiteFLD: {}, SiteHNR: {}, SiteISN: {}, SiteMEM: {},
	SiteNEU: {}, SiteNHB: {}, SiteOFT: {}, SitePRO: {}, SiteROS: {},
	SiteTUR: {}, SiteUMD: {},
}

func (s Site) valid() bool {
	_, ok := sites[s]
	return ok
}

// Format selects the encoding for products published in more than one.
type Format string

// Formats.
const (
	FormatBinary Format = "binary"
	FormatBUFR   Format = "bufr"
	FormatHDF5   Format = "hdf5"
)

func (f Format) valid() bool {
	switch f {
	case FormatBinary, FormatBUFR, FormatHDF5:
		return true
	}
	return false
}

// Resolution is the time resolution of the grid product.
type Resolution string

// Grid resolutions.
const (
	Resolution5Minutes  Resolution = "5_minutes"
	Resolution15Minutes Resolution = "15_minutes"
	ResolutionHourly    Resolution = "hourly"
	ResolutionDaily     Resolution = "daily"
)

func (r Resolution) valid() bool {
	switch r {
	case Resolution5Minutes, Resolution15Minutes, ResolutionHourly, ResolutionDaily:
		return true
	}
	return false
}

// subHourly reports whether grid files at this resolution are published
// more often than once per hour.
func (r Resolution) subHourly() bool {
	return r == Resolution5Minutes || r == Resolution15Minutes
}

// Period selects the historical or recent branch of the grid archive.
type Period string

// Periods.
const (
	PeriodHistorical Period = "historical"
	PeriodRecent     Period = "recent"
)

func (p Period) valid() bool {
	return p == PeriodHistorical || p == PeriodRecent
}
