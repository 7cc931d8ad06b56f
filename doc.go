// Package dwdradar retrieves weather-radar and RADOLAN climate-grid data
// from the DWD open-data archive (https://opendata.dwd.de).
//
// A [Request] describes one logical query: a product, an optional site and
// format, and either explicit timestamps, a start/end range, or the latest
// available file. The [Client] resolves the request against a freshly built
// remote file index, downloads the matching archives, extracts the
// per-timestamp payload, and yields results lazily.
//
// # Quick Start
//
// Fetch one hourly RADOLAN grid snapshot:
//
//	c, err := dwdradar.NewClient()
//	if err != nil {
//	    return err
//	}
//	req, err := dwdradar.NewRequest(dwdradar.ProductRadolanGrid,
//	    dwdradar.WithResolution(dwdradar.ResolutionHourly),
//	    dwdradar.WithPeriod(dwdradar.PeriodHistorical),
//	    dwdradar.WithTimestamps(time.Date(2019, 8, 8, 0, 50, 0, 0, time.UTC)),
//	)
//	if err != nil {
//	    return err
//	}
//	for res, err := range c.Collect(ctx, req) {
//	    if err != nil {
//	        log.Printf("collect %s: %v", res.Timestamp, err)
//	        continue
//	    }
//	    process(res.Timestamp, res.Payload)
//	}
//
// Grab the freshest national composite:
//
//	req, err := dwdradar.NewRequest(dwdradar.ProductRX, dwdradar.Latest())
//	res, err := c.Latest(ctx, req)
//
// # Products
//
// The grid product [ProductRadolanGrid] supports explicit timestamps and
// ranges; historical months are bundled into tar archives and resolved by
// month bucket, recent instants are flat gzip files. All other products
// (composites, near-real-time RADOLAN, per-site moments, OPERA sweeps) are
// published as rolling files and support only [Latest].
//
// # Caching
//
// Downloads and directory listings are cached in memory with short TTLs by
// the [opendata] transport. Extracted payloads can additionally be persisted
// with a [store.Store]:
//
//	st, err := disk.New("/var/lib/dwdradar")
//	c, err := dwdradar.NewClient(
//	    dwdradar.WithStore(st),
//	    dwdradar.WithWriteLocal(true),
//	)
//
// Payloads are opaque bytes: decoding RADOLAN, DX, BUFR, or ODIM HDF5
// content is out of scope for this package.
package dwdradar
