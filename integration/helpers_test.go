//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/meigma/dwdradar"
	"github.com/meigma/dwdradar/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// --- Fixture Data ---

const (
	gridPath      = "climate_environment/CDC/grids_germany/hourly/radolan"
	recentDir     = gridPath + "/recent/bin"
	historicalDir = gridPath + "/historical/bin/2019"
)

// recentPayloads maps flat-archive instant tokens to payload bodies
// served under the recent grid directory.
var recentPayloads = map[string]string{
	"2508221150": "hourly grid payload 2025-08-22T11:50Z",
	"2508221250": "hourly grid payload 2025-08-22T12:50Z",
}

// bundleMembers maps member instant tokens to payload bodies packed
// into the historical August 2019 bundle.
var bundleMembers = map[string]string{
	"201908080050": "bundled grid payload 2019-08-08T00:50Z",
	"201908080150": "bundled grid payload 2019-08-08T01:50Z",
}

var (
	compositeMarker = []byte("latest composite payload")
	sitePayload     = []byte("site payload 2025-08-22T12:45Z")
)

// --- Open-Data Container Setup ---

var (
	serverOnce sync.Once
	serverURL  string
	serverErr  error
)

// getServer returns the shared file server URL, starting the container
// if needed. The container is shared across all tests for performance.
func getServer(tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	serverOnce.Do(func() {
		ctx := context.Background()
		serverURL, serverErr = startOpenDataContainer(ctx)
	})

	if serverErr != nil {
		tb.Fatalf("start open-data container: %v", serverErr)
	}

	return serverURL
}

// startOpenDataContainer starts an nginx container serving the fixture
// tree with autoindex listings and returns its base URL.
func startOpenDataContainer(ctx context.Context) (string, error) {
	stage, err := os.MkdirTemp("", "dwdradar-opendata-*")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	confPath := filepath.Join(stage, "default.conf")
	if err := os.WriteFile(confPath, []byte(nginxConf), 0o644); err != nil {
		return "", fmt.Errorf("write nginx conf: %w", err)
	}
	htmlDir := filepath.Join(stage, "html")
	if err := writeFixtureTree(htmlDir); err != nil {
		return "", fmt.Errorf("write fixture tree: %w", err)
	}

	req := testcontainers.ContainerRequest{
		Image:        "nginx:alpine",
		ExposedPorts: []string{"80/tcp"},
		Files: []testcontainers.ContainerFile{
			{
				HostFilePath:      confPath,
				ContainerFilePath: "/etc/nginx/conf.d/default.conf",
				FileMode:          0o644,
			},
			{
				// The html directory is copied into /usr/share/nginx,
				// replacing the image's default document root.
				HostFilePath:      htmlDir,
				ContainerFilePath: "/usr/share/nginx",
				FileMode:          0o755,
			},
		},
		WaitingFor: wait.ForHTTP("/" + recentDir + "/").WithPort("80/tcp").WithStatusCodeMatcher(isOKStatus),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start open-data container: %w", err)
	}

	// Note: Container cleanup is handled by testcontainers Reaper.

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "80/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve container port: %w", err)
	}

	return fmt.Sprintf("http://%s:%s", host, port.Port()), nil
}

const nginxConf = `server {
    listen 80;
    server_name localhost;

    location / {
        root /usr/share/nginx/html;
        autoindex on;
    }
}
`

func isOKStatus(status int) bool {
	return status >= 200 && status < 300
}

// writeFixtureTree lays out the archives under dir the way the open-data
// server publishes them.
func writeFixtureTree(dir string) error {
	files := map[string][]byte{
		"weather/radar/composit/rx/raa00-rx_10000-latest-dwd---bin": compositeMarker,
		"weather/radar/sites/dx/boo/raa00-dx_10000-2508221245-boo---bin": sitePayload,
	}
	for token, body := range recentPayloads {
		name := fmt.Sprintf("%s/raa01-rw_10000-%s-dwd---bin.gz", recentDir, token)
		files[name] = testutil.GzipBytes([]byte(body))
	}

	var members []testutil.Member
	for token, body := range bundleMembers {
		members = append(members, testutil.Member{
			Name: fmt.Sprintf("raa01-rw_10000-%s-dwd---bin", token),
			Data: []byte(body),
		})
	}
	files[historicalDir+"/RW-201908.tar.gz"] = testutil.TarGzBytes(members...)

	for path, content := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// --- Test Client Factory ---

// newTestClient creates a client configured for the local file server.
func newTestClient(tb testing.TB, serverURL string, opts ...dwdradar.Option) *dwdradar.Client {
	tb.Helper()

	allOpts := append([]dwdradar.Option{dwdradar.WithBaseURL(serverURL)}, opts...)

	client, err := dwdradar.NewClient(allOpts...)
	require.NoError(tb, err, "create test client")

	return client
}

// --- Request Helpers ---

// hourlyGridRequest builds a request for the hourly grid product.
func hourlyGridRequest(tb testing.TB, period dwdradar.Period, opts ...dwdradar.RequestOption) *dwdradar.Request {
	tb.Helper()

	allOpts := append([]dwdradar.RequestOption{
		dwdradar.WithResolution(dwdradar.ResolutionHourly),
		dwdradar.WithPeriod(period),
	}, opts...)

	req, err := dwdradar.NewRequest(dwdradar.ProductRadolanGrid, allOpts...)
	require.NoError(tb, err, "create request")

	return req
}

// collectAll drains a collection, separating results from errors.
func collectAll(tb testing.TB, client *dwdradar.Client, req *dwdradar.Request) ([]dwdradar.Result, []error) {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var results []dwdradar.Result
	var errs []error
	for result, err := range client.Collect(ctx, req) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}
	return results, errs
}
