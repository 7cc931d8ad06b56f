package opendata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/dwdradar/internal/testutil"
)

func TestParseListing(t *testing.T) {
	t.Parallel()

	page := []byte(`<html><body>
<a href="../">../</a>
<a href="?C=M;O=A">Last modified</a>
<a href="?C=S;O=A">Size</a>
<a href="/absolute/escape">absolute</a>
<a href="https://example.com/elsewhere">external</a>
<a href="2019/">2019/</a>
<a href="raa01-rw_10000-1908080050-dwd---bin.gz">raa01-rw_10000-1908080050-dwd---bin.gz</a>
<a href="RW-20001231.pdf">RW-20001231.pdf</a>
</body></html>`)

	files, dirs, err := parseListing("https://opendata.dwd.de/recent/bin/", page)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://opendata.dwd.de/recent/bin/raa01-rw_10000-1908080050-dwd---bin.gz",
		"https://opendata.dwd.de/recent/bin/RW-20001231.pdf",
	}, files)
	assert.Equal(t, []string{"https://opendata.dwd.de/recent/bin/2019/"}, dirs)
}

func TestParseListing_TruncatedPage(t *testing.T) {
	t.Parallel()

	// The HTML parser repairs broken markup; a truncated page still
	// yields the anchors it contains.
	page := []byte(`<html><body><a href="file.gz">file.gz`)
	files, dirs, err := parseListing("https://opendata.dwd.de/dir/", page)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://opendata.dwd.de/dir/file.gz"}, files)
	assert.Empty(t, dirs)
}

func TestList_SingleDirectory(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer(t, map[string][]byte{
		"weather/radar/composit/rx/raa00-rx-latest.bin":  []byte("x"),
		"weather/radar/composit/rx/sub/raa00-rx-old.bin": []byte("y"),
	})
	client, err := New(WithBaseURL(srv.URL))
	require.NoError(t, err)

	files, err := client.List(context.Background(), "weather/radar/composit/rx")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/weather/radar/composit/rx/raa00-rx-latest.bin"}, files)
}

func TestListRecursive_WalksSubdirectories(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer(t, map[string][]byte{
		"historical/bin/2018/RW201812.tar.gz": []byte("a"),
		"historical/bin/2019/RW201901.tar.gz": []byte("b"),
		"historical/bin/2019/RW201902.tar.gz": []byte("c"),
		"historical/DESCRIPTION.pdf":          []byte("d"),
	})
	client, err := New(WithBaseURL(srv.URL))
	require.NoError(t, err)

	files, err := client.ListRecursive(context.Background(), "historical")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		srv.URL + "/historical/bin/2018/RW201812.tar.gz",
		srv.URL + "/historical/bin/2019/RW201901.tar.gz",
		srv.URL + "/historical/bin/2019/RW201902.tar.gz",
		srv.URL + "/historical/DESCRIPTION.pdf",
	}, files)
}

func TestListRecursive_CachesPages(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer(t, map[string][]byte{
		"recent/bin/file-1908080050.gz": []byte("a"),
	})
	client, err := New(WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.ListRecursive(context.Background(), "recent")
	require.NoError(t, err)
	_, err = client.ListRecursive(context.Background(), "recent")
	require.NoError(t, err)

	assert.Equal(t, 1, srv.Hits("recent"))
	assert.Equal(t, 1, srv.Hits("recent/bin"))
}

func TestList_MissingDirectory(t *testing.T) {
	t.Parallel()

	srv := testutil.NewServer(t, map[string][]byte{
		"known/file-1908080050.gz": []byte("a"),
	})
	client, err := New(WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.List(context.Background(), "unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
}
