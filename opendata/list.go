package opendata

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// List returns the absolute URLs of the files in one directory.
func (c *Client) List(ctx context.Context, dir string) ([]string, error) {
	pageURL, err := c.dirURL(dir)
	if err != nil {
		return nil, err
	}
	files, _, err := c.listPage(ctx, pageURL)
	return files, err
}

// ListRecursive returns the absolute URLs of every file under dir,
// walking subdirectories. The result order follows the walk and carries
// no meaning.
func (c *Client) ListRecursive(ctx context.Context, dir string) ([]string, error) {
	pageURL, err := c.dirURL(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	queue := []string{pageURL}
	for len(queue) > 0 {
		page := queue[0]
		queue = queue[1:]

		pageFiles, subdirs, err := c.listPage(ctx, page)
		if err != nil {
			return nil, err
		}
		files = append(files, pageFiles...)
		queue = append(queue, subdirs...)
	}
	return files, nil
}

// listPage fetches one directory page, serving it from the listing
// cache when fresh, and parses it into file and subdirectory URLs.
func (c *Client) listPage(ctx context.Context, pageURL string) (files, dirs []string, err error) {
	body, ok := c.listingCache.Get(pageURL)
	if ok {
		c.log().Debug("listing cache hit", "url", pageURL)
	} else {
		// Listing pages share the payload singleflight group under a
		// distinct key space, so a page and a file with the same URL
		// never collide.
		result, fetchErr, _ := c.group.Do("list\x00"+pageURL, func() (any, error) {
			if data, ok := c.listingCache.Get(pageURL); ok {
				return data, nil
			}
			data, err := c.doGet(ctx, pageURL)
			if err != nil {
				return nil, err
			}
			c.listingCache.Put(pageURL, data) //nolint:errcheck // caching is opportunistic
			return data, nil
		})
		if fetchErr != nil {
			return nil, nil, fetchErr
		}
		body, _ = result.([]byte)
	}
	return parseListing(pageURL, body)
}

// parseListing extracts entry URLs from an autoindex page.
//
// Only relative child links count: the parent link, absolute links, and
// the index's sort-order query links are navigation, not content. An
// href ending in "/" is a subdirectory.
func parseListing(pageURL string, body []byte) (files, dirs []string, err error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse page url %q: %w", pageURL, err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse listing %s: %w", pageURL, err)
	}

	for _, href := range anchorHrefs(doc) {
		if href == "" || strings.HasPrefix(href, "?") || strings.HasPrefix(href, "#") {
			continue
		}
		if href == ".." || href == "../" || strings.HasPrefix(href, "/") {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil || ref.IsAbs() {
			continue
		}
		resolved := base.ResolveReference(ref)
		resolved.RawQuery = ""
		resolved.Fragment = ""

		abs := resolved.String()
		if abs == pageURL || !strings.HasPrefix(abs, pageURL) {
			continue
		}
		if strings.HasSuffix(abs, "/") {
			dirs = append(dirs, abs)
		} else {
			files = append(files, abs)
		}
	}
	return files, dirs, nil
}

// anchorHrefs collects every <a href> in document order.
func anchorHrefs(doc *html.Node) []string {
	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					hrefs = append(hrefs, attr.Val)
					break
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return hrefs
}

// dirURL joins dir onto the base URL with the trailing slash that
// relative listing links resolve against.
func (c *Client) dirURL(dir string) (string, error) {
	joined, err := url.JoinPath(c.baseURL, dir)
	if err != nil {
		return "", fmt.Errorf("join %q: %w", dir, err)
	}
	if !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined, nil
}
