package linkcheck

import (
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Pages scans rendered HTML in fsys and checks that every internal anchor
// target exists. basePath is the site base URL path ("/" or "/project/");
// links outside it are not checked.
func Pages(fsys fs.FS, basePath string) ([]Broken, error) {
	var pages []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(path.Ext(p), ".html") {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rendered pages: %w", err)
	}
	sort.Strings(pages)

	var broken []Broken
	for _, p := range pages {
		hrefs, err := anchors(fsys, p)
		if err != nil {
			return nil, err
		}
		for _, href := range hrefs {
			target, ok := internalTarget(p, href, basePath)
			if !ok {
				continue
			}
			if !exists(fsys, target) {
				broken = append(broken, Broken{Kind: KindPage, Source: p, Target: href})
			}
		}
	}
	return broken, nil
}

func anchors(fsys fs.FS, p string) ([]string, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open rendered page %s: %w", p, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered page %s: %w", p, err)
	}
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	return hrefs, nil
}

// internalTarget maps an href found in page p to a path inside the output
// tree. It returns false for external, fragment-only and out-of-site links,
// and for links to Markdown sources, which the Markdown check owns.
func internalTarget(p, href, basePath string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	if ext := strings.ToLower(path.Ext(u.Path)); ext == ".md" || ext == ".mdx" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/") {
		if !strings.HasPrefix(u.Path, basePath) {
			return "", false
		}
		rel := strings.TrimPrefix(u.Path, basePath)
		return cleanTarget(rel, strings.HasSuffix(u.Path, "/")), true
	}
	rel := path.Join(path.Dir(p), u.Path)
	return cleanTarget(rel, strings.HasSuffix(u.Path, "/")), true
}

func cleanTarget(rel string, dir bool) string {
	rel = path.Clean(rel)
	if rel == "." || rel == "" {
		return "index.html"
	}
	if dir {
		return path.Join(rel, "index.html")
	}
	return rel
}

func exists(fsys fs.FS, target string) bool {
	if strings.HasPrefix(target, "../") || target == ".." {
		return false
	}
	info, err := fs.Stat(fsys, target)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = fs.Stat(fsys, path.Join(target, "index.html"))
		return err == nil
	}
	return true
}
