// Package export writes pipeline output files.
package export

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
)

const (
	bundlePrefix = "parking_data_"
	latestBase   = "parking_data_latest"
	zonesPrefix  = "zones_only_"

	// AssetName is the file the app bundles.
	AssetName = "sf_parking_zones.json"
)

// VersionFormat dates bundle versions.
const VersionFormat = "20060102"

// Paths lists what a Write produced.
type Paths struct {
	Bundle    string `json:"bundle"`
	Latest    string `json:"latest"`
	ZonesOnly string `json:"zonesOnly"`
	Asset     string `json:"asset"`
}

type Writer struct {
	dir      string
	compress bool
	logger   *zap.Logger
}

func NewWriter(dir string, compress bool, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, compress: compress, logger: logger}
}

type zonesOnly struct {
	Version     string               `json:"version"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Zones       []domain.ParkingZone `json:"zones"`
}

// Write stores the dated bundle, the latest copy, a zones-only file and the
// app asset.
func (w *Writer) Write(b *domain.Bundle, asset *domain.Dataset) (*Paths, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	ext := ".json"
	if w.compress {
		ext = ".json.gz"
	}

	bundle, err := encode(b, w.compress)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	zones, err := encode(zonesOnly{Version: b.Version, GeneratedAt: b.GeneratedAt, Zones: b.Zones}, false)
	if err != nil {
		return nil, fmt.Errorf("encode zones: %w", err)
	}
	app, err := encode(asset, false)
	if err != nil {
		return nil, fmt.Errorf("encode asset: %w", err)
	}

	p := &Paths{
		Bundle:    filepath.Join(w.dir, bundlePrefix+b.Version+ext),
		Latest:    filepath.Join(w.dir, latestBase+ext),
		ZonesOnly: filepath.Join(w.dir, zonesPrefix+b.Version+".json"),
		Asset:     filepath.Join(w.dir, AssetName),
	}
	for _, f := range []struct {
		path string
		data []byte
	}{
		{p.Bundle, bundle},
		{p.Latest, bundle},
		{p.ZonesOnly, zones},
		{p.Asset, app},
	} {
		if err := writeFile(f.path, f.data); err != nil {
			return nil, err
		}
	}

	w.logger.Info("Output written",
		zap.String("bundle", p.Bundle),
		zap.String("asset", p.Asset),
		zap.Int("zones", len(b.Zones)),
		zap.Int("meters", len(b.Meters)))
	return p, nil
}

func encode(v interface{}, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	var out io.Writer = &buf
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(&buf)
		out = gz
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// FindLatest returns the newest bundle in dir: the latest copy first, then
// zones-only files, then dated bundles.
func FindLatest(dir string) (string, error) {
	for _, name := range []string{latestBase + ".json.gz", latestBase + ".json"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	for _, pattern := range []string{zonesPrefix + "*.json", bundlePrefix + "*.json*"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", err
		}
		var dated []string
		for _, m := range matches {
			if filepath.Ext(m) == ".tmp" || bytes.HasPrefix([]byte(filepath.Base(m)), []byte(latestBase)) {
				continue
			}
			dated = append(dated, m)
		}
		if len(dated) > 0 {
			sort.Sort(sort.Reverse(sort.StringSlice(dated)))
			return dated[0], nil
		}
	}
	return "", fmt.Errorf("no bundle found in %s: %w", dir, os.ErrNotExist)
}

// ReadBundle reads a plain or gzipped bundle or zones-only file.
func ReadBundle(path string) (*domain.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var src io.Reader = br
	if head, _ := br.Peek(2); len(head) == 2 && head[0] == 0x1f && head[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer gz.Close()
		src = gz
	}

	var b domain.Bundle
	if err := json.NewDecoder(src).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &b, nil
}
