package store

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"stockanalyze/market"
)

// Export writes every cached series to an xz-compressed tar snapshot, one
// CSV entry per symbol. The snapshot moves a cache between machines or
// backends.
func Export(ctx context.Context, b Backend, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create archive: %w", err)
	}
	defer f.Close()

	xw, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("store: xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	symbols, err := b.Symbols(ctx)
	if err != nil {
		return err
	}
	for _, symbol := range symbols {
		bars, err := b.Load(ctx, symbol)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := EncodeBars(&buf, bars); err != nil {
			return fmt.Errorf("store: encode %s: %w", symbol, err)
		}
		hdr := &tar.Header{
			Name:    symbol + ".csv",
			Mode:    0o644,
			Size:    int64(buf.Len()),
			ModTime: time.Now(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("store: archive %s: %w", symbol, err)
		}
		if _, err := io.Copy(tw, &buf); err != nil {
			return fmt.Errorf("store: archive %s: %w", symbol, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("store: close tar: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("store: close xz: %w", err)
	}
	return f.Close()
}

// Import loads a snapshot written by Export into the backend. Existing
// series for the archived symbols are replaced; bars are re-validated and
// re-sorted on the way in.
func Import(ctx context.Context, b Backend, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("store: open archive: %w", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("store: xz reader: %w", err)
	}
	tr := tar.NewReader(xr)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("store: read archive: %w", err)
		}
		symbol := strings.TrimSuffix(hdr.Name, ".csv")
		if symbol == hdr.Name || symbol == "" {
			continue
		}
		bars, err := DecodeBars(tr)
		if err != nil {
			return fmt.Errorf("store: decode %s: %w", symbol, err)
		}
		bars = market.Merge(nil, validBars(symbol, bars))
		if err := b.Save(ctx, symbol, bars); err != nil {
			return err
		}
	}
}
