package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/fpstats/core/fpimage"
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
)

// ErrNoPNGFile is returned when a fingerprint image has nowhere to go.
var ErrNoPNGFile = errors.New("png-file is required for fingerprint images")

// ErrOffsetOutOfRange is returned when a diff offset shifts the second
// fingerprint past the end of the longer one.
var ErrOffsetOutOfRange = errors.New("offset out of range")

// DiffReport describes a rendered fingerprint diff.
type DiffReport struct {
	Offset       int     `json:"offset"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Overlap      int     `json:"overlap"`
	BitErrorRate float64 `json:"bit_error_rate"`
}

// LoadFingerprint resolves arg into a fingerprint. With fromStore set, an integer
// arg is a fingerprint id in the store. Otherwise arg names a file, or "-" for stdin.
func LoadFingerprint(ctx context.Context, store contract.FingerprintStore, arg string, fromStore bool, stdin io.Reader) (schema.Fingerprint, error) {
	if fromStore {
		if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
			rec, err := store.GetFingerprint(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to load fingerprint %d: %w", id, err)
			}
			return rec.Fingerprint, nil
		}
	}

	data, err := readArg(arg, stdin)
	if err != nil {
		return nil, err
	}
	fp, err := schema.ParseFingerprint(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse fingerprint %s: %w", arg, err)
	}
	return fp, nil
}

func readArg(arg string, stdin io.Reader) ([]byte, error) {
	var data []byte
	var err error
	if arg == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fingerprint %s: %w", arg, err)
	}
	return data, nil
}

// fpcalcDuration returns the DURATION= value of fpcalc output in whole seconds,
// or 0 when the text carries none.
func fpcalcDuration(text string) int {
	for line := range strings.Lines(text) {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "DURATION="); ok {
			if d, err := strconv.ParseFloat(v, 64); err == nil && d > 0 {
				return int(d)
			}
		}
	}
	return 0
}

// RenderPNG renders fp and returns the PNG bytes.
func RenderPNG(fp schema.Fingerprint) ([]byte, error) {
	return encodeImage(fpimage.Render(fp))
}

// DiffPNG renders the aligned diff of fp1 and fp2 and returns the PNG bytes.
// The offset may not exceed the length of the longer fingerprint in either direction.
func DiffPNG(fp1, fp2 schema.Fingerprint, offset int) ([]byte, DiffReport, error) {
	if limit := max(len(fp1), len(fp2)); offset > limit || offset < -limit {
		return nil, DiffReport{}, fmt.Errorf("%w: %d exceeds %d frames", ErrOffsetOutOfRange, offset, limit)
	}
	img := fpimage.RenderDiff(fp1, fp2, offset)
	report := DiffReport{
		Offset:       offset,
		Width:        img.Bounds().Dx(),
		Height:       img.Bounds().Dy(),
		Overlap:      len(fpimage.XOR(fp1, fp2, offset)),
		BitErrorRate: fpimage.BitErrorRate(fp1, fp2, offset),
	}
	data, err := encodeImage(img)
	return data, report, err
}

func encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := fpimage.EncodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ExecuteRenderFingerprint writes the bitmap of one fingerprint to cfg.PNGFile.
func ExecuteRenderFingerprint(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, arg string) error {
	if cfg.PNGFile == "" {
		return ErrNoPNGFile
	}
	fp, err := LoadFingerprint(ctx, mgr.GetStatsStore(), arg, cfg.FromStore, os.Stdin)
	if err != nil {
		return err
	}
	data, err := RenderPNG(fp)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.PNGFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.PNGFile, err)
	}
	contract.LoggerFrom(ctx).Info("Fingerprint rendered", "file", cfg.PNGFile, "frames", len(fp))
	return nil
}

// ExecuteDiffFingerprints writes the aligned diff of two fingerprints to cfg.PNGFile
// and prints a one-line summary.
func ExecuteDiffFingerprints(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, a, b string) error {
	if cfg.PNGFile == "" {
		return ErrNoPNGFile
	}
	store := mgr.GetStatsStore()
	fp1, err := LoadFingerprint(ctx, store, a, cfg.FromStore, os.Stdin)
	if err != nil {
		return err
	}
	fp2, err := LoadFingerprint(ctx, store, b, cfg.FromStore, os.Stdin)
	if err != nil {
		return err
	}
	data, report, err := DiffPNG(fp1, fp2, cfg.Offset)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.PNGFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.PNGFile, err)
	}
	_, err = fmt.Fprintf(os.Stdout, "offset %d: %d overlapping frames, bit error rate %.4f (%dx%d)\n",
		report.Offset, report.Overlap, report.BitErrorRate, report.Width, report.Height)
	return err
}

// ExecuteAddFingerprint stores the fingerprint read from arg and prints its id.
func ExecuteAddFingerprint(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, arg string) error {
	data, err := readArg(arg, os.Stdin)
	if err != nil {
		return err
	}
	fp, err := schema.ParseFingerprint(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse fingerprint %s: %w", arg, err)
	}
	id, err := mgr.GetStatsStore().AddFingerprint(ctx, schema.FingerprintRecord{
		Length:      fpcalcDuration(string(data)),
		TrackID:     cfg.TrackID,
		Fingerprint: fp,
	})
	if err != nil {
		return fmt.Errorf("failed to add fingerprint: %w", err)
	}
	_, err = fmt.Fprintf(os.Stdout, "%d\n", id)
	return err
}
