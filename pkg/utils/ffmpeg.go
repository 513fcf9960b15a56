package utils

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration returns the length of a media file in seconds.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, errors.WithMessage(err, "Failed to probe the video")
	}
	return parseProbeDuration(out)
}

func parseProbeDuration(probe string) (float64, error) {
	raw := gjson.Get(probe, "format.duration")
	if !raw.Exists() {
		// some containers only report per stream
		raw = gjson.Get(probe, `streams.#(codec_type=="video").duration`)
	}
	if !raw.Exists() {
		return 0, errors.New("probe output has no duration")
	}
	d, err := strconv.ParseFloat(raw.String(), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse duration %q", raw.String())
	}
	return d, nil
}

// GetVideoThumbnail grabs one frame at offset seconds into outputDir and
// returns the path of the jpeg.
func GetVideoThumbnail(videoPath, outputDir string, offset float64) (string, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return "", errors.WithMessage(err, "Failed to create folders")
	}
	outputPath := filepath.Join(outputDir, "thumbnail-"+uuid.NewString()+".jpg")
	err := ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": strconv.FormatFloat(offset, 'f', 2, 64)}).
		Output(outputPath, ffmpeg.KwArgs{
			"vframes": "1",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", errors.WithMessage(err, "Failed to generate the thumbnail")
	}
	return outputPath, nil
}
