package storage

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// TypeStats is the per-category slice of the upload statistics.
type TypeStats struct {
	Count int    `json:"count"`
	Size  string `json:"size"`
}

// Stats aggregates every stored file by category.
type Stats struct {
	TotalFiles     int    `json:"totalFiles"`
	TotalSize      string `json:"totalSize"`
	TotalSizeBytes int64  `json:"totalSizeBytes"`
	ByType         struct {
		Images    TypeStats `json:"images"`
		Documents TypeStats `json:"documents"`
		Audio     TypeStats `json:"audio"`
		Video     TypeStats `json:"video"`
	} `json:"byType"`
}

var statsExtensions = map[string]string{
	".jpg": CategoryImages, ".jpeg": CategoryImages, ".png": CategoryImages,
	".gif": CategoryImages, ".webp": CategoryImages,
	".pdf": CategoryDocuments, ".epub": CategoryDocuments, ".txt": CategoryDocuments,
	".doc": CategoryDocuments, ".docx": CategoryDocuments,
	".mp3": CategoryAudio, ".wav": CategoryAudio, ".m4a": CategoryAudio,
	".ogg": CategoryAudio,
	".mp4": CategoryVideo, ".webm": CategoryVideo, ".avi": CategoryVideo,
}

// Stats walks the upload tree and totals file counts and sizes, overall
// and per category. Sizes are reported in megabytes with two decimals.
func (s *Store) Stats() (*Stats, error) {
	var totalBytes int64
	counts := map[string]int{}
	sizes := map[string]int64{}
	total := 0

	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		total++
		totalBytes += info.Size()

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if cat, ok := statsExtensions[ext]; ok {
			counts[cat]++
			sizes[cat] += info.Size()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan uploads: %w", err)
	}

	stats := &Stats{
		TotalFiles:     total,
		TotalSize:      formatMB(totalBytes),
		TotalSizeBytes: totalBytes,
	}
	stats.ByType.Images = TypeStats{Count: counts[CategoryImages], Size: formatMB(sizes[CategoryImages])}
	stats.ByType.Documents = TypeStats{Count: counts[CategoryDocuments], Size: formatMB(sizes[CategoryDocuments])}
	stats.ByType.Audio = TypeStats{Count: counts[CategoryAudio], Size: formatMB(sizes[CategoryAudio])}
	stats.ByType.Video = TypeStats{Count: counts[CategoryVideo], Size: formatMB(sizes[CategoryVideo])}
	return stats, nil
}

func formatMB(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/(1024*1024))
}
