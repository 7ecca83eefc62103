package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Info describes one archive on disk.
type Info struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	Buildings   int       `json:"buildings"`
	Simulations int       `json:"simulations"`
	// Valid is false when the header could not be read.
	Valid bool `json:"valid"`
}

// RetentionPolicy decides which backups to keep. Input is sorted newest-first.
type RetentionPolicy interface {
	Apply(backups []Info) (keep []Info)
}

// CountPolicy keeps the N most recent backups.
type CountPolicy struct {
	MaxCount int
}

// Apply implements RetentionPolicy.
func (p CountPolicy) Apply(backups []Info) []Info {
	if len(backups) <= p.MaxCount {
		return backups
	}
	return backups[:p.MaxCount]
}

// AgePolicy keeps backups newer than MaxAge.
type AgePolicy struct {
	MaxAge time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Apply implements RetentionPolicy.
func (p AgePolicy) Apply(backups []Info) []Info {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	cutoff := now().Add(-p.MaxAge)
	var keep []Info
	for _, b := range backups {
		if b.CreatedAt.After(cutoff) {
			keep = append(keep, b)
		}
	}
	return keep
}

// SizePolicy keeps the newest backups while their total size fits
// MaxTotalBytes. The newest backup is always kept.
type SizePolicy struct {
	MaxTotalBytes int64
}

// Apply implements RetentionPolicy.
func (p SizePolicy) Apply(backups []Info) []Info {
	var keep []Info
	var total int64
	for _, b := range backups {
		if total+b.Size > p.MaxTotalBytes && len(keep) > 0 {
			break
		}
		keep = append(keep, b)
		total += b.Size
	}
	return keep
}

// AnyPolicy keeps a backup if any sub-policy keeps it.
type AnyPolicy []RetentionPolicy

// Apply implements RetentionPolicy.
func (p AnyPolicy) Apply(backups []Info) []Info {
	kept := make(map[string]bool)
	for _, policy := range p {
		for _, b := range policy.Apply(backups) {
			kept[b.Path] = true
		}
	}

	var result []Info
	for _, b := range backups {
		if kept[b.Path] {
			result = append(result, b)
		}
	}
	return result
}

// NewPolicy builds the policy configured by a keep count and a max age
// string such as "30d". Zero values disable a rule; with both disabled every
// backup is kept.
func NewPolicy(keepCount int, maxAge string) (RetentionPolicy, error) {
	var policies AnyPolicy
	if keepCount > 0 {
		policies = append(policies, CountPolicy{MaxCount: keepCount})
	}
	if maxAge != "" {
		d, err := ParseDuration(maxAge)
		if err != nil {
			return nil, err
		}
		policies = append(policies, AgePolicy{MaxAge: d})
	}
	if len(policies) == 0 {
		return CountPolicy{MaxCount: int(^uint(0) >> 1)}, nil
	}
	return policies, nil
}

// ListBackups scans dir for archives and returns them sorted newest-first.
func ListBackups(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var backups []Info
	for _, e := range entries {
		if e.IsDir() || !isBackupFile(e.Name()) {
			continue
		}

		fi, err := e.Info()
		if err != nil {
			continue
		}

		bi := Info{
			Path:      filepath.Join(dir, e.Name()),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime(),
		}
		if h, err := ReadHeader(bi.Path); err == nil {
			bi.CreatedAt = h.CreatedAt
			bi.Buildings = h.Buildings
			bi.Simulations = h.Simulations
			bi.Valid = true
		}
		backups = append(backups, bi)
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].CreatedAt.After(backups[j].CreatedAt)
		}
		return filepath.Base(backups[i].Path) > filepath.Base(backups[j].Path)
	})
	return backups, nil
}

func isBackupFile(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix)
}

// ApplyRetention deletes backups not kept by the policy.
func ApplyRetention(dir string, policy RetentionPolicy) (deleted []string, err error) {
	backups, err := ListBackups(dir)
	if err != nil {
		return nil, err
	}

	keepSet := make(map[string]bool)
	for _, b := range policy.Apply(backups) {
		keepSet[b.Path] = true
	}

	for _, b := range backups {
		if keepSet[b.Path] {
			continue
		}
		if err := os.Remove(b.Path); err != nil {
			return deleted, fmt.Errorf("removing %s: %w", filepath.Base(b.Path), err)
		}
		deleted = append(deleted, b.Path)
	}
	return deleted, nil
}

// ParseDuration parses duration strings like "30d", "2w", "720h".
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || num < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}
	switch s[len(s)-1] {
	case 'd':
		return time.Duration(num) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(num) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration suffix %q in %q", s[len(s)-1:], s)
	}
}

// ParseSize parses size strings like "100MB", "1GB", "500KB" into bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	// Longer suffixes first so "MB" is not read as "B".
	for _, ss := range []struct {
		suffix     string
		multiplier int64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	} {
		if numStr, ok := strings.CutSuffix(s, ss.suffix); ok {
			num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
			if err != nil || num < 0 {
				return 0, fmt.Errorf("invalid size: %q", s)
			}
			return num * ss.multiplier, nil
		}
	}
	return 0, fmt.Errorf("invalid size: %q (expected suffix: B, KB, MB, GB)", s)
}
