// Package assets resolves the fixed branded assets a carousel job needs:
// the gradient overlay, the account logo, and the spinning artifact clip.
// Every miss is non-fatal — the corresponding layer is simply skipped.
package assets

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/slamfeed/carousel/internal/storage"
)

const (
	GradientKey     = "artifacts/Black Gradient.png"
	fallbackLogoKey = "artifacts/Logo.png"
)

// artifactNames is the full set of branded artifact clips that exist in the
// blob store. Any other requested name means "no artifact".
var artifactNames = map[string]bool{
	"NEWS":      true,
	"TRAILER":   true,
	"FACT":      true,
	"THROWBACK": true,
	"VS":        true,
}

// ArtifactKey maps a requested artifact name (uppercased) to its blob key.
// Unknown or empty names return ok=false without error.
func ArtifactKey(name string) (key string, ok bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if !artifactNames[name] {
		return "", false
	}
	return "artifacts/" + name + ".mov", true
}

// LogoKeys lists logo candidates in preference order: the account-scoped logo
// first, the shared fallback second.
func LogoKeys(account string) []string {
	keys := make([]string, 0, 2)
	if account != "" {
		keys = append(keys, "artifacts/"+strings.ToLower(account)+"/logo.png")
	}
	return append(keys, fallbackLogoKey)
}

// Fetcher pulls fixed assets into a job-scoped scratch directory. Paths are
// written once and read-only for the rest of the job.
type Fetcher struct {
	store *storage.Store
	dir   string
}

func NewFetcher(store *storage.Store, scratchDir string) *Fetcher {
	return &Fetcher{store: store, dir: scratchDir}
}

// Gradient fetches the shared gradient overlay. Returns the local path, or ""
// when the asset is missing — compositors then skip the overlay layer.
func (f *Fetcher) Gradient(ctx context.Context) string {
	local := filepath.Join(f.dir, "gradient.png")
	if !f.store.Fetch(ctx, GradientKey, local) {
		log.Warn().Str("key", GradientKey).Msg("gradient unavailable, overlay layer will be skipped")
		return ""
	}
	return local
}

// Logo fetches the account logo, falling back to the shared logo on miss.
func (f *Fetcher) Logo(ctx context.Context, account string) string {
	local := filepath.Join(f.dir, "logo.png")
	for _, key := range LogoKeys(account) {
		if f.store.Fetch(ctx, key, local) {
			return local
		}
	}
	log.Warn().Str("account", account).Msg("no logo available, logo block will be skipped")
	return ""
}

// Artifact fetches the named artifact clip. Unknown names and download
// failures both yield "" — no artifact layer, no error.
func (f *Fetcher) Artifact(ctx context.Context, name string) string {
	key, ok := ArtifactKey(name)
	if !ok {
		return ""
	}
	local := filepath.Join(f.dir, "artifact.mov")
	if !f.store.Fetch(ctx, key, local) {
		log.Warn().Str("key", key).Msg("artifact unavailable, layer will be skipped")
		return ""
	}
	return local
}
