package dict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"termwatch/internal/tokenizer"
)

const versionFile = ".version"

// verifyProbe must tokenize without error after an update; it exercises both
// the base dictionary and the user entries.
const verifyProbe = "Pythonはプログラミング言語です"

// Release is the subset of the GitHub release payload the updater reads.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

// Updater keeps the tokenizer's user dictionary current against a GitHub
// release feed. Downloads land in InstallDir next to a version marker, so
// an unchanged release is a no-op.
type Updater struct {
	Repo       string
	InstallDir string
	AssetName  string
	HTTPClient *http.Client
	Logger     *zap.Logger

	// APIBase overrides the GitHub API host in tests.
	APIBase string
}

func (u *Updater) apiBase() string {
	if u.APIBase != "" {
		return strings.TrimRight(u.APIBase, "/")
	}
	return "https://api.github.com"
}

// CurrentVersion reads the installed dictionary version, or "" when none is
// installed yet.
func (u *Updater) CurrentVersion() string {
	raw, err := os.ReadFile(filepath.Join(u.InstallDir, versionFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// LatestRelease asks GitHub for the newest published release.
func (u *Updater) LatestRelease(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", u.apiBase(), u.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}
	return &release, nil
}

// Update installs the latest dictionary release. It returns false when the
// installed version already matches and force is unset. The download goes
// through a temp file so a failed transfer never clobbers a working
// dictionary.
func (u *Updater) Update(ctx context.Context, force bool) (bool, error) {
	release, err := u.LatestRelease(ctx)
	if err != nil {
		return false, err
	}
	latest := strings.TrimPrefix(strings.TrimSpace(release.TagName), "v")
	if latest == "" {
		return false, fmt.Errorf("release %q has no tag", release.TagName)
	}
	current := u.CurrentVersion()
	if current == latest && !force {
		u.Logger.Info("user dict up to date", zap.String("version", current))
		return false, nil
	}

	asset, err := findAsset(release.Assets, u.AssetName)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(u.InstallDir, 0o755); err != nil {
		return false, err
	}
	target := filepath.Join(u.InstallDir, u.AssetName)
	if err := u.download(ctx, asset.DownloadURL, target); err != nil {
		return false, err
	}
	if err := os.WriteFile(filepath.Join(u.InstallDir, versionFile), []byte(latest+"\n"), 0o644); err != nil {
		return false, err
	}
	u.Logger.Info("user dict installed",
		zap.String("version", latest),
		zap.String("previous", current),
		zap.String("path", target),
	)

	// Verification failure is warn-only; the install is kept.
	if err := u.Verify(); err != nil {
		u.Logger.Warn("user dict verification failed", zap.Error(err))
	}
	return true, nil
}

// Verify loads the installed dictionary and tokenizes a probe sentence.
func (u *Updater) Verify() error {
	t, err := tokenizer.New(filepath.Join(u.InstallDir, u.AssetName))
	if err != nil {
		return err
	}
	nouns, err := t.Nouns(verifyProbe)
	if err != nil {
		return err
	}
	if len(nouns) == 0 {
		return fmt.Errorf("probe produced no tokens")
	}
	return nil
}

func (u *Updater) download(ctx context.Context, url, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed (%d): %s", resp.StatusCode, url)
	}

	tmp, err := os.CreateTemp(u.InstallDir, "dict-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func findAsset(assets []Asset, name string) (Asset, error) {
	for _, a := range assets {
		if a.Name == name {
			return a, nil
		}
	}
	return Asset{}, fmt.Errorf("release has no asset %q", name)
}
