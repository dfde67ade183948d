package dict

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const testAsset = "userdict.csv"

// One valid user dict record so verification can load the file.
const testDictBody = "Python,Python,パイソン,カスタム名詞\n"

func newReleaseServer(t *testing.T, tag string, assetName string, downloads *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/termwatch/userdict/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name":%q,"assets":[{"name":%q,"browser_download_url":"http://%s/download/%s"}]}`,
			tag, assetName, r.Host, assetName)
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		if downloads != nil {
			*downloads++
		}
		w.Write([]byte(testDictBody))
	})
	return httptest.NewServer(mux)
}

func newUpdater(srv *httptest.Server, dir string) *Updater {
	return &Updater{
		Repo:       "termwatch/userdict",
		InstallDir: dir,
		AssetName:  testAsset,
		HTTPClient: srv.Client(),
		Logger:     zap.NewNop(),
		APIBase:    srv.URL,
	}
}

func TestUpdateInstallsLatest(t *testing.T) {
	var downloads int
	srv := newReleaseServer(t, "v1.2.3", testAsset, &downloads)
	defer srv.Close()

	dir := t.TempDir()
	u := newUpdater(srv, dir)

	updated, err := u.Update(context.Background(), false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated {
		t.Fatalf("expected install")
	}
	if downloads != 1 {
		t.Fatalf("downloads = %d, want 1", downloads)
	}
	if got := u.CurrentVersion(); got != "1.2.3" {
		t.Fatalf("current version = %q, want 1.2.3", got)
	}
	body, err := os.ReadFile(filepath.Join(dir, testAsset))
	if err != nil {
		t.Fatalf("read installed dict: %v", err)
	}
	if string(body) != testDictBody {
		t.Fatalf("installed dict = %q", body)
	}
}

func TestUpdateNoOpWhenCurrent(t *testing.T) {
	var downloads int
	srv := newReleaseServer(t, "v1.2.3", testAsset, &downloads)
	defer srv.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".version"), []byte("1.2.3\n"), 0o644); err != nil {
		t.Fatalf("seed version: %v", err)
	}
	u := newUpdater(srv, dir)

	updated, err := u.Update(context.Background(), false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated {
		t.Fatalf("expected no-op for matching version")
	}
	if downloads != 0 {
		t.Fatalf("downloads = %d, want 0", downloads)
	}
}

func TestUpdateForceReinstalls(t *testing.T) {
	var downloads int
	srv := newReleaseServer(t, "v1.2.3", testAsset, &downloads)
	defer srv.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".version"), []byte("1.2.3\n"), 0o644); err != nil {
		t.Fatalf("seed version: %v", err)
	}
	u := newUpdater(srv, dir)

	updated, err := u.Update(context.Background(), true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated {
		t.Fatalf("expected forced install")
	}
	if downloads != 1 {
		t.Fatalf("downloads = %d, want 1", downloads)
	}
}

func TestUpdateMissingAsset(t *testing.T) {
	srv := newReleaseServer(t, "v2.0.0", "something-else.bin", nil)
	defer srv.Close()

	u := newUpdater(srv, t.TempDir())
	if _, err := u.Update(context.Background(), false); err == nil || !strings.Contains(err.Error(), "no asset") {
		t.Fatalf("err = %v, want missing asset error", err)
	}
}

func TestCurrentVersionMissing(t *testing.T) {
	u := &Updater{InstallDir: t.TempDir()}
	if got := u.CurrentVersion(); got != "" {
		t.Fatalf("current version = %q, want empty", got)
	}
}
