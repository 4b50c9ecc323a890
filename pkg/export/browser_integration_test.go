//go:build integration

package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// A minimal play page that performs an "export" as soon as it loads.
const fakePlayPage = `<!DOCTYPE html><html><body><canvas id="c" width="4" height="4"></canvas>
<script>
const c = document.getElementById("c");
c.getContext("2d").fillRect(0, 0, 2, 2);
window.__puzzleExportDataUrl = c.toDataURL("image/png");
window.__puzzleExportAcross = ["빛"];
window.__puzzleExportDown = ["땅"];
window.__puzzlePlayG = "G";
window.__puzzleExportHints = JSON.stringify({a: [{n: 1, c: "빛"}], d: [{n: 2, c: "땅"}]});
window.__puzzleExportReady = true;
</script></body></html>`

func TestBrowserExporter_Integration(t *testing.T) {
	dir := t.TempDir()
	play := filepath.Join(dir, "play2.html")
	require.NoError(t, os.WriteFile(play, []byte(fakePlayPage), 0644))

	b := NewBrowserExporter(nil, BrowserConfig{PlayPage: play, Headless: true, NoSandbox: true, TimeoutMs: 20000}, "https://crossero.com", filepath.Join(dir, "images"))
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := b.Available(ctx); err != nil {
		t.Skipf("browser not available: %v", err)
	}
	res, err := b.Export(ctx, "gen1", "gen1-십자가로세로", 2)
	require.NoError(t, err)
	require.FileExists(t, res.ImagePath)
	require.Equal(t, []string{"빛"}, res.Across)
	require.Equal(t, 2, res.Numbered.Len())
	require.Contains(t, res.AnswerURL, "g=G&h1=")
}
